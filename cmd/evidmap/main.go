package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/gemini"
	"github.com/evidmap/evidmap/goquery"
	"github.com/evidmap/evidmap/htmltomarkdown"
	evidhttp "github.com/evidmap/evidmap/http"
	"github.com/evidmap/evidmap/ingest"
	"github.com/evidmap/evidmap/readability"
	"github.com/evidmap/evidmap/rod"
	evidslog "github.com/evidmap/evidmap/slog"
	"github.com/evidmap/evidmap/sqlite"
	"github.com/evidmap/evidmap/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SourceService   evidmap.SourceService
	DocumentService evidmap.DocumentService
	JobService      evidmap.JobService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("evidmap"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'evidmap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set EVIDMAP_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SourceService = sqlite.NewSourceService(m.DB)
	m.DocumentService = sqlite.NewDocumentService(m.DB)
	m.JobService = sqlite.NewJobService(m.DB)
	deps.DB = m.DB
	deps.Sources = m.SourceService
	deps.Documents = m.DocumentService
	deps.Jobs = m.JobService

	feeds := evidslog.NewLoggingFeedService(evidhttp.NewFeedService(nil), logger)
	textExtractor := goquery.NewExtractor()

	deps.Ingester = &ingest.Ingester{
		Sources:     m.SourceService,
		Documents:   m.DocumentService,
		Feeds:       feeds,
		Extractor:   textExtractor,
		RateLimiter: ingest.NewDomainLimiter(1.0),
	}

	worker := ingest.NewWorker(m.JobService, deps.Ingester)
	worker.Logger = logger
	deps.Worker = worker

	if cmd == "serve" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		var fetcher evidmap.Fetcher = evidhttp.NewFetcher()
		if cli.Serve.Browser {
			browserFetcher, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer browserFetcher.Close()
			fetcher = browserFetcher
		}

		server := evidhttp.NewServer()
		server.Logger = logger
		server.SourceService = m.SourceService
		server.DocumentService = m.DocumentService
		server.SegmentService = sqlite.NewSegmentService(m.DB)
		server.HypothesisService = sqlite.NewHypothesisService(m.DB)
		server.QuestionService = sqlite.NewQuestionService(m.DB)
		server.JobService = m.JobService
		server.ReferenceService = sqlite.NewReferenceService(m.DB)
		server.PovService = sqlite.NewPovService(m.DB)
		server.Locator = evidslog.NewLoggingLocator(
			&evidmap.FragmentLocator{Normalizer: goquery.NewNormalizer()}, logger)
		server.TextExtractor = textExtractor
		server.Suggester = gemini.NewSuggester(client)
		server.Checker = gemini.NewChecker(client)
		server.PovGenerator = gemini.NewPovGenerator(client)
		server.Fetcher = fetcher
		server.Extractor = trafilatura.NewExtractor()
		server.ReferenceFetcher = evidhttp.NewReferenceFetcher(
			fetcher, readability.NewExtractor(), htmltomarkdown.NewConverter())
		server.Segmenter = &evidmap.Segmenter{
			Documents: m.DocumentService,
			Segments:  server.SegmentService,
		}

		deps.Server = &serverRunner{server: server}
	}

	return kongCtx.Run(deps)
}

// serverRunner runs the API server until the context is cancelled.
type serverRunner struct {
	server *evidhttp.Server
}

func (r *serverRunner) Serve(ctx context.Context, addr string) error {
	r.server.Addr = addr
	if err := r.server.Open(); err != nil {
		return err
	}
	<-ctx.Done()
	return r.server.Close()
}

func defaultDBPath() string {
	if path := os.Getenv("EVIDMAP_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "evidmap.db"
	}
	dir := filepath.Join(home, ".evidmap")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "evidmap.db")
}
