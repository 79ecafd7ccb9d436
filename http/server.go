// Package http provides the JSON API over the evidmap services, plus
// HTTP-based implementations of the fetching and feed interfaces.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/evidmap/evidmap"
)

// ShutdownTimeout is the time to wait for in-flight requests on Close.
const ShutdownTimeout = 5 * time.Second

// Server wires the evidmap services into an HTTP JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Bind address, e.g. ":8080".
	Addr string

	Logger *slog.Logger

	SourceService     evidmap.SourceService
	DocumentService   evidmap.DocumentService
	SegmentService    evidmap.SegmentService
	HypothesisService evidmap.HypothesisService
	QuestionService   evidmap.QuestionService
	JobService        evidmap.JobService
	ReferenceService  evidmap.ReferenceService
	PovService        evidmap.PovService

	Locator          evidmap.Locator
	Segmenter        *evidmap.Segmenter
	TextExtractor    evidmap.TextExtractor
	Suggester        evidmap.Suggester
	Checker          evidmap.Checker
	PovGenerator     evidmap.PovGenerator
	Fetcher          evidmap.Fetcher
	Extractor        evidmap.Extractor
	ReferenceFetcher evidmap.ReferenceFetcher
}

// NewServer creates a new Server. Services must be assigned before Open.
func NewServer() *Server {
	s := &Server{
		Logger: slog.Default(),
	}
	return s
}

// Handler builds the routing table. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /segments", s.handleSegmentCreate)
	mux.HandleFunc("GET /segments", s.handleSegmentList)
	mux.HandleFunc("GET /segments/{id}", s.handleSegmentGet)
	mux.HandleFunc("DELETE /segments/{id}", s.handleSegmentDelete)
	mux.HandleFunc("GET /documents/{id}/segments", s.handleDocumentSegments)
	mux.HandleFunc("POST /documents/{id}/segments:regenerate", s.handleSegmentRegenerate)
	mux.HandleFunc("POST /segments/{id}/hypotheses:suggest", s.handleSuggestHypotheses)
	mux.HandleFunc("POST /segments/{id}/evidence", s.handleEvidenceCreate)
	mux.HandleFunc("GET /segments/{id}/hypotheses", s.handleSegmentHypotheses)

	mux.HandleFunc("GET /documents", s.handleDocumentList)
	mux.HandleFunc("GET /documents/{id}/content", s.handleDocumentContent)
	mux.HandleFunc("PATCH /documents/{id}", s.handleDocumentUpdate)
	mux.HandleFunc("PATCH /documents/{id}/archive", s.handleDocumentArchive)
	mux.HandleFunc("POST /documents/ingest-url", s.handleIngestURL)

	mux.HandleFunc("GET /hypotheses", s.handleHypothesisList)
	mux.HandleFunc("POST /hypotheses", s.handleHypothesisCreate)
	mux.HandleFunc("DELETE /hypotheses/{id}", s.handleHypothesisDelete)
	mux.HandleFunc("GET /hypotheses/{id}/evidence", s.handleHypothesisEvidence)
	mux.HandleFunc("GET /hypotheses/{id}/reference", s.handleHypothesisReference)
	mux.HandleFunc("POST /analysis:check_hypothesis", s.handleCheckHypothesis)
	mux.HandleFunc("POST /analysis:generate_pov", s.handleGeneratePov)
	mux.HandleFunc("GET /segments/{id}/povs", s.handleSegmentPovs)

	mux.HandleFunc("GET /questions", s.handleQuestionList)
	mux.HandleFunc("POST /questions", s.handleQuestionCreate)
	mux.HandleFunc("DELETE /questions/{id}", s.handleQuestionDelete)
	mux.HandleFunc("POST /questions/{id}/hypotheses", s.handleQuestionLink)
	mux.HandleFunc("GET /questions/{id}/hypotheses", s.handleQuestionHypotheses)

	mux.HandleFunc("GET /sources", s.handleSourceList)
	mux.HandleFunc("POST /sources", s.handleSourceCreate)
	mux.HandleFunc("POST /ingest-requests", s.handleIngestRequest)
	mux.HandleFunc("GET /ingest-requests", s.handleIngestRequestList)

	return mux
}

// Open begins listening on Addr. It does not block.
func (s *Server) Open() error {
	if s.Addr == "" {
		return fmt.Errorf("server address required")
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	s.server = &http.Server{Handler: s.Handler()}
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("http server stopped", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL the server is listening on.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// errorResponse is the wire shape of all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

// errorStatusCode maps evidmap error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case evidmap.EINVALID:
		return http.StatusBadRequest
	case evidmap.ENOTFOUND:
		return http.StatusNotFound
	case evidmap.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes an error reply, logging internal errors rather than leaking
// their details to the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := evidmap.ErrorCode(err), evidmap.ErrorMessage(err)
	if code == evidmap.EINTERNAL {
		s.Logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, errorStatusCode(code), errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses a request body into v, returning EINVALID on malformed
// input.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return evidmap.Errorf(evidmap.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}
