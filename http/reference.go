package http

import (
	"context"
	"strings"

	"github.com/evidmap/evidmap"
)

// Ensure ReferenceFetcher implements evidmap.ReferenceFetcher at compile
// time.
var _ evidmap.ReferenceFetcher = (*ReferenceFetcher)(nil)

// ReferenceFetcher downloads a hypothesis's external reference page and
// turns it into markdown text suitable for LLM context. It composes a
// fetcher, a readability-style extractor, and an HTML-to-Markdown
// converter.
type ReferenceFetcher struct {
	Fetcher   evidmap.Fetcher
	Extractor evidmap.Extractor
	Converter evidmap.Converter
}

// NewReferenceFetcher creates a ReferenceFetcher from its parts.
func NewReferenceFetcher(fetcher evidmap.Fetcher, extractor evidmap.Extractor, converter evidmap.Converter) *ReferenceFetcher {
	return &ReferenceFetcher{
		Fetcher:   fetcher,
		Extractor: extractor,
		Converter: converter,
	}
}

// FetchReference retrieves url and returns its readable content as
// markdown.
func (f *ReferenceFetcher) FetchReference(ctx context.Context, url string) (string, error) {
	rawHTML, err := f.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	result, err := f.Extractor.Extract(rawHTML)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result.ContentHTML) == "" {
		return "", evidmap.Errorf(evidmap.ENOTFOUND, "no readable content at %s", url)
	}

	markdown, err := f.Converter.Convert(result.ContentHTML)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(markdown), nil
}
