package readability

import (
	"strings"

	"github.com/evidmap/evidmap"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements evidmap.Extractor at compile time.
var _ evidmap.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML. Used
// for hypothesis reference pages, where readability's aggressive cleanup
// beats fidelity; article ingestion uses the trafilatura extractor instead
// because segment offsets depend on its markup.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*evidmap.ExtractResult, error) {
	if rawHTML == "" {
		return nil, evidmap.Errorf(evidmap.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &evidmap.ExtractResult{
		Title:       article.Title,
		Author:      article.Byline,
		ContentHTML: article.Content,
	}, nil
}
