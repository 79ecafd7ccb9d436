package mock

import "github.com/evidmap/evidmap"

var _ evidmap.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of evidmap.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*evidmap.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*evidmap.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ evidmap.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of evidmap.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}
