package evidmap

// ExtractResult holds the extracted content of an article page.
type ExtractResult struct {
	// Title is the article title extracted from page metadata.
	Title string

	// Author is the byline, when the page declares one.
	Author string

	// ContentHTML is the article body as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed. This is the markup segments
	// are carved from, so it must be stored byte-for-byte as extracted.
	ContentHTML string
}

// Extractor extracts the main content from a fetched article page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// TextExtractor derives the reader-visible plain text of stored HTML.
// Unlike StripTags this is backed by a real parser and applies block-level
// line breaking, matching what ingestion stores as a document's
// content_text.
type TextExtractor interface {
	ExtractText(html string) (string, error)
}
