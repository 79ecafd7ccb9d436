// Package goquery provides parser-backed HTML text extraction and fragment
// normalization for evidmap.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/evidmap/evidmap"
	"golang.org/x/net/html"
)

// Ensure Extractor implements evidmap.TextExtractor at compile time.
var _ evidmap.TextExtractor = (*Extractor)(nil)

// Extractor derives the reader-visible plain text of stored HTML using a
// real parser. Line-per-text-node output with blanks dropped, matching what
// ingestion stores as a document's content_text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the text of src with markup removed, one trimmed line
// per text node, blank lines dropped. Script and style contents are
// skipped.
func (e *Extractor) ExtractText(src string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", evidmap.Errorf(evidmap.EINVALID, "failed to parse HTML: %v", err)
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Find("body").Nodes {
		walk(n)
	}

	return strings.Join(parts, "\n"), nil
}
