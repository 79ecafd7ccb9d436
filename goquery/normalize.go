package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/evidmap/evidmap"
)

// Ensure Normalizer implements evidmap.Normalizer at compile time.
var _ evidmap.Normalizer = (*Normalizer)(nil)

// Normalizer reparses an HTML fragment and re-serializes it so the fragment
// locator can search for a canonical rendition when the selection's
// attribute quoting or whitespace differs from the source markup.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeFragment parses fragment and returns its re-serialized form.
func (n *Normalizer) NormalizeFragment(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", evidmap.Errorf(evidmap.EINVALID, "failed to parse fragment: %v", err)
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", evidmap.Errorf(evidmap.EINTERNAL, "failed to serialize fragment: %v", err)
	}

	return strings.TrimSpace(out), nil
}
