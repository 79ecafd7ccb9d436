package mock

import "github.com/evidmap/evidmap"

var _ evidmap.Locator = (*Locator)(nil)

// Locator is a mock implementation of evidmap.Locator.
type Locator struct {
	LocateFn func(req evidmap.LocateRequest) *evidmap.MappedSpan
}

func (l *Locator) Locate(req evidmap.LocateRequest) *evidmap.MappedSpan {
	return l.LocateFn(req)
}

var _ evidmap.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of evidmap.Normalizer.
type Normalizer struct {
	NormalizeFragmentFn func(html string) (string, error)
}

func (n *Normalizer) NormalizeFragment(html string) (string, error) {
	return n.NormalizeFragmentFn(html)
}
