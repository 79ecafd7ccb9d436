package mock

import "github.com/evidmap/evidmap"

var _ evidmap.Converter = (*Converter)(nil)

// Converter is a mock implementation of evidmap.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
