package evidmap

import (
	"html"
	"strings"
)

// RenderWithOffsets walks raw HTML left to right and produces the visible
// plain text alongside a parallel index mapping every rendered byte back to
// the HTML source offset it originated from. Tags emit nothing except a
// synthetic newline for line-break-inducing tags (br, p, /p, div, /div),
// mapped to the offset just past the tag's closing '>'. Entities decode via
// html.UnescapeString with every decoded byte mapped to the offset of the
// '&' that began the entity.
//
// This is deliberately not an HTML parser. A tagged linear scan reproduces
// the exact rendered-text coordinates the front-end computes selection
// offsets against, stays O(n), and tolerates malformed markup: an unmatched
// '<' simply truncates the scan.
func RenderWithOffsets(src string) (string, []int) {
	var text strings.Builder
	positions := make([]int, 0, len(src))

	i := 0
	for i < len(src) {
		c := src[i]

		if c == '<' {
			end := strings.IndexByte(src[i:], '>')
			if end == -1 {
				break
			}
			end += i
			if isLineBreakTag(src[i+1 : end]) {
				text.WriteByte('\n')
				positions = append(positions, end+1)
			}
			i = end + 1
			continue
		}

		if c == '&' {
			if semi := strings.IndexByte(src[i:], ';'); semi != -1 {
				decoded := html.UnescapeString(src[i : i+semi+1])
				for j := 0; j < len(decoded); j++ {
					text.WriteByte(decoded[j])
					positions = append(positions, i)
				}
				i += semi + 1
				continue
			}
		}

		text.WriteByte(c)
		positions = append(positions, i)
		i++
	}

	return text.String(), positions
}

// StripTags returns the rendered text of an HTML fragment without the
// synthetic line breaks RenderWithOffsets inserts for block tags. This is
// the form used to compare a selection fragment's own text against the
// document's rendered text.
func StripTags(src string) string {
	var text strings.Builder

	i := 0
	for i < len(src) {
		c := src[i]

		if c == '<' {
			end := strings.IndexByte(src[i:], '>')
			if end == -1 {
				break
			}
			i = end + 1
			continue
		}

		if c == '&' {
			if semi := strings.IndexByte(src[i:], ';'); semi != -1 {
				text.WriteString(html.UnescapeString(src[i : i+semi+1]))
				i += semi + 1
				continue
			}
		}

		text.WriteByte(c)
		i++
	}

	return text.String()
}

// isLineBreakTag reports whether the tag body (the bytes between '<' and
// '>') names a tag that renders as a line break. The tag name is matched
// case-insensitively and attributes are ignored.
func isLineBreakTag(body string) bool {
	name := strings.ToLower(strings.TrimSpace(body))
	if i := strings.IndexAny(name, " \t\r\n"); i != -1 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, "/")

	switch name {
	case "br", "p", "/p", "div", "/div":
		return true
	}
	return false
}
