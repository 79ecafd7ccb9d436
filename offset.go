package evidmap

import (
	"html"
	"sort"
	"strings"
)

// TextRangeToHTML translates rendered-text offsets into the corresponding
// slice bounds of the raw HTML string. The rendered-text coordinates ignore
// markup bytes and treat HTML entities as their decoded characters; this
// walks the HTML tracking the rendered length so the original markup range
// can be recovered.
//
// Tags are skipped without advancing the text position. When textStart
// falls inside a multi-byte entity decode, the returned start is the offset
// of the entity's '&'. A textEnd past the end of the document clamps to the
// end of the HTML string.
//
// Returns EINVALID for a negative start, an end before the start, an
// unmatched '<', or a start past the total rendered length.
func TextRangeToHTML(src string, textStart, textEnd int) (int, int, error) {
	if textStart < 0 || textEnd < textStart {
		return 0, 0, Errorf(EINVALID, "invalid text offset range [%d, %d)", textStart, textEnd)
	}

	textPos := 0
	htmlStart := -1
	htmlEnd := -1

	i := 0
	for i < len(src) {
		c := src[i]

		if c == '<' {
			end := strings.IndexByte(src[i:], '>')
			if end == -1 {
				return 0, 0, Errorf(EINVALID, "malformed HTML: unmatched '<' at offset %d", i)
			}
			i += end + 1
			continue
		}

		if c == '&' {
			if semi := strings.IndexByte(src[i:], ';'); semi != -1 {
				decodedLen := len(html.UnescapeString(src[i : i+semi+1]))
				if decodedLen == 0 {
					decodedLen = 1
				}
				if htmlStart == -1 && textPos <= textStart && textStart < textPos+decodedLen {
					htmlStart = i
				}
				textPos += decodedLen
				i += semi + 1
				if textPos >= textEnd && htmlEnd == -1 {
					htmlEnd = i
					break
				}
				continue
			}
		}

		if htmlStart == -1 && textPos == textStart {
			htmlStart = i
		}

		textPos++
		i++

		if textPos >= textEnd && htmlEnd == -1 {
			htmlEnd = i
			break
		}
	}

	if htmlStart == -1 {
		if textStart == textPos {
			htmlStart = len(src)
		} else {
			return 0, 0, Errorf(EINVALID, "text offset %d past rendered length %d", textStart, textPos)
		}
	}
	if htmlEnd == -1 {
		htmlEnd = len(src)
	}

	return htmlStart, htmlEnd, nil
}

// HTMLRangeToText converts raw HTML slice bounds into rendered-text offsets
// using a position index built once by RenderWithOffsets. The index is
// monotonically non-decreasing, so both bounds resolve with binary search;
// this is the direction used repeatedly per locate call, which is why the
// prebuilt index exists at all.
func HTMLRangeToText(positions []int, htmlStart, htmlEnd int) (int, int) {
	if len(positions) == 0 {
		return htmlStart, htmlEnd
	}

	last := htmlEnd - 1
	if last < htmlStart {
		last = htmlStart
	}

	textStart := sort.SearchInts(positions, htmlStart)
	textEnd := sort.Search(len(positions), func(i int) bool { return positions[i] > last })

	return textStart, textEnd
}
