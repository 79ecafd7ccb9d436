package evidmap

import "strings"

// TextChunk is a candidate slice of document text with its offsets in the
// normalized source text preserved, so generated segments can point back
// into the document.
type TextChunk struct {
	Index       int    `json:"index"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Text        string `json:"text"`
}

// ChunkOptions bound the chunking heuristics.
type ChunkOptions struct {
	MaxChars     int
	MinChars     int
	OverlapChars int
}

// DefaultChunkOptions returns the chunking bounds used by the segmenter.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{MaxChars: 1200, MinChars: 400, OverlapChars: 150}
}

// SplitIntoChunks slices long-form text into overlapping chunks, preferring
// to break at paragraph and sentence boundaries past the minimum size.
// Offsets are relative to the normalized text (CRLF collapsed to LF) so
// they stay stable across storage round trips.
func SplitIntoChunks(text string, opts ChunkOptions) []TextChunk {
	if text == "" {
		return nil
	}
	if opts.MaxChars <= 0 {
		opts = DefaultChunkOptions()
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	length := len(normalized)

	var chunks []TextChunk
	cursor := 0
	index := 0

	for cursor < length {
		windowEnd := minInt(cursor+opts.MaxChars, length)
		window := normalized[cursor:windowEnd]

		endOffset := windowEnd
		if cutoff := findBreakpoint(window, opts.MinChars); cutoff > 0 {
			endOffset = cursor + cutoff
		}

		snippet := strings.TrimSpace(normalized[cursor:endOffset])
		if snippet == "" {
			if endOffset > cursor {
				cursor = endOffset
			} else {
				cursor = windowEnd
			}
			continue
		}

		chunks = append(chunks, TextChunk{
			Index:       index,
			StartOffset: cursor,
			EndOffset:   endOffset,
			Text:        snippet,
		})
		index++

		if endOffset >= length {
			break
		}

		next := maxInt(endOffset-opts.OverlapChars, 0)
		if next <= cursor {
			next = endOffset
		}
		cursor = next
	}

	return chunks
}

// findBreakpoint picks the best cut inside the window at or past minChars:
// a paragraph break first, then sentence-ending punctuation, then a bare
// newline, and failing all of those the full window.
func findBreakpoint(window string, minChars int) int {
	length := len(window)
	if length <= minChars {
		return length
	}

	if i := lastIndexFrom(window, "\n\n", minChars); i != -1 {
		return i + 2
	}

	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := lastIndexFrom(window, sep, minChars); i != -1 && i+len(sep) >= minChars {
			return i + len(sep)
		}
	}

	return length
}

// lastIndexFrom returns the largest index >= from at which sep occurs in s,
// or -1.
func lastIndexFrom(s, sep string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}
	i := strings.LastIndex(s[from:], sep)
	if i == -1 {
		return -1
	}
	return from + i
}
