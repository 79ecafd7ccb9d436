package evidmap

import "strings"

// refineWindow is the number of HTML bytes re-rendered on each side of the
// chosen span during the refinement pass.
const refineWindow = 500

// MappedSpan is the resolved location of a selection, expressed in both
// raw-HTML and rendered-text coordinates.
type MappedSpan struct {
	HTMLStart int `json:"htmlStart"`
	HTMLEnd   int `json:"htmlEnd"`
	TextStart int `json:"textStart"`
	TextEnd   int `json:"textEnd"`

	// Candidates retains every span considered during the search for
	// diagnostics. When the refinement pass adjusted the result, the last
	// entry records the refined span.
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Candidate is one plausible location for a selection, tagged with the
// search strategy that produced it.
type Candidate struct {
	Source    string `json:"source"`
	HTMLStart int    `json:"htmlStart"`
	HTMLEnd   int    `json:"htmlEnd"`
	TextStart int    `json:"textStart"`
	TextEnd   int    `json:"textEnd"`
}

// LocateRequest describes a user selection to resolve against a document.
type LocateRequest struct {
	// DocumentHTML is the full raw markup of the document, as persisted.
	DocumentHTML string

	// SelectionText is the plain text the user selected.
	SelectionText string

	// SelectionHTML is the raw HTML fragment the rich-text selection
	// produced, when the front-end supplies one.
	SelectionHTML string

	// ApproxStart and ApproxEnd are the front-end's own rendered-text
	// offsets for the selection. They may be imprecise; nil when absent.
	ApproxStart *int
	ApproxEnd   *int
}

// Locator resolves a text selection to its range in the original HTML
// markup.
type Locator interface {
	// Locate returns nil when no occurrence of the selection can be found
	// anywhere in the document. It never fails with an error: callers fall
	// back to treating the supplied offsets as plain-text offsets.
	Locate(req LocateRequest) *MappedSpan
}

// Normalizer reparses and re-serializes an HTML fragment so that literal
// search can tolerate attribute-order and whitespace differences between
// the selection fragment and the source markup.
type Normalizer interface {
	NormalizeFragment(html string) (string, error)
}

// Ensure FragmentLocator implements Locator at compile time.
var _ Locator = (*FragmentLocator)(nil)

// FragmentLocator finds the HTML source range of a user selection. It
// renders the document once, accumulates candidate spans from several
// search strategies, scores them against the caller's approximate position,
// and tightens the winner with a bounded local re-search.
//
// A FragmentLocator is stateless and safe for concurrent use.
type FragmentLocator struct {
	// Normalizer, when set, contributes candidates from a tag-normalized
	// rendition of the selection fragment. Optional.
	Normalizer Normalizer
}

// Locate resolves req against the document per the strategy order:
// literal selection HTML, normalized selection HTML, literal selection
// text, the selection fragment's own stripped text, and finally the
// trimmed selection text when nothing else matched.
func (l *FragmentLocator) Locate(req LocateRequest) *MappedSpan {
	if req.DocumentHTML == "" {
		return nil
	}

	plain, positions := RenderWithOffsets(req.DocumentHTML)
	if plain == "" {
		return nil
	}
	if strings.TrimSpace(req.SelectionText) == "" {
		return nil
	}

	totalChars := len(plain)
	var candidates []Candidate

	addHTMLMatches := func(source, fragment string) {
		for _, pos := range indexAll(req.DocumentHTML, fragment) {
			htmlStart := pos
			htmlEnd := pos + len(fragment)
			textStart, textEnd := HTMLRangeToText(positions, htmlStart, htmlEnd)
			candidates = append(candidates, Candidate{
				Source:    source,
				HTMLStart: htmlStart,
				HTMLEnd:   htmlEnd,
				TextStart: minInt(textStart, totalChars),
				TextEnd:   minInt(textEnd, totalChars),
			})
		}
	}

	addTextMatches := func(source, needle string) {
		for _, idx := range indexAll(plain, needle) {
			htmlStart, htmlEnd := htmlRangeForText(positions, idx, len(needle), len(req.DocumentHTML))
			candidates = append(candidates, Candidate{
				Source:    source,
				HTMLStart: htmlStart,
				HTMLEnd:   htmlEnd,
				TextStart: idx,
				TextEnd:   idx + len(needle),
			})
		}
	}

	if snippet := strings.TrimSpace(req.SelectionHTML); snippet != "" {
		addHTMLMatches("selection_html", snippet)

		if l.Normalizer != nil {
			if normalized, err := l.Normalizer.NormalizeFragment(snippet); err == nil &&
				normalized != "" && normalized != snippet {
				addHTMLMatches("normalized_html", normalized)
			}
		}
	}

	addTextMatches("selection_text", req.SelectionText)

	fragmentText := ""
	if req.SelectionHTML != "" {
		fragmentText = StripTags(req.SelectionHTML)
		if fragmentText != "" && fragmentText != req.SelectionText {
			addTextMatches("selection_html_text", fragmentText)
		} else {
			fragmentText = ""
		}
	}

	if len(candidates) == 0 {
		if trimmed := strings.TrimSpace(req.SelectionText); trimmed != "" && trimmed != req.SelectionText {
			addTextMatches("trimmed_text", trimmed)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	targetText := 0
	if req.ApproxStart != nil {
		targetText = clampInt(*req.ApproxStart, 0, totalChars)
	}
	requestedLength := 0
	if req.ApproxStart != nil && req.ApproxEnd != nil {
		requestedLength = maxInt(0, *req.ApproxEnd-*req.ApproxStart)
	}
	targetHTML := 0
	if targetText < len(positions) {
		targetHTML = positions[targetText]
	}

	best := candidates[0]
	bestScore := scoreCandidate(best, targetText, targetHTML, requestedLength)
	for _, c := range candidates[1:] {
		if s := scoreCandidate(c, targetText, targetHTML, requestedLength); s.less(bestScore) {
			best = c
			bestScore = s
		}
	}

	span := &MappedSpan{
		HTMLStart:  best.HTMLStart,
		HTMLEnd:    best.HTMLEnd,
		TextStart:  best.TextStart,
		TextEnd:    best.TextEnd,
		Candidates: candidates,
	}

	l.refine(span, req, plain, positions, targetText, fragmentText)

	return span
}

// refine re-renders a small window around the chosen span and re-runs the
// literal search against the minimally reprocessed neighborhood. The coarse
// document-wide pass can settle on an occurrence a few bytes off the true
// boundary; a narrow re-search recovers the exact boundary without
// re-scanning the whole document. When nothing matches inside the window
// the chosen span stands unchanged.
func (l *FragmentLocator) refine(span *MappedSpan, req LocateRequest, plain string, positions []int, targetText int, fragmentText string) {
	base := maxInt(span.HTMLStart-refineWindow, 0)
	end := minInt(span.HTMLEnd+refineWindow, len(req.DocumentHTML))
	windowPlain, windowPositions := RenderWithOffsets(req.DocumentHTML[base:end])

	variants := []struct {
		label string
		text  string
	}{
		{"selection_text", req.SelectionText},
	}
	if fragmentText != "" {
		variants = append(variants, struct {
			label string
			text  string
		}{"selection_html_text", fragmentText})
	}

	for _, v := range variants {
		if v.text == "" {
			continue
		}

		found := false
		var refined Candidate
		bestDist := 0

		for _, idx := range indexAll(windowPlain, v.text) {
			last := idx + len(v.text)
			if last > len(windowPositions) {
				break
			}
			htmlStart := windowPositions[idx] + base
			htmlEnd := minInt(windowPositions[last-1]+base+1, end)
			textStart, textEnd := HTMLRangeToText(positions, htmlStart, htmlEnd)
			// The boundary offset can be shared between a synthetic
			// newline and the byte after it, dragging the derived range
			// off the match; snap to the occurrence of the selection.
			for textStart < textEnd && !strings.HasPrefix(plain[textStart:], v.text) {
				textStart++
			}
			textEnd = minInt(textStart+len(v.text), len(plain))
			dist := absInt(textStart - targetText)
			if !found || dist < bestDist {
				found = true
				bestDist = dist
				refined = Candidate{
					Source:    "refined:" + v.label,
					HTMLStart: htmlStart,
					HTMLEnd:   htmlEnd,
					TextStart: textStart,
					TextEnd:   textEnd,
				}
			}
		}

		if found {
			span.HTMLStart = refined.HTMLStart
			span.HTMLEnd = refined.HTMLEnd
			span.TextStart = refined.TextStart
			span.TextEnd = refined.TextEnd
			span.Candidates = append(span.Candidates, refined)
			return
		}
	}
}

// score orders candidates lexicographically. Text distance leads because
// the caller derives text offsets the same way this package does, making it
// the most reliable signal; HTML distance disambiguates textually identical
// matches at different places; length deviation breaks remaining ties.
type score struct {
	textDist  int
	htmlDist  int
	lengthDev float64
}

func (s score) less(o score) bool {
	if s.textDist != o.textDist {
		return s.textDist < o.textDist
	}
	if s.htmlDist != o.htmlDist {
		return s.htmlDist < o.htmlDist
	}
	return s.lengthDev < o.lengthDev
}

func scoreCandidate(c Candidate, targetText, targetHTML, requestedLength int) score {
	s := score{
		textDist: absInt(c.TextStart - targetText),
		htmlDist: absInt(c.HTMLStart - targetHTML),
	}
	if requestedLength > 0 {
		length := c.TextEnd - c.TextStart
		if length == 0 {
			length = 1
		}
		s.lengthDev = float64(absInt(length-requestedLength)) / float64(maxInt(requestedLength, 1))
	}
	return s
}

// htmlRangeForText converts a rendered-text match into HTML bounds by
// direct index lookup: the start byte maps to its own source offset and the
// end extends one past the source offset of the final matched byte. A
// document-final block tag maps its synthetic newline one past the last
// source byte, so both bounds clamp to htmlLen to stay sliceable.
func htmlRangeForText(positions []int, textIdx, length, htmlLen int) (int, int) {
	if len(positions) == 0 {
		return textIdx, textIdx + length
	}
	startIdx := clampInt(textIdx, 0, len(positions)-1)
	endIdx := minInt(textIdx+length, len(positions))
	if endIdx <= startIdx {
		endIdx = startIdx + 1
	}
	return minInt(positions[startIdx], htmlLen), minInt(positions[endIdx-1]+1, htmlLen)
}

// indexAll returns the start offset of every occurrence of needle in s,
// including overlapping ones.
func indexAll(s, needle string) []int {
	if needle == "" {
		return nil
	}
	var out []int
	for i := strings.Index(s, needle); i != -1; {
		out = append(out, i)
		next := strings.Index(s[i+1:], needle)
		if next == -1 {
			break
		}
		i += 1 + next
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
