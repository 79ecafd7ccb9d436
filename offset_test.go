package evidmap_test

import (
	"testing"

	"github.com/evidmap/evidmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRangeToHTML(t *testing.T) {
	t.Parallel()

	t.Run("basic selection", func(t *testing.T) {
		t.Parallel()

		html := "<p>Hello <strong>world</strong>!</p>"
		start, end, err := evidmap.TextRangeToHTML(html, 0, 5)

		require.NoError(t, err)
		assert.Equal(t, "Hello", evidmap.StripTags(html[start:end]))
	})

	t.Run("selection through tags", func(t *testing.T) {
		t.Parallel()

		html := "<p>Hello <strong>world</strong>!</p>"
		start, end, err := evidmap.TextRangeToHTML(html, 6, 11)

		require.NoError(t, err)
		assert.Equal(t, "world", evidmap.StripTags(html[start:end]))
	})

	t.Run("selection with entities", func(t *testing.T) {
		t.Parallel()

		html := "<p>&amp; &lt;test&gt;</p>"

		start, end, err := evidmap.TextRangeToHTML(html, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, "& ", evidmap.StripTags(html[start:end]))

		start, end, err = evidmap.TextRangeToHTML(html, 2, 8)
		require.NoError(t, err)
		assert.Equal(t, "<test>", evidmap.StripTags(html[start:end]))
	})

	t.Run("start inside entity decode maps to the ampersand", func(t *testing.T) {
		t.Parallel()

		// &copy; decodes to a two-byte rune; a start offset on the second
		// byte still resolves to the start of the entity.
		html := "a&copy;b"
		start, _, err := evidmap.TextRangeToHTML(html, 2, 3)

		require.NoError(t, err)
		assert.Equal(t, 1, start)
	})

	t.Run("end past document clamps to html length", func(t *testing.T) {
		t.Parallel()

		html := "<p>short</p>"
		start, end, err := evidmap.TextRangeToHTML(html, 0, 9999)

		require.NoError(t, err)
		assert.Equal(t, len(html), end)
		assert.Equal(t, "short", evidmap.StripTags(html[start:end]))
	})

	t.Run("start at rendered length maps to html length", func(t *testing.T) {
		t.Parallel()

		html := "<p>abc</p>"
		start, end, err := evidmap.TextRangeToHTML(html, 3, 3)

		require.NoError(t, err)
		assert.Equal(t, len(html), start)
		assert.Equal(t, len(html), end)
	})

	t.Run("negative start is invalid", func(t *testing.T) {
		t.Parallel()

		_, _, err := evidmap.TextRangeToHTML("<p>x</p>", -1, 3)

		require.Error(t, err)
		assert.Equal(t, evidmap.EINVALID, evidmap.ErrorCode(err))
	})

	t.Run("end before start is invalid", func(t *testing.T) {
		t.Parallel()

		_, _, err := evidmap.TextRangeToHTML("<p>x</p>", 3, 1)

		require.Error(t, err)
		assert.Equal(t, evidmap.EINVALID, evidmap.ErrorCode(err))
	})

	t.Run("unmatched angle bracket is invalid", func(t *testing.T) {
		t.Parallel()

		_, _, err := evidmap.TextRangeToHTML("text<broken", 0, 2)

		require.Error(t, err)
		assert.Equal(t, evidmap.EINVALID, evidmap.ErrorCode(err))
	})

	t.Run("start past rendered length is invalid", func(t *testing.T) {
		t.Parallel()

		_, _, err := evidmap.TextRangeToHTML("<p>ab</p>", 50, 60)

		require.Error(t, err)
		assert.Equal(t, evidmap.EINVALID, evidmap.ErrorCode(err))
	})
}

// TestTextRangeToHTML_RoundTrip verifies that for every non-empty valid
// range, slicing the HTML by the translated bounds and stripping tags
// yields exactly the selected plain text.
func TestTextRangeToHTML_RoundTrip(t *testing.T) {
	t.Parallel()

	htmls := []string{
		"<p>Hello <strong>world</strong>!</p>",
		"plain text only",
		"<div>a<br>b</div><div>c</div>",
		"<p>&amp; &lt;test&gt;</p>",
	}

	for _, html := range htmls {
		plain := evidmap.StripTags(html)
		for t0 := 0; t0 < len(plain); t0++ {
			for t1 := t0 + 1; t1 <= len(plain); t1++ {
				start, end, err := evidmap.TextRangeToHTML(html, t0, t1)
				require.NoError(t, err, "html=%q range=[%d,%d)", html, t0, t1)
				require.LessOrEqual(t, start, end)
				assert.Equal(t, plain[t0:t1], evidmap.StripTags(html[start:end]),
					"html=%q range=[%d,%d)", html, t0, t1)
			}
		}
	}
}

func TestHTMLRangeToText(t *testing.T) {
	t.Parallel()

	t.Run("resolves an html range via the index", func(t *testing.T) {
		t.Parallel()

		src := "<p>Hello <strong>world</strong>!</p>"
		text, positions := evidmap.RenderWithOffsets(src)

		// The bounds of "world" in the raw markup.
		htmlStart := 17
		htmlEnd := 22
		require.Equal(t, "world", src[htmlStart:htmlEnd])

		textStart, textEnd := evidmap.HTMLRangeToText(positions, htmlStart, htmlEnd)

		assert.Equal(t, "world", text[textStart:textEnd])
	})

	t.Run("empty index passes bounds through", func(t *testing.T) {
		t.Parallel()

		textStart, textEnd := evidmap.HTMLRangeToText(nil, 3, 7)

		assert.Equal(t, 3, textStart)
		assert.Equal(t, 7, textEnd)
	})

	t.Run("range starting on a tag resolves to the following text", func(t *testing.T) {
		t.Parallel()

		src := "<p>ab</p>"
		text, positions := evidmap.RenderWithOffsets(src)

		// The closing tag's synthetic newline maps just past the tag, so a
		// range ending at the tag excludes it.
		textStart, textEnd := evidmap.HTMLRangeToText(positions, 0, 5)

		assert.Equal(t, "\nab", text[textStart:textEnd])
	})
}
