package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/mock"
	evidslog "github.com/evidmap/evidmap/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("logs a located selection with its span", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Locator{
			LocateFn: func(req evidmap.LocateRequest) *evidmap.MappedSpan {
				return &evidmap.MappedSpan{
					HTMLStart: 3,
					HTMLEnd:   8,
					TextStart: 0,
					TextEnd:   5,
					Candidates: []evidmap.Candidate{
						{Source: "text", HTMLStart: 3, HTMLEnd: 8},
					},
				}
			},
		}

		locator := evidslog.NewLoggingLocator(inner, logger)
		span := locator.Locate(evidmap.LocateRequest{
			DocumentHTML:  "<p>hello</p>",
			SelectionText: "hello",
		})

		require.NotNil(t, span)
		output := buf.String()
		assert.Contains(t, output, "selection located")
		assert.Contains(t, output, "htmlStart=3")
		assert.Contains(t, output, "htmlEnd=8")
		assert.Contains(t, output, "candidates=1")
		assert.Contains(t, output, "source=text")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs a failed mapping", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Locator{
			LocateFn: func(req evidmap.LocateRequest) *evidmap.MappedSpan {
				return nil
			},
		}

		locator := evidslog.NewLoggingLocator(inner, logger)
		span := locator.Locate(evidmap.LocateRequest{
			DocumentHTML:  "<p>hello</p>",
			SelectionText: "missing",
		})

		assert.Nil(t, span)
		output := buf.String()
		assert.Contains(t, output, "selection not located")
		assert.Contains(t, output, "selectionLen=7")
	})
}
