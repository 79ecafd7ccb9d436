package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/mock"
	evidslog "github.com/evidmap/evidmap/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFeedService_FetchEntries(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with entry count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FeedService{
			FetchEntriesFn: func(ctx context.Context, feedURL string) ([]evidmap.FeedEntry, error) {
				return []evidmap.FeedEntry{
					{ID: "e1", ContentHTML: "<p>a</p>"},
					{ID: "e2", ContentHTML: "<p>b</p>"},
				}, nil
			},
		}

		svc := evidslog.NewLoggingFeedService(inner, logger)
		entries, err := svc.FetchEntries(context.Background(), "https://example.com/feed.xml")

		require.NoError(t, err)
		assert.Len(t, entries, 2)
		output := buf.String()
		assert.Contains(t, output, "feed fetch")
		assert.Contains(t, output, "url=https://example.com/feed.xml")
		assert.Contains(t, output, "entries=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FeedService{
			FetchEntriesFn: func(ctx context.Context, feedURL string) ([]evidmap.FeedEntry, error) {
				return nil, errors.New("connection failed")
			},
		}

		svc := evidslog.NewLoggingFeedService(inner, logger)
		_, err := svc.FetchEntries(context.Background(), "https://example.com/feed.xml")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "feed fetch")
		assert.Contains(t, output, "err=\"connection failed\"")
	})
}
