package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/evidmap/evidmap"
)

// Ensure LoggingFeedService implements evidmap.FeedService.
var _ evidmap.FeedService = (*LoggingFeedService)(nil)

// LoggingFeedService wraps a FeedService with debug logging.
type LoggingFeedService struct {
	next   evidmap.FeedService
	logger *slog.Logger
}

// NewLoggingFeedService creates a new LoggingFeedService.
func NewLoggingFeedService(next evidmap.FeedService, logger *slog.Logger) *LoggingFeedService {
	return &LoggingFeedService{next: next, logger: logger}
}

// FetchEntries delegates to the wrapped service and logs the operation.
func (s *LoggingFeedService) FetchEntries(ctx context.Context, feedURL string) (entries []evidmap.FeedEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Info("feed fetch",
			"url", feedURL,
			"entries", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchEntries(ctx, feedURL)
}
