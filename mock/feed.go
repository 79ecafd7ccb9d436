package mock

import (
	"context"

	"github.com/evidmap/evidmap"
)

var _ evidmap.FeedService = (*FeedService)(nil)

// FeedService is a mock implementation of evidmap.FeedService.
type FeedService struct {
	FetchEntriesFn func(ctx context.Context, feedURL string) ([]evidmap.FeedEntry, error)
}

func (s *FeedService) FetchEntries(ctx context.Context, feedURL string) ([]evidmap.FeedEntry, error) {
	return s.FetchEntriesFn(ctx, feedURL)
}
