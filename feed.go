package evidmap

import (
	"context"
	"time"
)

// FeedEntry represents one item parsed from a source's RSS feed.
type FeedEntry struct {
	ID          string     `json:"id"` // feed-provided GUID, falls back to link
	Link        string     `json:"link"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"publishedAt"`
	ContentHTML string     `json:"contentHtml"`
}

// FeedService fetches and parses a source's feed.
// Implementations hide the transport and the XML dialect.
type FeedService interface {
	// FetchEntries retrieves the feed at feedURL and returns its entries
	// in document order. Entries without content are omitted.
	FetchEntries(ctx context.Context, feedURL string) ([]FeedEntry, error)
}
