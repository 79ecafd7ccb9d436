package evidmap

import (
	"context"
	"time"
)

// Reference holds the fetched text of an external document a hypothesis
// cites, cached so repeated checks don't refetch it.
type Reference struct {
	HypothesisID string    `json:"hypothesisId"`
	URL          string    `json:"url"`
	Text         string    `json:"text"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// ReferenceFetcher downloads and extracts the readable text of an external
// reference URL.
type ReferenceFetcher interface {
	// FetchReference retrieves url and returns its content as plain
	// markdown text.
	FetchReference(ctx context.Context, url string) (string, error)
}

// ReferenceService caches fetched reference content.
type ReferenceService interface {
	// GetReference returns the cached reference for a hypothesis.
	// Returns ENOTFOUND when nothing is cached or the cache entry is
	// older than maxAge.
	GetReference(ctx context.Context, hypothesisID string, maxAge time.Duration) (*Reference, error)

	// PutReference stores fetched reference content for a hypothesis,
	// replacing any previous entry.
	PutReference(ctx context.Context, ref *Reference) error
}
