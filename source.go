package evidmap

import (
	"context"
	"time"
)

// Source types.
const (
	SourceTypeFeed    = "feed"
	SourceTypePodcast = "podcast"
	SourceTypeManual  = "manual"
)

// Source represents a feed or podcast that documents are ingested from.
type Source struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	URL        string     `json:"url"`
	LastPolled *time.Time `json:"lastPolled"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	switch s.Type {
	case SourceTypeFeed, SourceTypePodcast, SourceTypeManual:
	default:
		return Errorf(EINVALID, "unknown source type %q", s.Type)
	}
	if s.Type != SourceTypeManual && s.URL == "" {
		return Errorf(EINVALID, "source URL required for type %q", s.Type)
	}
	return nil
}

// SourceService represents a service for managing sources.
type SourceService interface {
	// CreateSource creates a new source.
	CreateSource(ctx context.Context, source *Source) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// FindSources retrieves all sources, most recently created first.
	FindSources(ctx context.Context) ([]*Source, error)

	// MarkSourcePolled records the time a source's feed was last fetched.
	MarkSourcePolled(ctx context.Context, id string, polledAt time.Time) error
}
