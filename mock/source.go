package mock

import (
	"context"
	"time"

	"github.com/evidmap/evidmap"
)

var _ evidmap.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of evidmap.SourceService.
type SourceService struct {
	CreateSourceFn     func(ctx context.Context, source *evidmap.Source) error
	FindSourceByIDFn   func(ctx context.Context, id string) (*evidmap.Source, error)
	FindSourcesFn      func(ctx context.Context) ([]*evidmap.Source, error)
	MarkSourcePolledFn func(ctx context.Context, id string, polledAt time.Time) error
}

func (s *SourceService) CreateSource(ctx context.Context, source *evidmap.Source) error {
	return s.CreateSourceFn(ctx, source)
}

func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*evidmap.Source, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *SourceService) FindSources(ctx context.Context) ([]*evidmap.Source, error) {
	return s.FindSourcesFn(ctx)
}

func (s *SourceService) MarkSourcePolled(ctx context.Context, id string, polledAt time.Time) error {
	return s.MarkSourcePolledFn(ctx, id, polledAt)
}
