package mock

import (
	"context"
	"time"

	"github.com/evidmap/evidmap"
)

var _ evidmap.ReferenceService = (*ReferenceService)(nil)

// ReferenceService is a mock implementation of evidmap.ReferenceService.
type ReferenceService struct {
	GetReferenceFn func(ctx context.Context, hypothesisID string, maxAge time.Duration) (*evidmap.Reference, error)
	PutReferenceFn func(ctx context.Context, ref *evidmap.Reference) error
}

func (s *ReferenceService) GetReference(ctx context.Context, hypothesisID string, maxAge time.Duration) (*evidmap.Reference, error) {
	return s.GetReferenceFn(ctx, hypothesisID, maxAge)
}

func (s *ReferenceService) PutReference(ctx context.Context, ref *evidmap.Reference) error {
	return s.PutReferenceFn(ctx, ref)
}

var _ evidmap.ReferenceFetcher = (*ReferenceFetcher)(nil)

// ReferenceFetcher is a mock implementation of evidmap.ReferenceFetcher.
type ReferenceFetcher struct {
	FetchReferenceFn func(ctx context.Context, url string) (string, error)
}

func (f *ReferenceFetcher) FetchReference(ctx context.Context, url string) (string, error) {
	return f.FetchReferenceFn(ctx, url)
}
