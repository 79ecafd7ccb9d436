package mock

import (
	"context"

	"github.com/evidmap/evidmap"
)

var _ evidmap.SegmentService = (*SegmentService)(nil)

// SegmentService is a mock implementation of evidmap.SegmentService.
type SegmentService struct {
	CreateSegmentFn     func(ctx context.Context, segment *evidmap.Segment) error
	FindSegmentByIDFn   func(ctx context.Context, id string) (*evidmap.Segment, error)
	FindSegmentsFn      func(ctx context.Context, filter evidmap.SegmentFilter) ([]*evidmap.Segment, error)
	SupersedeSegmentsFn func(ctx context.Context, documentID string) error
	DeleteSegmentFn     func(ctx context.Context, id string) error
}

func (s *SegmentService) CreateSegment(ctx context.Context, segment *evidmap.Segment) error {
	return s.CreateSegmentFn(ctx, segment)
}

func (s *SegmentService) FindSegmentByID(ctx context.Context, id string) (*evidmap.Segment, error) {
	return s.FindSegmentByIDFn(ctx, id)
}

func (s *SegmentService) FindSegments(ctx context.Context, filter evidmap.SegmentFilter) ([]*evidmap.Segment, error) {
	return s.FindSegmentsFn(ctx, filter)
}

func (s *SegmentService) SupersedeSegments(ctx context.Context, documentID string) error {
	return s.SupersedeSegmentsFn(ctx, documentID)
}

func (s *SegmentService) DeleteSegment(ctx context.Context, id string) error {
	return s.DeleteSegmentFn(ctx, id)
}
