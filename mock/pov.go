package mock

import (
	"context"

	"github.com/evidmap/evidmap"
)

var _ evidmap.PovService = (*PovService)(nil)

// PovService is a mock implementation of evidmap.PovService.
type PovService struct {
	CreatePovFn         func(ctx context.Context, pov *evidmap.Pov) error
	FindPovsBySegmentFn func(ctx context.Context, segmentID string) ([]*evidmap.Pov, error)
}

func (s *PovService) CreatePov(ctx context.Context, pov *evidmap.Pov) error {
	return s.CreatePovFn(ctx, pov)
}

func (s *PovService) FindPovsBySegment(ctx context.Context, segmentID string) ([]*evidmap.Pov, error) {
	return s.FindPovsBySegmentFn(ctx, segmentID)
}

var _ evidmap.PovGenerator = (*PovGenerator)(nil)

// PovGenerator is a mock implementation of evidmap.PovGenerator.
type PovGenerator struct {
	GeneratePovFn func(ctx context.Context, persona, segmentText, hypothesisText string) (string, error)
}

func (g *PovGenerator) GeneratePov(ctx context.Context, persona, segmentText, hypothesisText string) (string, error) {
	return g.GeneratePovFn(ctx, persona, segmentText, hypothesisText)
}
