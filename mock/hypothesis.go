package mock

import (
	"context"

	"github.com/evidmap/evidmap"
)

var _ evidmap.HypothesisService = (*HypothesisService)(nil)

// HypothesisService is a mock implementation of evidmap.HypothesisService.
type HypothesisService struct {
	CreateHypothesisFn         func(ctx context.Context, h *evidmap.Hypothesis) error
	FindHypothesisByIDFn       func(ctx context.Context, id string) (*evidmap.Hypothesis, error)
	FindHypothesesFn           func(ctx context.Context) ([]*evidmap.Hypothesis, error)
	DeleteHypothesisFn         func(ctx context.Context, id string) error
	CreateEvidenceFn           func(ctx context.Context, ev *evidmap.Evidence) error
	FindEvidenceByHypothesisFn func(ctx context.Context, hypothesisID string) ([]*evidmap.Evidence, error)
	FindEvidenceBySegmentFn    func(ctx context.Context, segmentID string) ([]*evidmap.Evidence, error)
}

func (s *HypothesisService) CreateHypothesis(ctx context.Context, h *evidmap.Hypothesis) error {
	return s.CreateHypothesisFn(ctx, h)
}

func (s *HypothesisService) FindHypothesisByID(ctx context.Context, id string) (*evidmap.Hypothesis, error) {
	return s.FindHypothesisByIDFn(ctx, id)
}

func (s *HypothesisService) FindHypotheses(ctx context.Context) ([]*evidmap.Hypothesis, error) {
	return s.FindHypothesesFn(ctx)
}

func (s *HypothesisService) DeleteHypothesis(ctx context.Context, id string) error {
	return s.DeleteHypothesisFn(ctx, id)
}

func (s *HypothesisService) CreateEvidence(ctx context.Context, ev *evidmap.Evidence) error {
	return s.CreateEvidenceFn(ctx, ev)
}

func (s *HypothesisService) FindEvidenceByHypothesis(ctx context.Context, hypothesisID string) ([]*evidmap.Evidence, error) {
	return s.FindEvidenceByHypothesisFn(ctx, hypothesisID)
}

func (s *HypothesisService) FindEvidenceBySegment(ctx context.Context, segmentID string) ([]*evidmap.Evidence, error) {
	return s.FindEvidenceBySegmentFn(ctx, segmentID)
}

var _ evidmap.Suggester = (*Suggester)(nil)

// Suggester is a mock implementation of evidmap.Suggester.
type Suggester struct {
	SuggestFn func(ctx context.Context, segmentText string, existing []*evidmap.Hypothesis) ([]evidmap.Suggestion, error)
}

func (s *Suggester) Suggest(ctx context.Context, segmentText string, existing []*evidmap.Hypothesis) ([]evidmap.Suggestion, error) {
	return s.SuggestFn(ctx, segmentText, existing)
}

var _ evidmap.Checker = (*Checker)(nil)

// Checker is a mock implementation of evidmap.Checker.
type Checker struct {
	CheckFn func(ctx context.Context, segmentText, hypothesisText, description string) (string, error)
}

func (c *Checker) Check(ctx context.Context, segmentText, hypothesisText, description string) (string, error) {
	return c.CheckFn(ctx, segmentText, hypothesisText, description)
}
