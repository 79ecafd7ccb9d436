package mock

import (
	"context"

	"github.com/evidmap/evidmap"
)

var _ evidmap.JobService = (*JobService)(nil)

// JobService is a mock implementation of evidmap.JobService.
type JobService struct {
	EnqueueJobFn  func(ctx context.Context, sourceID string) (*evidmap.IngestJob, error)
	ClaimJobFn    func(ctx context.Context) (*evidmap.IngestJob, error)
	CompleteJobFn func(ctx context.Context, id string) error
	FailJobFn     func(ctx context.Context, id string, message string) error
	FindJobsFn    func(ctx context.Context, limit int) ([]*evidmap.IngestJob, error)
}

func (s *JobService) EnqueueJob(ctx context.Context, sourceID string) (*evidmap.IngestJob, error) {
	return s.EnqueueJobFn(ctx, sourceID)
}

func (s *JobService) ClaimJob(ctx context.Context) (*evidmap.IngestJob, error) {
	return s.ClaimJobFn(ctx)
}

func (s *JobService) CompleteJob(ctx context.Context, id string) error {
	return s.CompleteJobFn(ctx, id)
}

func (s *JobService) FailJob(ctx context.Context, id string, message string) error {
	return s.FailJobFn(ctx, id, message)
}

func (s *JobService) FindJobs(ctx context.Context, limit int) ([]*evidmap.IngestJob, error) {
	return s.FindJobsFn(ctx, limit)
}
