package evidmap

import (
	"context"
	"time"
)

// Ingest job statuses.
const (
	JobStatusQueued     = "queued"
	JobStatusInProgress = "in_progress"
	JobStatusDone       = "done"
	JobStatusFailed     = "failed"
)

// IngestJob is a queued request to ingest a source. Workers poll the queue,
// claim the oldest queued job, and run the ingestion.
type IngestJob struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"sourceId"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JobService represents the ingestion job queue.
type JobService interface {
	// EnqueueJob adds a queued job for a source.
	EnqueueJob(ctx context.Context, sourceID string) (*IngestJob, error)

	// ClaimJob atomically marks the oldest queued job in_progress and
	// returns it. Returns ENOTFOUND when the queue is empty.
	ClaimJob(ctx context.Context) (*IngestJob, error)

	// CompleteJob marks a claimed job done.
	CompleteJob(ctx context.Context, id string) error

	// FailJob marks a claimed job failed with an error message.
	FailJob(ctx context.Context, id string, message string) error

	// FindJobs retrieves jobs, newest first.
	FindJobs(ctx context.Context, limit int) ([]*IngestJob, error)
}
