package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/evidmap/evidmap"
)

// DefaultPollInterval is how often an idle worker checks the queue.
const DefaultPollInterval = 5 * time.Second

// SourceIngester runs an ingestion for one source. Implemented by
// Ingester; the interface exists so the worker can be tested without
// fetching feeds.
type SourceIngester interface {
	IngestSource(ctx context.Context, sourceID string, progress ProgressFunc) (*Result, error)
}

// Worker polls the job queue and runs ingestions for claimed jobs.
type Worker struct {
	Jobs         evidmap.JobService
	Ingester     SourceIngester
	PollInterval time.Duration
	Logger       *slog.Logger
}

// NewWorker returns a worker with default polling and logging.
func NewWorker(jobs evidmap.JobService, ingester SourceIngester) *Worker {
	return &Worker{
		Jobs:         jobs,
		Ingester:     ingester,
		PollInterval: DefaultPollInterval,
		Logger:       slog.Default(),
	}
}

// Run polls the queue until ctx is cancelled. Each claimed job is
// ingested and marked done or failed. Run drains the queue before going
// idle, so a burst of jobs is processed back to back.
func (w *Worker) Run(ctx context.Context) error {
	interval := w.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// Keep claiming until the queue is empty.
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := w.RunOnce(ctx)
			if err != nil {
				w.Logger.Error("claim job", "error", err)
				break
			}
			if !ok {
				break
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce claims and processes a single job. It reports false when the
// queue is empty.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.Jobs.ClaimJob(ctx)
	if err != nil {
		if evidmap.ErrorCode(err) == evidmap.ENOTFOUND {
			return false, nil
		}
		return false, err
	}

	w.Logger.Info("job claimed", "job", job.ID, "source", job.SourceID)

	result, err := w.Ingester.IngestSource(ctx, job.SourceID, nil)
	if err != nil {
		w.Logger.Error("ingestion failed", "job", job.ID, "source", job.SourceID, "error", err)
		if ferr := w.Jobs.FailJob(ctx, job.ID, err.Error()); ferr != nil {
			return true, ferr
		}
		return true, nil
	}

	w.Logger.Info("job done",
		"job", job.ID,
		"source", job.SourceID,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed)

	if err := w.Jobs.CompleteJob(ctx, job.ID); err != nil {
		return true, err
	}
	return true, nil
}
