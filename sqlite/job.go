package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/evidmap/evidmap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ evidmap.JobService = (*JobService)(nil)

// JobService implements evidmap.JobService using SQLite.
type JobService struct {
	db *DB
}

// NewJobService creates a new JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{db: db}
}

// EnqueueJob adds a queued job for a source.
func (s *JobService) EnqueueJob(ctx context.Context, sourceID string) (*evidmap.IngestJob, error) {
	if sourceID == "" {
		return nil, evidmap.Errorf(evidmap.EINVALID, "job source ID required")
	}

	job := &evidmap.IngestJob{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		Status:    evidmap.JobStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	job.UpdatedAt = job.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_jobs (id, source_id, status, error, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?)
	`, job.ID, job.SourceID, job.Status,
		job.CreatedAt.Format(time.RFC3339), job.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return job, nil
}

// ClaimJob atomically marks the oldest queued job in_progress and returns
// it. The UPDATE with a subquery is atomic under SQLite's single-writer
// model, so concurrent workers never claim the same job.
func (s *JobService) ClaimJob(ctx context.Context) (*evidmap.IngestJob, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	row := s.db.QueryRowContext(ctx, `
		UPDATE ingest_jobs
		SET status = ?, updated_at = ?
		WHERE id = (
			SELECT id FROM ingest_jobs
			WHERE status = ?
			ORDER BY created_at
			LIMIT 1
		)
		RETURNING id, source_id, status, error, created_at, updated_at
	`, evidmap.JobStatusInProgress, now, evidmap.JobStatusQueued)

	job, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evidmap.Errorf(evidmap.ENOTFOUND, "no queued jobs")
	}
	return job, err
}

// CompleteJob marks a claimed job done.
func (s *JobService) CompleteJob(ctx context.Context, id string) error {
	return s.finishJob(ctx, id, evidmap.JobStatusDone, "")
}

// FailJob marks a claimed job failed with an error message.
func (s *JobService) FailJob(ctx context.Context, id string, message string) error {
	return s.finishJob(ctx, id, evidmap.JobStatusFailed, message)
}

func (s *JobService) finishJob(ctx context.Context, id, status, message string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ingest_jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, message, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return evidmap.Errorf(evidmap.ENOTFOUND, "job not found")
	}
	return nil
}

// FindJobs retrieves jobs, newest first.
func (s *JobService) FindJobs(ctx context.Context, limit int) ([]*evidmap.IngestJob, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, status, error, created_at, updated_at
		FROM ingest_jobs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*evidmap.IngestJob
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func scanJob(scan func(...any) error) (*evidmap.IngestJob, error) {
	var job evidmap.IngestJob
	var createdAt, updatedAt string

	if err := scan(&job.ID, &job.SourceID, &job.Status, &job.Error,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if job.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &job, nil
}
