package sqlite

import (
	"context"
	"time"

	"github.com/evidmap/evidmap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ evidmap.PovService = (*PovService)(nil)

// PovService implements evidmap.PovService using SQLite.
type PovService struct {
	db *DB
}

// NewPovService creates a new PovService.
func NewPovService(db *DB) *PovService {
	return &PovService{db: db}
}

// CreatePov saves a POV run.
func (s *PovService) CreatePov(ctx context.Context, pov *evidmap.Pov) error {
	if pov.RunStatus == "" {
		pov.RunStatus = evidmap.PovStatusDraft
	}
	if pov.TraceJSON == "" {
		pov.TraceJSON = "{}"
	}

	if err := pov.Validate(); err != nil {
		return err
	}

	pov.ID = uuid.New().String()
	pov.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO povs (id, segment_id, persona, summary, trace_json, run_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, pov.ID, pov.SegmentID, pov.Persona, pov.Summary, pov.TraceJSON,
		pov.RunStatus, pov.CreatedAt.Format(time.RFC3339))

	return err
}

// FindPovsBySegment retrieves POV runs for a segment, newest first.
func (s *PovService) FindPovsBySegment(ctx context.Context, segmentID string) ([]*evidmap.Pov, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, segment_id, persona, summary, trace_json, run_status, created_at
		FROM povs
		WHERE segment_id = ?
		ORDER BY created_at DESC
	`, segmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var povs []*evidmap.Pov
	for rows.Next() {
		var pov evidmap.Pov
		var createdAt string
		if err := rows.Scan(&pov.ID, &pov.SegmentID, &pov.Persona, &pov.Summary,
			&pov.TraceJSON, &pov.RunStatus, &createdAt); err != nil {
			return nil, err
		}
		if pov.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		povs = append(povs, &pov)
	}

	return povs, rows.Err()
}
