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
var _ evidmap.HypothesisService = (*HypothesisService)(nil)

// HypothesisService implements evidmap.HypothesisService using SQLite.
type HypothesisService struct {
	db *DB
}

// NewHypothesisService creates a new HypothesisService.
func NewHypothesisService(db *DB) *HypothesisService {
	return &HypothesisService{db: db}
}

// CreateHypothesis creates a new hypothesis.
func (s *HypothesisService) CreateHypothesis(ctx context.Context, h *evidmap.Hypothesis) error {
	if err := h.Validate(); err != nil {
		return err
	}

	h.ID = uuid.New().String()
	h.CreatedAt = time.Now().UTC()
	h.UpdatedAt = h.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hypotheses (id, text, description, reference_url, reference_type,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.Text, h.Description, h.ReferenceURL, h.ReferenceType,
		h.CreatedAt.Format(time.RFC3339), h.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindHypothesisByID retrieves a hypothesis by ID.
func (s *HypothesisService) FindHypothesisByID(ctx context.Context, id string) (*evidmap.Hypothesis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT h.id, h.text, h.description, h.reference_url, h.reference_type,
			h.created_at, h.updated_at,
			(SELECT COUNT(*) FROM evidence e WHERE e.hypothesis_id = h.id)
		FROM hypotheses h
		WHERE h.id = ?
	`, id)

	h, err := scanHypothesis(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evidmap.Errorf(evidmap.ENOTFOUND, "hypothesis not found")
	}
	return h, err
}

// FindHypotheses retrieves all hypotheses, most recently updated first.
func (s *HypothesisService) FindHypotheses(ctx context.Context) ([]*evidmap.Hypothesis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.text, h.description, h.reference_url, h.reference_type,
			h.created_at, h.updated_at,
			(SELECT COUNT(*) FROM evidence e WHERE e.hypothesis_id = h.id)
		FROM hypotheses h
		ORDER BY h.updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hypotheses []*evidmap.Hypothesis
	for rows.Next() {
		h, err := scanHypothesis(rows.Scan)
		if err != nil {
			return nil, err
		}
		hypotheses = append(hypotheses, h)
	}

	return hypotheses, rows.Err()
}

// DeleteHypothesis permanently removes a hypothesis. Evidence, question
// links, and cached reference content go with it via ON DELETE CASCADE.
func (s *HypothesisService) DeleteHypothesis(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM hypotheses WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return evidmap.Errorf(evidmap.ENOTFOUND, "hypothesis not found")
	}
	return nil
}

// CreateEvidence records evidence linking a segment to a hypothesis and
// bumps the hypothesis's updated_at so it sorts to the top of list views.
func (s *HypothesisService) CreateEvidence(ctx context.Context, ev *evidmap.Evidence) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	ev.ID = uuid.New().String()
	ev.CreatedAt = time.Now().UTC()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO evidence (id, hypothesis_id, segment_id, verdict, analysis_text,
			authored_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.HypothesisID, ev.SegmentID, ev.Verdict, ev.AnalysisText,
		ev.AuthoredBy, ev.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, "UPDATE hypotheses SET updated_at = ? WHERE id = ?",
		ev.CreatedAt.Format(time.RFC3339), ev.HypothesisID)
	return err
}

// FindEvidenceByHypothesis retrieves evidence entries for a hypothesis,
// newest first.
func (s *HypothesisService) FindEvidenceByHypothesis(ctx context.Context, hypothesisID string) ([]*evidmap.Evidence, error) {
	return s.findEvidence(ctx, "hypothesis_id", hypothesisID)
}

// FindEvidenceBySegment retrieves evidence entries for a segment.
func (s *HypothesisService) FindEvidenceBySegment(ctx context.Context, segmentID string) ([]*evidmap.Evidence, error) {
	return s.findEvidence(ctx, "segment_id", segmentID)
}

func (s *HypothesisService) findEvidence(ctx context.Context, column, id string) ([]*evidmap.Evidence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hypothesis_id, segment_id, verdict, analysis_text, authored_by, created_at
		FROM evidence
		WHERE `+column+` = ?
		ORDER BY created_at DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*evidmap.Evidence
	for rows.Next() {
		var ev evidmap.Evidence
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.HypothesisID, &ev.SegmentID, &ev.Verdict,
			&ev.AnalysisText, &ev.AuthoredBy, &createdAt); err != nil {
			return nil, err
		}
		if ev.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		entries = append(entries, &ev)
	}

	return entries, rows.Err()
}

func scanHypothesis(scan func(...any) error) (*evidmap.Hypothesis, error) {
	var h evidmap.Hypothesis
	var createdAt, updatedAt string

	if err := scan(&h.ID, &h.Text, &h.Description, &h.ReferenceURL, &h.ReferenceType,
		&createdAt, &updatedAt, &h.EvidenceCount); err != nil {
		return nil, err
	}

	var err error
	if h.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &h, nil
}
