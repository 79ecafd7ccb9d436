package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/evidmap/evidmap"
)

// Compile-time interface verification.
var _ evidmap.ReferenceService = (*ReferenceService)(nil)

// ReferenceService implements evidmap.ReferenceService using SQLite.
type ReferenceService struct {
	db *DB
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(db *DB) *ReferenceService {
	return &ReferenceService{db: db}
}

// GetReference returns the cached reference for a hypothesis. Entries older
// than maxAge are treated as missing so callers refetch them.
func (s *ReferenceService) GetReference(ctx context.Context, hypothesisID string, maxAge time.Duration) (*evidmap.Reference, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT hypothesis_id, url, text, fetched_at
		FROM reference_cache
		WHERE hypothesis_id = ?
	`, hypothesisID)

	var ref evidmap.Reference
	var fetchedAt string
	err := row.Scan(&ref.HypothesisID, &ref.URL, &ref.Text, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evidmap.Errorf(evidmap.ENOTFOUND, "reference not cached")
	}
	if err != nil {
		return nil, err
	}

	if ref.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}

	if maxAge > 0 && time.Since(ref.FetchedAt) > maxAge {
		return nil, evidmap.Errorf(evidmap.ENOTFOUND, "cached reference is stale")
	}

	return &ref, nil
}

// PutReference stores fetched reference content for a hypothesis.
func (s *ReferenceService) PutReference(ctx context.Context, ref *evidmap.Reference) error {
	if ref.HypothesisID == "" {
		return evidmap.Errorf(evidmap.EINVALID, "reference hypothesis ID required")
	}
	if ref.URL == "" {
		return evidmap.Errorf(evidmap.EINVALID, "reference URL required")
	}

	if ref.FetchedAt.IsZero() {
		ref.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reference_cache (hypothesis_id, url, text, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(hypothesis_id) DO UPDATE SET
			url = excluded.url,
			text = excluded.text,
			fetched_at = excluded.fetched_at
	`, ref.HypothesisID, ref.URL, ref.Text, ref.FetchedAt.Format(time.RFC3339))

	return err
}
