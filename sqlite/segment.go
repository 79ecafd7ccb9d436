package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/evidmap/evidmap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ evidmap.SegmentService = (*SegmentService)(nil)

// SegmentService implements evidmap.SegmentService using SQLite.
type SegmentService struct {
	db *DB
}

// NewSegmentService creates a new SegmentService.
func NewSegmentService(db *DB) *SegmentService {
	return &SegmentService{db: db}
}

// CreateSegment creates a new segment.
func (s *SegmentService) CreateSegment(ctx context.Context, segment *evidmap.Segment) error {
	if segment.OffsetKind == "" {
		segment.OffsetKind = evidmap.OffsetKindText
	}
	if segment.Status == "" {
		segment.Status = evidmap.SegmentStatusProposed
	}
	if segment.Version == 0 {
		segment.Version = 1
	}
	if segment.Provenance == "" {
		segment.Provenance = "{}"
	}

	if err := segment.Validate(); err != nil {
		return err
	}

	segment.ID = uuid.New().String()
	segment.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO segments (id, document_id, text, content_html, start_offset,
			end_offset, offset_kind, status, version, provenance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, segment.ID, segment.DocumentID, segment.Text, segment.ContentHTML,
		segment.StartOffset, segment.EndOffset, segment.OffsetKind, segment.Status,
		segment.Version, segment.Provenance, segment.CreatedAt.Format(time.RFC3339))

	return err
}

// FindSegmentByID retrieves a segment by ID.
func (s *SegmentService) FindSegmentByID(ctx context.Context, id string) (*evidmap.Segment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, text, content_html, start_offset, end_offset,
			offset_kind, status, version, provenance, created_at
		FROM segments
		WHERE id = ?
	`, id)

	segment, err := scanSegment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evidmap.Errorf(evidmap.ENOTFOUND, "segment not found")
	}
	return segment, err
}

// FindSegments retrieves segments matching the filter.
func (s *SegmentService) FindSegments(ctx context.Context, filter evidmap.SegmentFilter) ([]*evidmap.Segment, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, document_id, text, content_html, start_offset, end_offset,
		offset_kind, status, version, provenance, created_at FROM segments WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DocumentID != nil {
		query.WriteString(" AND document_id = ?")
		args = append(args, *filter.DocumentID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	// Reading order within a document, newest first across documents.
	query.WriteString(" ORDER BY document_id, start_offset ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []*evidmap.Segment
	for rows.Next() {
		segment, err := scanSegment(rows.Scan)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}

	return segments, rows.Err()
}

// SupersedeSegments marks all current segments of a document superseded.
func (s *SegmentService) SupersedeSegments(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE segments SET status = ? WHERE document_id = ? AND status != ?
	`, evidmap.SegmentStatusSuperseded, documentID, evidmap.SegmentStatusSuperseded)
	return err
}

// DeleteSegment permanently removes a segment and its evidence links.
func (s *SegmentService) DeleteSegment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM segments WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return evidmap.Errorf(evidmap.ENOTFOUND, "segment not found")
	}
	return nil
}

func scanSegment(scan func(...any) error) (*evidmap.Segment, error) {
	var segment evidmap.Segment
	var createdAt string

	if err := scan(&segment.ID, &segment.DocumentID, &segment.Text, &segment.ContentHTML,
		&segment.StartOffset, &segment.EndOffset, &segment.OffsetKind, &segment.Status,
		&segment.Version, &segment.Provenance, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if segment.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &segment, nil
}
