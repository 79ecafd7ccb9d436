package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/evidmap/evidmap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ evidmap.DocumentService = (*DocumentService)(nil)

// DocumentService implements evidmap.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// CreateDocument creates a new document.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *evidmap.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	doc.CreatedAt = time.Now().UTC()
	doc.ContentHash = hashContent(doc.ContentHTML)
	if doc.SegmentStatus == "" {
		doc.SegmentStatus = evidmap.DocumentSegmentsNone
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_id, external_id, original_url, title, author,
			content_html, content_text, content_hash, published_at, created_at, archived,
			segment_version, segment_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceID, doc.ExternalID, doc.OriginalURL, doc.Title, doc.Author,
		doc.ContentHTML, doc.ContentText, doc.ContentHash,
		formatNullableTime(doc.PublishedAt), doc.CreatedAt.Format(time.RFC3339), doc.Archived,
		doc.SegmentVersion, doc.SegmentStatus)

	return err
}

// UpsertDocument creates a document or updates the existing one with the
// same source and external ID. Returns true when a new row was inserted.
func (s *DocumentService) UpsertDocument(ctx context.Context, doc *evidmap.Document) (bool, error) {
	if doc.ExternalID == "" {
		return true, s.CreateDocument(ctx, doc)
	}

	existing, err := s.FindDocuments(ctx, evidmap.DocumentFilter{
		SourceID:        &doc.SourceID,
		ExternalID:      &doc.ExternalID,
		IncludeArchived: true,
		Limit:           1,
	})
	if err != nil {
		return false, err
	}

	if len(existing) == 0 {
		return true, s.CreateDocument(ctx, doc)
	}

	// Unchanged content leaves the stored row alone so segment offsets
	// keep pointing at the markup they were computed against.
	hash := hashContent(doc.ContentHTML)
	if existing[0].ContentHash == hash {
		doc.ID = existing[0].ID
		return false, nil
	}

	doc.ID = existing[0].ID
	doc.ContentHash = hash

	_, err = s.db.ExecContext(ctx, `
		UPDATE documents
		SET original_url = ?, title = ?, author = ?, content_html = ?,
			content_text = ?, content_hash = ?, published_at = ?
		WHERE id = ?
	`, doc.OriginalURL, doc.Title, doc.Author, doc.ContentHTML,
		doc.ContentText, doc.ContentHash, formatNullableTime(doc.PublishedAt), doc.ID)

	return false, err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*evidmap.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_id, external_id, original_url, title, author,
			content_html, content_text, content_hash, published_at, created_at, archived,
			segment_version, segment_status
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evidmap.Errorf(evidmap.ENOTFOUND, "document not found")
	}
	return doc, err
}

// FindDocuments retrieves documents matching the filter.
func (s *DocumentService) FindDocuments(ctx context.Context, filter evidmap.DocumentFilter) ([]*evidmap.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, source_id, external_id, original_url, title, author,
		content_html, content_text, content_hash, published_at, created_at, archived,
		segment_version, segment_status
		FROM documents WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceID != nil {
		query.WriteString(" AND source_id = ?")
		args = append(args, *filter.SourceID)
	}
	if filter.ExternalID != nil {
		query.WriteString(" AND external_id = ?")
		args = append(args, *filter.ExternalID)
	}
	if !filter.IncludeArchived {
		query.WriteString(" AND archived = 0")
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*evidmap.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateDocument updates an existing document's metadata.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd evidmap.DocumentUpdate) (*evidmap.Document, error) {
	doc, err := s.FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Author != nil {
		doc.Author = *upd.Author
	}
	if upd.PublishedAt != nil {
		doc.PublishedAt = upd.PublishedAt
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE documents SET title = ?, author = ?, published_at = ? WHERE id = ?
	`, doc.Title, doc.Author, formatNullableTime(doc.PublishedAt), id)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// ArchiveDocument marks a document as archived.
func (s *DocumentService) ArchiveDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE documents SET archived = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return evidmap.Errorf(evidmap.ENOTFOUND, "document not found")
	}
	return nil
}

// UpdateSegmentState records the version and status of the document's
// latest segmentation run.
func (s *DocumentService) UpdateSegmentState(ctx context.Context, id string, version int, status string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET segment_version = ?, segment_status = ? WHERE id = ?
	`, version, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return evidmap.Errorf(evidmap.ENOTFOUND, "document not found")
	}
	return nil
}

func scanDocument(scan func(...any) error) (*evidmap.Document, error) {
	var doc evidmap.Document
	var publishedAt sql.NullString
	var createdAt string

	if err := scan(&doc.ID, &doc.SourceID, &doc.ExternalID, &doc.OriginalURL, &doc.Title,
		&doc.Author, &doc.ContentHTML, &doc.ContentText, &doc.ContentHash,
		&publishedAt, &createdAt, &doc.Archived,
		&doc.SegmentVersion, &doc.SegmentStatus); err != nil {
		return nil, err
	}

	var err error
	if doc.PublishedAt, err = parseNullableRFC3339(publishedAt, "published_at"); err != nil {
		return nil, err
	}
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &doc, nil
}
