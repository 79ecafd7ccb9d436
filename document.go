package evidmap

import (
	"context"
	"time"
)

// Document segmentation states.
const (
	DocumentSegmentsNone      = "none"
	DocumentSegmentsGenerated = "generated"
)

// Document represents an ingested article or transcript.
type Document struct {
	ID          string     `json:"id"`
	SourceID    string     `json:"sourceId"`
	ExternalID  string     `json:"externalId"`
	OriginalURL string     `json:"originalUrl"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	ContentHTML string     `json:"contentHtml"`
	ContentText string     `json:"contentText"`
	ContentHash string     `json:"contentHash"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	Archived    bool       `json:"archived"`

	// SegmentVersion is the version of the document's most recent
	// segmentation run; SegmentStatus tracks whether one has happened.
	SegmentVersion int    `json:"segmentVersion"`
	SegmentStatus  string `json:"segmentStatus"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceID == "" {
		return Errorf(EINVALID, "document source ID required")
	}
	if d.Title == "" && d.OriginalURL == "" {
		return Errorf(EINVALID, "document title or original URL required")
	}
	return nil
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *Document) error

	// UpsertDocument creates a document or updates the existing one with
	// the same source and external ID. Returns true when a new row was
	// inserted.
	UpsertDocument(ctx context.Context, doc *Document) (bool, error)

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// UpdateDocument updates an existing document's metadata.
	// Returns ENOTFOUND if document does not exist.
	UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (*Document, error)

	// ArchiveDocument marks a document as archived.
	// Returns ENOTFOUND if document does not exist.
	ArchiveDocument(ctx context.Context, id string) error

	// UpdateSegmentState records the version and status of the document's
	// latest segmentation run.
	// Returns ENOTFOUND if document does not exist.
	UpdateSegmentState(ctx context.Context, id string, version int, status string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID         *string `json:"id"`
	SourceID   *string `json:"sourceId"`
	ExternalID *string `json:"externalId"`

	// IncludeArchived includes archived documents in results.
	IncludeArchived bool `json:"includeArchived"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentUpdate represents fields that can be updated on a document.
type DocumentUpdate struct {
	Title       *string    `json:"title"`
	Author      *string    `json:"author"`
	PublishedAt *time.Time `json:"publishedAt"`
}
