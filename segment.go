package evidmap

import (
	"context"
	"time"
)

// Offset kinds recorded on a segment. OffsetKindHTML means the stored
// offsets are byte positions in the document's raw HTML, recovered by the
// offset mapper; OffsetKindText means the mapper could not place the
// selection and the front-end's rendered-text offsets were stored as-is.
const (
	OffsetKindHTML = "html"
	OffsetKindText = "text"
)

// Segment statuses.
const (
	SegmentStatusProposed   = "proposed"
	SegmentStatusAccepted   = "accepted"
	SegmentStatusSuperseded = "superseded"
)

// Segment represents a carved piece of evidence within a document.
type Segment struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"documentId"`
	Text        string    `json:"text"`
	ContentHTML string    `json:"contentHtml"`
	StartOffset int       `json:"startOffset"`
	EndOffset   int       `json:"endOffset"`
	OffsetKind  string    `json:"offsetKind"`
	Status      string    `json:"status"`
	Version     int       `json:"version"`
	Provenance  string    `json:"provenance"` // JSON blob describing how the segment was produced
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the segment contains invalid fields.
func (s *Segment) Validate() error {
	if s.DocumentID == "" {
		return Errorf(EINVALID, "segment document ID required")
	}
	if s.Text == "" {
		return Errorf(EINVALID, "segment text required")
	}
	switch s.OffsetKind {
	case OffsetKindHTML, OffsetKindText:
	default:
		return Errorf(EINVALID, "unknown offset kind %q", s.OffsetKind)
	}
	if s.EndOffset < s.StartOffset {
		return Errorf(EINVALID, "segment end offset before start offset")
	}
	return nil
}

// SegmentService represents a service for managing segments.
type SegmentService interface {
	// CreateSegment creates a new segment.
	CreateSegment(ctx context.Context, segment *Segment) error

	// FindSegmentByID retrieves a segment by ID.
	// Returns ENOTFOUND if segment does not exist.
	FindSegmentByID(ctx context.Context, id string) (*Segment, error)

	// FindSegments retrieves segments matching the filter.
	FindSegments(ctx context.Context, filter SegmentFilter) ([]*Segment, error)

	// SupersedeSegments marks all current segments of a document
	// superseded, ahead of a regeneration pass.
	SupersedeSegments(ctx context.Context, documentID string) error

	// DeleteSegment permanently removes a segment and its evidence links.
	// Returns ENOTFOUND if segment does not exist.
	DeleteSegment(ctx context.Context, id string) error
}

// SegmentFilter represents a filter for FindSegments.
type SegmentFilter struct {
	ID         *string `json:"id"`
	DocumentID *string `json:"documentId"`
	Status     *string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
