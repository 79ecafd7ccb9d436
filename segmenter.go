package evidmap

import (
	"context"
	"encoding/json"
	"strings"
)

// SegmentRun summarizes one segmentation pass over a document.
type SegmentRun struct {
	DocumentID string `json:"documentId"`
	Inserted   int    `json:"inserted"`
	Version    int    `json:"version"`
}

// Segmenter regenerates a document's segments from its stored text.
// Each run supersedes the document's current segments, inserts proposed
// segments carved by the chunking heuristics at the next version, and
// records the run on the document itself. Manual segments carved later
// share the document's current version.
type Segmenter struct {
	Documents DocumentService
	Segments  SegmentService

	// Options bound the chunking pass; zero value means defaults.
	Options ChunkOptions
}

// Regenerate supersedes and rebuilds the segments of one document.
func (s *Segmenter) Regenerate(ctx context.Context, documentID string) (*SegmentRun, error) {
	doc, err := s.Documents.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	text := doc.ContentText
	if text == "" {
		text = strings.TrimSpace(StripTags(doc.ContentHTML))
	}
	if text == "" {
		return nil, Errorf(EINVALID, "document has no text to segment")
	}

	opts := s.Options
	if opts.MaxChars == 0 {
		opts = DefaultChunkOptions()
	}
	chunks := SplitIntoChunks(text, opts)
	if len(chunks) == 0 {
		return nil, Errorf(EINVALID, "segmentation produced no segments")
	}

	version := doc.SegmentVersion + 1

	if err := s.Segments.SupersedeSegments(ctx, documentID); err != nil {
		return nil, err
	}

	for _, chunk := range chunks {
		provenance, err := json.Marshal(map[string]any{
			"source":      "chunker",
			"chunk_index": chunk.Index,
			"chunk_start": chunk.StartOffset,
			"chunk_end":   chunk.EndOffset,
		})
		if err != nil {
			return nil, err
		}

		segment := &Segment{
			DocumentID:  documentID,
			Text:        chunk.Text,
			StartOffset: chunk.StartOffset,
			EndOffset:   chunk.EndOffset,
			OffsetKind:  OffsetKindText,
			Status:      SegmentStatusProposed,
			Version:     version,
			Provenance:  string(provenance),
		}
		if err := s.Segments.CreateSegment(ctx, segment); err != nil {
			return nil, err
		}
	}

	if err := s.Documents.UpdateSegmentState(ctx, documentID, version, DocumentSegmentsGenerated); err != nil {
		return nil, err
	}

	return &SegmentRun{
		DocumentID: documentID,
		Inserted:   len(chunks),
		Version:    version,
	}, nil
}
