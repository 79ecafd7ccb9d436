package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/evidmap/evidmap"
)

// segmentCreateRequest mirrors what the front-end sends when the analyst
// highlights part of a rendered document.
type segmentCreateRequest struct {
	DocumentID  string `json:"documentId"`
	Text        string `json:"text"`
	HTML        string `json:"html"`
	StartOffset *int   `json:"startOffset"`
	EndOffset   *int   `json:"endOffset"`
}

type segmentCreateResponse struct {
	SegmentID  string `json:"segmentId"`
	OffsetKind string `json:"offsetKind"`
}

// handleSegmentCreate creates a segment from a front-end selection. The
// selection arrives in rendered-text coordinates; the locator tries to
// recover the corresponding HTML range so the segment survives re-renders.
// When it can't, the raw text offsets are stored as-is. Mapping failure is
// never an error for the client.
func (s *Server) handleSegmentCreate(w http.ResponseWriter, r *http.Request) {
	var req segmentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if req.DocumentID == "" {
		s.Error(w, r, evidmap.Errorf(evidmap.EINVALID, "document ID required"))
		return
	}

	doc, err := s.DocumentService.FindDocumentByID(r.Context(), req.DocumentID)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	segment := evidmap.Segment{
		DocumentID: req.DocumentID,
		Text:       strings.TrimSpace(req.Text),
		OffsetKind: evidmap.OffsetKindText,
	}
	if req.StartOffset != nil {
		segment.StartOffset = *req.StartOffset
	}
	if req.EndOffset != nil {
		segment.EndOffset = *req.EndOffset
	}

	if doc.ContentHTML != "" {
		span := s.Locator.Locate(evidmap.LocateRequest{
			DocumentHTML:  doc.ContentHTML,
			SelectionText: req.Text,
			SelectionHTML: req.HTML,
			ApproxStart:   req.StartOffset,
			ApproxEnd:     req.EndOffset,
		})
		if span != nil {
			segment.StartOffset = span.HTMLStart
			segment.EndOffset = span.HTMLEnd
			segment.ContentHTML = doc.ContentHTML[span.HTMLStart:span.HTMLEnd]
			segment.OffsetKind = evidmap.OffsetKindHTML
			if cleaned := s.cleanText(segment.ContentHTML); cleaned != "" {
				segment.Text = cleaned
			}
		}
	}

	if segment.Text == "" {
		s.Error(w, r, evidmap.Errorf(evidmap.EINVALID, "segment text cannot be empty"))
		return
	}

	provenance, _ := json.Marshal(map[string]any{
		"source": "manual",
		"selection": map[string]any{
			"offset_kind":  segment.OffsetKind,
			"stored_start": segment.StartOffset,
			"stored_end":   segment.EndOffset,
		},
	})
	segment.Provenance = string(provenance)

	if err := s.SegmentService.CreateSegment(r.Context(), &segment); err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, segmentCreateResponse{
		SegmentID:  segment.ID,
		OffsetKind: segment.OffsetKind,
	})
}

// cleanText derives the visible text of an HTML slice. Falls back to the
// tag-scanning stripper when no parser-backed extractor is wired.
func (s *Server) cleanText(html string) string {
	if s.TextExtractor != nil {
		if text, err := s.TextExtractor.ExtractText(html); err == nil {
			return strings.TrimSpace(text)
		}
	}
	return strings.TrimSpace(evidmap.StripTags(html))
}

func (s *Server) handleSegmentList(w http.ResponseWriter, r *http.Request) {
	segments, err := s.SegmentService.FindSegments(r.Context(), evidmap.SegmentFilter{})
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if segments == nil {
		segments = []*evidmap.Segment{}
	}
	writeJSON(w, http.StatusOK, segments)
}

func (s *Server) handleSegmentGet(w http.ResponseWriter, r *http.Request) {
	segment, err := s.SegmentService.FindSegmentByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, segment)
}

func (s *Server) handleSegmentDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.SegmentService.DeleteSegment(r.Context(), r.PathValue("id")); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDocumentSegments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	segments, err := s.SegmentService.FindSegments(r.Context(), evidmap.SegmentFilter{DocumentID: &id})
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if segments == nil {
		segments = []*evidmap.Segment{}
	}
	writeJSON(w, http.StatusOK, segments)
}

func (s *Server) handleSegmentRegenerate(w http.ResponseWriter, r *http.Request) {
	run, err := s.Segmenter.Regenerate(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleSegmentHypotheses(w http.ResponseWriter, r *http.Request) {
	entries, err := s.HypothesisService.FindEvidenceBySegment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	type segmentHypothesis struct {
		Hypothesis *evidmap.Hypothesis `json:"hypothesis"`
		Verdict    string              `json:"verdict"`
		Analysis   string              `json:"analysisText"`
	}

	out := []segmentHypothesis{}
	for _, ev := range entries {
		h, err := s.HypothesisService.FindHypothesisByID(r.Context(), ev.HypothesisID)
		if err != nil {
			s.Error(w, r, err)
			return
		}
		out = append(out, segmentHypothesis{
			Hypothesis: h,
			Verdict:    ev.Verdict,
			Analysis:   ev.AnalysisText,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
