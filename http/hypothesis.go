package http

import (
	"net/http"
	"time"

	"github.com/evidmap/evidmap"
)

// ReferenceMaxAge is how long cached reference content stays fresh.
const ReferenceMaxAge = 24 * time.Hour

func (s *Server) handleHypothesisList(w http.ResponseWriter, r *http.Request) {
	hypotheses, err := s.HypothesisService.FindHypotheses(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if hypotheses == nil {
		hypotheses = []*evidmap.Hypothesis{}
	}
	writeJSON(w, http.StatusOK, hypotheses)
}

func (s *Server) handleHypothesisCreate(w http.ResponseWriter, r *http.Request) {
	var h evidmap.Hypothesis
	if err := decodeJSON(r, &h); err != nil {
		s.Error(w, r, err)
		return
	}

	if err := s.HypothesisService.CreateHypothesis(r.Context(), &h); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleHypothesisDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.HypothesisService.DeleteHypothesis(r.Context(), r.PathValue("id")); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHypothesisEvidence(w http.ResponseWriter, r *http.Request) {
	entries, err := s.HypothesisService.FindEvidenceByHypothesis(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if entries == nil {
		entries = []*evidmap.Evidence{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type referenceResponse struct {
	HypothesisID   string `json:"hypothesisId"`
	ReferenceURL   string `json:"referenceUrl,omitempty"`
	ReferenceType  string `json:"referenceType,omitempty"`
	FullText       string `json:"fullText,omitempty"`
	CharacterCount int    `json:"characterCount,omitempty"`
	Cached         bool   `json:"cached"`
}

// handleHypothesisReference returns the full text of a hypothesis's
// external reference, fetching and caching it on first access.
func (s *Server) handleHypothesisReference(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h, err := s.HypothesisService.FindHypothesisByID(r.Context(), id)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	if h.ReferenceURL == "" {
		writeJSON(w, http.StatusOK, referenceResponse{HypothesisID: id})
		return
	}

	resp := referenceResponse{
		HypothesisID:  id,
		ReferenceURL:  h.ReferenceURL,
		ReferenceType: h.ReferenceType,
	}

	if ref, err := s.ReferenceService.GetReference(r.Context(), id, ReferenceMaxAge); err == nil {
		resp.FullText = ref.Text
		resp.CharacterCount = len(ref.Text)
		resp.Cached = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	text, err := s.ReferenceFetcher.FetchReference(r.Context(), h.ReferenceURL)
	if err != nil {
		s.Error(w, r, evidmap.Errorf(evidmap.EINTERNAL, "fetching reference %s: %v", h.ReferenceURL, err))
		return
	}

	if err := s.ReferenceService.PutReference(r.Context(), &evidmap.Reference{
		HypothesisID: id,
		URL:          h.ReferenceURL,
		Text:         text,
	}); err != nil {
		s.Error(w, r, err)
		return
	}

	resp.FullText = text
	resp.CharacterCount = len(text)
	writeJSON(w, http.StatusOK, resp)
}

type suggestResponse struct {
	Suggestions []evidmap.Suggestion `json:"suggestions"`
}

// handleSuggestHypotheses runs the LLM suggestion pipeline for a segment.
func (s *Server) handleSuggestHypotheses(w http.ResponseWriter, r *http.Request) {
	segment, err := s.SegmentService.FindSegmentByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	existing, err := s.HypothesisService.FindHypotheses(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	suggestions, err := s.Suggester.Suggest(r.Context(), segment.Text, existing)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if suggestions == nil {
		suggestions = []evidmap.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}

type checkRequest struct {
	SegmentID      string `json:"segmentId"`
	HypothesisText string `json:"hypothesisText"`
	Description    string `json:"description"`
}

type checkResponse struct {
	AnalysisText string `json:"analysisText"`
}

// handleCheckHypothesis analyzes an ad-hoc hypothesis against a segment
// without persisting anything.
func (s *Server) handleCheckHypothesis(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	segment, err := s.SegmentService.FindSegmentByID(r.Context(), req.SegmentID)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	analysis, err := s.Checker.Check(r.Context(), segment.Text, req.HypothesisText, req.Description)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{AnalysisText: analysis})
}

type evidenceCreateRequest struct {
	HypothesisID   string `json:"hypothesisId"`
	HypothesisText string `json:"hypothesisText"`
	Description    string `json:"description"`
	Verdict        string `json:"verdict"`
	AnalysisText   string `json:"analysisText"`
	AuthoredBy     string `json:"authoredBy"`
}

// handleEvidenceCreate links a segment to a hypothesis, creating the
// hypothesis first when the request carries text instead of an ID.
func (s *Server) handleEvidenceCreate(w http.ResponseWriter, r *http.Request) {
	segmentID := r.PathValue("id")

	var req evidenceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	if _, err := s.SegmentService.FindSegmentByID(r.Context(), segmentID); err != nil {
		s.Error(w, r, err)
		return
	}

	hypothesisID := req.HypothesisID
	if hypothesisID == "" {
		if req.HypothesisText == "" {
			s.Error(w, r, evidmap.Errorf(evidmap.EINVALID, "hypothesis ID or text required"))
			return
		}
		h := evidmap.Hypothesis{Text: req.HypothesisText, Description: req.Description}
		if err := s.HypothesisService.CreateHypothesis(r.Context(), &h); err != nil {
			s.Error(w, r, err)
			return
		}
		hypothesisID = h.ID
	}

	ev := evidmap.Evidence{
		HypothesisID: hypothesisID,
		SegmentID:    segmentID,
		Verdict:      req.Verdict,
		AnalysisText: req.AnalysisText,
		AuthoredBy:   req.AuthoredBy,
	}
	if err := s.HypothesisService.CreateEvidence(r.Context(), &ev); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}
