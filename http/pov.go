package http

import (
	"encoding/json"
	"net/http"

	"github.com/evidmap/evidmap"
)

type povRequest struct {
	SegmentID      string `json:"segmentId"`
	HypothesisText string `json:"hypothesisText"`
	Persona        string `json:"persona"`
}

type povResponse struct {
	PovSummary string `json:"povSummary"`
	PovID      string `json:"povId"`
}

// handleGeneratePov produces a persona's point of view on a hypothesis
// from a segment's text and saves the run as a draft.
func (s *Server) handleGeneratePov(w http.ResponseWriter, r *http.Request) {
	var req povRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	persona := req.Persona
	if persona == "" {
		persona = evidmap.DefaultPersona
	}

	segment, err := s.SegmentService.FindSegmentByID(r.Context(), req.SegmentID)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	summary, err := s.PovGenerator.GeneratePov(r.Context(), persona, segment.Text, req.HypothesisText)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	trace, err := json.Marshal(map[string]string{
		"segmentId":      segment.ID,
		"hypothesisText": req.HypothesisText,
	})
	if err != nil {
		s.Error(w, r, err)
		return
	}

	pov := evidmap.Pov{
		SegmentID: segment.ID,
		Persona:   persona,
		Summary:   summary,
		TraceJSON: string(trace),
		RunStatus: evidmap.PovStatusDraft,
	}
	if err := s.PovService.CreatePov(r.Context(), &pov); err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, povResponse{PovSummary: summary, PovID: pov.ID})
}

type povListResponse struct {
	Povs []*evidmap.Pov `json:"povs"`
}

// handleSegmentPovs lists saved POV runs for a segment, newest first.
func (s *Server) handleSegmentPovs(w http.ResponseWriter, r *http.Request) {
	povs, err := s.PovService.FindPovsBySegment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if povs == nil {
		povs = []*evidmap.Pov{}
	}
	writeJSON(w, http.StatusOK, povListResponse{Povs: povs})
}
