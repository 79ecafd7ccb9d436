package http

import (
	"net/http"

	"github.com/evidmap/evidmap"
)

func (s *Server) handleQuestionList(w http.ResponseWriter, r *http.Request) {
	questions, err := s.QuestionService.FindQuestions(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if questions == nil {
		questions = []*evidmap.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (s *Server) handleQuestionCreate(w http.ResponseWriter, r *http.Request) {
	var q evidmap.Question
	if err := decodeJSON(r, &q); err != nil {
		s.Error(w, r, err)
		return
	}

	if err := s.QuestionService.CreateQuestion(r.Context(), &q); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleQuestionDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.QuestionService.DeleteQuestion(r.Context(), r.PathValue("id")); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type questionLinkRequest struct {
	HypothesisID string `json:"hypothesisId"`
}

func (s *Server) handleQuestionLink(w http.ResponseWriter, r *http.Request) {
	var req questionLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if req.HypothesisID == "" {
		s.Error(w, r, evidmap.Errorf(evidmap.EINVALID, "hypothesis ID required"))
		return
	}

	if err := s.QuestionService.LinkHypothesis(r.Context(), r.PathValue("id"), req.HypothesisID); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "linked"})
}

func (s *Server) handleQuestionHypotheses(w http.ResponseWriter, r *http.Request) {
	hypotheses, err := s.QuestionService.FindQuestionHypotheses(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if hypotheses == nil {
		hypotheses = []*evidmap.Hypothesis{}
	}
	writeJSON(w, http.StatusOK, hypotheses)
}
