package http

import (
	"net/http"
	"strconv"

	"github.com/evidmap/evidmap"
)

type ingestRequest struct {
	SourceID string `json:"sourceId"`
}

// handleIngestRequest queues a source for ingestion. The worker process
// picks the job up; the reply is 202 because nothing has run yet.
func (s *Server) handleIngestRequest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if req.SourceID == "" {
		s.Error(w, r, evidmap.Errorf(evidmap.EINVALID, "source ID required"))
		return
	}

	if _, err := s.SourceService.FindSourceByID(r.Context(), req.SourceID); err != nil {
		s.Error(w, r, err)
		return
	}

	job, err := s.JobService.EnqueueJob(r.Context(), req.SourceID)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleIngestRequestList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	jobs, err := s.JobService.FindJobs(r.Context(), limit)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*evidmap.IngestJob{}
	}
	writeJSON(w, http.StatusOK, jobs)
}
