package http

import (
	"net/http"
	"strings"

	"github.com/evidmap/evidmap"
)

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	filter := evidmap.DocumentFilter{
		IncludeArchived: r.URL.Query().Get("includeArchived") == "true",
	}
	if sourceID := r.URL.Query().Get("sourceId"); sourceID != "" {
		filter.SourceID = &sourceID
	}

	docs, err := s.DocumentService.FindDocuments(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if docs == nil {
		docs = []*evidmap.Document{}
	}

	// List views omit the content payloads.
	type documentListItem struct {
		*evidmap.Document
		ContentHTML string `json:"contentHtml,omitempty"`
		ContentText string `json:"contentText,omitempty"`
	}
	items := make([]documentListItem, len(docs))
	for i, doc := range docs {
		items[i] = documentListItem{Document: doc}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDocumentContent(w http.ResponseWriter, r *http.Request) {
	doc, err := s.DocumentService.FindDocumentByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDocumentUpdate(w http.ResponseWriter, r *http.Request) {
	var upd evidmap.DocumentUpdate
	if err := decodeJSON(r, &upd); err != nil {
		s.Error(w, r, err)
		return
	}

	doc, err := s.DocumentService.UpdateDocument(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDocumentArchive(w http.ResponseWriter, r *http.Request) {
	if err := s.DocumentService.ArchiveDocument(r.Context(), r.PathValue("id")); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

type ingestURLRequest struct {
	URL      string `json:"url"`
	SourceID string `json:"sourceId"`
}

type ingestURLResponse struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Created    bool   `json:"created"`
}

// handleIngestURL fetches a single article page, extracts its main content,
// and stores it as a document.
func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req ingestURLRequest
	if err := decodeJSON(r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.Error(w, r, evidmap.Errorf(evidmap.EINVALID, "url required"))
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

	rawHTML, err := s.Fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		s.Error(w, r, evidmap.Errorf(evidmap.EINTERNAL, "fetching %s: %v", req.URL, err))
		return
	}

	result, err := s.Extractor.Extract(rawHTML)
	if err != nil {
		s.Error(w, r, evidmap.Errorf(evidmap.EINTERNAL, "extracting content from %s: %v", req.URL, err))
		return
	}

	doc := evidmap.Document{
		SourceID:    req.SourceID,
		ExternalID:  req.URL,
		OriginalURL: req.URL,
		Title:       result.Title,
		Author:      result.Author,
		ContentHTML: result.ContentHTML,
		ContentText: s.cleanText(result.ContentHTML),
	}

	created, err := s.DocumentService.UpsertDocument(r.Context(), &doc)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestURLResponse{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Created:    created,
	})
}

func (s *Server) handleSourceList(w http.ResponseWriter, r *http.Request) {
	sources, err := s.SourceService.FindSources(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if sources == nil {
		sources = []*evidmap.Source{}
	}
	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) handleSourceCreate(w http.ResponseWriter, r *http.Request) {
	var source evidmap.Source
	if err := decodeJSON(r, &source); err != nil {
		s.Error(w, r, err)
		return
	}

	if err := s.SourceService.CreateSource(r.Context(), &source); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, source)
}
