package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evidmap/evidmap"
	evidmaphttp "github.com/evidmap/evidmap/http"
	"github.com/evidmap/evidmap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer pairs a Server whose dependencies are function-field mocks
// with an httptest server driving its handler.
type testServer struct {
	*evidmaphttp.Server

	DocumentService   *mock.DocumentService
	SourceService     *mock.SourceService
	SegmentService    *mock.SegmentService
	HypothesisService *mock.HypothesisService
	QuestionService   *mock.QuestionService
	JobService        *mock.JobService
	ReferenceService  *mock.ReferenceService
	PovService        *mock.PovService
	Locator           *mock.Locator
	Suggester         *mock.Suggester
	Checker           *mock.Checker
	PovGenerator      *mock.PovGenerator

	ts *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		Server:            evidmaphttp.NewServer(),
		DocumentService:   &mock.DocumentService{},
		SourceService:     &mock.SourceService{},
		SegmentService:    &mock.SegmentService{},
		HypothesisService: &mock.HypothesisService{},
		QuestionService:   &mock.QuestionService{},
		JobService:        &mock.JobService{},
		ReferenceService:  &mock.ReferenceService{},
		PovService:        &mock.PovService{},
		Locator:           &mock.Locator{},
		Suggester:         &mock.Suggester{},
		Checker:           &mock.Checker{},
		PovGenerator:      &mock.PovGenerator{},
	}
	s.Server.DocumentService = s.DocumentService
	s.Server.SourceService = s.SourceService
	s.Server.SegmentService = s.SegmentService
	s.Server.HypothesisService = s.HypothesisService
	s.Server.QuestionService = s.QuestionService
	s.Server.JobService = s.JobService
	s.Server.ReferenceService = s.ReferenceService
	s.Server.Locator = s.Locator
	s.Server.PovService = s.PovService
	s.Server.Suggester = s.Suggester
	s.Server.Checker = s.Checker
	s.Server.PovGenerator = s.PovGenerator
	s.Server.Segmenter = &evidmap.Segmenter{
		Documents: s.DocumentService,
		Segments:  s.SegmentService,
	}

	s.ts = httptest.NewServer(s.Server.Handler())
	t.Cleanup(s.ts.Close)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSegmentCreate(t *testing.T) {
	t.Parallel()

	docHTML := "<p>Hello <strong>world</strong>!</p>"

	t.Run("stores HTML offsets when the locator succeeds", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocumentService.FindDocumentByIDFn = func(_ context.Context, id string) (*evidmap.Document, error) {
			return &evidmap.Document{ID: id, SourceID: "src-1", Title: "Doc", ContentHTML: docHTML}, nil
		}
		s.Locator.LocateFn = func(req evidmap.LocateRequest) *evidmap.MappedSpan {
			return &evidmap.MappedSpan{HTMLStart: 17, HTMLEnd: 22, TextStart: 6, TextEnd: 11}
		}

		var created *evidmap.Segment
		s.SegmentService.CreateSegmentFn = func(_ context.Context, segment *evidmap.Segment) error {
			segment.ID = "seg-1"
			created = segment
			return nil
		}

		resp := s.do(t, "POST", "/segments", map[string]any{
			"documentId":  "doc-1",
			"text":        "world",
			"startOffset": 6,
			"endOffset":   11,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "seg-1", body["segmentId"])
		assert.Equal(t, evidmap.OffsetKindHTML, body["offsetKind"])

		require.NotNil(t, created)
		assert.Equal(t, 17, created.StartOffset)
		assert.Equal(t, 22, created.EndOffset)
		assert.Equal(t, "world", created.ContentHTML)
		assert.Equal(t, "world", created.Text)
		assert.Contains(t, created.Provenance, `"source":"manual"`)
	})

	t.Run("falls back to text offsets when the locator finds nothing", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocumentService.FindDocumentByIDFn = func(_ context.Context, id string) (*evidmap.Document, error) {
			return &evidmap.Document{ID: id, SourceID: "src-1", Title: "Doc", ContentHTML: docHTML}, nil
		}
		s.Locator.LocateFn = func(req evidmap.LocateRequest) *evidmap.MappedSpan {
			return nil
		}

		var created *evidmap.Segment
		s.SegmentService.CreateSegmentFn = func(_ context.Context, segment *evidmap.Segment) error {
			segment.ID = "seg-2"
			created = segment
			return nil
		}

		resp := s.do(t, "POST", "/segments", map[string]any{
			"documentId":  "doc-1",
			"text":        "unfindable selection",
			"startOffset": 100,
			"endOffset":   120,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, evidmap.OffsetKindText, body["offsetKind"])

		require.NotNil(t, created)
		assert.Equal(t, 100, created.StartOffset)
		assert.Equal(t, 120, created.EndOffset)
		assert.Empty(t, created.ContentHTML)
		assert.Equal(t, "unfindable selection", created.Text)
	})

	t.Run("returns 404 for unknown document", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocumentService.FindDocumentByIDFn = func(_ context.Context, id string) (*evidmap.Document, error) {
			return nil, evidmap.Errorf(evidmap.ENOTFOUND, "document not found")
		}

		resp := s.do(t, "POST", "/segments", map[string]any{
			"documentId": "missing",
			"text":       "x",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("returns 400 when the selection has no text", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocumentService.FindDocumentByIDFn = func(_ context.Context, id string) (*evidmap.Document, error) {
			return &evidmap.Document{ID: id, SourceID: "src-1", Title: "Doc", ContentHTML: docHTML}, nil
		}
		s.Locator.LocateFn = func(req evidmap.LocateRequest) *evidmap.MappedSpan {
			return nil
		}

		resp := s.do(t, "POST", "/segments", map[string]any{
			"documentId": "doc-1",
			"text":       "   ",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSegmentRegenerate(t *testing.T) {
	t.Parallel()

	t.Run("rebuilds segments and reports the new version", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocumentService.FindDocumentByIDFn = func(_ context.Context, id string) (*evidmap.Document, error) {
			return &evidmap.Document{
				ID:             id,
				SourceID:       "src-1",
				Title:          "Doc",
				ContentText:    "A short body worth a single segment.",
				SegmentVersion: 1,
			}, nil
		}
		s.SegmentService.SupersedeSegmentsFn = func(_ context.Context, documentID string) error {
			return nil
		}
		var created []*evidmap.Segment
		s.SegmentService.CreateSegmentFn = func(_ context.Context, segment *evidmap.Segment) error {
			segment.ID = "seg-1"
			created = append(created, segment)
			return nil
		}
		var updatedVersion int
		s.DocumentService.UpdateSegmentStateFn = func(_ context.Context, id string, version int, status string) error {
			updatedVersion = version
			return nil
		}

		resp := s.do(t, "POST", "/documents/doc-1/segments:regenerate", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		run := decodeBody[evidmap.SegmentRun](t, resp)
		assert.Equal(t, "doc-1", run.DocumentID)
		assert.Equal(t, 2, run.Version)
		assert.Equal(t, len(created), run.Inserted)
		assert.Equal(t, 2, updatedVersion)
	})

	t.Run("returns 404 for unknown document", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocumentService.FindDocumentByIDFn = func(_ context.Context, id string) (*evidmap.Document, error) {
			return nil, evidmap.Errorf(evidmap.ENOTFOUND, "document not found")
		}

		resp := s.do(t, "POST", "/documents/missing/segments:regenerate", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSuggestHypotheses(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.SegmentService.FindSegmentByIDFn = func(_ context.Context, id string) (*evidmap.Segment, error) {
		return &evidmap.Segment{ID: id, DocumentID: "doc-1", Text: "segment body"}, nil
	}
	s.HypothesisService.FindHypothesesFn = func(context.Context) ([]*evidmap.Hypothesis, error) {
		return []*evidmap.Hypothesis{{ID: "h-1", Text: "existing claim"}}, nil
	}
	s.Suggester.SuggestFn = func(_ context.Context, segmentText string, existing []*evidmap.Hypothesis) ([]evidmap.Suggestion, error) {
		assert.Equal(t, "segment body", segmentText)
		require.Len(t, existing, 1)
		return []evidmap.Suggestion{
			{HypothesisID: "h-1", Text: "existing claim", Source: evidmap.SuggestionExisting},
			{Text: "new claim", Source: evidmap.SuggestionGenerated},
		}, nil
	}

	resp := s.do(t, "POST", "/segments/seg-1/hypotheses:suggest", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Suggestions []evidmap.Suggestion `json:"suggestions"`
	}](t, resp)
	require.Len(t, body.Suggestions, 2)
	assert.Equal(t, evidmap.SuggestionExisting, body.Suggestions[0].Source)
	assert.Equal(t, evidmap.SuggestionGenerated, body.Suggestions[1].Source)
}

func TestCheckHypothesis(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.SegmentService.FindSegmentByIDFn = func(_ context.Context, id string) (*evidmap.Segment, error) {
		return &evidmap.Segment{ID: id, DocumentID: "doc-1", Text: "the evidence"}, nil
	}
	s.Checker.CheckFn = func(_ context.Context, segmentText, hypothesisText, description string) (string, error) {
		assert.Equal(t, "the evidence", segmentText)
		assert.Equal(t, "the claim", hypothesisText)
		return "**CONFIRMS** The segment supports the claim.", nil
	}

	resp := s.do(t, "POST", "/analysis:check_hypothesis", map[string]string{
		"segmentId":      "seg-1",
		"hypothesisText": "the claim",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Contains(t, body["analysisText"], "CONFIRMS")
}

func TestGeneratePov(t *testing.T) {
	t.Parallel()

	t.Run("saves a draft run and returns the summary", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.SegmentService.FindSegmentByIDFn = func(_ context.Context, id string) (*evidmap.Segment, error) {
			return &evidmap.Segment{ID: id, DocumentID: "doc-1", Text: "the evidence"}, nil
		}
		s.PovGenerator.GeneratePovFn = func(_ context.Context, persona, segmentText, hypothesisText string) (string, error) {
			assert.Equal(t, "skeptic", persona)
			assert.Equal(t, "the evidence", segmentText)
			assert.Equal(t, "the claim", hypothesisText)
			return "The claim rests on thin evidence here.", nil
		}
		var saved *evidmap.Pov
		s.PovService.CreatePovFn = func(_ context.Context, pov *evidmap.Pov) error {
			pov.ID = "pov-1"
			saved = pov
			return nil
		}

		resp := s.do(t, "POST", "/analysis:generate_pov", map[string]string{
			"segmentId":      "seg-1",
			"hypothesisText": "the claim",
			"persona":        "skeptic",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "pov-1", body["povId"])
		assert.Contains(t, body["povSummary"], "thin evidence")

		require.NotNil(t, saved)
		assert.Equal(t, "seg-1", saved.SegmentID)
		assert.Equal(t, evidmap.PovStatusDraft, saved.RunStatus)
		assert.Contains(t, saved.TraceJSON, `"hypothesisText":"the claim"`)
	})

	t.Run("defaults the persona", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.SegmentService.FindSegmentByIDFn = func(_ context.Context, id string) (*evidmap.Segment, error) {
			return &evidmap.Segment{ID: id, DocumentID: "doc-1", Text: "the evidence"}, nil
		}
		s.PovGenerator.GeneratePovFn = func(_ context.Context, persona, segmentText, hypothesisText string) (string, error) {
			assert.Equal(t, evidmap.DefaultPersona, persona)
			return "A plain reading of the evidence.", nil
		}
		s.PovService.CreatePovFn = func(_ context.Context, pov *evidmap.Pov) error {
			pov.ID = "pov-2"
			return nil
		}

		resp := s.do(t, "POST", "/analysis:generate_pov", map[string]string{
			"segmentId":      "seg-1",
			"hypothesisText": "the claim",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("returns 404 for unknown segment", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.SegmentService.FindSegmentByIDFn = func(_ context.Context, id string) (*evidmap.Segment, error) {
			return nil, evidmap.Errorf(evidmap.ENOTFOUND, "segment not found")
		}

		resp := s.do(t, "POST", "/analysis:generate_pov", map[string]string{
			"segmentId":      "missing",
			"hypothesisText": "the claim",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSegmentPovs(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.PovService.FindPovsBySegmentFn = func(_ context.Context, segmentID string) ([]*evidmap.Pov, error) {
		assert.Equal(t, "seg-1", segmentID)
		return []*evidmap.Pov{{ID: "pov-1", SegmentID: segmentID, Persona: "skeptic", Summary: "s"}}, nil
	}

	resp := s.do(t, "GET", "/segments/seg-1/povs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Povs []*evidmap.Pov `json:"povs"`
	}](t, resp)
	require.Len(t, body.Povs, 1)
	assert.Equal(t, "pov-1", body.Povs[0].ID)
}

func TestIngestRequest(t *testing.T) {
	t.Parallel()

	t.Run("queues a job and returns 202", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.SourceService.FindSourceByIDFn = func(_ context.Context, id string) (*evidmap.Source, error) {
			return &evidmap.Source{ID: id, Name: "feed", Type: evidmap.SourceTypeFeed}, nil
		}
		s.JobService.EnqueueJobFn = func(_ context.Context, sourceID string) (*evidmap.IngestJob, error) {
			return &evidmap.IngestJob{ID: "job-1", SourceID: sourceID, Status: evidmap.JobStatusQueued}, nil
		}

		resp := s.do(t, "POST", "/ingest-requests", map[string]string{"sourceId": "src-1"})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		job := decodeBody[evidmap.IngestJob](t, resp)
		assert.Equal(t, "job-1", job.ID)
		assert.Equal(t, evidmap.JobStatusQueued, job.Status)
	})

	t.Run("returns 404 for unknown source", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.SourceService.FindSourceByIDFn = func(_ context.Context, id string) (*evidmap.Source, error) {
			return nil, evidmap.Errorf(evidmap.ENOTFOUND, "source not found")
		}

		resp := s.do(t, "POST", "/ingest-requests", map[string]string{"sourceId": "missing"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestQuestionLink_Conflict(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.QuestionService.LinkHypothesisFn = func(_ context.Context, questionID, hypothesisID string) error {
		return evidmap.Errorf(evidmap.ECONFLICT, "hypothesis already linked to question")
	}

	resp := s.do(t, "POST", "/questions/q-1/hypotheses", map[string]string{"hypothesisId": "h-1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
