package http_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/evidmap/evidmap"
	evidmaphttp "github.com/evidmap/evidmap/http"
	"github.com/evidmap/evidmap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceFetcher_FetchReference(t *testing.T) {
	t.Parallel()

	t.Run("fetches, extracts, and converts", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "<html><body><article><p>Report body</p></article></body></html>", nil
			},
		}
		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*evidmap.ExtractResult, error) {
				return &evidmap.ExtractResult{ContentHTML: "<p>Report body</p>"}, nil
			},
		}
		converter := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "Report body\n", nil
			},
		}

		rf := evidmaphttp.NewReferenceFetcher(fetcher, extractor, converter)
		text, err := rf.FetchReference(context.Background(), "https://example.com/report")
		require.NoError(t, err)
		assert.Equal(t, "Report body", text)
	})

	t.Run("returns ENOTFOUND when extraction yields nothing", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) { return "<html></html>", nil },
		}
		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*evidmap.ExtractResult, error) {
				return &evidmap.ExtractResult{}, nil
			},
		}

		rf := evidmaphttp.NewReferenceFetcher(fetcher, extractor, &mock.Converter{})
		_, err := rf.FetchReference(context.Background(), "https://example.com/empty")
		require.Error(t, err)
		assert.Equal(t, evidmap.ENOTFOUND, evidmap.ErrorCode(err))
	})
}

func TestHypothesisReference(t *testing.T) {
	t.Parallel()

	t.Run("serves cached content without fetching", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.HypothesisService.FindHypothesisByIDFn = func(_ context.Context, id string) (*evidmap.Hypothesis, error) {
			return &evidmap.Hypothesis{ID: id, Text: "claim", ReferenceURL: "https://example.com/report"}, nil
		}
		s.ReferenceService.GetReferenceFn = func(_ context.Context, hypothesisID string, maxAge time.Duration) (*evidmap.Reference, error) {
			return &evidmap.Reference{HypothesisID: hypothesisID, Text: "cached content"}, nil
		}

		resp := s.do(t, "GET", "/hypotheses/h-1/reference", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, "cached content", body["fullText"])
		assert.Equal(t, true, body["cached"])
	})

	t.Run("fetches and caches on miss", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.HypothesisService.FindHypothesisByIDFn = func(_ context.Context, id string) (*evidmap.Hypothesis, error) {
			return &evidmap.Hypothesis{ID: id, Text: "claim", ReferenceURL: "https://example.com/report"}, nil
		}
		s.ReferenceService.GetReferenceFn = func(_ context.Context, hypothesisID string, maxAge time.Duration) (*evidmap.Reference, error) {
			return nil, evidmap.Errorf(evidmap.ENOTFOUND, "reference not cached")
		}

		var stored *evidmap.Reference
		s.ReferenceService.PutReferenceFn = func(_ context.Context, ref *evidmap.Reference) error {
			stored = ref
			return nil
		}
		s.Server.ReferenceFetcher = &mock.ReferenceFetcher{
			FetchReferenceFn: func(_ context.Context, url string) (string, error) {
				return "fresh content", nil
			},
		}

		resp := s.do(t, "GET", "/hypotheses/h-1/reference", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, "fresh content", body["fullText"])
		assert.Equal(t, false, body["cached"])

		require.NotNil(t, stored)
		assert.Equal(t, "h-1", stored.HypothesisID)
		assert.Equal(t, "fresh content", stored.Text)
	})

	t.Run("returns empty payload when hypothesis has no reference URL", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.HypothesisService.FindHypothesisByIDFn = func(_ context.Context, id string) (*evidmap.Hypothesis, error) {
			return &evidmap.Hypothesis{ID: id, Text: "claim"}, nil
		}

		resp := s.do(t, "GET", "/hypotheses/h-1/reference", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, false, body["cached"])
		_, hasText := body["fullText"]
		assert.False(t, hasText)
	})
}
