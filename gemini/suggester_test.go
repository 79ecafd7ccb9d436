package gemini_test

import (
	"context"
	"testing"

	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggester_Suggest_ReturnsErrorWhenSegmentTextEmpty(t *testing.T) {
	t.Parallel()

	suggester := gemini.NewSuggester(nil) // nil client ok for this test

	_, err := suggester.Suggest(context.Background(), "", nil)

	require.Error(t, err)
	assert.Equal(t, evidmap.EINVALID, evidmap.ErrorCode(err))
	assert.Contains(t, evidmap.ErrorMessage(err), "segment text required")
}

func TestBuildSuggestConfig_RequestsJSON(t *testing.T) {
	t.Parallel()

	config := gemini.BuildSuggestConfig()

	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.0, *config.Temperature, 0.001)
}

func TestBuildSuggestConfig_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	config := gemini.BuildSuggestConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "expert analyst")
}

func TestBuildSuggestPrompt_ContainsSegmentAndHypotheses(t *testing.T) {
	t.Parallel()

	existing := []*evidmap.Hypothesis{
		{ID: "h-1", Text: "The fix shipped in Q2", Description: "From the changelog"},
	}

	prompt := gemini.BuildSuggestPrompt("The release notes mention the fix.", existing)

	assert.Contains(t, prompt, "SEGMENT TEXT:")
	assert.Contains(t, prompt, "The release notes mention the fix.")
	assert.Contains(t, prompt, "h-1")
	assert.Contains(t, prompt, "The fix shipped in Q2")
	assert.Contains(t, prompt, "From the changelog")
}

func TestBuildSuggestPrompt_HandlesNoExistingHypotheses(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildSuggestPrompt("segment", nil)

	assert.Contains(t, prompt, "(none)")
}
