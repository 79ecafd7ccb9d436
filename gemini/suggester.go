// Package gemini implements LLM-backed analysis using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evidmap/evidmap"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Suggester implements evidmap.Suggester at compile time.
var _ evidmap.Suggester = (*Suggester)(nil)

// Suggester implements evidmap.Suggester using Google Gemini.
type Suggester struct {
	client *genai.Client
}

// NewSuggester creates a new Suggester.
func NewSuggester(client *genai.Client) *Suggester {
	return &Suggester{client: client}
}

// suggestionPayload mirrors the JSON shape the model is asked to return.
type suggestionPayload struct {
	Suggestions []struct {
		HypothesisID string `json:"hypothesis_id"`
		Text         string `json:"hypothesis_text"`
		Source       string `json:"source"`
		Description  string `json:"description"`
		AnalysisText string `json:"analysis_text"`
	} `json:"suggestions"`
}

// Suggest matches a segment against the existing hypotheses and proposes
// new ones where the segment raises propositions not yet covered.
func (s *Suggester) Suggest(ctx context.Context, segmentText string, existing []*evidmap.Hypothesis) ([]evidmap.Suggestion, error) {
	if segmentText == "" {
		return nil, evidmap.Errorf(evidmap.EINVALID, "segment text required")
	}

	// Overlong selections blow the prompt budget; keep the first chunk.
	if chunks := evidmap.SplitIntoChunks(segmentText, evidmap.DefaultChunkOptions()); len(chunks) > 1 {
		segmentText = chunks[0].Text
	}

	prompt := BuildSuggestPrompt(segmentText, existing)
	config := BuildSuggestConfig()

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, evidmap.Errorf(evidmap.EINTERNAL, "gemini returned nil result")
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(result.Text()), &payload); err != nil {
		return nil, evidmap.Errorf(evidmap.EINTERNAL, "gemini returned malformed suggestions: %v", err)
	}

	known := make(map[string]bool, len(existing))
	for _, h := range existing {
		known[h.ID] = true
	}

	suggestions := make([]evidmap.Suggestion, 0, len(payload.Suggestions))
	for _, item := range payload.Suggestions {
		sg := evidmap.Suggestion{
			HypothesisID: item.HypothesisID,
			Text:         item.Text,
			Source:       item.Source,
			Description:  item.Description,
			AnalysisText: item.AnalysisText,
		}
		if sg.Text == "" {
			continue
		}
		// Treat unknown sources and fabricated IDs as generated.
		if sg.Source != evidmap.SuggestionExisting || !known[sg.HypothesisID] {
			sg.Source = evidmap.SuggestionGenerated
			sg.HypothesisID = ""
		}
		suggestions = append(suggestions, sg)
	}

	return suggestions, nil
}

// BuildSuggestConfig returns the GenerateContentConfig for suggestion calls.
func BuildSuggestConfig() *genai.GenerateContentConfig {
	temp := float32(0.0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are an expert analyst helping to test hypotheses against evidence. " +
					"Your task is to identify which hypotheses are relevant to a given text segment.\n\n" +
					"You have a list of EXISTING HYPOTHESES. " +
					"For each existing hypothesis, decide if the segment provides evidence for or against it. " +
					"If the segment suggests important propositions NOT covered by existing hypotheses, propose NEW hypotheses.\n\n" +
					"For 'existing' hypotheses:\n" +
					"- Use the exact provided hypothesis_id.\n" +
					"- Provide a brief analysis_text explaining how the segment relates to this hypothesis.\n\n" +
					"For 'generated' (new) hypotheses:\n" +
					"- Set hypothesis_id to an empty string.\n" +
					"- Create a clear, testable hypothesis statement.\n" +
					"- Write a short description providing context.\n" +
					"- Provide analysis_text explaining what the segment suggests about this hypothesis.\n\n" +
					"Return a JSON object with a 'suggestions' key containing a list of hypothesis objects " +
					"with keys hypothesis_id, hypothesis_text, source, description, analysis_text.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildSuggestPrompt builds the user prompt containing the segment and the
// existing hypotheses.
func BuildSuggestPrompt(segmentText string, existing []*evidmap.Hypothesis) string {
	var sb strings.Builder
	sb.WriteString("SEGMENT TEXT:\n")
	sb.WriteString(segmentText)
	sb.WriteString("\n\nEXISTING HYPOTHESES:\n")
	for _, h := range existing {
		fmt.Fprintf(&sb, "- id: %s\n  text: %s\n", h.ID, h.Text)
		if h.Description != "" {
			fmt.Fprintf(&sb, "  description: %s\n", h.Description)
		}
	}
	if len(existing) == 0 {
		sb.WriteString("(none)\n")
	}
	sb.WriteString("\nPlease analyze and return JSON.")
	return sb.String()
}
