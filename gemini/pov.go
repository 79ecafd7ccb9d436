package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/evidmap/evidmap"
	"google.golang.org/genai"
)

// Ensure PovGenerator implements evidmap.PovGenerator at compile time.
var _ evidmap.PovGenerator = (*PovGenerator)(nil)

// PovGenerator implements evidmap.PovGenerator using Google Gemini.
type PovGenerator struct {
	client *genai.Client
}

// NewPovGenerator creates a new PovGenerator.
func NewPovGenerator(client *genai.Client) *PovGenerator {
	return &PovGenerator{client: client}
}

// GeneratePov returns a short assessment of the hypothesis written from
// the persona's perspective, grounded in the segment text.
func (g *PovGenerator) GeneratePov(ctx context.Context, persona, segmentText, hypothesisText string) (string, error) {
	if persona == "" {
		return "", evidmap.Errorf(evidmap.EINVALID, "persona required")
	}
	if segmentText == "" {
		return "", evidmap.Errorf(evidmap.EINVALID, "segment text required")
	}
	if hypothesisText == "" {
		return "", evidmap.Errorf(evidmap.EINVALID, "hypothesis text required")
	}

	// Overlong selections blow the prompt budget; keep the first chunk.
	if chunks := evidmap.SplitIntoChunks(segmentText, evidmap.DefaultChunkOptions()); len(chunks) > 1 {
		segmentText = chunks[0].Text
	}

	prompt := BuildPovPrompt(segmentText, hypothesisText)
	config := BuildPovConfig(persona)

	result, err := g.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", evidmap.Errorf(evidmap.EINTERNAL, "gemini returned nil result")
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", evidmap.Errorf(evidmap.EINTERNAL, "gemini returned empty summary")
	}
	return summary, nil
}

// BuildPovConfig returns the GenerateContentConfig for POV calls.
func BuildPovConfig(persona string) *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: fmt.Sprintf("You are writing as the persona %q. "+
					"Give that persona's take on the hypothesis in light of the evidence, "+
					"in 3-4 sentences of plain prose. Stay grounded in the evidence; "+
					"say plainly when it does not bear on the hypothesis.", persona),
			}},
		},
		Temperature: &temp,
	}
}

// BuildPovPrompt builds the user prompt for a POV run.
func BuildPovPrompt(segmentText, hypothesisText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HYPOTHESIS: %s\n", hypothesisText)
	sb.WriteString("\nEVIDENCE (Segment):\n")
	sb.WriteString(segmentText)
	sb.WriteString("\n\nPoint of view:")
	return sb.String()
}
