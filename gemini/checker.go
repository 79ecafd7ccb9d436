package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/evidmap/evidmap"
	"google.golang.org/genai"
)

// Ensure Checker implements evidmap.Checker at compile time.
var _ evidmap.Checker = (*Checker)(nil)

// Checker implements evidmap.Checker using Google Gemini.
type Checker struct {
	client *genai.Client
}

// NewChecker creates a new Checker.
func NewChecker(client *genai.Client) *Checker {
	return &Checker{client: client}
}

// Check analyzes whether a segment confirms, refutes, or nuances a
// hypothesis. The returned analysis opens with one of the verdict markers
// CONFIRMS, REFUTES, NUANCES, or IRRELEVANT.
func (c *Checker) Check(ctx context.Context, segmentText, hypothesisText, description string) (string, error) {
	if segmentText == "" {
		return "", evidmap.Errorf(evidmap.EINVALID, "segment text required")
	}
	if hypothesisText == "" {
		return "", evidmap.Errorf(evidmap.EINVALID, "hypothesis text required")
	}

	prompt := BuildCheckPrompt(segmentText, hypothesisText, description)
	config := BuildCheckConfig()

	result, err := c.client.Models.GenerateContent(ctx, model,
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

	return result.Text(), nil
}

// ParseVerdict extracts the leading verdict marker from an analysis text.
// Returns an empty string when the analysis doesn't open with one.
func ParseVerdict(analysis string) string {
	head := strings.ToLower(strings.TrimLeft(strings.TrimSpace(analysis), "*"))
	for _, v := range []string{
		evidmap.VerdictConfirms,
		evidmap.VerdictRefutes,
		evidmap.VerdictNuances,
		evidmap.VerdictIrrelevant,
	} {
		if strings.HasPrefix(head, v) {
			return v
		}
	}
	return ""
}

// BuildCheckConfig returns the GenerateContentConfig for check calls.
func BuildCheckConfig() *genai.GenerateContentConfig {
	temp := float32(0.0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a rigorous analyst verifying a hypothesis against a specific text segment. " +
					"Your goal is to determine the relationship between the evidence and the hypothesis.\n\n" +
					"Output Guidelines:\n" +
					"- Start with one of these bolded verdicts: **CONFIRMS**, **REFUTES**, **NUANCES**, or **IRRELEVANT**.\n" +
					"- Follow with a concise explanation (2-3 sentences) citing specific parts of the segment.\n" +
					"- Maintain a neutral, objective tone.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildCheckPrompt builds the user prompt for a hypothesis check.
func BuildCheckPrompt(segmentText, hypothesisText, description string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HYPOTHESIS: %s\n", hypothesisText)
	if description != "" {
		fmt.Fprintf(&sb, "CONTEXT: %s\n", description)
	}
	sb.WriteString("\nEVIDENCE (Segment):\n")
	sb.WriteString(segmentText)
	sb.WriteString("\n\nAnalysis:")
	return sb.String()
}
