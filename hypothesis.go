package evidmap

import (
	"context"
	"time"
)

// Evidence verdicts.
const (
	VerdictConfirms   = "confirms"
	VerdictRefutes    = "refutes"
	VerdictNuances    = "nuances"
	VerdictIrrelevant = "irrelevant"
)

// Suggestion sources.
const (
	SuggestionExisting  = "existing"
	SuggestionGenerated = "generated"
)

// Hypothesis represents a testable proposition evidence is matched against.
type Hypothesis struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Description   string    `json:"description"`
	ReferenceURL  string    `json:"referenceUrl"`
	ReferenceType string    `json:"referenceType"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// EvidenceCount is populated on list views.
	EvidenceCount int `json:"evidenceCount"`
}

// Validate returns an error if the hypothesis contains invalid fields.
func (h *Hypothesis) Validate() error {
	if h.Text == "" {
		return Errorf(EINVALID, "hypothesis text required")
	}
	return nil
}

// Evidence links a segment to a hypothesis with an analyst's (or the
// LLM's) assessment.
type Evidence struct {
	ID           string    `json:"id"`
	HypothesisID string    `json:"hypothesisId"`
	SegmentID    string    `json:"segmentId"`
	Verdict      string    `json:"verdict"`
	AnalysisText string    `json:"analysisText"`
	AuthoredBy   string    `json:"authoredBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the evidence contains invalid fields.
func (e *Evidence) Validate() error {
	if e.HypothesisID == "" {
		return Errorf(EINVALID, "evidence hypothesis ID required")
	}
	if e.SegmentID == "" {
		return Errorf(EINVALID, "evidence segment ID required")
	}
	switch e.Verdict {
	case "", VerdictConfirms, VerdictRefutes, VerdictNuances, VerdictIrrelevant:
	default:
		return Errorf(EINVALID, "unknown verdict %q", e.Verdict)
	}
	return nil
}

// Suggestion is an LLM-proposed match between a segment and a hypothesis,
// either one that already exists or a newly generated one.
type Suggestion struct {
	HypothesisID string `json:"hypothesisId,omitempty"` // empty when generated
	Text         string `json:"text"`
	Source       string `json:"source"` // SuggestionExisting or SuggestionGenerated
	Description  string `json:"description,omitempty"`
	AnalysisText string `json:"analysisText,omitempty"`
}

// HypothesisService represents a service for managing hypotheses and their
// evidence.
type HypothesisService interface {
	// CreateHypothesis creates a new hypothesis.
	CreateHypothesis(ctx context.Context, h *Hypothesis) error

	// FindHypothesisByID retrieves a hypothesis by ID.
	// Returns ENOTFOUND if hypothesis does not exist.
	FindHypothesisByID(ctx context.Context, id string) (*Hypothesis, error)

	// FindHypotheses retrieves all hypotheses, most recently updated
	// first, with evidence counts populated.
	FindHypotheses(ctx context.Context) ([]*Hypothesis, error)

	// DeleteHypothesis permanently removes a hypothesis and its evidence.
	// Returns ENOTFOUND if hypothesis does not exist.
	DeleteHypothesis(ctx context.Context, id string) error

	// CreateEvidence records evidence linking a segment to a hypothesis.
	CreateEvidence(ctx context.Context, ev *Evidence) error

	// FindEvidenceByHypothesis retrieves evidence entries for a
	// hypothesis, newest first.
	FindEvidenceByHypothesis(ctx context.Context, hypothesisID string) ([]*Evidence, error)

	// FindEvidenceBySegment retrieves evidence entries for a segment.
	FindEvidenceBySegment(ctx context.Context, segmentID string) ([]*Evidence, error)
}

// Suggester proposes hypotheses relevant to a segment.
type Suggester interface {
	// Suggest matches segment text against the existing hypotheses and
	// proposes new ones where the segment raises propositions not yet
	// covered.
	Suggest(ctx context.Context, segmentText string, existing []*Hypothesis) ([]Suggestion, error)
}

// Checker analyzes whether a segment confirms, refutes, or nuances a
// hypothesis.
type Checker interface {
	// Check returns a short analysis text opening with one of the verdict
	// markers.
	Check(ctx context.Context, segmentText, hypothesisText, description string) (string, error)
}
