package evidmap

import (
	"context"
	"time"
)

// POV run statuses.
const (
	PovStatusDraft = "draft"
	PovStatusFinal = "final"
)

// DefaultPersona is used when a POV request names no persona.
const DefaultPersona = "analyst"

// Pov is a persona's point of view on a hypothesis, generated from a
// single segment of evidence. Each generation run is saved as a draft;
// an analyst promotes the ones worth keeping.
type Pov struct {
	ID        string    `json:"id"`
	SegmentID string    `json:"segmentId"`
	Persona   string    `json:"persona"`
	Summary   string    `json:"summary"`

	// TraceJSON records the inputs of the run as a JSON object.
	TraceJSON string `json:"traceJson"`

	RunStatus string    `json:"runStatus"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the POV contains invalid fields.
func (p *Pov) Validate() error {
	if p.SegmentID == "" {
		return Errorf(EINVALID, "pov segment ID required")
	}
	if p.Persona == "" {
		return Errorf(EINVALID, "pov persona required")
	}
	if p.Summary == "" {
		return Errorf(EINVALID, "pov summary required")
	}
	switch p.RunStatus {
	case "", PovStatusDraft, PovStatusFinal:
	default:
		return Errorf(EINVALID, "unknown pov run status %q", p.RunStatus)
	}
	return nil
}

// PovService represents a service for managing saved POV runs.
type PovService interface {
	// CreatePov saves a POV run.
	CreatePov(ctx context.Context, pov *Pov) error

	// FindPovsBySegment retrieves POV runs for a segment, newest first.
	FindPovsBySegment(ctx context.Context, segmentID string) ([]*Pov, error)
}

// PovGenerator produces a persona's point of view on a hypothesis.
type PovGenerator interface {
	// GeneratePov returns a short first-person assessment of the
	// hypothesis written from the persona's perspective, grounded in
	// the segment text.
	GeneratePov(ctx context.Context, persona, segmentText, hypothesisText string) (string, error)
}
