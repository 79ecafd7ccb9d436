package evidmap

import (
	"context"
	"time"
)

// Question groups hypotheses under an analyst's research question.
type Question struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	// HypothesisCount is populated on list views.
	HypothesisCount int `json:"hypothesisCount"`
}

// Validate returns an error if the question contains invalid fields.
func (q *Question) Validate() error {
	if q.Text == "" {
		return Errorf(EINVALID, "question text required")
	}
	return nil
}

// QuestionService represents a service for managing questions and their
// hypothesis links.
type QuestionService interface {
	// CreateQuestion creates a new question.
	CreateQuestion(ctx context.Context, q *Question) error

	// FindQuestions retrieves all questions, newest first, with
	// hypothesis counts populated.
	FindQuestions(ctx context.Context) ([]*Question, error)

	// DeleteQuestion removes a question and its hypothesis links.
	// Returns ENOTFOUND if question does not exist.
	DeleteQuestion(ctx context.Context, id string) error

	// LinkHypothesis attaches a hypothesis to a question.
	// Returns ECONFLICT if the link already exists.
	LinkHypothesis(ctx context.Context, questionID, hypothesisID string) error

	// FindQuestionHypotheses retrieves the hypotheses linked to a
	// question.
	FindQuestionHypotheses(ctx context.Context, questionID string) ([]*Hypothesis, error)
}
