package mock

import (
	"context"

	"github.com/evidmap/evidmap"
)

var _ evidmap.QuestionService = (*QuestionService)(nil)

// QuestionService is a mock implementation of evidmap.QuestionService.
type QuestionService struct {
	CreateQuestionFn         func(ctx context.Context, q *evidmap.Question) error
	FindQuestionsFn          func(ctx context.Context) ([]*evidmap.Question, error)
	DeleteQuestionFn         func(ctx context.Context, id string) error
	LinkHypothesisFn         func(ctx context.Context, questionID, hypothesisID string) error
	FindQuestionHypothesesFn func(ctx context.Context, questionID string) ([]*evidmap.Hypothesis, error)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, q *evidmap.Question) error {
	return s.CreateQuestionFn(ctx, q)
}

func (s *QuestionService) FindQuestions(ctx context.Context) ([]*evidmap.Question, error) {
	return s.FindQuestionsFn(ctx)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	return s.DeleteQuestionFn(ctx, id)
}

func (s *QuestionService) LinkHypothesis(ctx context.Context, questionID, hypothesisID string) error {
	return s.LinkHypothesisFn(ctx, questionID, hypothesisID)
}

func (s *QuestionService) FindQuestionHypotheses(ctx context.Context, questionID string) ([]*evidmap.Hypothesis, error) {
	return s.FindQuestionHypothesesFn(ctx, questionID)
}
