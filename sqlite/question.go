package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/evidmap/evidmap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ evidmap.QuestionService = (*QuestionService)(nil)

// QuestionService implements evidmap.QuestionService using SQLite.
type QuestionService struct {
	db *DB
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(db *DB) *QuestionService {
	return &QuestionService{db: db}
}

// CreateQuestion creates a new question.
func (s *QuestionService) CreateQuestion(ctx context.Context, q *evidmap.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}

	q.ID = uuid.New().String()
	q.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (id, text, created_at) VALUES (?, ?, ?)
	`, q.ID, q.Text, q.CreatedAt.Format(time.RFC3339))

	return err
}

// FindQuestions retrieves all questions, newest first.
func (s *QuestionService) FindQuestions(ctx context.Context) ([]*evidmap.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.text, q.created_at,
			(SELECT COUNT(*) FROM question_hypotheses qh WHERE qh.question_id = q.id)
		FROM questions q
		ORDER BY q.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*evidmap.Question
	for rows.Next() {
		var q evidmap.Question
		var createdAt string
		if err := rows.Scan(&q.ID, &q.Text, &createdAt, &q.HypothesisCount); err != nil {
			return nil, err
		}
		if q.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		questions = append(questions, &q)
	}

	return questions, rows.Err()
}

// DeleteQuestion removes a question and its hypothesis links.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return evidmap.Errorf(evidmap.ENOTFOUND, "question not found")
	}
	return nil
}

// LinkHypothesis attaches a hypothesis to a question.
func (s *QuestionService) LinkHypothesis(ctx context.Context, questionID, hypothesisID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO question_hypotheses (question_id, hypothesis_id) VALUES (?, ?)
	`, questionID, hypothesisID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return evidmap.Errorf(evidmap.ECONFLICT, "hypothesis already linked to question")
		}
		return err
	}
	return nil
}

// FindQuestionHypotheses retrieves the hypotheses linked to a question.
func (s *QuestionService) FindQuestionHypotheses(ctx context.Context, questionID string) ([]*evidmap.Hypothesis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.text, h.description, h.reference_url, h.reference_type,
			h.created_at, h.updated_at,
			(SELECT COUNT(*) FROM evidence e WHERE e.hypothesis_id = h.id)
		FROM hypotheses h
		JOIN question_hypotheses qh ON qh.hypothesis_id = h.id
		WHERE qh.question_id = ?
		ORDER BY h.updated_at DESC
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hypotheses []*evidmap.Hypothesis
	for rows.Next() {
		h, err := scanHypothesis(rows.Scan)
		if err != nil {
			return nil, err
		}
		hypotheses = append(hypotheses, h)
	}

	return hypotheses, rows.Err()
}
