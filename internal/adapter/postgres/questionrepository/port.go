// package questionrepository contains the PostgreSQL implementation of the
// question repository
package questionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/domain"
)

var _ secondary.QuestionRepository = (*QuestionRepository)(nil)

// QuestionRepository implements the QuestionRepository interface with PostgreSQL
type QuestionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewQuestionRepository creates a new PostgreSQL question repository
func NewQuestionRepository(db *sqlx.DB, logger primary.Logger) *QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger,
	}
}

// GetQuestion retrieves a question by ID
func (r *QuestionRepository) GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT id, title, problem_statement, supported_languages, created_at
		FROM questions
		WHERE id = $1
	`

	var question domain.Question
	err := r.db.GetContext(ctx, &question, query, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get question", "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return &question, nil
}

// GetTestCases retrieves a question's test cases in definition order.
// Run-type requests only see public cases; submit sees everything.
func (r *QuestionRepository) GetTestCases(ctx context.Context, questionID uuid.UUID, publicOnly bool) ([]*domain.TestCase, error) {
	query := `
		SELECT id, question_id, input, expected_output, is_public, order_index
		FROM question_test_cases
		WHERE question_id = $1
	`
	args := []interface{}{questionID}
	if publicOnly {
		query += ` AND is_public = $2`
		args = append(args, true)
	}
	query += ` ORDER BY order_index`

	var testCases []*domain.TestCase
	if err := r.db.SelectContext(ctx, &testCases, query, args...); err != nil {
		r.logger.Error("Failed to get test cases", "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}

	return testCases, nil
}

// GetQuestionPoints retrieves the point value of a question within a test
func (r *QuestionRepository) GetQuestionPoints(ctx context.Context, testID, questionID uuid.UUID) (int, error) {
	query := `
		SELECT points
		FROM test_questions
		WHERE test_id = $1 AND question_id = $2
	`

	var points int
	err := r.db.GetContext(ctx, &points, query, testID, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultQuestionPoints, nil
		}
		r.logger.Error("Failed to get question points", "testId", testID, "questionId", questionID, "error", err)
		return 0, fmt.Errorf("failed to get question points: %w", err)
	}

	return points, nil
}

// GetTestMaxScore sums the point values of all questions in a test
func (r *QuestionRepository) GetTestMaxScore(ctx context.Context, testID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(points), 0)
		FROM test_questions
		WHERE test_id = $1
	`

	var maxScore int
	if err := r.db.GetContext(ctx, &maxScore, query, testID); err != nil {
		r.logger.Error("Failed to get test max score", "testId", testID, "error", err)
		return 0, fmt.Errorf("failed to get test max score: %w", err)
	}

	if maxScore == 0 {
		maxScore = domain.DefaultQuestionPoints
	}

	return maxScore, nil
}

// GetTest retrieves a test by ID
func (r *QuestionRepository) GetTest(ctx context.Context, testID uuid.UUID) (*domain.Test, error) {
	query := `
		SELECT id, title, time_limit_minutes
		FROM tests
		WHERE id = $1
	`

	var test domain.Test
	err := r.db.GetContext(ctx, &test, query, testID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get test", "testId", testID, "error", err)
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	return &test, nil
}
