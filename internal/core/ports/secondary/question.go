package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/domain"
)

type QuestionRepository interface {
	// GetQuestion retrieves a question by ID, nil if not found
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error)

	// GetTestCases retrieves a question's test cases in order_index order,
	// restricted to public cases when publicOnly is set
	GetTestCases(ctx context.Context, questionID uuid.UUID, publicOnly bool) ([]*domain.TestCase, error)

	// GetQuestionPoints retrieves the point value of a question within a
	// test, falling back to the default when no mapping exists
	GetQuestionPoints(ctx context.Context, testID, questionID uuid.UUID) (int, error)

	// GetTestMaxScore sums the point values of all questions in a test
	GetTestMaxScore(ctx context.Context, testID uuid.UUID) (int, error)

	// GetTest retrieves a test by ID, nil if not found
	GetTest(ctx context.Context, testID uuid.UUID) (*domain.Test, error)
}
