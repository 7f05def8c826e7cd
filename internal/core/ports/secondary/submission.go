package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/domain"
)

type SubmissionRepository interface {
	// SaveSubmission persists a submission together with its per-case
	// results in one transaction
	SaveSubmission(ctx context.Context, submission *domain.Submission, caseResults []*domain.SubmissionCaseResult) error

	// GetSubmission retrieves a submission by ID, nil if not found
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)

	// GetCaseResults retrieves the case results of a submission in case order
	GetCaseResults(ctx context.Context, submissionID uuid.UUID) ([]*domain.SubmissionCaseResult, error)

	// GetSubmitHistory retrieves all submit-type submissions for one
	// question within one attempt
	GetSubmitHistory(ctx context.Context, attemptID, questionID uuid.UUID) ([]*domain.Submission, error)

	// GetAttemptSubmitHistory retrieves all submit-type submissions of an attempt
	GetAttemptSubmitHistory(ctx context.Context, attemptID uuid.UUID) ([]*domain.Submission, error)
}

// GradingRepository applies the best-of-attempts scoring rule atomically
type GradingRepository interface {
	// ApplyQuestionScore recomputes the attempt score contribution of one
	// question after a new submit. The previous best for the question is
	// derived from stored history excluding the new submission; the attempt
	// row is locked for the duration so concurrent submits cannot lose an
	// update. Returns the attempt's resulting total score and whether the
	// new submission improved it.
	ApplyQuestionScore(ctx context.Context, attemptID, questionID, newSubmissionID uuid.UUID, points, passedCount, totalCount int) (int, bool, error)
}
