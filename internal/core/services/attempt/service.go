package attempt

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/domain"
)

// FinalizeResult summarizes a closed attempt
type FinalizeResult struct {
	Status      domain.AttemptStatus
	Score       int
	MaxScore    int
	SubmittedAt string
}

// IAttemptService manages the attempt lifecycle around the grading flow
type IAttemptService interface {
	// StartAttempt opens a timed attempt against a test
	StartAttempt(ctx context.Context, userID, testID uuid.UUID) (*domain.Attempt, error)

	// FinalizeAttempt closes an active attempt, recomputing the final
	// score from stored submit history (best per question, summed)
	FinalizeAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*FinalizeResult, error)
}
