package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/domain"
)

type AttemptRepository interface {
	// SaveAttempt inserts a new attempt
	SaveAttempt(ctx context.Context, attempt *domain.Attempt) error

	// GetAttempt retrieves an attempt by ID, nil if not found
	GetAttempt(ctx context.Context, attemptID uuid.UUID) (*domain.Attempt, error)

	// GetActiveAttempt retrieves an attempt only if it belongs to the user
	// and is still active, nil otherwise
	GetActiveAttempt(ctx context.Context, attemptID, userID uuid.UUID) (*domain.Attempt, error)

	// MarkAutoSubmitted flips an expired attempt to auto_submitted
	MarkAutoSubmitted(ctx context.Context, attemptID uuid.UUID, submittedAt time.Time) error

	// FinalizeAttempt closes an attempt with its final score
	FinalizeAttempt(ctx context.Context, attemptID uuid.UUID, status domain.AttemptStatus, score, maxScore int, submittedAt time.Time) error
}
