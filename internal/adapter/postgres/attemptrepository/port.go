// package attemptrepository contains the PostgreSQL implementation of the
// attempt repository
package attemptrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/domain"
)

var _ secondary.AttemptRepository = (*AttemptRepository)(nil)

// AttemptRepository implements the AttemptRepository interface with PostgreSQL
type AttemptRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewAttemptRepository creates a new PostgreSQL attempt repository
func NewAttemptRepository(db *sqlx.DB, logger primary.Logger) *AttemptRepository {
	return &AttemptRepository{
		db:     db,
		logger: logger,
	}
}

// SaveAttempt inserts a new attempt
func (r *AttemptRepository) SaveAttempt(ctx context.Context, attempt *domain.Attempt) error {
	query := `
		INSERT INTO attempts (
			id, user_id, test_id, status, score, max_score, started_at, ends_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.UserID,
		attempt.TestID,
		attempt.Status,
		attempt.Score,
		attempt.MaxScore,
		attempt.StartedAt,
		attempt.EndsAt,
	)
	if err != nil {
		r.logger.Error("Failed to save attempt", "attemptId", attempt.ID, "error", err)
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	return nil
}

// GetAttempt retrieves an attempt by ID
func (r *AttemptRepository) GetAttempt(ctx context.Context, attemptID uuid.UUID) (*domain.Attempt, error) {
	query := `
		SELECT id, user_id, test_id, status, score, max_score, started_at, ends_at, submitted_at
		FROM attempts
		WHERE id = $1
	`

	var attempt domain.Attempt
	err := r.db.GetContext(ctx, &attempt, query, attemptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get attempt", "attemptId", attemptID, "error", err)
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	return &attempt, nil
}

// GetActiveAttempt retrieves an attempt only if it is owned by the user and
// still active
func (r *AttemptRepository) GetActiveAttempt(ctx context.Context, attemptID, userID uuid.UUID) (*domain.Attempt, error) {
	query := `
		SELECT id, user_id, test_id, status, score, max_score, started_at, ends_at, submitted_at
		FROM attempts
		WHERE id = $1 AND user_id = $2 AND status = $3
	`

	var attempt domain.Attempt
	err := r.db.GetContext(ctx, &attempt, query, attemptID, userID, domain.AttemptStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get active attempt", "attemptId", attemptID, "error", err)
		return nil, fmt.Errorf("failed to get active attempt: %w", err)
	}

	return &attempt, nil
}

// MarkAutoSubmitted flips an expired attempt to auto_submitted. The status
// guard keeps a concurrent finalize from being overwritten.
func (r *AttemptRepository) MarkAutoSubmitted(ctx context.Context, attemptID uuid.UUID, submittedAt time.Time) error {
	query := `
		UPDATE attempts
		SET status = $1, submitted_at = $2
		WHERE id = $3 AND status = $4
	`

	_, err := r.db.ExecContext(ctx, query, domain.AttemptStatusAutoSubmitted, submittedAt, attemptID, domain.AttemptStatusActive)
	if err != nil {
		r.logger.Error("Failed to auto-submit attempt", "attemptId", attemptID, "error", err)
		return fmt.Errorf("failed to auto-submit attempt: %w", err)
	}

	return nil
}

// FinalizeAttempt closes an attempt with its final score
func (r *AttemptRepository) FinalizeAttempt(ctx context.Context, attemptID uuid.UUID, status domain.AttemptStatus, score, maxScore int, submittedAt time.Time) error {
	query := `
		UPDATE attempts
		SET status = $1, score = $2, max_score = $3, submitted_at = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query, status, score, maxScore, submittedAt, attemptID)
	if err != nil {
		r.logger.Error("Failed to finalize attempt", "attemptId", attemptID, "error", err)
		return fmt.Errorf("failed to finalize attempt: %w", err)
	}

	return nil
}
