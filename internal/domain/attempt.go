package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus represents the lifecycle state of an attempt
type AttemptStatus string

const (
	AttemptStatusActive        AttemptStatus = "active"
	AttemptStatusSubmitted     AttemptStatus = "submitted"
	AttemptStatusAutoSubmitted AttemptStatus = "auto_submitted"
)

// Attempt is one student's timed session against one test. Its score is the
// sum over all answered questions of the best submit-run score per question,
// so it never decreases and never double-counts a question.
type Attempt struct {
	ID          uuid.UUID     `db:"id"`
	UserID      uuid.UUID     `db:"user_id"`
	TestID      uuid.UUID     `db:"test_id"`
	Status      AttemptStatus `db:"status"`
	Score       int           `db:"score"`
	MaxScore    int           `db:"max_score"`
	StartedAt   time.Time     `db:"started_at"`
	EndsAt      time.Time     `db:"ends_at"`
	SubmittedAt *time.Time    `db:"submitted_at"`
}

// Expired reports whether the attempt's time window has closed
func (a *Attempt) Expired(now time.Time) bool {
	return !now.Before(a.EndsAt)
}

// NewAttempt starts a timed attempt for a test with the given duration
func NewAttempt(userID, testID uuid.UUID, duration time.Duration) *Attempt {
	now := time.Now()
	return &Attempt{
		ID:        uuid.New(),
		UserID:    userID,
		TestID:    testID,
		Status:    AttemptStatusActive,
		Score:     0,
		MaxScore:  0,
		StartedAt: now,
		EndsAt:    now.Add(duration),
	}
}
