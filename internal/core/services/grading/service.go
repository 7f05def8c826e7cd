package grading

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/domain"
)

// Outcome is the durable result of recording one run or submit
type Outcome struct {
	SubmissionID uuid.UUID
	PassedCount  int
	TotalCount   int
	Verdict      domain.Verdict
	TimeMS       int
	MemoryKB     int
	Verdicts     []domain.TestVerdict

	// AttemptScore is the attempt's total after best-of-attempts
	// reconciliation; only meaningful for submit runs.
	AttemptScore  int
	ScoreImproved bool
}

// IGradingService persists submissions and keeps attempt scores consistent
type IGradingService interface {
	// RecordSubmission stores the submission with its case results and,
	// for submit runs, applies the best-of-attempts score update. The
	// attempt score is touched only after the submission is durable.
	RecordSubmission(ctx context.Context, attempt *domain.Attempt, questionID uuid.UUID, language, code string, runType domain.RunType, verdicts []domain.TestVerdict) (*Outcome, error)

	// GetSubmission reads a stored submission with its case results
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, []*domain.SubmissionCaseResult, error)
}
