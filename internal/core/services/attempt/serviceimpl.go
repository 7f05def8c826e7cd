package attempt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/domain"
	"gitlab.com/examcore-2026.net/internal/static/errs"
)

const defaultTestDuration = 60 * time.Minute

var _ IAttemptService = (*AttemptService)(nil)

// AttemptService implements the attempt lifecycle
type AttemptService struct {
	attemptRepo    secondary.AttemptRepository
	questionRepo   secondary.QuestionRepository
	submissionRepo secondary.SubmissionRepository
	logger         primary.Logger
}

// NewAttemptService creates a new attempt service
func NewAttemptService(
	attemptRepo secondary.AttemptRepository,
	questionRepo secondary.QuestionRepository,
	submissionRepo secondary.SubmissionRepository,
	logger primary.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo:    attemptRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		logger:         logger,
	}
}

// StartAttempt opens a timed attempt using the test's configured duration
func (s *AttemptService) StartAttempt(ctx context.Context, userID, testID uuid.UUID) (*domain.Attempt, error) {
	test, err := s.questionRepo.GetTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	if test == nil {
		return nil, fmt.Errorf("test not found: %s", testID)
	}

	duration := defaultTestDuration
	if test.TimeLimitMinutes > 0 {
		duration = time.Duration(test.TimeLimitMinutes) * time.Minute
	}

	attempt := domain.NewAttempt(userID, testID, duration)
	if err := s.attemptRepo.SaveAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	s.logger.Info("Attempt started", "attemptId", attempt.ID, "testId", testID, "endsAt", attempt.EndsAt)
	return attempt, nil
}

// FinalizeAttempt closes an active attempt. The final score is recomputed
// in full from stored submit history rather than trusted from the running
// total, so a retried or partially failed submit can never leave the
// attempt under- or over-credited.
func (s *AttemptService) FinalizeAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*FinalizeResult, error) {
	attempt, err := s.attemptRepo.GetActiveAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt == nil {
		return nil, errs.InvalidAttempt
	}

	now := time.Now()
	status := domain.AttemptStatusSubmitted
	if attempt.Expired(now) {
		status = domain.AttemptStatusAutoSubmitted
	}

	score, err := s.computeFinalScore(ctx, attempt)
	if err != nil {
		return nil, err
	}

	maxScore, err := s.questionRepo.GetTestMaxScore(ctx, attempt.TestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max score: %w", err)
	}

	if err := s.attemptRepo.FinalizeAttempt(ctx, attemptID, status, score, maxScore, now); err != nil {
		return nil, fmt.Errorf("failed to finalize attempt: %w", err)
	}

	s.logger.Info("Attempt finalized", "attemptId", attemptID, "status", status, "score", score, "maxScore", maxScore)

	return &FinalizeResult{
		Status:      status,
		Score:       score,
		MaxScore:    maxScore,
		SubmittedAt: now.UTC().Format(time.RFC3339),
	}, nil
}

// computeFinalScore sums the best submit-run score per question
func (s *AttemptService) computeFinalScore(ctx context.Context, attempt *domain.Attempt) (int, error) {
	submissions, err := s.submissionRepo.GetAttemptSubmitHistory(ctx, attempt.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to get submit history: %w", err)
	}

	bestByQuestion := make(map[uuid.UUID]int)
	pointsByQuestion := make(map[uuid.UUID]int)

	for _, sub := range submissions {
		points, ok := pointsByQuestion[sub.QuestionID]
		if !ok {
			points, err = s.questionRepo.GetQuestionPoints(ctx, attempt.TestID, sub.QuestionID)
			if err != nil {
				return 0, fmt.Errorf("failed to get question points: %w", err)
			}
			pointsByQuestion[sub.QuestionID] = points
		}

		score := domain.QuestionScore(points, sub.PassedCount, sub.TotalCount)
		if score > bestByQuestion[sub.QuestionID] {
			bestByQuestion[sub.QuestionID] = score
		}
	}

	total := 0
	for _, score := range bestByQuestion {
		total += score
	}
	return total, nil
}
