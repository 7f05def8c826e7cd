package grading

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/domain"
)

var _ IGradingService = (*GradingService)(nil)

// GradingService implements the grading reconciler
type GradingService struct {
	submissionRepo secondary.SubmissionRepository
	gradingRepo    secondary.GradingRepository
	questionRepo   secondary.QuestionRepository
	logger         primary.Logger
}

// NewGradingService creates a new grading service
func NewGradingService(
	submissionRepo secondary.SubmissionRepository,
	gradingRepo secondary.GradingRepository,
	questionRepo secondary.QuestionRepository,
	logger primary.Logger,
) *GradingService {
	return &GradingService{
		submissionRepo: submissionRepo,
		gradingRepo:    gradingRepo,
		questionRepo:   questionRepo,
		logger:         logger,
	}
}

// RecordSubmission persists the submission and reconciles the attempt score
func (s *GradingService) RecordSubmission(ctx context.Context, attempt *domain.Attempt, questionID uuid.UUID, language, code string, runType domain.RunType, verdicts []domain.TestVerdict) (*Outcome, error) {
	submission := domain.NewSubmission(attempt.ID, questionID, language, code, runType, verdicts)
	caseResults := submission.CaseResults(verdicts)

	if err := s.submissionRepo.SaveSubmission(ctx, submission, caseResults); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	outcome := &Outcome{
		SubmissionID: submission.ID,
		PassedCount:  submission.PassedCount,
		TotalCount:   submission.TotalCount,
		Verdict:      submission.Verdict,
		TimeMS:       submission.TimeMS,
		MemoryKB:     submission.MemoryKB,
		Verdicts:     verdicts,
		AttemptScore: attempt.Score,
	}

	if runType != domain.RunTypeSubmit {
		return outcome, nil
	}

	points, err := s.questionRepo.GetQuestionPoints(ctx, attempt.TestID, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up question points: %w", err)
	}

	total, improved, err := s.gradingRepo.ApplyQuestionScore(
		ctx,
		attempt.ID,
		questionID,
		submission.ID,
		points,
		submission.PassedCount,
		submission.TotalCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile attempt score: %w", err)
	}

	if improved {
		s.logger.Info("Attempt score improved",
			"attemptId", attempt.ID,
			"questionId", questionID,
			"submissionId", submission.ID,
			"score", total)
	}

	outcome.AttemptScore = total
	outcome.ScoreImproved = improved
	return outcome, nil
}

// GetSubmission reads a stored submission with its case results
func (s *GradingService) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, []*domain.SubmissionCaseResult, error) {
	submission, err := s.submissionRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, nil, nil
	}

	caseResults, err := s.submissionRepo.GetCaseResults(ctx, submissionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get case results: %w", err)
	}

	return submission, caseResults, nil
}
