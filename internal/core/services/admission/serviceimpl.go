package admission

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

var _ IAdmissionService = (*AdmissionService)(nil)

// AdmissionService implements the admission checks in a fixed order, each
// with its own rejection code so the client can render a precise message
type AdmissionService struct {
	attemptRepo  secondary.AttemptRepository
	questionRepo secondary.QuestionRepository
	rateLimiter  secondary.RateLimiter
	logger       primary.Logger
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(
	attemptRepo secondary.AttemptRepository,
	questionRepo secondary.QuestionRepository,
	rateLimiter secondary.RateLimiter,
	logger primary.Logger,
) *AdmissionService {
	return &AdmissionService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

// Admit validates an execution request before it reaches the executor
func (s *AdmissionService) Admit(ctx context.Context, userID uuid.UUID, req *ExecRequest) (*Grant, error) {
	attempt, err := s.attemptRepo.GetActiveAttempt(ctx, req.AttemptID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate attempt: %w", err)
	}
	if attempt == nil {
		return nil, errs.InvalidAttempt
	}

	if attempt.Expired(time.Now()) {
		// The window closed while the attempt was still active; close it
		// now so later requests fail fast on the status check.
		if err := s.attemptRepo.MarkAutoSubmitted(ctx, attempt.ID, time.Now()); err != nil {
			s.logger.Error("Failed to auto-submit expired attempt", "attemptId", attempt.ID, "error", err)
		}
		return nil, errs.TimeExpired
	}

	question, err := s.questionRepo.GetQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate question: %w", err)
	}
	if question == nil {
		return nil, errs.QuestionNotFound
	}

	if !question.AllowsLanguage(req.Language) {
		return nil, errs.LangNotAllowed
	}

	if _, ok := domain.LanguageID(req.Language); !ok {
		return nil, errs.LangNotSupported
	}

	allowed, err := s.rateLimiter.Allow(ctx, attempt.ID, req.RunType)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		s.logger.Warn("Rate limited", "attemptId", attempt.ID, "runType", req.RunType)
		return nil, errs.RateLimited
	}

	publicOnly := req.RunType == domain.RunTypeRun
	testCases, err := s.questionRepo.GetTestCases(ctx, question.ID, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	if len(testCases) == 0 {
		return nil, errs.NoTestCases
	}

	return &Grant{
		Attempt:   attempt,
		Question:  question,
		TestCases: testCases,
	}, nil
}
