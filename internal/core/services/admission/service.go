package admission

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/domain"
)

// ExecRequest is an execution request awaiting admission
type ExecRequest struct {
	AttemptID  uuid.UUID
	QuestionID uuid.UUID
	Language   string
	Code       string
	RunType    domain.RunType
}

// Grant is the admitted request context: the validated attempt, the
// question, and the test cases the run type is allowed to see
type Grant struct {
	Attempt   *domain.Attempt
	Question  *domain.Question
	TestCases []*domain.TestCase
}

// IAdmissionService decides whether an execution request may run
type IAdmissionService interface {
	// Admit validates the request against the caller's attempt, the
	// question, the executor's language support, and the rate limit.
	// Rejections are *errs.AdmissionError values.
	Admit(ctx context.Context, userID uuid.UUID, req *ExecRequest) (*Grant, error)
}
