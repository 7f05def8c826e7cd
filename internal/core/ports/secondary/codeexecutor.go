package secondary

import (
	"context"

	"gitlab.com/examcore-2026.net/internal/domain"
)

// CodeExecutor runs a batch of test cases for one code submission against
// the remote execution service.
type CodeExecutor interface {
	// ExecuteCode dispatches one job per test case and returns the verdicts
	// in test-case order.
	ExecuteCode(ctx context.Context, code, language string, testCases []*domain.TestCase) ([]domain.TestVerdict, error)

	// TestConnection probes the configured endpoints for liveness and
	// returns the endpoint that answered, if any.
	TestConnection(ctx context.Context) (bool, string)
}
