package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/domain"
)

// RateLimiter bounds run/submit requests per attempt over a sliding window
type RateLimiter interface {
	// Allow records one request and reports whether it fits the window
	Allow(ctx context.Context, attemptID uuid.UUID, runType domain.RunType) (bool, error)
}
