package judge0

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/examcore-2026.net/internal/domain"
	"gitlab.com/examcore-2026.net/internal/static/errs"
)

// pollForResult queries a submitted job until the executor reports a
// terminal status. Polling backs off exponentially and gives up after the
// attempt budget: the executor is shared infrastructure, and an unbounded
// poll on an overloaded instance would hang the caller forever.
func (c *Client) pollForResult(ctx context.Context, token string) (*domain.ExecutionResult, error) {
	interval := c.cfg.PollInitialInterval

	for attempt := 0; attempt < c.cfg.PollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		result, err := c.fetchResult(ctx, token)
		if err != nil {
			return nil, err
		}

		if result.Terminal() {
			return result, nil
		}

		interval = time.Duration(float64(interval) * c.cfg.PollMultiplier)
		if interval > c.cfg.PollMaxInterval {
			interval = c.cfg.PollMaxInterval
		}
	}

	return nil, fmt.Errorf("%w: job %s still pending after %d polls", errs.ExecutionTimeout, token, c.cfg.PollMaxAttempts)
}
