// package ratelimitport contains the Redis implementation of the sliding
// window rate limiter
package ratelimitport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/examcore-2026.net/internal/config"
	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/domain"
)

const rateLimitKeyPrefix = "ratelimit:"

var _ secondary.RateLimiter = (*RateLimiter)(nil)

// RateLimiter implements a sliding-window limiter over a Redis sorted set
// per (attempt, run type). Members are timestamped request markers; the
// window slides by pruning members older than the window before counting.
type RateLimiter struct {
	redisClient *redis.Client
	cfg         *config.RateLimitConfig
	logger      primary.Logger
}

// NewRateLimiter creates a new Redis rate limiter
func NewRateLimiter(redisClient *redis.Client, cfg *config.RateLimitConfig, logger primary.Logger) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
	}
}

// Allow records one request for the attempt and reports whether it fits the
// window. Runs and submits are limited independently.
func (r *RateLimiter) Allow(ctx context.Context, attemptID uuid.UUID, runType domain.RunType) (bool, error) {
	limit := r.cfg.RunLimit
	if runType == domain.RunTypeSubmit {
		limit = r.cfg.SubmitLimit
	}

	key := fmt.Sprintf("%s%s:%s", rateLimitKeyPrefix, attemptID, runType)
	now := time.Now()
	windowStart := now.Add(-r.cfg.Window)

	if err := r.redisClient.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano())).Err(); err != nil {
		r.logger.Error("Failed to prune rate limit window", "key", key, "error", err)
		return false, fmt.Errorf("failed to prune rate limit window: %w", err)
	}

	count, err := r.redisClient.ZCard(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to count rate limit window", "key", key, "error", err)
		return false, fmt.Errorf("failed to count rate limit window: %w", err)
	}

	if count >= int64(limit) {
		return false, nil
	}

	member := fmt.Sprintf("%d:%s", now.UnixNano(), uuid.NewString())
	if err := r.redisClient.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: member,
	}).Err(); err != nil {
		r.logger.Error("Failed to record rate limit entry", "key", key, "error", err)
		return false, fmt.Errorf("failed to record rate limit entry: %w", err)
	}

	// Keys for finished attempts should not linger.
	if err := r.redisClient.Expire(ctx, key, r.cfg.Window).Err(); err != nil {
		r.logger.Error("Failed to set rate limit expiry", "key", key, "error", err)
	}

	return true, nil
}
