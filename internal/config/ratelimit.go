package config

import (
	"strconv"
	"time"
)

type RateLimitConfig struct {
	RunLimit    int
	SubmitLimit int
	Window      time.Duration
}

func NewRateLimitConfig() *RateLimitConfig {
	runLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_RUN", ""))
	if err != nil {
		runLimit = 20
	}
	submitLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_SUBMIT", ""))
	if err != nil {
		submitLimit = 3
	}
	return &RateLimitConfig{
		RunLimit:    runLimit,
		SubmitLimit: submitLimit,
		Window:      60 * time.Second,
	}
}
