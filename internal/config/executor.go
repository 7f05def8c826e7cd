package config

import (
	"strings"
	"time"
)

// ExecutorConfig holds the remote execution service settings. Endpoints is
// an ordered pool; the first one that answers becomes current and later
// failures rotate through the rest.
type ExecutorConfig struct {
	Endpoints []string

	ProbeTimeout   time.Duration
	RequestTimeout time.Duration

	PollInitialInterval time.Duration
	PollMaxInterval     time.Duration
	PollMultiplier      float64
	PollMaxAttempts     int

	RetryBudget int
	CacheSize   int

	CPUTimeLimitSec float64
	MemoryLimitKB   int
}

func NewExecutorConfig() *ExecutorConfig {
	urls := getEnv("EXECUTOR_URLS", "http://localhost:2358")
	endpoints := make([]string, 0, 2)
	for _, u := range strings.Split(urls, ",") {
		u = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(u), "/"))
		if u != "" {
			endpoints = append(endpoints, u)
		}
	}

	return &ExecutorConfig{
		Endpoints:           endpoints,
		ProbeTimeout:        3 * time.Second,
		RequestTimeout:      5 * time.Second,
		PollInitialInterval: 200 * time.Millisecond,
		PollMaxInterval:     2 * time.Second,
		PollMultiplier:      1.5,
		PollMaxAttempts:     30,
		RetryBudget:         2,
		CacheSize:           100,
		CPUTimeLimitSec:     2,
		MemoryLimitKB:       128000,
	}
}
