// package judge0 contains the client for the remote sandboxed execution service
package judge0

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"gitlab.com/examcore-2026.net/internal/config"
	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/domain"
	"gitlab.com/examcore-2026.net/internal/static/errs"
)

var _ secondary.CodeExecutor = (*Client)(nil)

// deniedPatterns rejects code reaching for the host OS before it ever
// leaves the process. The sandbox is the real boundary; this only keeps
// obviously hostile submissions off the wire.
var deniedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bos\.system\s*\(`),
	regexp.MustCompile(`\bsubprocess\b`),
	regexp.MustCompile(`\beval\s*\(`),
	regexp.MustCompile(`\bexec[lv]?p?e?\s*\(`),
	regexp.MustCompile(`\bfork\s*\(`),
	regexp.MustCompile(`\bpopen\s*\(`),
	regexp.MustCompile(`\bsystem\s*\(`),
	regexp.MustCompile(`Runtime\.getRuntime`),
	regexp.MustCompile(`ProcessBuilder`),
	regexp.MustCompile(`child_process`),
}

// Client executes batches of test cases against a pool of remote execution
// endpoints, with failover between endpoints and an LRU cache of verdicts
// for previously seen (language, code, input) triples.
type Client struct {
	cfg        *config.ExecutorConfig
	httpClient *http.Client
	logger     primary.Logger

	cache *lru.Cache[string, domain.TestVerdict]

	mu      sync.Mutex
	current int
}

// NewClient creates a new execution client over the configured endpoint pool
func NewClient(cfg *config.ExecutorConfig, logger primary.Logger) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("no executor endpoints configured")
	}

	cache, err := lru.New[string, domain.TestVerdict](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create verdict cache: %w", err)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
		cache:      cache,
	}, nil
}

// ExecuteCode dispatches one job per test case concurrently and returns the
// verdicts in test-case order. A single stuck or errored case becomes an
// error verdict without aborting its siblings; an exhausted endpoint pool
// aborts the whole call.
func (c *Client) ExecuteCode(ctx context.Context, code, language string, testCases []*domain.TestCase) ([]domain.TestVerdict, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}

	languageID, ok := domain.LanguageID(language)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.UnsupportedLanguage, language)
	}

	verdicts := make([]domain.TestVerdict, len(testCases))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, tc := range testCases {
		i, tc := i, tc
		group.Go(func() error {
			verdict, err := c.runTestCase(groupCtx, code, language, languageID, tc)
			if err != nil {
				if errors.Is(err, errs.ExecutionUnavailable) || errors.Is(err, context.Canceled) {
					return err
				}
				c.logger.Warn("Test case execution failed", "caseOrder", tc.OrderIndex, "error", err)
				verdicts[i] = domain.ErrorVerdict(tc)
				return nil
			}
			verdicts[i] = verdict
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return verdicts, nil
}

// runTestCase resolves one test case to a verdict, consulting the cache
// before going to the network. Only passing verdicts are cached: failing
// code is usually edited and resubmitted, so a stale failure would mask
// the fix.
func (c *Client) runTestCase(ctx context.Context, code, language string, languageID int, testCase *domain.TestCase) (domain.TestVerdict, error) {
	key := cacheKey(language, code, testCase.Input)
	if verdict, ok := c.cache.Get(key); ok {
		c.logger.Debug("Verdict cache hit", "caseOrder", testCase.OrderIndex)
		verdict.CaseOrder = testCase.OrderIndex
		return verdict, nil
	}

	job := &domain.ExecutionJob{
		SourceCode:     code,
		LanguageID:     languageID,
		Stdin:          testCase.Input,
		ExpectedOutput: testCase.ExpectedOutput,
		CPUTimeLimit:   c.cfg.CPUTimeLimitSec,
		MemoryLimit:    c.cfg.MemoryLimitKB,
		EnableNetwork:  false,
	}

	handle, err := c.submitJob(ctx, job)
	if err != nil {
		return domain.TestVerdict{}, err
	}

	result, err := c.pollForResult(ctx, handle.Token)
	if err != nil {
		return domain.TestVerdict{}, err
	}

	verdict := domain.EvaluateVerdict(result, testCase)
	if verdict.Passed {
		c.cache.Add(key, verdict)
	}

	return verdict, nil
}

// TestConnection probes each endpoint in order with a short timeout. The
// first endpoint that answers becomes current.
func (c *Client) TestConnection(ctx context.Context) (bool, string) {
	for i, endpoint := range c.cfg.Endpoints {
		probeCtx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
		req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, endpoint+"/languages", nil)
		if err != nil {
			cancel()
			continue
		}

		resp, err := c.httpClient.Do(req)
		cancel()
		if err != nil {
			c.logger.Warn("Executor probe failed", "endpoint", endpoint, "error", err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.mu.Lock()
			c.current = i
			c.mu.Unlock()
			return true, endpoint
		}
	}

	return false, ""
}

// submitJob posts a job to the executor and returns its handle
func (c *Client) submitJob(ctx context.Context, job *domain.ExecutionJob) (*domain.JobHandle, error) {
	var handle domain.JobHandle
	if err := c.doRequest(ctx, http.MethodPost, "/submissions", job, &handle); err != nil {
		return nil, err
	}
	if handle.Token == "" {
		return nil, fmt.Errorf("executor returned an empty job token")
	}
	return &handle, nil
}

// fetchResult reads the current state of a submitted job
func (c *Client) fetchResult(ctx context.Context, token string) (*domain.ExecutionResult, error) {
	var result domain.ExecutionResult
	if err := c.doRequest(ctx, http.MethodGet, "/submissions/"+token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doRequest performs one logical request against the endpoint pool. Any
// failure advances the current endpoint (wrap-around) and retries the same
// request until the retry budget runs out.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.RetryBudget; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		endpoint := c.currentEndpoint()
		err := c.tryEndpoint(ctx, endpoint, method, path, body, out)
		if err == nil {
			return nil
		}

		lastErr = err
		c.logger.Warn("Executor request failed, rotating endpoint",
			"endpoint", endpoint, "method", method, "path", path, "error", err)
		c.advance(endpoint)
	}

	return fmt.Errorf("%w: %v", errs.ExecutionUnavailable, lastErr)
}

func (c *Client) tryEndpoint(ctx context.Context, endpoint, method, path string, body, out interface{}) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("executor returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode executor response: %w", err)
		}
	}

	return nil
}

func (c *Client) currentEndpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Endpoints[c.current]
}

// advance rotates away from a failed endpoint. Concurrent jobs may race to
// rotate; last writer wins, which only affects where the next request
// starts.
func (c *Client) advance(failed string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.Endpoints[c.current] == failed {
		c.current = (c.current + 1) % len(c.cfg.Endpoints)
	}
}

// validateCode rejects empty or deny-listed source before any network call
func validateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errs.EmptyCode
	}
	for _, pattern := range deniedPatterns {
		if pattern.MatchString(code) {
			return fmt.Errorf("%w: %s", errs.DangerousCode, pattern.String())
		}
	}
	return nil
}

// cacheKey hashes the code and input so large sources do not blow up the
// cache's key space.
func cacheKey(language, code, input string) string {
	codeHash := sha256.Sum256([]byte(code))
	inputHash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%s:%x:%x", language, codeHash, inputHash)
}
