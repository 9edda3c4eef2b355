package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autoblog-go/pkg/limiter"
	"autoblog-go/pkg/logger"
)

// Config controls the retry behavior of the client.
type Config struct {
	MaxAttempts int           `json:"max_attempts"`
	BackoffUnit time.Duration `json:"backoff_unit"`
}

// DefaultConfig allows two attempts with a linear 10s backoff unit, i.e.
// 10s after the first rate-limited attempt, 20s after the second.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 2,
		BackoffUnit: 10 * time.Second,
	}
}

// Client wraps a Provider with quota admission and bounded retry on
// transient rate limits. It returns raw text verbatim; acceptability is the
// quality gate's concern.
type Client struct {
	provider Provider
	limiter  *limiter.RequestLimiter
	config   Config
	clock    limiter.Clock
	log      *logger.Logger
}

// NewClient builds a client using the real clock.
func NewClient(provider Provider, rl *limiter.RequestLimiter, config Config) *Client {
	return NewClientWithClock(provider, rl, config, limiter.SystemClock())
}

// NewClientWithClock injects the clock used for backoff waits.
func NewClientWithClock(provider Provider, rl *limiter.RequestLimiter, config Config, clock limiter.Clock) *Client {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if config.BackoffUnit <= 0 {
		config.BackoffUnit = DefaultConfig().BackoffUnit
	}
	return &Client{
		provider: provider,
		limiter:  rl,
		config:   config,
		clock:    clock,
		log:      logger.GetLogger().WithComponent("generator_client"),
	}
}

// Generate produces raw text for a keyword. A quota rejection from the
// limiter becomes ErrUnavailable immediately, with no provider call.
// Rate-limited attempts are retried with linear backoff (attempt * unit);
// any other provider error, or exhaustion of all attempts, also yields
// ErrUnavailable.
func (c *Client) Generate(ctx context.Context, keyword string) (string, error) {
	if err := c.limiter.Admit(ctx); err != nil {
		if errors.Is(err, limiter.ErrQuotaExceeded) {
			c.log.WithField("keyword", keyword).Error("Daily quota exhausted")
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}

	prompt := BuildPrompt(keyword)

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		raw, err := c.provider.Complete(ctx, prompt)
		if err == nil {
			if strings.TrimSpace(raw) == "" {
				return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
			}
			c.log.WithFields(map[string]interface{}{
				"keyword": keyword,
				"attempt": attempt,
			}).Info("Completion received")
			return raw, nil
		}

		if !errors.Is(err, ErrRateLimited) {
			c.log.WithError(err).WithField("keyword", keyword).Error("Provider failure")
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		wait := time.Duration(attempt) * c.config.BackoffUnit
		c.log.WithFields(map[string]interface{}{
			"keyword": keyword,
			"attempt": attempt,
			"wait":    wait.String(),
		}).Warn("Provider rate limited, backing off")
		if serr := c.clock.Sleep(ctx, wait); serr != nil {
			return "", serr
		}
	}

	return "", fmt.Errorf("%w: rate limit retries exhausted", ErrUnavailable)
}
