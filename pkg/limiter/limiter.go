package limiter

import (
	"context"
	"errors"
	"sync"
	"time"

	"autoblog-go/pkg/logger"
)

// ErrQuotaExceeded is returned by Admit when the daily request ceiling has
// been reached for the current date. It does not block; the caller decides
// how to degrade.
var ErrQuotaExceeded = errors.New("daily request quota exceeded")

// Config holds request spacing and daily quota settings.
type Config struct {
	MinInterval      time.Duration `json:"min_interval"`
	MaxDailyRequests int           `json:"max_daily_requests"`
}

// DefaultConfig matches the provider quota the system was tuned for:
// at most one request every 7 seconds, at most 200 per calendar day.
func DefaultConfig() Config {
	return Config{
		MinInterval:      7 * time.Second,
		MaxDailyRequests: 200,
	}
}

// State is a snapshot of the limiter counters for observability.
type State struct {
	LastRequestTime time.Time `json:"last_request_time"`
	DailyCount      int       `json:"daily_count"`
	ResetDate       string    `json:"reset_date"`
}

// RequestLimiter enforces minimum spacing between generator requests and a
// daily ceiling. The daily counter lives in memory only; it restarts at zero
// with the process, which is accepted behavior.
type RequestLimiter struct {
	config Config
	clock  Clock
	log    *logger.Logger

	mu          sync.Mutex
	lastRequest time.Time
	dailyCount  int
	resetDate   time.Time // truncated to a calendar date
}

// NewRequestLimiter creates a limiter using the real clock.
func NewRequestLimiter(config Config) *RequestLimiter {
	return NewRequestLimiterWithClock(config, SystemClock())
}

// NewRequestLimiterWithClock creates a limiter with an injected clock so
// tests can simulate time passage.
func NewRequestLimiterWithClock(config Config, clock Clock) *RequestLimiter {
	if config.MinInterval <= 0 {
		config.MinInterval = DefaultConfig().MinInterval
	}
	if config.MaxDailyRequests <= 0 {
		config.MaxDailyRequests = DefaultConfig().MaxDailyRequests
	}
	return &RequestLimiter{
		config:    config,
		clock:     clock,
		log:       logger.GetLogger().WithComponent("request_limiter"),
		resetDate: dateOf(clock.Now()),
	}
}

// Admit blocks until a request is permissible, then records the attempt.
// It returns ErrQuotaExceeded without blocking once the daily ceiling is
// reached, and the context error if the caller is cancelled mid-wait.
func (rl *RequestLimiter) Admit(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := rl.clock.Now()

		// Date rollover is checked on every call, not on a background timer.
		if today := dateOf(now); !today.Equal(rl.resetDate) {
			rl.dailyCount = 0
			rl.resetDate = today
			rl.log.WithField("reset_date", today.Format("2006-01-02")).Info("Daily request quota reset")
		}

		if rl.dailyCount >= rl.config.MaxDailyRequests {
			rl.log.WithFields(map[string]interface{}{
				"daily_count": rl.dailyCount,
				"max_daily":   rl.config.MaxDailyRequests,
			}).Error("Daily request quota exhausted")
			rl.mu.Unlock()
			return ErrQuotaExceeded
		}

		var wait time.Duration
		if !rl.lastRequest.IsZero() {
			if elapsed := now.Sub(rl.lastRequest); elapsed < rl.config.MinInterval {
				wait = rl.config.MinInterval - elapsed
			}
		}

		if wait <= 0 {
			rl.lastRequest = now
			rl.dailyCount++
			rl.log.WithFields(map[string]interface{}{
				"request_no": rl.dailyCount,
				"max_daily":  rl.config.MaxDailyRequests,
			}).Debug("Request admitted")
			rl.mu.Unlock()
			return nil
		}

		// Sleep without holding the lock so Snapshot callers are not
		// blocked behind the spacing wait. The loop re-checks afterwards
		// in case another caller won the slot meanwhile.
		rl.mu.Unlock()
		rl.log.WithField("wait", wait.String()).Debug("Spacing delay before next request")
		if err := rl.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Snapshot returns the current limiter state.
func (rl *RequestLimiter) Snapshot() State {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return State{
		LastRequestTime: rl.lastRequest,
		DailyCount:      rl.dailyCount,
		ResetDate:       rl.resetDate.Format("2006-01-02"),
	}
}

// DailyLimit returns the configured daily request ceiling.
func (rl *RequestLimiter) DailyLimit() int {
	return rl.config.MaxDailyRequests
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
