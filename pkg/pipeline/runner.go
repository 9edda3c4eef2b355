package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"autoblog-go/pkg/corpus"
	"autoblog-go/pkg/limiter"
	"autoblog-go/pkg/logger"
	"autoblog-go/pkg/notify"
	"autoblog-go/pkg/publish"
)

// RunnerConfig bounds one batch run.
type RunnerConfig struct {
	DailyPostLimit  int
	PublishInterval time.Duration
}

// DefaultRunnerConfig posts at most 3 articles per run, 30 seconds apart.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		DailyPostLimit:  3,
		PublishInterval: 30 * time.Second,
	}
}

// Stats are live counters for the status endpoint.
type Stats struct {
	mu        sync.RWMutex
	Published int
	Fallbacks int
	Failed    int
	LastRunAt time.Time
}

func (s *Stats) record(fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published++
	if fallback {
		s.Fallbacks++
	}
}

func (s *Stats) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed++
}

// Snapshot returns a copy safe to serialize.
func (s *Stats) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"published":   s.Published,
		"fallbacks":   s.Fallbacks,
		"failed":      s.Failed,
		"last_run_at": s.LastRunAt,
	}
}

// Runner walks a keyword batch through the orchestrator, publishes accepted
// drafts with spacing between them, and records each post in the store.
type Runner struct {
	config       RunnerConfig
	orchestrator *Orchestrator
	publisher    publish.Publisher
	store        *corpus.Store
	rateLimiter  *limiter.RequestLimiter
	clock        limiter.Clock
	stats        *Stats
	log          *logger.Logger
}

// NewRunner wires a batch runner.
func NewRunner(config RunnerConfig, o *Orchestrator, p publish.Publisher, store *corpus.Store, rl *limiter.RequestLimiter) *Runner {
	return NewRunnerWithClock(config, o, p, store, rl, limiter.SystemClock())
}

// NewRunnerWithClock is NewRunner with an injectable clock for tests.
func NewRunnerWithClock(config RunnerConfig, o *Orchestrator, p publish.Publisher, store *corpus.Store, rl *limiter.RequestLimiter, clock limiter.Clock) *Runner {
	if config.DailyPostLimit <= 0 {
		config.DailyPostLimit = DefaultRunnerConfig().DailyPostLimit
	}
	return &Runner{
		config:       config,
		orchestrator: o,
		publisher:    p,
		store:        store,
		rateLimiter:  rl,
		clock:        clock,
		stats:        &Stats{},
		log:          logger.GetLogger().WithComponent("runner"),
	}
}

// Stats exposes the live counters for the status endpoint.
func (r *Runner) Stats() *Stats {
	return r.stats
}

// Run produces and publishes posts for the batch, stopping at the daily
// post limit. Keywords that fail to publish are reported but do not abort
// the batch; an exhausted daily API quota ends the run early.
func (r *Runner) Run(ctx context.Context, batch []string) notify.RunReport {
	report := notify.RunReport{StartedAt: r.clock.Now()}
	r.stats.mu.Lock()
	r.stats.LastRunAt = report.StartedAt
	r.stats.mu.Unlock()

	for i, keyword := range batch {
		if len(report.Published) >= r.config.DailyPostLimit {
			r.log.WithField("limit", r.config.DailyPostLimit).Info("Daily post limit reached")
			break
		}
		if i > 0 && r.config.PublishInterval > 0 {
			if err := r.clock.Sleep(ctx, r.config.PublishInterval); err != nil {
				break
			}
		}

		draft, err := r.orchestrator.Produce(ctx, keyword)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			r.stats.recordFailure()
			report.Failed = append(report.Failed, notify.FailedEntry{Keyword: keyword, Reason: err.Error()})
			continue
		}

		post := publish.Post{
			Title:       draft.Title,
			Content:     draft.Content,
			Category:    draft.Category,
			Tags:        draft.Tags,
			Keyword:     keyword,
			PublishedAt: r.clock.Now(),
		}
		if err := r.publisher.Publish(ctx, post); err != nil {
			r.stats.recordFailure()
			r.log.WithField("keyword", keyword).WithError(err).Error("Publish failed")
			report.Failed = append(report.Failed, notify.FailedEntry{Keyword: keyword, Reason: err.Error()})
			continue
		}

		r.persist(ctx, keyword, draft, post)
		r.stats.record(draft.Fallback)
		if draft.Fallback {
			report.Fallbacks++
		}
		report.Published = append(report.Published, notify.PublishedEntry{
			Keyword:  keyword,
			Title:    draft.Title,
			Fallback: draft.Fallback,
		})
	}

	report.FinishedAt = r.clock.Now()
	if r.rateLimiter != nil {
		state := r.rateLimiter.Snapshot()
		report.QuotaUsed = state.DailyCount
		report.QuotaLimit = r.rateLimiter.DailyLimit()
	}
	r.log.WithFields(map[string]interface{}{
		"published": len(report.Published),
		"failed":    len(report.Failed),
		"fallbacks": report.Fallbacks,
	}).Info("Batch run finished")
	return report
}

// persist is best-effort: a post that reached the platform stays published
// even if local bookkeeping fails.
func (r *Runner) persist(ctx context.Context, keyword string, draft *Draft, post publish.Post) {
	if r.store == nil {
		return
	}
	err := r.store.SavePost(ctx, corpus.Post{
		Keyword:     keyword,
		Title:       draft.Title,
		Content:     draft.Content,
		Category:    draft.Category,
		Tags:        draft.Tags,
		PublishedAt: post.PublishedAt,
	})
	if err != nil {
		r.log.WithField("keyword", keyword).WithError(err).Error("Failed to record published post")
	}
	if err := r.store.MarkKeywordUsed(ctx, keyword); err != nil {
		r.log.WithField("keyword", keyword).WithError(err).Debug("Failed to mark keyword used")
	}
}
