package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"autoblog-go/pkg/corpus"
	"autoblog-go/pkg/generator"
	"autoblog-go/pkg/limiter"
	"autoblog-go/pkg/publish"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

type recordingPublisher struct {
	posts   []publish.Post
	failFor map[string]error
}

func (p *recordingPublisher) Publish(ctx context.Context, post publish.Post) error {
	if err := p.failFor[post.Keyword]; err != nil {
		return err
	}
	p.posts = append(p.posts, post)
	return nil
}

func openTestStore(t *testing.T) *corpus.Store {
	t.Helper()
	store, err := corpus.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRunner(t *testing.T, gen Generator, pub publish.Publisher, clock limiter.Clock) *Runner {
	t.Helper()
	o := newTestOrchestrator(gen)
	rl := limiter.NewRequestLimiterWithClock(limiter.DefaultConfig(), clock)
	return NewRunnerWithClock(RunnerConfig{DailyPostLimit: 2, PublishInterval: 30 * time.Second},
		o, pub, openTestStore(t), rl, clock)
}

func TestRunStopsAtDailyPostLimit(t *testing.T) {
	clock := newFakeClock()
	pub := &recordingPublisher{}
	gen := &stubGenerator{err: fmt.Errorf("%w: offline", generator.ErrUnavailable)}
	r := newTestRunner(t, gen, pub, clock)

	report := r.Run(context.Background(), []string{"키워드1", "키워드2", "키워드3", "키워드4"})

	if len(report.Published) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(report.Published))
	}
	if len(pub.posts) != 2 {
		t.Errorf("expected 2 delivered posts, got %d", len(pub.posts))
	}
	if report.Fallbacks != 2 {
		t.Errorf("expected fallback count 2, got %d", report.Fallbacks)
	}
}

func TestRunSpacesPublishes(t *testing.T) {
	clock := newFakeClock()
	pub := &recordingPublisher{}
	gen := &stubGenerator{err: fmt.Errorf("%w: offline", generator.ErrUnavailable)}
	r := newTestRunner(t, gen, pub, clock)

	r.Run(context.Background(), []string{"키워드1", "키워드2"})

	if len(clock.sleeps) != 1 || clock.sleeps[0] != 30*time.Second {
		t.Errorf("expected one 30s spacing sleep, got %v", clock.sleeps)
	}
}

func TestRunRecordsPublishFailures(t *testing.T) {
	clock := newFakeClock()
	pub := &recordingPublisher{failFor: map[string]error{"키워드1": fmt.Errorf("endpoint down")}}
	gen := &stubGenerator{err: fmt.Errorf("%w: offline", generator.ErrUnavailable)}
	r := newTestRunner(t, gen, pub, clock)

	report := r.Run(context.Background(), []string{"키워드1", "키워드2"})

	if len(report.Failed) != 1 || report.Failed[0].Keyword != "키워드1" {
		t.Fatalf("expected 키워드1 failure, got %v", report.Failed)
	}
	if len(report.Published) != 1 || report.Published[0].Keyword != "키워드2" {
		t.Errorf("expected 키워드2 published, got %v", report.Published)
	}
}

func TestRunPersistsPublishedPosts(t *testing.T) {
	clock := newFakeClock()
	pub := &recordingPublisher{}
	gen := &stubGenerator{raw: passingRaw("클라우드")}
	o := newTestOrchestrator(gen)
	store := openTestStore(t)
	r := NewRunnerWithClock(RunnerConfig{DailyPostLimit: 1}, o, pub, store, nil, clock)

	r.Run(context.Background(), []string{"클라우드"})

	contents, err := store.RecentContents(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentContents failed: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 stored post, got %d", len(contents))
	}
}

func TestRunReportsQuotaState(t *testing.T) {
	clock := newFakeClock()
	pub := &recordingPublisher{}
	gen := &stubGenerator{err: fmt.Errorf("%w: offline", generator.ErrUnavailable)}
	r := newTestRunner(t, gen, pub, clock)

	report := r.Run(context.Background(), []string{"키워드1"})

	if report.QuotaLimit != 200 {
		t.Errorf("expected quota limit 200, got %d", report.QuotaLimit)
	}
}

func TestStatsSnapshot(t *testing.T) {
	clock := newFakeClock()
	pub := &recordingPublisher{}
	gen := &stubGenerator{err: fmt.Errorf("%w: offline", generator.ErrUnavailable)}
	r := newTestRunner(t, gen, pub, clock)

	r.Run(context.Background(), []string{"키워드1", "키워드2", "키워드3"})

	snap := r.Stats().Snapshot()
	if snap["published"] != 2 {
		t.Errorf("expected 2 published in stats, got %v", snap["published"])
	}
	if snap["fallbacks"] != 2 {
		t.Errorf("expected 2 fallbacks in stats, got %v", snap["fallbacks"])
	}
}
