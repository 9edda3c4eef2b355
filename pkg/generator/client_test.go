package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"autoblog-go/pkg/limiter"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (fc *fakeClock) Now() time.Time {
	return fc.now
}

func (fc *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fc.sleeps = append(fc.sleeps, d)
	fc.now = fc.now.Add(d)
	return nil
}

// scriptedProvider replays a fixed sequence of results.
type scriptedProvider struct {
	results []func() (string, error)
	calls   int
}

func (sp *scriptedProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if sp.calls >= len(sp.results) {
		return "", errors.New("unexpected extra call")
	}
	res := sp.results[sp.calls]
	sp.calls++
	return res()
}

func rateLimited() (string, error) {
	return "", fmt.Errorf("%w: http 429", ErrRateLimited)
}

func newTestClient(provider Provider, clock *fakeClock) *Client {
	rl := limiter.NewRequestLimiterWithClock(limiter.DefaultConfig(), clock)
	return NewClientWithClock(provider, rl, DefaultConfig(), clock)
}

func TestClient_SuccessFirstAttempt(t *testing.T) {
	provider := &scriptedProvider{results: []func() (string, error){
		func() (string, error) { return "## 제목\n본문 내용입니다.", nil },
	}}
	clock := newFakeClock()
	client := newTestClient(provider, clock)

	raw, err := client.Generate(context.Background(), "AI")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.Contains(raw, "본문") {
		t.Errorf("unexpected completion: %q", raw)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}
}

func TestClient_RetriesAfterRateLimit(t *testing.T) {
	provider := &scriptedProvider{results: []func() (string, error){
		rateLimited,
		func() (string, error) { return "## 제목\n두 번째 시도 결과입니다.", nil },
	}}
	clock := newFakeClock()
	client := newTestClient(provider, clock)

	if _, err := client.Generate(context.Background(), "AI"); err != nil {
		t.Fatalf("expected success on retry, got %v", err)
	}

	if len(clock.sleeps) != 1 || clock.sleeps[0] != 10*time.Second {
		t.Errorf("expected single 10s backoff, got %v", clock.sleeps)
	}
}

func TestClient_LinearBackoffThenUnavailable(t *testing.T) {
	// Rate-limited twice in a row: 10s and 20s waits, then Unavailable.
	provider := &scriptedProvider{results: []func() (string, error){
		rateLimited,
		rateLimited,
	}}
	clock := newFakeClock()
	client := newTestClient(provider, clock)

	_, err := client.Generate(context.Background(), "AI")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	want := []time.Duration{10 * time.Second, 20 * time.Second}
	if len(clock.sleeps) != len(want) {
		t.Fatalf("expected backoffs %v, got %v", want, clock.sleeps)
	}
	for i, w := range want {
		if clock.sleeps[i] != w {
			t.Errorf("backoff %d: expected %v, got %v", i, w, clock.sleeps[i])
		}
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 attempts total, got %d", provider.calls)
	}
}

func TestClient_HardErrorNotRetried(t *testing.T) {
	provider := &scriptedProvider{results: []func() (string, error){
		func() (string, error) { return "", errors.New("invalid api key") },
	}}
	clock := newFakeClock()
	client := newTestClient(provider, clock)

	_, err := client.Generate(context.Background(), "AI")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("hard errors must not be retried, got %d calls", provider.calls)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("hard errors must not back off, got %v", clock.sleeps)
	}
}

func TestClient_QuotaExhaustedSkipsProvider(t *testing.T) {
	provider := &scriptedProvider{}
	clock := newFakeClock()
	rl := limiter.NewRequestLimiterWithClock(
		limiter.Config{MinInterval: 7 * time.Second, MaxDailyRequests: 1}, clock)
	client := NewClientWithClock(provider, rl, DefaultConfig(), clock)

	// First call spends the whole daily budget.
	provider.results = []func() (string, error){
		func() (string, error) { return "## 제목\n첫 번째 결과입니다.", nil },
	}
	if _, err := client.Generate(context.Background(), "AI"); err != nil {
		t.Fatalf("first generate failed: %v", err)
	}

	_, err := client.Generate(context.Background(), "AI")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on quota exhaustion, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider must not be called past the quota, got %d calls", provider.calls)
	}
}

func TestClient_EmptyCompletionIsUnavailable(t *testing.T) {
	provider := &scriptedProvider{results: []func() (string, error){
		func() (string, error) { return "   \n ", nil },
	}}
	clock := newFakeClock()
	client := newTestClient(provider, clock)

	_, err := client.Generate(context.Background(), "AI")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for empty completion, got %v", err)
	}
}

func TestBuildPrompt_ContainsKeyword(t *testing.T) {
	prompt := BuildPrompt("쿠버네티스")
	if got := strings.Count(prompt, "쿠버네티스"); got != 3 {
		t.Errorf("expected keyword in all 3 template slots, got %d", got)
	}
}
