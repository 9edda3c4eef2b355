package limiter

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock advances instantly on Sleep so quota behavior can be tested
// without real waiting.
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

func (fc *fakeClock) advance(d time.Duration) {
	fc.now = fc.now.Add(d)
}

func TestRequestLimiter_SpacingDelay(t *testing.T) {
	clock := newFakeClock()
	rl := NewRequestLimiterWithClock(DefaultConfig(), clock)
	ctx := context.Background()

	if err := rl.Admit(ctx); err != nil {
		t.Fatalf("first admit failed: %v", err)
	}
	first := clock.Now()

	// Second call 2s later must be delayed until 7s have elapsed.
	clock.advance(2 * time.Second)
	if err := rl.Admit(ctx); err != nil {
		t.Fatalf("second admit failed: %v", err)
	}

	if len(clock.sleeps) != 1 {
		t.Fatalf("expected 1 spacing sleep, got %d", len(clock.sleeps))
	}
	if clock.sleeps[0] != 5*time.Second {
		t.Errorf("expected 5s spacing sleep, got %v", clock.sleeps[0])
	}
	if elapsed := clock.Now().Sub(first); elapsed < 7*time.Second {
		t.Errorf("second request admitted after %v, want >= 7s", elapsed)
	}
}

func TestRequestLimiter_NoDelayAfterInterval(t *testing.T) {
	clock := newFakeClock()
	rl := NewRequestLimiterWithClock(DefaultConfig(), clock)
	ctx := context.Background()

	if err := rl.Admit(ctx); err != nil {
		t.Fatalf("first admit failed: %v", err)
	}

	clock.advance(8 * time.Second)
	if err := rl.Admit(ctx); err != nil {
		t.Fatalf("second admit failed: %v", err)
	}

	if len(clock.sleeps) != 0 {
		t.Errorf("expected no sleeps, got %v", clock.sleeps)
	}
}

func TestRequestLimiter_DailyQuotaAndReset(t *testing.T) {
	clock := newFakeClock()
	rl := NewRequestLimiterWithClock(DefaultConfig(), clock)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		if err := rl.Admit(ctx); err != nil {
			t.Fatalf("admit %d failed: %v", i+1, err)
		}
		clock.advance(7 * time.Second)
	}

	err := rl.Admit(ctx)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded at request 201, got %v", err)
	}

	// Next calendar day: quota resets and the first admit counts as 1.
	clock.advance(24 * time.Hour)
	if err := rl.Admit(ctx); err != nil {
		t.Fatalf("admit after reset failed: %v", err)
	}

	state := rl.Snapshot()
	if state.DailyCount != 1 {
		t.Errorf("expected daily count 1 after reset, got %d", state.DailyCount)
	}
}

func TestRequestLimiter_QuotaFailureDoesNotBlock(t *testing.T) {
	clock := newFakeClock()
	rl := NewRequestLimiterWithClock(Config{MinInterval: 7 * time.Second, MaxDailyRequests: 1}, clock)
	ctx := context.Background()

	if err := rl.Admit(ctx); err != nil {
		t.Fatalf("first admit failed: %v", err)
	}

	// Quota check fires before spacing, so no sleep is recorded.
	if err := rl.Admit(ctx); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("quota rejection must not sleep, got sleeps %v", clock.sleeps)
	}
}

func TestRequestLimiter_ContextCancelledDuringWait(t *testing.T) {
	clock := newFakeClock()
	rl := NewRequestLimiterWithClock(DefaultConfig(), clock)

	if err := rl.Admit(context.Background()); err != nil {
		t.Fatalf("first admit failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Admit(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// blockingClock parks Sleep until released so behavior during the spacing
// wait can be observed.
type blockingClock struct {
	now      time.Time
	sleeping chan struct{}
	release  chan struct{}
}

func (bc *blockingClock) Now() time.Time {
	return bc.now
}

func (bc *blockingClock) Sleep(ctx context.Context, d time.Duration) error {
	close(bc.sleeping)
	<-bc.release
	bc.now = bc.now.Add(d)
	return nil
}

func TestRequestLimiter_SnapshotDuringSpacingWait(t *testing.T) {
	clock := &blockingClock{
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		sleeping: make(chan struct{}),
		release:  make(chan struct{}),
	}
	rl := NewRequestLimiterWithClock(DefaultConfig(), clock)
	ctx := context.Background()

	if err := rl.Admit(ctx); err != nil {
		t.Fatalf("first admit failed: %v", err)
	}

	admitDone := make(chan error, 1)
	go func() { admitDone <- rl.Admit(ctx) }()

	<-clock.sleeping

	snapDone := make(chan State, 1)
	go func() { snapDone <- rl.Snapshot() }()

	select {
	case state := <-snapDone:
		if state.DailyCount != 1 {
			t.Errorf("expected daily count 1 mid-wait, got %d", state.DailyCount)
		}
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked during the spacing wait")
	}

	close(clock.release)
	if err := <-admitDone; err != nil {
		t.Fatalf("second admit failed: %v", err)
	}
}
