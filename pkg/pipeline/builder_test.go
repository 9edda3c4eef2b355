package pipeline

import (
	"testing"
	"time"
)

func TestBuilderAssemblesApp(t *testing.T) {
	app, err := NewBuilder().
		WithProvider("sk-test", "gpt-4o-mini", "").
		WithPublisher("https://blog.example.com/api/posts", "key", 30*time.Second).
		WithDataDir(t.TempDir()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer app.Close()

	if app.Runner == nil || app.Collector == nil || app.RateLimiter == nil {
		t.Error("expected fully wired app")
	}
	if app.RateLimiter.DailyLimit() != 200 {
		t.Errorf("expected default daily limit 200, got %d", app.RateLimiter.DailyLimit())
	}
}

func TestBuilderAccumulatesErrors(t *testing.T) {
	_, err := NewBuilder().
		WithProvider("", "", "").
		WithPublisher("", "", 0).
		WithBatchLimits(0, 0).
		Build()
	if err == nil {
		t.Fatal("expected accumulated configuration errors")
	}
}

func TestBuilderOverridesLimits(t *testing.T) {
	b := NewBuilder().WithRateLimits(5*time.Second, 50).WithBatchLimits(2, 10*time.Second)
	if len(b.errors) != 0 {
		t.Fatalf("unexpected errors: %v", b.errors)
	}
	if b.limiterConfig.MaxDailyRequests != 50 {
		t.Errorf("expected daily cap 50, got %d", b.limiterConfig.MaxDailyRequests)
	}
	if b.runnerConfig.DailyPostLimit != 2 {
		t.Errorf("expected post limit 2, got %d", b.runnerConfig.DailyPostLimit)
	}
}
