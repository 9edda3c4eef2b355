package pipeline

import (
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"autoblog-go/pkg/corpus"
	"autoblog-go/pkg/generator"
	"autoblog-go/pkg/keywords"
	"autoblog-go/pkg/limiter"
	"autoblog-go/pkg/publish"
	"autoblog-go/pkg/quality"
)

// Builder assembles the full posting pipeline. Validation errors accumulate
// and surface together at Build time.
type Builder struct {
	providerConfig generator.OpenAIConfig
	limiterConfig  limiter.Config
	clientConfig   generator.Config
	qualityConfig  quality.Config
	runnerConfig   RunnerConfig
	publishConfig  publish.HTTPConfig
	dataDir        string
	feedURL        string
	dryRun         bool
	errors         []error
}

// NewBuilder creates a builder preloaded with the standard limits.
func NewBuilder() *Builder {
	return &Builder{
		limiterConfig: limiter.DefaultConfig(),
		clientConfig:  generator.DefaultConfig(),
		qualityConfig: quality.DefaultConfig(),
		runnerConfig:  DefaultRunnerConfig(),
		dataDir:       "./data",
	}
}

// WithProvider sets the completion provider credentials.
func (b *Builder) WithProvider(apiKey, model, baseURL string) *Builder {
	if apiKey == "" {
		b.errors = append(b.errors, fmt.Errorf("generator API key cannot be empty"))
		return b
	}
	b.providerConfig = generator.OpenAIConfig{APIKey: apiKey, Model: model, BaseURL: baseURL}
	return b
}

// WithRateLimits overrides the request spacing and daily quota.
func (b *Builder) WithRateLimits(minInterval time.Duration, maxDaily int) *Builder {
	if minInterval <= 0 {
		b.errors = append(b.errors, fmt.Errorf("min interval must be positive"))
		return b
	}
	if maxDaily <= 0 {
		b.errors = append(b.errors, fmt.Errorf("daily request cap must be positive"))
		return b
	}
	b.limiterConfig = limiter.Config{MinInterval: minInterval, MaxDailyRequests: maxDaily}
	return b
}

// WithPublisher sets the blog platform endpoint with validation.
func (b *Builder) WithPublisher(endpoint, apiKey string, timeout time.Duration) *Builder {
	if endpoint == "" {
		b.errors = append(b.errors, fmt.Errorf("publisher endpoint cannot be empty"))
		return b
	}
	if _, err := url.Parse(endpoint); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid publisher endpoint: %w", err))
		return b
	}
	b.publishConfig = publish.HTTPConfig{Endpoint: endpoint, APIKey: apiKey, Timeout: timeout}
	return b
}

// WithBatchLimits overrides the per-run post cap and publish spacing.
func (b *Builder) WithBatchLimits(dailyPosts int, publishInterval time.Duration) *Builder {
	if dailyPosts <= 0 {
		b.errors = append(b.errors, fmt.Errorf("daily post limit must be positive"))
		return b
	}
	b.runnerConfig = RunnerConfig{DailyPostLimit: dailyPosts, PublishInterval: publishInterval}
	return b
}

// WithDataDir sets the storage directory.
func (b *Builder) WithDataDir(dir string) *Builder {
	if dir == "" {
		b.errors = append(b.errors, fmt.Errorf("data dir cannot be empty"))
		return b
	}
	b.dataDir = dir
	return b
}

// WithTrendFeed sets the optional trending keyword feed.
func (b *Builder) WithTrendFeed(feedURL string) *Builder {
	b.feedURL = feedURL
	return b
}

// WithDryRun substitutes a log-only publisher; drafts are still produced
// and recorded locally.
func (b *Builder) WithDryRun(dryRun bool) *Builder {
	b.dryRun = dryRun
	return b
}

// App is the assembled pipeline with its shared resources.
type App struct {
	Runner      *Runner
	Collector   *keywords.Collector
	Store       *corpus.Store
	RateLimiter *limiter.RequestLimiter
}

// Close releases the storage handle.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Build validates the accumulated configuration and assembles the app.
func (b *Builder) Build() (*App, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("pipeline configuration errors: %v", b.errors)
	}

	provider, err := generator.NewOpenAIProvider(b.providerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	var publisher publish.Publisher
	if b.dryRun {
		publisher = publish.NewNopPublisher()
	} else {
		publisher, err = publish.NewHTTPPublisher(b.publishConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
	}

	store, err := corpus.Open(b.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	rl := limiter.NewRequestLimiter(b.limiterConfig)
	client := generator.NewClient(provider, rl, b.clientConfig)
	gate := quality.NewGate(b.qualityConfig, store)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	orchestrator := NewOrchestrator(client, gate, rng)

	return &App{
		Runner:      NewRunner(b.runnerConfig, orchestrator, publisher, store, rl),
		Collector:   keywords.NewCollector(b.feedURL, rng),
		Store:       store,
		RateLimiter: rl,
	}, nil
}
