package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"autoblog-go/internal/config"
	"autoblog-go/internal/handler"
	"autoblog-go/pkg/corpus"
	"autoblog-go/pkg/keywords"
	"autoblog-go/pkg/logger"
	"autoblog-go/pkg/notify"
	"autoblog-go/pkg/pipeline"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// selectKeywords decides what this run posts about. An explicit override is
// authoritative: it is recorded for bookkeeping but never swapped for
// previously stored keywords. Without an override, today's still-unused
// stored keywords take precedence over a fresh collection so repeated runs
// in one day do not post the same topics twice.
func selectKeywords(ctx context.Context, store *corpus.Store, collector *keywords.Collector, override string) []string {
	log := logger.GetLogger().WithComponent("main")

	if override != "" {
		var batch []string
		for _, k := range strings.Split(override, ",") {
			if k = strings.TrimSpace(k); k != "" {
				batch = append(batch, k)
			}
		}
		if err := store.SaveKeywords(ctx, batch, 0); err != nil {
			log.WithError(err).Warn("Failed to record keywords")
		}
		return batch
	}

	batch := collector.Collect(ctx)
	if err := store.SaveKeywords(ctx, batch, 0); err != nil {
		log.WithError(err).Warn("Failed to record collected keywords")
	}
	if stored, err := store.UnusedKeywords(ctx, len(batch)); err == nil && len(stored) > 0 {
		batch = stored
	}
	return batch
}

func main() {
	// Global panic recovery to prevent application crash
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("CRITICAL ERROR: Application panic recovered: %v\n", r)
			fmt.Printf("Please check the logs for more details and report this issue.\n")
			os.Exit(1)
		}
	}()

	// Environment variable defaults (scheduler friendly)
	defaultConfigPath := getEnvOrDefault("AUTOBLOG_CONFIG", "")
	defaultAPIKey := getEnvOrDefault("OPENAI_API_KEY", "")
	defaultModel := getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini")
	defaultEndpoint := getEnvOrDefault("PUBLISH_ENDPOINT", "")
	defaultPublishKey := getEnvOrDefault("PUBLISH_API_KEY", "")
	defaultDataDir := getEnvOrDefault("DATA_DIR", "./data")
	defaultFeedURL := getEnvOrDefault("TREND_FEED_URL", "")
	defaultKeywords := getEnvOrDefault("KEYWORDS", "")
	defaultPostLimit := getEnvIntOrDefault("DAILY_POST_LIMIT", 3)
	defaultDryRun := getEnvBoolOrDefault("DRY_RUN", false)
	defaultStatusPort := getEnvIntOrDefault("STATUS_PORT", 0)
	defaultDebug := getEnvBoolOrDefault("DEBUG", false)

	// Command line flags (override environment variables)
	var (
		configPath  = flag.String("config", defaultConfigPath, "Path to YAML config file (env: AUTOBLOG_CONFIG)")
		apiKey      = flag.String("api-key", defaultAPIKey, "OpenAI API key (env: OPENAI_API_KEY)")
		model       = flag.String("model", defaultModel, "Completion model name (env: OPENAI_MODEL)")
		endpoint    = flag.String("publish-endpoint", defaultEndpoint, "Blog platform publish URL (env: PUBLISH_ENDPOINT)")
		publishKey  = flag.String("publish-api-key", defaultPublishKey, "Blog platform API key (env: PUBLISH_API_KEY)")
		dataDir     = flag.String("data-dir", defaultDataDir, "Local storage directory (env: DATA_DIR)")
		feedURL     = flag.String("trend-feed", defaultFeedURL, "Trending keyword RSS feed (env: TREND_FEED_URL)")
		keywordList = flag.String("keywords", defaultKeywords, "Comma-separated keywords, skips collection (env: KEYWORDS)")
		postLimit   = flag.Int("post-limit", defaultPostLimit, "Maximum posts per run (env: DAILY_POST_LIMIT)")
		statusPort  = flag.Int("status-port", defaultStatusPort, "Status server port, 0 disables (env: STATUS_PORT)")
		dryRun      = flag.Bool("dry-run", defaultDryRun, "Produce drafts without publishing (env: DRY_RUN)")
		debug       = flag.Bool("debug", defaultDebug, "Enable debug logging (env: DEBUG)")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help {
		printUsage()
		return
	}

	// A config file overrides flag defaults where it sets values.
	var smtpConfig notify.SMTPConfig
	if *configPath != "" {
		cfg, err := config.NewManager().Load(*configPath)
		if err != nil {
			fmt.Printf("ERROR: failed to load config file: %v\n", err)
			os.Exit(1)
		}
		if cfg.Generator.APIKey != "" {
			*apiKey = cfg.Generator.APIKey
		}
		if cfg.Generator.Model != "" {
			*model = cfg.Generator.Model
		}
		if cfg.Publisher.Endpoint != "" {
			*endpoint = cfg.Publisher.Endpoint
		}
		if cfg.Publisher.APIKey != "" {
			*publishKey = cfg.Publisher.APIKey
		}
		if cfg.Storage.DataDir != "" {
			*dataDir = cfg.Storage.DataDir
		}
		if cfg.Keywords.FeedURL != "" {
			*feedURL = cfg.Keywords.FeedURL
		}
		if cfg.Batch.DailyPostLimit > 0 {
			*postLimit = cfg.Batch.DailyPostLimit
		}
		smtpConfig = notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		}
	}

	// Validate required parameters
	if *apiKey == "" {
		fmt.Println("ERROR: OpenAI API key is required.")
		fmt.Println("Use -api-key flag or OPENAI_API_KEY environment variable.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	if *endpoint == "" && !*dryRun {
		fmt.Println("ERROR: Publish endpoint is required for posting to be meaningful.")
		fmt.Println("Use -publish-endpoint flag or PUBLISH_ENDPOINT environment variable.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	log := logger.GetLogger().WithComponent("main")
	log.WithFields(map[string]interface{}{
		"model":       *model,
		"post_limit":  *postLimit,
		"data_dir":    *dataDir,
		"api_key":     logger.MaskSecret(*apiKey),
		"feed_set":    *feedURL != "",
		"status_port": *statusPort,
	}).Info("Configuration loaded")

	if *debug {
		log.Info("Debug logging enabled")
	}

	log.Info("Starting auto-blog posting run")

	builder := pipeline.NewBuilder().
		WithProvider(*apiKey, *model, "").
		WithDataDir(*dataDir).
		WithTrendFeed(*feedURL).
		WithBatchLimits(*postLimit, 30*time.Second).
		WithDryRun(*dryRun)
	if *endpoint != "" {
		builder = builder.WithPublisher(*endpoint, *publishKey, 30*time.Second)
	}
	app, err := builder.Build()
	if err != nil {
		log.WithError(err).Fatal("Failed to build posting pipeline")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Warn("Failed to close storage cleanly")
		}
	}()

	// Optional status server for schedulers that probe liveness
	if *statusPort > 0 {
		statusServer := handler.NewServer(app.Runner.Stats(), app.RateLimiter)
		go func() {
			if err := statusServer.Listen("0.0.0.0", *statusPort); err != nil {
				log.WithError(err).Warn("Status server stopped")
			}
		}()
		defer statusServer.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	startTime := time.Now()

	batch := selectKeywords(ctx, app.Store, app.Collector, *keywordList)

	var report notify.RunReport

	// Protected run execution
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic during posting run")
			}
		}()
		report = app.Runner.Run(ctx, batch)
	}()

	duration := time.Since(startTime)

	log.WithFields(map[string]interface{}{
		"published": len(report.Published),
		"failed":    len(report.Failed),
		"fallbacks": report.Fallbacks,
		"duration":  duration.String(),
	}).Info("Posting run completed")

	fmt.Printf("\n=== Auto-Blog Run Results ===\n")
	fmt.Printf("Keywords Collected: %d\n", len(batch))
	fmt.Printf("Published: %d\n", len(report.Published))
	fmt.Printf("Fallback Posts: %d\n", report.Fallbacks)
	fmt.Printf("Failed: %d\n", len(report.Failed))
	fmt.Printf("API Quota: %d / %d\n", report.QuotaUsed, report.QuotaLimit)
	fmt.Printf("Duration: %s\n", duration.String())

	fmt.Printf("\n=== Published Posts ===\n")
	for _, entry := range report.Published {
		marker := ""
		if entry.Fallback {
			marker = " (fallback)"
		}
		fmt.Printf("- %s: %s%s\n", entry.Keyword, entry.Title, marker)
	}
	for _, entry := range report.Failed {
		fmt.Printf("- %s: FAILED (%s)\n", entry.Keyword, entry.Reason)
	}

	if smtpConfig.Host != "" {
		notifier, err := notify.NewSMTPNotifier(smtpConfig)
		if err != nil {
			log.WithError(err).Warn("Notification disabled, invalid SMTP settings")
		} else if err := notifier.Notify(report); err != nil {
			log.WithError(err).Warn("Failed to send run report")
		}
	}
}

func printUsage() {
	fmt.Println("Auto-Blog Posting Pipeline")
	fmt.Println("")
	fmt.Println("USAGE:")
	fmt.Println("    ./autoblog-go -api-key <KEY> -publish-endpoint <URL> [OPTIONS]")
	fmt.Println("    ./autoblog-go  # Uses environment variables")
	fmt.Println("")
	fmt.Println("REQUIRED:")
	fmt.Println("    -api-key string           OpenAI API key (env: OPENAI_API_KEY)")
	fmt.Println("    -publish-endpoint string  Blog platform publish URL (env: PUBLISH_ENDPOINT)")
	fmt.Println("")
	fmt.Println("OPTIONS:")
	fmt.Println("    -config string            YAML config file path (env: AUTOBLOG_CONFIG)")
	fmt.Println("    -model string             Completion model (default: gpt-4o-mini, env: OPENAI_MODEL)")
	fmt.Println("    -publish-api-key string   Blog platform API key (env: PUBLISH_API_KEY)")
	fmt.Println("    -data-dir string          Storage directory (default: ./data, env: DATA_DIR)")
	fmt.Println("    -trend-feed string        Trending keyword RSS feed (env: TREND_FEED_URL)")
	fmt.Println("    -keywords string          Comma-separated keywords, skips collection (env: KEYWORDS)")
	fmt.Println("    -post-limit int           Maximum posts per run (default: 3, env: DAILY_POST_LIMIT)")
	fmt.Println("    -status-port int          Status server port, 0 disables (env: STATUS_PORT)")
	fmt.Println("    -dry-run                  Produce drafts without publishing (env: DRY_RUN)")
	fmt.Println("    -debug                    Enable debug logging (env: DEBUG)")
	fmt.Println("    -help                     Show this help message")
	fmt.Println("")
	fmt.Println("ENVIRONMENT VARIABLES (scheduler friendly):")
	fmt.Println("    OPENAI_API_KEY        OpenAI API key (required)")
	fmt.Println("    PUBLISH_ENDPOINT      Blog platform publish URL (required)")
	fmt.Println("    PUBLISH_API_KEY       Blog platform API key")
	fmt.Println("    TREND_FEED_URL        Trending keyword RSS feed URL")
	fmt.Println("    KEYWORDS              Comma-separated keyword override")
	fmt.Println("    DAILY_POST_LIMIT      Maximum posts per run (3)")
	fmt.Println("    DATA_DIR              Local storage directory (./data)")
	fmt.Println("    STATUS_PORT           Status server port (disabled)")
	fmt.Println("    DEBUG                 Enable debug logging (false)")
	fmt.Println("")
	fmt.Println("EXAMPLES:")
	fmt.Println("    # Command line usage")
	fmt.Println("    ./autoblog-go -api-key \"sk-...\" -publish-endpoint \"https://blog.example.com/api/posts\"")
	fmt.Println("")
	fmt.Println("    # Environment variables (cron / GitHub Actions)")
	fmt.Println("    export OPENAI_API_KEY=\"sk-...\"")
	fmt.Println("    export PUBLISH_ENDPOINT=\"https://blog.example.com/api/posts\"")
	fmt.Println("    ./autoblog-go")
	fmt.Println("")
	fmt.Println("RATE LIMITS:")
	fmt.Println("- API requests spaced at least 7 seconds apart")
	fmt.Println("- At most 200 API requests per calendar day")
	fmt.Println("- Posts published 30 seconds apart")
	fmt.Println("- Template fallback keeps the posting schedule when the API is down")
}
