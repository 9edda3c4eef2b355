package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoblog-go/internal/config"
	"autoblog-go/internal/handler"
	"autoblog-go/pkg/notify"
	"autoblog-go/pkg/pipeline"
)

// Resident mode: serves the status endpoints and runs one posting batch per
// day until stopped. The root command runs a single batch and exits; this
// one is for long-lived deployments.
type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "config/config.yaml", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Printf("Starting autoblog server...\n")
	fmt.Printf("Config: %s\n", app.configPath)
	fmt.Printf("Debug: %t\n", app.debug)

	pipelineApp, err := pipeline.NewBuilder().
		WithProvider(cfg.Generator.APIKey, cfg.Generator.Model, cfg.Generator.BaseURL).
		WithPublisher(cfg.Publisher.Endpoint, cfg.Publisher.APIKey,
			time.Duration(cfg.Publisher.TimeoutSeconds)*time.Second).
		WithRateLimits(time.Duration(cfg.Limiter.MinIntervalSeconds)*time.Second, cfg.Limiter.MaxDailyRequests).
		WithBatchLimits(cfg.Batch.DailyPostLimit, time.Duration(cfg.Batch.PublishIntervalSeconds)*time.Second).
		WithDataDir(cfg.Storage.DataDir).
		WithTrendFeed(cfg.Keywords.FeedURL).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer pipelineApp.Close()

	statusServer := handler.NewServer(pipelineApp.Runner.Stats(), pipelineApp.RateLimiter)
	go func() {
		if err := statusServer.Listen(cfg.Server.Host, cfg.Server.Port); err != nil {
			fmt.Printf("Status server stopped: %v\n", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutdown signal received...")
		cancel()
	}()

	fmt.Println("Server started successfully")
	fmt.Println("Press Ctrl+C to stop")

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	runBatch := func() {
		batch := pipelineApp.Collector.Collect(ctx)
		if err := pipelineApp.Store.SaveKeywords(ctx, batch, 0); err != nil {
			fmt.Printf("Failed to record keywords: %v\n", err)
		}
		if stored, err := pipelineApp.Store.UnusedKeywords(ctx, len(batch)); err == nil && len(stored) > 0 {
			batch = stored
		}
		report := pipelineApp.Runner.Run(ctx, batch)
		app.notify(cfg, report)
		fmt.Printf("Batch finished: %d published, %d failed\n",
			len(report.Published), len(report.Failed))
	}

	runBatch()

	for {
		select {
		case <-ticker.C:
			runBatch()
		case <-ctx.Done():
			fmt.Println("Shutting down gracefully...")

			done := make(chan error, 1)
			go func() { done <- statusServer.Shutdown() }()

			select {
			case err := <-done:
				if err != nil {
					fmt.Printf("Status server shutdown: %v\n", err)
				}
			case <-time.After(5 * time.Second):
				fmt.Println("Status server shutdown timed out")
			}
			fmt.Println("Server stopped")
			return nil
		}
	}
}

func (app *Application) notify(cfg *config.Config, report notify.RunReport) {
	if cfg.SMTP.Host == "" {
		return
	}
	notifier, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
	})
	if err != nil {
		fmt.Printf("Notification disabled: %v\n", err)
		return
	}
	if err := notifier.Notify(report); err != nil {
		fmt.Printf("Failed to send run report: %v\n", err)
	}
}
