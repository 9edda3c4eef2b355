package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"autoblog-go/pkg/limiter"
	"autoblog-go/pkg/logger"
	"autoblog-go/pkg/pipeline"
)

// Server exposes liveness and run status over HTTP while a batch runs.
type Server struct {
	app         *fiber.App
	stats       *pipeline.Stats
	rateLimiter *limiter.RequestLimiter
	startedAt   time.Time
	log         *logger.Logger
}

// NewServer builds the status server around the runner's live counters.
func NewServer(stats *pipeline.Stats, rl *limiter.RequestLimiter) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          10 * time.Second,
		}),
		stats:       stats,
		rateLimiter: rl,
		startedAt:   time.Now(),
		log:         logger.GetLogger().WithComponent("status_server"),
	}

	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/status", s.handleStatus)
	return s
}

// Listen blocks serving on host:port until Shutdown.
func (s *Server) Listen(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.log.WithField("addr", addr).Info("Status server listening")
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":    "running",
		"uptime":    time.Since(s.startedAt).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if s.stats != nil {
		resp["run"] = s.stats.Snapshot()
	}
	if s.rateLimiter != nil {
		state := s.rateLimiter.Snapshot()
		resp["quota"] = fiber.Map{
			"used":       state.DailyCount,
			"limit":      s.rateLimiter.DailyLimit(),
			"reset_date": state.ResetDate,
		}
	}
	return c.JSON(resp)
}
