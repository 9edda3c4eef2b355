package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"autoblog-go/pkg/logger"
)

// HTTPConfig configures the blog platform endpoint.
type HTTPConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type httpPublisher struct {
	config HTTPConfig
	client *fasthttp.Client
	log    *logger.Logger
}

// NewHTTPPublisher creates a publisher that POSTs posts as JSON to the
// configured endpoint.
func NewHTTPPublisher(config HTTPConfig) (Publisher, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("publisher endpoint is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	client := &fasthttp.Client{
		ReadTimeout:         config.Timeout,
		WriteTimeout:        config.Timeout,
		MaxIdleConnDuration: 90 * time.Second,
	}

	return &httpPublisher{
		config: config,
		client: client,
		log:    logger.GetLogger().WithComponent("publisher"),
	}, nil
}

func (p *httpPublisher) Publish(ctx context.Context, post Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.config.Endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if p.config.APIKey != "" {
		req.Header.Set("X-API-Key", p.config.APIKey)
	}
	req.SetBody(body)

	p.log.WithFields(map[string]interface{}{
		"title":      post.Title,
		"body_bytes": len(body),
	}).Debug("Publishing post")

	if err := p.client.DoTimeout(req, resp, p.config.Timeout); err != nil {
		return fmt.Errorf("publish request failed: %w", err)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK && status != fasthttp.StatusCreated {
		return fmt.Errorf("publish returned HTTP %d: %s", status, resp.Body())
	}

	p.log.WithField("title", post.Title).Info("Post published")
	return nil
}
