package publish

import (
	"context"

	"autoblog-go/pkg/logger"
)

type nopPublisher struct {
	log *logger.Logger
}

// NewNopPublisher returns a publisher that only logs. Used for dry runs
// where drafts should be produced and recorded but never delivered.
func NewNopPublisher() Publisher {
	return &nopPublisher{log: logger.GetLogger().WithComponent("publisher_dry_run")}
}

func (p *nopPublisher) Publish(ctx context.Context, post Post) error {
	p.log.WithFields(map[string]interface{}{
		"title":      post.Title,
		"body_bytes": len(post.Content),
	}).Info("Dry run, post not delivered")
	return nil
}
