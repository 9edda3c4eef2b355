package publish

import (
	"context"
	"time"
)

// Post is a finished draft ready for delivery to a blog platform.
type Post struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Keyword     string    `json:"keyword"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher delivers a post to its destination.
type Publisher interface {
	Publish(ctx context.Context, post Post) error
}
