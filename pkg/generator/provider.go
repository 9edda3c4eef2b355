package generator

import (
	"context"
	"errors"
)

// ErrUnavailable means the generator could not produce text for this
// keyword: quota gone, retries exhausted, or a non-transient provider
// failure. Callers fall back to template content.
var ErrUnavailable = errors.New("generator unavailable")

// ErrRateLimited marks a transient provider rate-limit condition that is
// worth retrying with backoff. Providers wrap their own 429-style failures
// with it.
var ErrRateLimited = errors.New("provider rate limited")

// Provider is the external text-generation collaborator. Implementations
// must return an error wrapping ErrRateLimited for transient rate-limit
// signals so the client can distinguish them from hard failures.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
