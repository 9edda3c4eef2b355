package corpus

import (
	"context"
	"sync"
)

// MemoryStore keeps published contents in memory. It backs tests and runs
// where no data directory is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []Post
}

// NewMemoryStore creates an empty in-memory corpus.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SavePost appends an accepted draft.
func (ms *MemoryStore) SavePost(ctx context.Context, post Post) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.posts = append(ms.posts, post)
	return nil
}

// RecentContents returns up to limit contents, most recent first.
func (ms *MemoryStore) RecentContents(ctx context.Context, limit int) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	contents := make([]string, 0, limit)
	for i := len(ms.posts) - 1; i >= 0 && len(contents) < limit; i-- {
		contents = append(contents, ms.posts[i].Content)
	}
	return contents, nil
}
