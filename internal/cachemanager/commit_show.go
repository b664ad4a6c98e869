package cachemanager

import (
	"context"
	"time"
)

// CommitShowTTL bounds how long show output stays cached. Output for a hash
// never changes, so the limit only caps memory.
const CommitShowTTL = 30 * time.Minute

// CommitShowCache caches `git show` output by full commit hash.
type CommitShowCache struct {
	rt    *ReadThroughCache[string, string, string]
	store CacheManager[string, string]
}

// NewCommitShowCache wraps show, which renders one commit by hash.
func NewCommitShowCache(show func(hash string) (string, error)) *CommitShowCache {
	store := NewInMemoryCacheManager[string, string]("commit-show", CommitShowTTL, DefaultCleanupInterval)
	return newCommitShowCache(store, show)
}

func newCommitShowCache(store CacheManager[string, string], show func(hash string) (string, error)) *CommitShowCache {
	fetch := func(_ context.Context, hash string) (string, error) {
		return show(hash)
	}
	return &CommitShowCache{
		rt:    NewReadThroughCache(store, fetch, false),
		store: store,
	}
}

// Show returns the show output for hash.
func (c *CommitShowCache) Show(ctx context.Context, hash string) (string, error) {
	return c.rt.Get(ctx, hash, hash, CommitShowTTL)
}

// Len is the number of cached commits.
func (c *CommitShowCache) Len() int {
	return c.store.Len()
}
