package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingCache is an in-map CacheManager that records calls.
type countingCache struct {
	items map[string]string
	gets  int
	sets  int
	ttl   time.Duration
}

func newCountingCache() *countingCache {
	return &countingCache{items: make(map[string]string)}
}

func (c *countingCache) Get(_ context.Context, key string) (string, bool) {
	c.gets++
	v, ok := c.items[key]
	return v, ok
}

func (c *countingCache) Set(_ context.Context, key string, value string, ttl time.Duration) {
	c.sets++
	c.ttl = ttl
	c.items[key] = value
}

func (c *countingCache) Delete(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(c.items, k)
	}
}

func (c *countingCache) Flush(context.Context) { c.items = make(map[string]string) }

func (c *countingCache) Len() int { return len(c.items) }

func TestReadThroughCache_MissThenHit(t *testing.T) {
	store := newCountingCache()
	calls := 0
	rt := NewReadThroughCache[string, string, int](store, func(_ context.Context, n int) (string, error) {
		calls++
		return "value", nil
	}, false)

	got, err := rt.Get(context.Background(), "k", 1, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "value", got)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, store.sets)
	require.Equal(t, time.Minute, store.ttl)

	got, err = rt.Get(context.Background(), "k", 1, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "value", got)
	require.Equal(t, 1, calls, "second read is served from the cache")
}

func TestReadThroughCache_ErrorNotCached(t *testing.T) {
	store := newCountingCache()
	boom := errors.New("boom")
	rt := NewReadThroughCache[string, string, int](store, func(context.Context, int) (string, error) {
		return "", boom
	}, false)

	_, err := rt.Get(context.Background(), "k", 1, time.Minute)
	require.ErrorIs(t, err, boom)
	require.Zero(t, store.sets)
	require.Zero(t, store.Len())
}

func TestReadThroughCache_Bypass(t *testing.T) {
	store := newCountingCache()
	calls := 0
	rt := NewReadThroughCache[string, string, int](store, func(context.Context, int) (string, error) {
		calls++
		return "fresh", nil
	}, true)

	for range 3 {
		got, err := rt.Get(context.Background(), "k", 1, time.Minute)
		require.NoError(t, err)
		require.Equal(t, "fresh", got)
	}
	require.Equal(t, 3, calls)
	require.Zero(t, store.gets)
	require.Zero(t, store.sets)
}

func TestCommitShowCache(t *testing.T) {
	store := newCountingCache()
	shown := map[string]int{}
	c := newCommitShowCache(store, func(hash string) (string, error) {
		shown[hash]++
		if hash == "bad" {
			return "", errors.New("unknown revision")
		}
		return "commit " + hash, nil
	})

	for range 2 {
		out, err := c.Show(context.Background(), "abc")
		require.NoError(t, err)
		require.Equal(t, "commit abc", out)
	}
	require.Equal(t, 1, shown["abc"])
	require.Equal(t, CommitShowTTL, store.ttl)

	_, err := c.Show(context.Background(), "bad")
	require.Error(t, err)
	_, err = c.Show(context.Background(), "bad")
	require.Error(t, err)
	require.Equal(t, 2, shown["bad"], "failures are retried")
	require.Equal(t, 1, c.Len())
}

func TestNewCommitShowCache_UsesGoCache(t *testing.T) {
	c := NewCommitShowCache(func(hash string) (string, error) { return hash, nil })
	out, err := c.Show(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, "abc", out)
	require.Equal(t, 1, c.Len())
}
