package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type commitHash string

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "abc123", "commit abc123\n", 0)

	got, ok := cache.Get(context.Background(), "abc123")
	require.True(t, ok)
	require.Equal(t, "commit abc123\n", got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_NamedKeyType(t *testing.T) {
	cache := NewInMemoryCacheManager[commitHash, []string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), commitHash("abc"), []string{"a", "b"}, time.Minute)

	got, ok := cache.Get(context.Background(), "abc")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got)
}

func TestInMemoryCacheManager_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_WrongType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("abc", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "abc")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "abc", "value", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "abc")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", "1", 0)
	cache.Set(ctx, "b", "2", 0)
	cache.Set(ctx, "c", "3", 0)

	cache.Delete(ctx, "a", "b")
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())

	cache.Flush(ctx)
	require.Zero(t, cache.Len())
}
