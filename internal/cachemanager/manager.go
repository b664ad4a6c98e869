// Package cachemanager provides a small typed cache layer over go-cache and a
// read-through wrapper for values that are expensive to produce.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values of one type under comparable keys.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	Flush(ctx context.Context)
	Len() int
}
