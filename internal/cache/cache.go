// Package cache provides a small typed expiring cache. Entries expire
// after a fixed TTL and are evicted lazily on the next lookup; there is
// no background janitor.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds values of one type under string keys with a fixed TTL.
type Cache[V any] struct {
	inner *gocache.Cache
}

// New creates a cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration) *Cache[V] {
	// Cleanup interval 0 disables the janitor; expired entries are
	// dropped on access instead.
	return &Cache[V]{inner: gocache.New(ttl, 0)}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	v, ok := c.inner.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Put stores value under key with the cache's TTL.
func (c *Cache[V]) Put(key string, value V) {
	c.inner.Set(key, value, gocache.DefaultExpiration)
}

// Flush removes every entry.
func (c *Cache[V]) Flush() {
	c.inner.Flush()
}
