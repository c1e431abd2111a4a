package memory

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a TTL map whose entries are checked for expiry on read and
// replaced whole on write. Nothing is evicted in the background, so it holds
// one entry per distinct key ever stored.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
	now     func() time.Time
}

// NewCache returns an empty cache. now defaults to time.Now.
func NewCache[V any](now func() time.Time) *Cache[V] {
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{
		entries: make(map[string]cacheEntry[V]),
		now:     now,
	}
}

// Get returns the value for key if present and not yet expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key until now+ttl, replacing any previous entry.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	entry := cacheEntry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Len reports how many entries are held, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
