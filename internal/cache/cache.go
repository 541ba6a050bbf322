package cache

import (
	"sync"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a small thread-safe cache for remote lookups that are expensive
// but rarely change (group and form listings). It only serves admin reads;
// sync correctness never depends on it and it is explicitly invalidated
// whenever the sync engine mutates remote state.
type TTLCache[V any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry[V]
}

func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || NowTimeFunc().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: NowTimeFunc().Add(c.ttl)}
}

func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll drops every entry. Called after any remote mutation.
func (c *TTLCache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}
