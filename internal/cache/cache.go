package cache

import (
	"strings"
	"sync"
	"time"
)

// TTLCache is a small in-process cache with per-entry expiry and explicit
// invalidation. It is injected into the services that need it rather than
// living as a package-level singleton, so tests can swap it out and
// invalidation stays visible at the call site.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	value     any
	expiresAt time.Time
}

func New() *TTLCache {
	return &TTLCache{entries: make(map[string]entry)}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// DeletePrefix drops every entry whose key starts with prefix. Used to
// invalidate all leaderboard variants of a test in one call.
func (c *TTLCache) DeletePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
