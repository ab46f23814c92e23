// Package cache provides a generic in-memory TTL cache. It holds the
// customer and policy collections between enrichment reads so list views
// don't refetch the whole store on every keystroke.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	deadline time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return now.After(e.deadline)
}

// InMemory is a thread-safe TTL cache keyed by string.
type InMemory[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
}

// New creates a cache whose entries live for ttl. A non-positive ttl
// falls back to one minute. A background janitor drops expired entries
// so an idle cache doesn't pin stale collections in memory.
func New[T any](ttl time.Duration) *InMemory[T] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c := &InMemory[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
	}
	go c.janitor()
	return c
}

// Get returns the cached value for key, or false when the key is absent
// or its TTL has passed.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{
		value:    value,
		deadline: time.Now().Add(c.ttl),
	}
}

// Delete drops key. Write paths call this to invalidate a stale
// collection after a mutation.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *InMemory[T]) janitor() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for now := range ticker.C {
		c.mu.Lock()
		for k, e := range c.entries {
			if e.expired(now) {
				delete(c.entries, k)
			}
		}
		c.mu.Unlock()
	}
}
