// Package cache provides a generic in-process TTL store used to memoise
// analysis results between identical requests.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL applies to analysis results.
	DefaultTTL = 300 * time.Second

	// DefaultSweepInterval is how often the background sweep removes
	// expired entries that were never read again.
	DefaultSweepInterval = 5 * time.Minute
)

type entry[T any] struct {
	value     T
	createdAt time.Time
	ttl       time.Duration
}

func (e entry[T]) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Cache is a TTL key/value store. Expired entries are logically absent even
// before the sweep physically removes them. There is no size cap: entries are
// small and self-expiring.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]

	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

// New creates a cache and starts its background sweep.
func New[T any](sweepInterval time.Duration) *Cache[T] {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &Cache[T]{
		entries:       make(map[string]entry[T]),
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
	}

	go c.sweepLoop()

	return c
}

// Get returns the value for key if present and unexpired. A read past TTL
// deletes the entry and reports absence.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}

	if e.expired(time.Now()) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}

	return e.value, true
}

// Set stores value under key with the given TTL, replacing any previous entry.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{
		value:     value,
		createdAt: time.Now(),
		ttl:       ttl,
	}
}

// Delete removes key if present.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// Len reports the number of physically present entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stop terminates the background sweep. The cache remains usable afterwards;
// only proactive expiry stops.
func (c *Cache[T]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Cache[T]) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[T]) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}
