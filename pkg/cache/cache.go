// Package cache provides a bounded in-memory TTL cache with in-flight
// request deduplication.
//
// The cache is generic infrastructure: it knows nothing about what it
// stores. Callers hand [Cache.Do] a key, a TTL, and a producer; concurrent
// calls for the same key share a single producer invocation and all
// observe its outcome. Failures are never cached, so a subsequent call
// retries.
//
// # Concurrency
//
// All methods are safe for concurrent use. Map mutation is protected by a
// mutex scoped to the mutation itself; no lock is held while a producer
// runs. A caller that cancels its context stops waiting immediately, but
// the shared computation continues to completion on a cancellation-detached
// context so the remaining waiters still receive its result.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Producer computes the value for a key on a cache miss. It is invoked at
// most once per concurrent group of callers.
type Producer func(ctx context.Context) (any, error)

type entry struct {
	value     any
	expiresAt time.Time
	seq       uint64 // insertion order, for eviction tie-breaks
}

// Cache is a bounded in-memory TTL cache. The zero value is not usable;
// create instances with [New].
type Cache struct {
	maxEntries int
	disabled   bool
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	seq     uint64

	flight singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithNow injects the clock used for TTL expiry. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithDisabled toggles storage off. A disabled cache treats every call as
// a miss and stores nothing, but still deduplicates concurrent callers of
// the same key.
func WithDisabled(disabled bool) Option {
	return func(c *Cache) { c.disabled = disabled }
}

// New creates a Cache holding at most maxEntries values.
// Values of maxEntries below 1 are clamped to 1.
func New(maxEntries int, opts ...Option) *Cache {
	c := &Cache{
		maxEntries: max(maxEntries, 1),
		now:        time.Now,
		entries:    make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do returns the cached value for key if a live entry exists; otherwise it
// invokes produce, stores the result with the given TTL, and returns it.
//
// Concurrent calls with the same key attach to a single in-flight producer
// invocation and share its outcome, success or failure. Failed results are
// not stored. A TTL of zero stores an already-expired entry, so every call
// invokes the producer while concurrent callers still collapse into one
// flight.
//
// If ctx is cancelled while waiting, Do returns ctx.Err(); the shared
// computation is not aborted and its result remains available to the other
// waiters.
func (c *Cache) Do(ctx context.Context, key string, ttl time.Duration, produce Producer) (any, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	// The producer runs on a context detached from this caller's
	// cancellation: the flight is shared, and one waiter leaving must not
	// fail the rest.
	produceCtx := context.WithoutCancel(ctx)

	ch := c.flight.DoChan(key, func() (any, error) {
		// Another flight may have completed between our miss and this
		// execution slot.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := produce(produceCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns the live cached value for key without invoking a producer.
// It reports false on a miss, an expired entry, or a disabled cache.
func (c *Cache) Get(key string) (any, bool) {
	return c.lookup(key)
}

// Len returns the number of stored entries, including expired ones that
// have not been touched since expiry.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Delete removes the entry for key, if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all stored entries. In-flight computations are unaffected.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *Cache) lookup(key string) (any, bool) {
	if c.disabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		// Expired on access.
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) store(key string, value any, ttl time.Duration) {
	if c.disabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.seq++
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
		seq:       c.seq,
	}
}

// evictLocked removes the entry with the nearest expiry, breaking ties by
// least-recently-inserted. Caller must hold c.mu.
func (c *Cache) evictLocked() {
	var victim string
	var found bool
	var best entry
	for k, e := range c.entries {
		if !found || e.expiresAt.Before(best.expiresAt) ||
			(e.expiresAt.Equal(best.expiresAt) && e.seq < best.seq) {
			victim, best, found = k, e, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

// GetOrCompute is a typed wrapper around [Cache.Do].
func GetOrCompute[V any](ctx context.Context, c *Cache, key string, ttl time.Duration, produce func(ctx context.Context) (V, error)) (V, error) {
	v, err := c.Do(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return produce(ctx)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
