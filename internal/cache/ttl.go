package cache

import (
	"context"
	"sync"
	"time"
)

// TTL holds a single snapshot that is served until it is older than the
// configured time-to-live. Loads are not deduplicated: callers that observe an
// expired snapshot at the same time each refresh it, and the last write wins.
type TTL[T any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	value      T
	capturedAt time.Time
	filled     bool
}

// NewTTL creates an empty cache. A nil now defaults to time.Now.
func NewTTL[T any](ttl time.Duration, now func() time.Time) *TTL[T] {
	if now == nil {
		now = time.Now
	}
	return &TTL[T]{ttl: ttl, now: now}
}

// Get returns the snapshot if one exists and is younger than the TTL.
func (c *TTL[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.filled || c.now().Sub(c.capturedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set replaces the snapshot and stamps it with the current time.
func (c *TTL[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.capturedAt = c.now()
	c.filled = true
}

// Invalidate drops the snapshot so the next GetOrLoad reads through.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.filled = false
}

// GetOrLoad returns the fresh snapshot or calls load and stores its result.
// A failed load keeps whatever snapshot was there before.
func (c *TTL[T]) GetOrLoad(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(); ok {
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(value)
	return value, nil
}
