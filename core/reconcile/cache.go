package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// snapshot is one cached value with its build time.
type snapshot[T any] struct {
	value T
	built time.Time
}

// SnapshotCache holds expensive read-only snapshots keyed by name.
// Concurrent misses for the same key share one build.
type SnapshotCache[T any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*snapshot[T]
	sf      singleflight.Group
	now     func() time.Time
}

// NewSnapshotCache creates a cache whose entries live for ttl.
// A zero ttl disables caching; builds are still deduplicated.
func NewSnapshotCache[T any](ttl time.Duration) *SnapshotCache[T] {
	return &SnapshotCache[T]{
		ttl:     ttl,
		entries: make(map[string]*snapshot[T]),
		now:     time.Now,
	}
}

func (c *SnapshotCache[T]) fresh(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.ttl <= 0 || c.now().Sub(entry.built) > c.ttl {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Get returns the cached snapshot for key or builds a new one.
func (c *SnapshotCache[T]) Get(ctx context.Context, key string, build func(context.Context) (T, error)) (T, error) {
	if v, ok := c.fresh(key); ok {
		return v, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if v, ok := c.fresh(key); ok {
			return v, nil
		}

		v, err := build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &snapshot[T]{value: v, built: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Invalidate removes the snapshot for key.
func (c *SnapshotCache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll drops every snapshot.
func (c *SnapshotCache[T]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]*snapshot[T])
	c.mu.Unlock()
}
