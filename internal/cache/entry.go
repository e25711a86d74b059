// Package cache provides the single-entry TTL caches used by the geodata
// services. Each named cache holds exactly one payload; there is no
// eviction here. Bounded multi-entry caching lives in the offline layer.
package cache

import (
	"sync"
	"time"
)

// Entry is a freshness-checked holder for one fetched payload.
type Entry[T any] struct {
	mu        sync.RWMutex
	data      T
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// Option configures an Entry.
type Option[T any] func(*Entry[T])

// WithClock overrides the time source. Used by tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(e *Entry[T]) { e.now = now }
}

// New creates an empty entry with the given TTL. A never-written entry is
// always stale.
func New[T any](ttl time.Duration, opts ...Option[T]) *Entry[T] {
	e := &Entry[T]{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Read returns the stored payload only if it is not stale.
func (e *Entry[T]) Read() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.stale() {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Last returns the most recent write regardless of freshness, for fallback
// after a failed refresh. The second return is false if the entry has never
// been written or has been invalidated.
func (e *Entry[T]) Last() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.fetchedAt.IsZero() {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Write replaces the payload and resets the fetch time.
func (e *Entry[T]) Write(data T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = data
	e.fetchedAt = e.now()
}

// Invalidate clears both the payload and the fetch time.
func (e *Entry[T]) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero T
	e.data = zero
	e.fetchedAt = time.Time{}
}

// IsStale reports whether the entry must be refreshed before use. It never
// mutates the entry.
func (e *Entry[T]) IsStale() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stale()
}

func (e *Entry[T]) stale() bool {
	if e.fetchedAt.IsZero() {
		return true
	}
	return e.now().Sub(e.fetchedAt) >= e.ttl
}
