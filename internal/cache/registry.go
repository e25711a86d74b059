package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Default TTLs for the named caches.
const (
	TTLDiseaseZones     = 24 * time.Hour
	TTLProtectedAreas   = 24 * time.Hour
	TTLLocalityPolygons = 24 * time.Hour
	TTLFishHealth       = 30 * time.Minute
)

// Names of the registered caches.
const (
	NameDiseaseZones     = "disease-zones"
	NameProtectedAreas   = "protected-areas"
	NameLocalityPolygons = "locality-polygons"
	NameFishHealth       = "fish-health"
)

// store is the invalidation surface every typed entry exposes.
type store interface {
	Invalidate()
	IsStale() bool
}

// Registry is the fixed set of independent named TTL caches. It is
// constructed once per process and injected into the services that use it;
// it is not a general key-value store.
type Registry struct {
	mu     sync.Mutex
	caches map[string]store
	flight singleflight.Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]store)}
}

// Register adds a named cache. Registering the same name twice replaces the
// previous entry.
func (r *Registry) Register(name string, c store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caches[name] = c
}

// InvalidateAll clears every registered cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.caches {
		c.Invalidate()
	}
}

// Refresh returns the fresh cached value for e, or refreshes it through fn.
// Concurrent refreshes of the same name are collapsed into a single
// upstream fetch; latecomers share its result. The entry is re-checked
// inside the flight so a refresh that completed while waiting is reused.
func Refresh[T any](ctx context.Context, r *Registry, name string, e *Entry[T], fn func(context.Context) (T, error)) (T, error) {
	if v, ok := e.Read(); ok {
		return v, nil
	}

	v, err, _ := r.flight.Do(name, func() (any, error) {
		if v, ok := e.Read(); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		e.Write(v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
