// Package app implements the application layer for fjordsync.
package app

import (
	"context"

	"go.trai.ch/fjordsync/internal/cache"
	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/engine/zones"
)

// App represents the main application logic. It exposes the synchronized
// geodata collections to the CLI layer.
type App struct {
	geodata *zones.Service
	caches  *cache.Registry
}

// New creates a new App instance.
func New(geodata *zones.Service, caches *cache.Registry) *App {
	return &App{
		geodata: geodata,
		caches:  caches,
	}
}

// DiseaseZones returns the current disease zone collection.
func (a *App) DiseaseZones(ctx context.Context) domain.ZoneCollection {
	return a.geodata.DiseaseZones(ctx)
}

// ProtectedAreas returns the protected area collection. A non-empty bbox
// restricts the result to areas intersecting it.
func (a *App) ProtectedAreas(ctx context.Context, bbox string) domain.AreaCollection {
	return a.geodata.ProtectedAreas(ctx, bbox)
}

// LocalityPolygons returns the aquaculture site polygon collection.
func (a *App) LocalityPolygons(ctx context.Context) domain.PolygonCollection {
	return a.geodata.LocalityPolygons(ctx)
}

// FishHealth returns per-locality health reports for the given ISO week.
// Zero year or week resolve to the current week. The resolved week is
// returned alongside the reports.
func (a *App) FishHealth(ctx context.Context, year, week int, onProgress func(percent, results int)) ([]domain.LocalityHealth, int, int) {
	if year == 0 || week == 0 {
		year, week = a.geodata.CurrentWeek()
	}
	return a.geodata.FishHealth(ctx, year, week, onProgress), year, week
}

// NearbyFarms returns the farms within radiusKm of the given point, closest
// first.
func (a *App) NearbyFarms(ctx context.Context, lat, lng, radiusKm float64) []domain.NearbyFarm {
	return a.geodata.NearbyFarms(ctx, lat, lng, radiusKm)
}

// Refresh invalidates every cache so the next read hits the upstreams.
func (a *App) Refresh() {
	a.caches.InvalidateAll()
}
