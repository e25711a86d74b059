package zones

import (
	"context"
	"time"

	"go.trai.ch/fjordsync/internal/cache"
	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/core/ports"
	"go.trai.ch/fjordsync/internal/engine/fetch"
)

// HealthAPI is the fish health upstream surface the service needs.
type HealthAPI interface {
	LocalitiesForWeek(ctx context.Context, year, week, lookback int) ([]domain.Locality, int, error)
	Localities(ctx context.Context) ([]domain.Locality, error)
	LocalityHealth(ctx context.Context, localityNo, year, week int) (domain.LocalityHealth, error)
}

// AreaAPI serves conservation areas.
type AreaAPI interface {
	ProtectedAreas(ctx context.Context, bbox string) (domain.AreaCollection, error)
}

// PolygonAPI serves facility boundary polygons.
type PolygonAPI interface {
	LocalityPolygons(ctx context.Context) (domain.PolygonCollection, error)
}

// HealthSnapshot is the cached result of one fish health fan-out.
type HealthSnapshot struct {
	Year    int                     `json:"year"`
	Week    int                     `json:"week"`
	Reports []domain.LocalityHealth `json:"reports"`
}

// Config carries the service knobs.
type Config struct {
	DiseaseZonesTTL     time.Duration
	ProtectedAreasTTL   time.Duration
	LocalityPolygonsTTL time.Duration
	FishHealthTTL       time.Duration

	BatchSize    int
	BatchDelay   time.Duration
	WeekLookback int
}

func (c *Config) defaults() {
	if c.DiseaseZonesTTL <= 0 {
		c.DiseaseZonesTTL = cache.TTLDiseaseZones
	}
	if c.ProtectedAreasTTL <= 0 {
		c.ProtectedAreasTTL = cache.TTLProtectedAreas
	}
	if c.LocalityPolygonsTTL <= 0 {
		c.LocalityPolygonsTTL = cache.TTLLocalityPolygons
	}
	if c.FishHealthTTL <= 0 {
		c.FishHealthTTL = cache.TTLFishHealth
	}
	if c.WeekLookback <= 0 {
		c.WeekLookback = 4
	}
}

// Service serves the geodata collections with a degrade-gracefully ladder:
// live fetch, then stale cache, then the built-in mock dataset. The "get"
// operations never fail; failures are logged and the ladder steps down.
type Service struct {
	health   HealthAPI
	areas    AreaAPI
	polygons PolygonAPI

	registry    *cache.Registry
	zoneCache   *cache.Entry[domain.ZoneCollection]
	areaCache   *cache.Entry[domain.AreaCollection]
	polyCache   *cache.Entry[domain.PolygonCollection]
	healthCache *cache.Entry[HealthSnapshot]

	cfg      Config
	log      ports.Logger
	reporter ports.ProgressReporter
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithReporter attaches a progress reporter to the fish health fan-out.
func WithReporter(r ports.ProgressReporter) ServiceOption {
	return func(s *Service) { s.reporter = r }
}

// NewService creates the geodata service and registers its caches.
func NewService(health HealthAPI, areas AreaAPI, polygons PolygonAPI, registry *cache.Registry, cfg Config, log ports.Logger, opts ...ServiceOption) *Service {
	cfg.defaults()
	s := &Service{
		health:   health,
		areas:    areas,
		polygons: polygons,
		registry: registry,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.zoneCache = cache.New[domain.ZoneCollection](cfg.DiseaseZonesTTL, cache.WithClock[domain.ZoneCollection](s.now))
	s.areaCache = cache.New[domain.AreaCollection](cfg.ProtectedAreasTTL, cache.WithClock[domain.AreaCollection](s.now))
	s.polyCache = cache.New[domain.PolygonCollection](cfg.LocalityPolygonsTTL, cache.WithClock[domain.PolygonCollection](s.now))
	s.healthCache = cache.New[HealthSnapshot](cfg.FishHealthTTL, cache.WithClock[HealthSnapshot](s.now))

	registry.Register(cache.NameDiseaseZones, s.zoneCache)
	registry.Register(cache.NameProtectedAreas, s.areaCache)
	registry.Register(cache.NameLocalityPolygons, s.polyCache)
	registry.Register(cache.NameFishHealth, s.healthCache)

	return s
}

// CurrentWeek returns the ISO year and week of the service clock.
func (s *Service) CurrentWeek() (year, week int) {
	return s.now().ISOWeek()
}

// DiseaseZones returns the monitoring circles for the current reporting
// week. Fresh cache wins; otherwise the localities are fetched, zones are
// generated and cached. On failure the last cached copy is served even if
// stale, and with nothing cached the mock dataset.
func (s *Service) DiseaseZones(ctx context.Context) domain.ZoneCollection {
	coll, err := cache.Refresh(ctx, s.registry, cache.NameDiseaseZones, s.zoneCache, func(ctx context.Context) (domain.ZoneCollection, error) {
		year, week := s.CurrentWeek()
		localities, gotWeek, err := s.health.LocalitiesForWeek(ctx, year, week, s.cfg.WeekLookback)
		if err != nil {
			return domain.ZoneCollection{}, err
		}
		coll := Generate(localities, s.now(), "BarentsWatch")
		s.log.Info("disease zones generated",
			"week", gotWeek,
			"zones", coll.Stats.Total,
			"ila", coll.Stats.ILAZones,
			"pd", coll.Stats.PDZones)
		return coll, nil
	})
	if err == nil {
		return coll
	}

	s.log.Error(err)
	if last, ok := s.zoneCache.Last(); ok {
		s.log.Warn("serving stale disease zones")
		return last
	}
	s.log.Warn("serving mock disease zones")
	return MockDiseaseZones(s.now())
}

// ProtectedAreas returns conservation areas. A non-empty bbox
// ("minLng,minLat,maxLng,maxLat") bypasses the cache entirely; only the
// full dataset is cached.
func (s *Service) ProtectedAreas(ctx context.Context, bbox string) domain.AreaCollection {
	if bbox != "" {
		coll, err := s.areas.ProtectedAreas(ctx, bbox)
		if err != nil {
			s.log.Error(err)
			return MockProtectedAreas(s.now())
		}
		return coll
	}

	coll, err := cache.Refresh(ctx, s.registry, cache.NameProtectedAreas, s.areaCache, func(ctx context.Context) (domain.AreaCollection, error) {
		return s.areas.ProtectedAreas(ctx, "")
	})
	if err == nil {
		return coll
	}

	s.log.Error(err)
	if last, ok := s.areaCache.Last(); ok {
		s.log.Warn("serving stale protected areas")
		return last
	}
	s.log.Warn("serving mock protected areas")
	return MockProtectedAreas(s.now())
}

// LocalityPolygons returns facility boundaries. On failure with nothing
// cached an empty collection is returned; there is no mock dataset for
// polygons.
func (s *Service) LocalityPolygons(ctx context.Context) domain.PolygonCollection {
	coll, err := cache.Refresh(ctx, s.registry, cache.NameLocalityPolygons, s.polyCache, func(ctx context.Context) (domain.PolygonCollection, error) {
		return s.polygons.LocalityPolygons(ctx)
	})
	if err == nil {
		return coll
	}

	s.log.Error(err)
	if last, ok := s.polyCache.Last(); ok {
		s.log.Warn("serving stale locality polygons")
		return last
	}
	return domain.PolygonCollection{FetchedAt: s.now(), Source: "Error"}
}

// FishHealth fans out per-locality health requests for the given reporting
// week and returns the collected reports. onProgress, when non-nil, is
// called after each chunk. The snapshot is cached per (year, week); a
// cached snapshot for another week is refetched.
func (s *Service) FishHealth(ctx context.Context, year, week int, onProgress func(percent, results int)) []domain.LocalityHealth {
	if snap, ok := s.healthCache.Read(); ok && snap.Year == year && snap.Week == week {
		return snap.Reports
	}

	localities, err := s.health.Localities(ctx)
	if err != nil {
		s.log.Error(err)
		if snap, ok := s.healthCache.Last(); ok && snap.Year == year && snap.Week == week {
			s.log.Warn("serving stale fish health data")
			return snap.Reports
		}
		return nil
	}

	reports, err := fetch.FetchAll(ctx, localities, func(ctx context.Context, loc domain.Locality) (domain.LocalityHealth, error) {
		return s.health.LocalityHealth(ctx, loc.LocalityNo, year, week)
	}, fetch.Options{
		BatchSize:  s.cfg.BatchSize,
		BatchDelay: s.cfg.BatchDelay,
		OnProgress: onProgress,
		Reporter:   s.reporter,
		Name:       "fish health",
	}, s.log)
	if err != nil {
		s.log.Error(err)
		return reports
	}

	s.healthCache.Write(HealthSnapshot{Year: year, Week: week, Reports: reports})
	s.log.Info("fish health data fetched", "localities", len(reports), "year", year, "week", week)
	return reports
}

// EnrichLocalities merges fan-out reports into the locality set by
// locality number and reclassifies the lice status for the given week.
// Localities without a report pass through unchanged.
func EnrichLocalities(localities []domain.Locality, reports []domain.LocalityHealth, week int) []domain.Locality {
	if len(reports) == 0 {
		return localities
	}

	byNo := make(map[int]domain.LocalityHealth, len(reports))
	for _, r := range reports {
		if r.LocalityNo != 0 {
			byNo[r.LocalityNo] = r
		}
	}

	out := make([]domain.Locality, len(localities))
	for i, loc := range localities {
		if r, ok := byNo[loc.LocalityNo]; ok {
			loc.AvgAdultFemaleLice = r.AvgAdultFemaleLice
			loc.AvgMobileLice = r.AvgMobileLice
			loc.SeaTemperature = r.SeaTemperature
			loc.Diseases = r.Diseases
			loc.IsFallow = r.IsFallow
			loc.HasReported = r.HasReported
			loc.Status = domain.ClassifyLice(r.AvgAdultFemaleLice, week)
		}
		out[i] = loc
	}
	return out
}

// NearbyFarms returns the localities within radiusKm of the given point,
// closest first. The locality set degrades like DiseaseZones: live, then
// the mock dataset.
func (s *Service) NearbyFarms(ctx context.Context, lat, lng, radiusKm float64) []domain.NearbyFarm {
	year, week := s.CurrentWeek()
	localities, _, err := s.health.LocalitiesForWeek(ctx, year, week, s.cfg.WeekLookback)
	if err != nil {
		s.log.Error(err)
		localities = MockLocalities(year, week)
	}
	return domain.NearbyFarms(lat, lng, radiusKm, localities)
}
