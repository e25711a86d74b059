package config

import "time"

// Config is the full configuration of the sync engine.
type Config struct {
	Endpoints   Endpoints   `yaml:"endpoints"`
	Credentials Credentials `yaml:"credentials"`
	Cache       Cache       `yaml:"cache"`
	Fetch       Fetch       `yaml:"fetch"`
	Offline     Offline     `yaml:"offline"`
}

// Endpoints holds the upstream service URLs.
type Endpoints struct {
	// TokenURL is the OAuth2 client-credentials token endpoint.
	TokenURL string `yaml:"token_url"`
	// FishHealthBase is the base URL of the fish health geodata API.
	FishHealthBase string `yaml:"fishhealth_base"`
	// ProtectedAreas is the ArcGIS REST query endpoint for conservation areas.
	ProtectedAreas string `yaml:"protected_areas"`
	// Localities is the ArcGIS REST query endpoint of the aquaculture register.
	Localities string `yaml:"localities"`
	// PolygonWFS is the WFS endpoint serving facility boundary GML.
	PolygonWFS string `yaml:"polygon_wfs"`
}

// Credentials holds the OAuth client credentials. Both fields may be empty;
// every consumer must then fall through to cached or mock data.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Configured reports whether both credential fields are set.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Cache holds the per-cache TTLs.
type Cache struct {
	DiseaseZonesTTL     time.Duration `yaml:"disease_zones_ttl"`
	ProtectedAreasTTL   time.Duration `yaml:"protected_areas_ttl"`
	LocalityPolygonsTTL time.Duration `yaml:"locality_polygons_ttl"`
	FishHealthTTL       time.Duration `yaml:"fish_health_ttl"`
}

// Fetch holds the batching and transport knobs.
type Fetch struct {
	BatchSize   int           `yaml:"batch_size"`
	BatchDelay  time.Duration `yaml:"batch_delay"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// WeekLookback is how many earlier reporting weeks to try when the
	// requested week has no data yet.
	WeekLookback int `yaml:"week_lookback"`
}

// Offline configures the offline resilience layer.
type Offline struct {
	TileHosts      []string `yaml:"tile_hosts"`
	GeodataHosts   []string `yaml:"geodata_hosts"`
	CacheablePaths []string `yaml:"cacheable_paths"`
	MaxTiles       int      `yaml:"max_tiles"`
}
