// Package config provides the configuration loader for fjordsync.
package config

import (
	"os"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name, looked up in the
// working directory.
const FileName = "fjordsync.yaml"

// Environment variables overriding the credential fields.
const (
	EnvClientID     = "FJORDSYNC_CLIENT_ID"
	EnvClientSecret = "FJORDSYNC_CLIENT_SECRET"
)

// Default returns the built-in configuration. Endpoint URLs point at the
// public Norwegian geodata services.
func Default() *Config {
	return &Config{
		Endpoints: Endpoints{
			TokenURL:       "https://id.barentswatch.no/connect/token",
			FishHealthBase: "https://www.barentswatch.no/bwapi/v2/geodata",
			ProtectedAreas: "https://kart.miljodirektoratet.no/arcgis/rest/services/vern/MapServer/0/query",
			Localities:     "https://gis.fiskeridir.no/server/rest/services/Yggdrasil/Akvakulturregisteret/FeatureServer/0/query",
			PolygonWFS:     "https://wfs.geonorge.no/skwms1/wfs.akvakulturlokaliteter",
		},
		Cache: Cache{
			DiseaseZonesTTL:     24 * time.Hour,
			ProtectedAreasTTL:   24 * time.Hour,
			LocalityPolygonsTTL: 24 * time.Hour,
			FishHealthTTL:       30 * time.Minute,
		},
		Fetch: Fetch{
			BatchSize:    20,
			BatchDelay:   100 * time.Millisecond,
			HTTPTimeout:  30 * time.Second,
			WeekLookback: 4,
		},
		Offline: Offline{
			TileHosts: []string{
				"tile.openstreetmap.org",
				"a.tile.openstreetmap.org",
				"b.tile.openstreetmap.org",
				"c.tile.openstreetmap.org",
			},
			GeodataHosts: []string{
				"www.barentswatch.no",
				"gis.fiskeridir.no",
				"kart.miljodirektoratet.no",
				"wfs.geonorge.no",
			},
			CacheablePaths: []string{
				"/api/locations",
				"/api/merds",
				"/api/samples",
				"/api/alerts",
			},
			MaxTiles: 2000,
		},
	}
}

// Load reads the configuration from path, overlaying it on the defaults.
// A missing file yields the defaults; a malformed file is an error.
// Credentials can always be overridden through the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file, defaults apply.
	case err != nil:
		return nil, zerr.Wrap(err, "failed to read configuration")
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse configuration"), "path", path)
		}
	}

	if v := os.Getenv(EnvClientID); v != "" {
		cfg.Credentials.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.Credentials.ClientSecret = v
	}

	return cfg, nil
}
