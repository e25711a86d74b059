package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fjordsync/internal/adapters/config"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, 24*time.Hour, cfg.Cache.DiseaseZonesTTL)
	require.Equal(t, 30*time.Minute, cfg.Cache.FishHealthTTL)
	require.Equal(t, 20, cfg.Fetch.BatchSize)
	require.Equal(t, 100*time.Millisecond, cfg.Fetch.BatchDelay)
	require.Equal(t, 2000, cfg.Offline.MaxTiles)
	require.False(t, cfg.Credentials.Configured())
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fjordsync.yaml")
	content := `
fetch:
  batch_size: 5
  batch_delay: 250ms
cache:
  fish_health_ttl: 10m
credentials:
  client_id: id-from-file
  client_secret: secret-from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, 5, cfg.Fetch.BatchSize)
	require.Equal(t, 250*time.Millisecond, cfg.Fetch.BatchDelay)
	require.Equal(t, 10*time.Minute, cfg.Cache.FishHealthTTL)
	require.True(t, cfg.Credentials.Configured())

	// Untouched sections keep their defaults.
	require.Equal(t, 24*time.Hour, cfg.Cache.DiseaseZonesTTL)
	require.NotEmpty(t, cfg.Endpoints.TokenURL)
}

func TestLoad_EnvOverridesCredentials(t *testing.T) {
	t.Setenv(config.EnvClientID, "env-id")
	t.Setenv(config.EnvClientSecret, "env-secret")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, "env-id", cfg.Credentials.ClientID)
	require.Equal(t, "env-secret", cfg.Credentials.ClientSecret)
	require.True(t, cfg.Credentials.Configured())
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fjordsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fetch: [not a map"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}
