package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[graph]
path = "campus.yaml"

[feed]
interval = "250ms"

[route]
force_via_water = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "campus.yaml", cfg.Graph.Path)
	assert.Equal(t, "W", cfg.Graph.WaterPrefix)
	assert.Equal(t, 250*time.Millisecond, cfg.Feed.Interval.Duration)
	assert.Equal(t, 5*time.Second, cfg.Feed.Timeout.Duration)
	assert.True(t, cfg.Route.ForceViaWater)
	assert.Equal(t, 1.5, cfg.Route.MarkerYOffset)
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[feed]\ninterval = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Watch.Debounce = Duration{time.Second}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
