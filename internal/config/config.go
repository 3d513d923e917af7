package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds wayfinder configuration.
type Config struct {
	Graph   GraphConfig   `toml:"graph"`
	Feed    FeedConfig    `toml:"feed"`
	Route   RouteConfig   `toml:"route"`
	Log     LogConfig     `toml:"log"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
}

// GraphConfig locates the waypoint graph.
type GraphConfig struct {
	Path        string `toml:"path"`
	WaterPrefix string `toml:"water_prefix"`
}

// FeedConfig controls goal polling.
type FeedConfig struct {
	URL      string   `toml:"url"`
	Timeout  Duration `toml:"timeout"`
	Interval Duration `toml:"interval"`
}

// RouteConfig controls route selection and markers.
type RouteConfig struct {
	ForceViaWater bool    `toml:"force_via_water"`
	MarkerYOffset float64 `toml:"marker_y_offset"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "text", "json"
}

// HistoryConfig controls the route journal.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// WatchConfig controls reloading the graph file on change.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled"`
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as a string such as "1s".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{Path: "graph.yaml", WaterPrefix: "W"},
		Feed: FeedConfig{
			URL:      "http://localhost:5050/fire-source",
			Timeout:  Duration{5 * time.Second},
			Interval: Duration{time.Second},
		},
		Route:   RouteConfig{ForceViaWater: false, MarkerYOffset: 1.5},
		Log:     LogConfig{Level: "info", Format: "text"},
		History: HistoryConfig{Enabled: false, Path: filepath.Join(".wayfinder", "routes.db")},
		Watch:   WatchConfig{Enabled: true, Debounce: Duration{200 * time.Millisecond}},
	}
}

// ConfigDir returns the wayfinder config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wayfinder")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
