package arscene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds engine settings. Files may be TOML or YAML.
type Config struct {
	// DefaultVisibleDistance applies to objects that set neither
	// visibleDistance nor distanceExempt. Zero or negative means unlimited.
	DefaultVisibleDistance float64 `toml:"default_visible_distance" yaml:"default_visible_distance"`

	// MaxConcurrentLoads bounds in-flight Factory loads. Zero means 4.
	MaxConcurrentLoads int `toml:"max_concurrent_loads" yaml:"max_concurrent_loads"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Debug enables per-frame stats logging.
	Debug bool `toml:"debug" yaml:"debug"`

	// SnapshotDir is where Snapshot writes state dumps.
	SnapshotDir string `toml:"snapshot_dir" yaml:"snapshot_dir"`

	// Viewer configures the preview window.
	Viewer ViewerConfig `toml:"viewer" yaml:"viewer"`
}

// ViewerConfig configures the ebitenview preview.
type ViewerConfig struct {
	Title      string  `toml:"title" yaml:"title"`
	Width      int     `toml:"width" yaml:"width"`
	Height     int     `toml:"height" yaml:"height"`
	PixelsPerM float64 `toml:"pixels_per_meter" yaml:"pixels_per_meter"`
	EyeHeight  float64 `toml:"eye_height" yaml:"eye_height"`
	MoveSpeed  float64 `toml:"move_speed" yaml:"move_speed"`
	ShowStats  bool    `toml:"show_stats" yaml:"show_stats"`
}

const defaultMaxConcurrentLoads = 4

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentLoads: defaultMaxConcurrentLoads,
		LogLevel:           "info",
		SnapshotDir:        "snapshots",
		Viewer: ViewerConfig{
			Title:      "arscene viewer",
			Width:      960,
			Height:     720,
			PixelsPerM: 80,
			EyeHeight:  1.6,
			MoveSpeed:  2,
			ShowStats:  true,
		},
	}
}

// LoadConfig reads a config file, choosing the decoder by extension
// (.toml, .yaml, .yml). Unset fields keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("read config: unsupported extension %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// visibleDistance returns DefaultVisibleDistance as a float32, with
// non-positive values meaning unlimited.
func (c Config) visibleDistance() float32 {
	if c.DefaultVisibleDistance <= 0 || math.IsInf(c.DefaultVisibleDistance, 1) {
		return Infinity
	}
	return float32(c.DefaultVisibleDistance)
}

func (c Config) loadLimit() int {
	if c.MaxConcurrentLoads <= 0 {
		return defaultMaxConcurrentLoads
	}
	return c.MaxConcurrentLoads
}
