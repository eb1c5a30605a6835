package arscene

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxConcurrentLoads != 4 {
		t.Errorf("MaxConcurrentLoads = %d, want 4", cfg.MaxConcurrentLoads)
	}
	if cfg.visibleDistance() != Infinity {
		t.Errorf("default visible distance = %v, want +Inf", cfg.visibleDistance())
	}
	if cfg.SnapshotDir != "snapshots" {
		t.Errorf("SnapshotDir = %q", cfg.SnapshotDir)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"toml", "arscene.toml", `
default_visible_distance = 25.0
max_concurrent_loads = 2
log_level = "debug"

[viewer]
title = "Lobby"
width = 640
`},
		{"yaml", "arscene.yaml", `
default_visible_distance: 25
max_concurrent_loads: 2
log_level: debug
viewer:
  title: Lobby
  width: 640
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, tt.file, tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.DefaultVisibleDistance != 25 || cfg.loadLimit() != 2 || cfg.LogLevel != "debug" {
				t.Errorf("cfg = %+v", cfg)
			}
			if cfg.Viewer.Title != "Lobby" || cfg.Viewer.Width != 640 {
				t.Errorf("viewer = %+v", cfg.Viewer)
			}
			// Unset fields keep their defaults.
			if cfg.Viewer.Height != 720 || cfg.SnapshotDir != "snapshots" {
				t.Errorf("defaults lost: height %d dir %q", cfg.Viewer.Height, cfg.SnapshotDir)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadConfig(writeFile(t, "arscene.ini", "x=1")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := LoadConfig(writeFile(t, "bad.toml", "max_concurrent_loads = [")); err == nil {
		t.Error("expected error for malformed toml")
	}
}

func TestConfigLimits(t *testing.T) {
	cfg := Config{MaxConcurrentLoads: -1, DefaultVisibleDistance: -5}
	if cfg.loadLimit() != 4 {
		t.Errorf("loadLimit = %d, want 4", cfg.loadLimit())
	}
	if cfg.visibleDistance() != Infinity {
		t.Error("negative distance should mean unlimited")
	}
	cfg.DefaultVisibleDistance = 8
	if cfg.visibleDistance() != 8 {
		t.Errorf("visibleDistance = %v, want 8", cfg.visibleDistance())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		err  bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}
