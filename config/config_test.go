package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Wind.Speed <= 0 {
		t.Errorf("default wind speed = %v, want positive", cfg.Wind.Speed)
	}
	if cfg.Annealing.InitialTemp != 1000 {
		t.Errorf("default initial_temp = %v, want 1000", cfg.Annealing.InitialTemp)
	}
	if cfg.Annealing.CoolingRate != 0.95 {
		t.Errorf("default cooling_rate = %v, want 0.95", cfg.Annealing.CoolingRate)
	}
	if cfg.Layout.Pillars <= 0 {
		t.Errorf("default pillar count = %d, want positive", cfg.Layout.Pillars)
	}
}

func TestLoadMergesUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	user := []byte("wind:\n  speed: 12.5\nannealing:\n  seed: 777\n")
	if err := os.WriteFile(path, user, 0644); err != nil {
		t.Fatalf("writing user config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Wind.Speed != 12.5 {
		t.Errorf("user wind speed not applied: %v", cfg.Wind.Speed)
	}
	if cfg.Annealing.Seed != 777 {
		t.Errorf("user seed not applied: %v", cfg.Annealing.Seed)
	}
	// Untouched fields keep their defaults.
	if cfg.Constraints.MinSpacing != 4.0 {
		t.Errorf("default min_spacing lost during merge: %v", cfg.Constraints.MinSpacing)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"inverted spacing", "constraints:\n  min_spacing: 25.0\n"},
		{"inverted heights", "constraints:\n  min_height: 99.0\n"},
		{"zero area", "constraints:\n  area_width: 0\n"},
		{"zero grid", "grid:\n  nx: 0\n"},
		{"bad cooling rate", "annealing:\n  cooling_rate: 1.5\n"},
		{"zero pillars", "layout:\n  pillars: 0\n"},
		{"bad turbulence mode", "turbulence:\n  mode: perlin\n"},
		{"negative wind", "wind:\n  speed: -3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("writing config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDerivedBounds(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Derived.Bounds.Width != cfg.Constraints.AreaWidth {
		t.Errorf("derived width = %v, want area width %v", cfg.Derived.Bounds.Width, cfg.Constraints.AreaWidth)
	}
	if cfg.Derived.Bounds.Depth != cfg.Constraints.AreaDepth {
		t.Errorf("derived depth = %v, want area depth %v", cfg.Derived.Bounds.Depth, cfg.Constraints.AreaDepth)
	}
	if cfg.Derived.Bounds.Height <= cfg.Constraints.MaxHeight {
		t.Errorf("derived volume height %v should exceed max pillar height %v",
			cfg.Derived.Bounds.Height, cfg.Constraints.MaxHeight)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Wind.Speed = 11.25
	cfg.Annealing.Seed = 1234

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if reloaded.Wind.Speed != 11.25 {
		t.Errorf("wind speed round trip = %v, want 11.25", reloaded.Wind.Speed)
	}
	if reloaded.Annealing.Seed != 1234 {
		t.Errorf("seed round trip = %v, want 1234", reloaded.Annealing.Seed)
	}
}
