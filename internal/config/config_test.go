package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

// isolate keeps user and local config files out of the search path.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"BRIX_PRESET", "BRIX_SCROLL_SPEED", "BRIX_ATTACKS", "BRIX_PANIC_TIME"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	isolate(t)

	cfg, err := LoadBrix("")
	if err != nil {
		t.Fatalf("LoadBrix() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultBrixConfig()) {
		t.Errorf("LoadBrix() = %+v, expected %+v", cfg, DefaultBrixConfig())
	}
}

func TestLoadBrixCustomPath(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "brix.yaml")
	data := []byte("pit:\n  cols: 8\ntiming:\n  panic: 120\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadBrix(path)
	if err != nil {
		t.Fatalf("LoadBrix() error = %v", err)
	}
	if cfg.Pit.Cols != 8 {
		t.Errorf("Pit.Cols = %d, expected 8", cfg.Pit.Cols)
	}
	if cfg.Timing.Panic != 120 {
		t.Errorf("Timing.Panic = %d, expected 120", cfg.Timing.Panic)
	}
	if cfg.Pit.Rows != 10 {
		t.Errorf("Pit.Rows = %d, expected default 10", cfg.Pit.Rows)
	}
}

func TestLoadBrixErrors(t *testing.T) {
	isolate(t)

	if _, err := LoadBrix(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadBrix(missing) should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pit: [1, 2"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadBrix(path); err == nil {
		t.Error("LoadBrix(bad yaml) should fail")
	}
}

func TestApplyBrixEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BRIX_SCROLL_SPEED", "3")
	t.Setenv("BRIX_ATTACKS", "false")
	t.Setenv("BRIX_PRESET", "hard")

	cfg := DefaultBrixConfig()
	if err := ApplyBrixEnv(&cfg); err != nil {
		t.Fatalf("ApplyBrixEnv() error = %v", err)
	}
	if cfg.Timing.ScrollSpeed != 3 {
		t.Errorf("ScrollSpeed = %d, expected 3", cfg.Timing.ScrollSpeed)
	}
	if cfg.Garbage.Attacks {
		t.Error("Attacks should be disabled")
	}
	if cfg.Timing.Panic != 60 {
		t.Errorf("Panic = %d, expected 60 from hard preset", cfg.Timing.Panic)
	}
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("InitialLevel = %v, expected 0.7", cfg.Difficulty.InitialLevel)
	}
}

func TestApplyBrixEnvRejectsUnknownPreset(t *testing.T) {
	isolate(t)
	t.Setenv("BRIX_PRESET", "nightmare")

	cfg := DefaultBrixConfig()
	if err := ApplyBrixEnv(&cfg); err == nil {
		t.Error("ApplyBrixEnv() should reject unknown preset")
	}
}

func TestApplyBrixPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
		panic   int
	}{
		{DifficultyEasy, true, 0.0, 150},
		{DifficultyNormal, true, 0.3, 90},
		{DifficultyHard, true, 0.7, 60},
		{DifficultyInsane, true, 1.0, 45},
		{DifficultyFixed, false, 0.0, 90},
		{"", true, 0.0, 90},
	}

	for _, tt := range tests {
		cfg := DefaultBrixConfig()
		ApplyBrixPreset(&cfg, tt.preset)
		if cfg.Difficulty.Enabled != tt.enabled {
			t.Errorf("%q: Enabled = %v, expected %v", tt.preset, cfg.Difficulty.Enabled, tt.enabled)
		}
		if cfg.Difficulty.InitialLevel != tt.level {
			t.Errorf("%q: InitialLevel = %v, expected %v", tt.preset, cfg.Difficulty.InitialLevel, tt.level)
		}
		if cfg.Timing.Panic != tt.panic {
			t.Errorf("%q: Panic = %d, expected %d", tt.preset, cfg.Timing.Panic, tt.panic)
		}
	}
}

func TestParsePreset(t *testing.T) {
	if got := ParsePreset("insane"); got != DifficultyInsane {
		t.Errorf("ParsePreset(insane) = %q", got)
	}
	if got := ParsePreset("medium"); got != "" {
		t.Errorf("ParsePreset(medium) = %q, expected empty", got)
	}
}

func TestRules(t *testing.T) {
	rules, err := DefaultBrixConfig().Rules()
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	if rules != core.DefaultRules() {
		t.Errorf("Rules() = %+v, expected %+v", rules, core.DefaultRules())
	}
	if got := DefaultBrixConfig().Points(); got != core.DefaultScoring() {
		t.Errorf("Scoring() = %+v, expected %+v", got, core.DefaultScoring())
	}

	bad := DefaultBrixConfig()
	bad.Pit.Cols = 1
	if _, err := bad.Rules(); err == nil {
		t.Error("Rules() should reject a one-column pit")
	}
}

func TestDifficultyScrollSpeed(t *testing.T) {
	d := NewDifficultyManager(DefaultBrixConfig().Difficulty)

	tests := []struct {
		ticks int
		speed int
		level int
	}{
		{0, 1, 1},
		{9000, 3, 5},
		{18000, 5, 10},
		{50000, 5, 10},
	}
	for _, tt := range tests {
		if got := d.ScrollSpeed(1, 0, tt.ticks); got != tt.speed {
			t.Errorf("ScrollSpeed(ticks=%d) = %d, expected %d", tt.ticks, got, tt.speed)
		}
		if got := d.SpeedLevel(0, tt.ticks); got != tt.level {
			t.Errorf("SpeedLevel(ticks=%d) = %d, expected %d", tt.ticks, got, tt.level)
		}
	}
}

func TestDifficultyDisabledStaysAtInitialLevel(t *testing.T) {
	cfg := DefaultBrixConfig().Difficulty
	cfg.Enabled = false
	cfg.InitialLevel = 0.5
	d := NewDifficultyManager(cfg)

	if got := d.Level(0, 1_000_000); got != 0.5 {
		t.Errorf("Level() = %v, expected 0.5", got)
	}
	if got := d.ScrollSpeed(2, 0, 0); got != 6 {
		t.Errorf("ScrollSpeed(2) = %d, expected 6", got)
	}
}
