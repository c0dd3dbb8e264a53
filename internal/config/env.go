package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// brixEnv holds raw env values for Brix configuration. Unset values leave
// the loaded config alone.
type brixEnv struct {
	Preset          string `env:"BRIX_PRESET"`
	Cols            int    `env:"BRIX_COLS"`
	Rows            int    `env:"BRIX_ROWS"`
	StartRows       int    `env:"BRIX_START_ROWS"`
	ScrollSpeed     int    `env:"BRIX_SCROLL_SPEED"`
	PanicTime       int    `env:"BRIX_PANIC_TIME"`
	DissolveAllRows *bool  `env:"BRIX_DISSOLVE_ALL_ROWS"`
	Attacks         *bool  `env:"BRIX_ATTACKS"`
}

// ApplyBrixEnv overrides cfg with BRIX_* environment variables.
func ApplyBrixEnv(cfg *BrixConfig) error {
	var raw brixEnv
	if err := ParseEnv(&raw); err != nil {
		return err
	}

	if raw.Preset != "" {
		preset := ParsePreset(raw.Preset)
		if preset == "" {
			return fmt.Errorf("parse env: unknown preset %q", raw.Preset)
		}
		ApplyBrixPreset(cfg, preset)
	}
	if raw.Cols > 0 {
		cfg.Pit.Cols = raw.Cols
	}
	if raw.Rows > 0 {
		cfg.Pit.Rows = raw.Rows
	}
	if raw.StartRows > 0 {
		cfg.Pit.StartRows = raw.StartRows
	}
	if raw.ScrollSpeed > 0 {
		cfg.Timing.ScrollSpeed = raw.ScrollSpeed
	}
	if raw.PanicTime > 0 {
		cfg.Timing.Panic = raw.PanicTime
	}
	if raw.DissolveAllRows != nil {
		cfg.Garbage.DissolveAllRows = *raw.DissolveAllRows
	}
	if raw.Attacks != nil {
		cfg.Garbage.Attacks = *raw.Attacks
	}
	return nil
}
