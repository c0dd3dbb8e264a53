package config

import (
	_ "embed"
)

//go:embed defaults/brix.yaml
var defaultBrixYAML []byte

// DefaultBrixConfig returns the default Brix configuration.
func DefaultBrixConfig() BrixConfig {
	return BrixConfig{
		Pit: BrixPit{
			Cols:      6,
			Rows:      10,
			RowHeight: 200,
			StartRows: 5,
		},
		Timing: BrixTiming{
			FallSpeed:   35,
			ScrollSpeed: 1,
			RaiseSpeed:  15,
			Swap:        6,
			Break:       30,
			Dissolve:    30,
			Land:        20,
			Recovery:    50,
			Panic:       90,
			Intro:       20,
		},
		Garbage: BrixGarbage{
			DissolveAllRows: false,
			Attacks:         true,
		},
		Scoring: BrixScoring{
			Block: 10,
			Combo: 20,
			Chain: 50,
			Raise: 1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 18000, // ten minutes at 30 ticks per second
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 4.0,
				Levels:          10,
			},
		},
	}
}
