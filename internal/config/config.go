// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

// BrixConfig contains all configuration for the Brix game.
type BrixConfig struct {
	Pit        BrixPit          `yaml:"pit"`
	Timing     BrixTiming       `yaml:"timing"`
	Garbage    BrixGarbage      `yaml:"garbage"`
	Scoring    BrixScoring      `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BrixPit defines the field geometry.
type BrixPit struct {
	Cols      int `yaml:"cols"`
	Rows      int `yaml:"rows"`
	RowHeight int `yaml:"row_height"` // scroll units per row
	StartRows int `yaml:"start_rows"` // rows of blocks at the start of a game
}

// BrixTiming defines speeds and durations. Durations are in ticks.
type BrixTiming struct {
	FallSpeed   int `yaml:"fall_speed"`
	ScrollSpeed int `yaml:"scroll_speed"`
	RaiseSpeed  int `yaml:"raise_speed"`
	Swap        int `yaml:"swap"`
	Break       int `yaml:"break"`
	Dissolve    int `yaml:"dissolve"`
	Land        int `yaml:"land"`
	Recovery    int `yaml:"recovery"`
	Panic       int `yaml:"panic"`
	Intro       int `yaml:"intro"`
}

// BrixGarbage defines garbage behavior.
type BrixGarbage struct {
	DissolveAllRows bool `yaml:"dissolve_all_rows"`
	Attacks         bool `yaml:"attacks"` // versus: combos and chains send garbage
}

// BrixScoring defines point values.
type BrixScoring struct {
	Block int `yaml:"block"`
	Combo int `yaml:"combo"`
	Chain int `yaml:"chain"`
	Raise int `yaml:"raise"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to scroll speed at max difficulty
	Levels          int     `yaml:"levels"`           // Number of displayed speed levels
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyInsane DifficultyPreset = "insane"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a user-supplied name to a preset. Unknown names yield the
// empty preset, which keeps the config's own values.
func ParsePreset(name string) DifficultyPreset {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyInsane, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	case DifficultyInsane:
		return 1.0
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
