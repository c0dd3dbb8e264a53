package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBrix loads Brix configuration and applies BRIX_* environment
// overrides on top of it.
// Search order: customPath -> ~/.arcade/configs/brix.yaml -> ./configs/brix.yaml -> embedded default
func LoadBrix(customPath string) (BrixConfig, error) {
	cfg, err := loadBrixYAML(customPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyBrixEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadBrixYAML(customPath string) (BrixConfig, error) {
	cfg := DefaultBrixConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("brix.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			user := DefaultBrixConfig()
			if err := yaml.Unmarshal(data, &user); err == nil {
				return user, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/brix.yaml"); err == nil {
		local := DefaultBrixConfig()
		if err := yaml.Unmarshal(data, &local); err == nil {
			return local, nil
		}
	}

	// Use embedded default YAML
	var embedded BrixConfig
	if err := yaml.Unmarshal(defaultBrixYAML, &embedded); err != nil {
		return DefaultBrixConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyBrixPreset modifies the config based on a difficulty preset.
func ApplyBrixPreset(cfg *BrixConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Adjust how long a full field survives
	switch preset {
	case DifficultyEasy:
		cfg.Timing.Panic = 150
	case DifficultyHard:
		cfg.Timing.Panic = 60
	case DifficultyInsane:
		cfg.Timing.Panic = 45
		cfg.Timing.Recovery = 25
	}
}
