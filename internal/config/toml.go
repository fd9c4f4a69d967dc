// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice   PracticeConfig   `toml:"practice"`
	Adaptation AdaptationConfig `toml:"adaptation"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Name       *string `toml:"name"`
	Difficulty *string `toml:"difficulty"`
	Puzzles    *int    `toml:"puzzles"`
	Window     *int    `toml:"window"`
	Seed       *int64  `toml:"seed"`
	Plain      *bool   `toml:"plain"`
	NoSave     *bool   `toml:"no-save"`
}

// AdaptationConfig maps difficulty adaptation thresholds.
type AdaptationConfig struct {
	High        *float64 `toml:"high"`
	Low         *float64 `toml:"low"`
	MinAttempts *int     `toml:"min-attempts"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
