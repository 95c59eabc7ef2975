// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	LogLevel *string      `toml:"log-level"`
	Calc     CalcConfig   `toml:"calc"`
	Driver   DriverConfig `toml:"driver"`
	Tuner    TunerConfig  `toml:"tuner"`
}

// CalcConfig maps curve sampling and preview settings.
type CalcConfig struct {
	Profile    *string  `toml:"profile"`
	SpeedMax   *float64 `toml:"speed-max"`
	Samples    *int     `toml:"samples"`
	Dense      *bool    `toml:"dense"`
	PlotHeight *int     `toml:"plot-height"`
}

// DriverConfig maps where validated settings are written.
type DriverConfig struct {
	Output *string `toml:"output"`
}

// TunerConfig maps the interactive tuner's motion preview.
type TunerConfig struct {
	Seed      *int64   `toml:"seed"`
	RateHz    *float64 `toml:"rate"`
	MaxCounts *float64 `toml:"max-counts"`
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

const defaultConfigBody = `# accelcurve configuration

# log-level = "warn"

[calc]
# profile = "~/.config/accelcurve/profile.toml"
# speed-max = 100.0
# samples = 201
# dense = false
# plot-height = 12

[driver]
# output = "~/.local/share/accelcurve/driver.toml"

[tuner]
# seed = 1
# rate = 1000.0
# max-counts = 40.0
`

// EnsureConfigFile writes a commented default config when path is missing.
// It reports whether a new file was created.
func EnsureConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigBody), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
