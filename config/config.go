// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the engine's tunable parameters: grid sizing, the two
// constants spec §4.2 and §9 leave as engine-wide knobs (RNG column-seed
// multiplier, LIQUID/GAS dissipate probability), and optional telemetry
// sampling. The material catalog itself is a separate embedded document
// owned by the material package (material.LoadCatalogDefaults).
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	RNG       RNGConfig       `yaml:"rng"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GridConfig holds grid sizing and dissipation parameters.
type GridConfig struct {
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	DissipateChance uint32 `yaml:"dissipate_chance"`
}

// RNGConfig holds a per-column seed multiplier. The step engine seeds its
// columns with the rng.ColumnSeedMultiplier constant and does not read this
// value.
type RNGConfig struct {
	ColumnSeedMultiplier uint64 `yaml:"column_seed_multiplier"`
}

// TelemetryConfig holds sampling parameters for the optional telemetry recorder.
type TelemetryConfig struct {
	SampleInterval int64  `yaml:"sample_interval"`
	OutputPath     string `yaml:"output_path"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}
