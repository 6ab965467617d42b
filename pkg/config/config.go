// Package config loads the optional YAML run configuration for
// rimsave. A zero-value configuration behaves identically to running
// with no config file at all.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ColorMode controls when status output is colorized.
type ColorMode string

const (
	// ColorAuto enables color only when writing to a terminal.
	ColorAuto ColorMode = "auto"

	// ColorAlways forces color on.
	ColorAlways ColorMode = "always"

	// ColorNever forces color off.
	ColorNever ColorMode = "never"
)

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	// DebounceMs collapses bursts of file events closer together than
	// this many milliseconds into a single rerun.
	DebounceMs int `yaml:"debounce_ms"`
}

// Config is the rimsave run configuration.
type Config struct {
	// AssumeYes answers every confirmation prompt affirmatively.
	AssumeYes bool `yaml:"assume_yes"`

	// Color controls colorized output: auto, always, or never.
	Color ColorMode `yaml:"color"`

	// Watch configures the watch command.
	Watch WatchConfig `yaml:"watch"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Color: ColorAuto,
		Watch: WatchConfig{DebounceMs: 500},
	}
}

// Load reads a YAML configuration from path. An empty path returns
// Default(). Unknown keys are rejected.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Debounce returns the watch debounce interval as a duration.
func (config *Config) Debounce() time.Duration {
	return time.Duration(config.Watch.DebounceMs) * time.Millisecond
}

func (config *Config) validate() error {
	switch config.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color: unknown mode %q", config.Color)
	}
	if config.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms: must not be negative")
	}
	return nil
}
