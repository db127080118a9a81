package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// ConfigFileName is looked up in the repository root when no --config is given
const ConfigFileName = ".treediff.toml"

// ColorMode controls ANSI styling of rendered output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the on-disk configuration
type Config struct {
	Log    LogConfig    `toml:"log"`
	Diff   DiffConfig   `toml:"diff"`
	Output OutputConfig `toml:"output"`
}

// LogConfig selects the log level and file
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DiffConfig tunes diff computation
type DiffConfig struct {
	Algorithm      string   `toml:"algorithm"`
	ContextLines   int      `toml:"context_lines"`
	MaxFileSize    int      `toml:"max_file_size"`
	DetectRemovals bool     `toml:"detect_removals"`
	Include        []string `toml:"include"`
}

// OutputConfig tunes rendering
type OutputConfig struct {
	Color     string `toml:"color"`
	Highlight bool   `toml:"highlight"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Diff: DiffConfig{
			Algorithm:    string(AlgorithmDifflib),
			ContextLines: DefaultDiffContext,
			MaxFileSize:  MaxFileSize,
		},
		Output: OutputConfig{
			Color:     string(ColorAuto),
			Highlight: true,
		},
	}
}

// LoadConfig reads the configuration at path over the defaults.
// An empty path falls back to .treediff.toml in repoRoot; a missing default file is not an error.
func LoadConfig(path, repoRoot string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if repoRoot == "" {
			return cfg, nil
		}
		path = filepath.Join(repoRoot, ConfigFileName)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the diff engine cannot use
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	switch DiffAlgorithm(c.Diff.Algorithm) {
	case AlgorithmDifflib, AlgorithmMyers:
	default:
		return fmt.Errorf("unknown diff algorithm %q", c.Diff.Algorithm)
	}
	if c.Diff.ContextLines < 0 {
		return fmt.Errorf("context_lines must not be negative, got %d", c.Diff.ContextLines)
	}
	if c.Diff.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.Diff.MaxFileSize)
	}
	for _, pattern := range c.Diff.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	switch ColorMode(c.Output.Color) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", c.Output.Color)
	}
	return nil
}

// UnifiedOptions returns the backend diff options of the configuration
func (c *Config) UnifiedOptions() UnifiedOptions {
	return UnifiedOptions{
		Algorithm:    DiffAlgorithm(c.Diff.Algorithm),
		ContextLines: c.Diff.ContextLines,
		MaxFileSize:  c.Diff.MaxFileSize,
	}
}

// DiffOptions returns the engine options of the configuration
func (c *Config) DiffOptions() DiffOptions {
	return DiffOptions{
		DetectRemovals: c.Diff.DetectRemovals,
		Include:        c.Diff.Include,
	}
}
