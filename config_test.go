package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultUnifiedOptions(), cfg.UnifiedOptions())
	assert.Equal(t, DiffOptions{}, cfg.DiffOptions())
	assert.Equal(t, string(ColorAuto), cfg.Output.Color)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "custom.toml", `
[log]
level = "debug"
file = "/var/tmp/treediff-test.log"

[diff]
algorithm = "myers"
context_lines = 5
detect_removals = true
include = ["**/*.go", "docs/*.md"]

[output]
color = "never"
highlight = false
`)

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/tmp/treediff-test.log", cfg.Log.File)
	assert.Equal(t, UnifiedOptions{Algorithm: AlgorithmMyers, ContextLines: 5, MaxFileSize: MaxFileSize}, cfg.UnifiedOptions())
	assert.Equal(t, DiffOptions{DetectRemovals: true, Include: []string{"**/*.go", "docs/*.md"}}, cfg.DiffOptions())
	assert.Equal(t, string(ColorNever), cfg.Output.Color)
	assert.False(t, cfg.Output.Highlight)
}

func TestLoadConfigFromRepositoryRoot(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, ConfigFileName, "[diff]\ndetect_removals = true\n")

	cfg, err := LoadConfig("", root)
	require.NoError(t, err)

	assert.True(t, cfg.Diff.DetectRemovals)
	// keys absent from the file keep their defaults
	assert.Equal(t, DefaultDiffContext, cfg.Diff.ContextLines)
	assert.Equal(t, string(AlgorithmDifflib), cfg.Diff.Algorithm)
}

func TestLoadConfigMissingFiles(t *testing.T) {
	t.Run("missing default file", func(t *testing.T) {
		cfg, err := LoadConfig("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("no repository root", func(t *testing.T) {
		cfg, err := LoadConfig("", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"), "")
		assert.Error(t, err)
	})
}

func TestLoadConfigRejectsMalformedToml(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "bad.toml", "[diff\nalgorithm = ")

	_, err := LoadConfig(path, "")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Log.Level = "verbose" },
			errMsg: "unknown log level",
		},
		{
			name:   "unknown algorithm",
			mutate: func(c *Config) { c.Diff.Algorithm = "patience" },
			errMsg: "unknown diff algorithm",
		},
		{
			name:   "negative context",
			mutate: func(c *Config) { c.Diff.ContextLines = -2 },
			errMsg: "context_lines",
		},
		{
			name:   "zero max file size",
			mutate: func(c *Config) { c.Diff.MaxFileSize = 0 },
			errMsg: "max_file_size",
		},
		{
			name:   "invalid include pattern",
			mutate: func(c *Config) { c.Diff.Include = []string{"src/**", "["} },
			errMsg: "invalid include pattern",
		},
		{
			name:   "unknown color mode",
			mutate: func(c *Config) { c.Output.Color = "sometimes" },
			errMsg: "unknown color mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
