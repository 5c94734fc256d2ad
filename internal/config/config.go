// Package config loads the claude-guards TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

//go:embed config.toml
var defaultConfig []byte

const (
	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "CLAUDE_GUARDS_CONFIG"
	// FileName is the configuration file name inside the directory.
	FileName = "config.toml"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full hook configuration.
type Config struct {
	Debug     bool            `toml:"debug"`
	Audit     AuditConfig     `toml:"audit"`
	Rules     RulesConfig     `toml:"rules"`
	Snapshot  SnapshotConfig  `toml:"snapshot"`
	Write     WriteConfig     `toml:"write"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Backup    BackupConfig    `toml:"backup"`
	Recovery  RecoveryConfig  `toml:"recovery"`
}

// AuditConfig controls the JSON-lines decision log.
type AuditConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	MaxSizeBytes int64  `toml:"max_size_bytes"`
}

// RulesConfig points at an optional user rule catalog.
type RulesConfig struct {
	ExtraFile string `toml:"extra_file"`
}

// SnapshotConfig controls pre-compact state files.
type SnapshotConfig struct {
	Dir       string `toml:"dir"`
	Keep      int    `toml:"keep"`
	Summarize int    `toml:"summarize"`
}

// WriteConfig controls the write validator.
type WriteConfig struct {
	Extensions         []string `toml:"extensions"`
	TestFileGlobs      []string `toml:"test_file_globs"`
	RunTypeScript      bool     `toml:"run_typescript"`
	RunESLint          bool     `toml:"run_eslint"`
	ToolTimeoutSeconds int      `toml:"tool_timeout_seconds"`
}

// ToolTimeout returns the external tool timeout.
func (w WriteConfig) ToolTimeout() time.Duration {
	return time.Duration(w.ToolTimeoutSeconds) * time.Second
}

// WorkspaceConfig controls unsaved work detection.
type WorkspaceConfig struct {
	IgnoreUntracked []string `toml:"ignore_untracked"`
}

// BackupConfig controls the destructive guard backups.
type BackupConfig struct {
	Dir    string   `toml:"dir"`
	Ignore []string `toml:"ignore"`
}

// RecoveryConfig controls the recovery assistant.
type RecoveryConfig struct {
	GitTimeoutSeconds int      `toml:"git_timeout_seconds"`
	SearchHomeBackups bool     `toml:"search_home_backups"`
	PreRecoveryIgnore []string `toml:"pre_recovery_ignore"`
}

// GitTimeout returns the per-command git timeout.
func (r RecoveryConfig) GitTimeout() time.Duration {
	return time.Duration(r.GitTimeoutSeconds) * time.Second
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if _, err := toml.Decode(string(defaultConfig), cfg); err != nil {
		panic(fmt.Sprintf("embedded config.toml is invalid: %v", err))
	}
	return cfg
}

// DefaultBytes returns the embedded default configuration file.
func DefaultBytes() []byte {
	return defaultConfig
}

// Dir returns the configuration directory.
// Uses CLAUDE_GUARDS_CONFIG if set, otherwise ~/.config/claude-guards.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "claude-guards"), nil
}

// DefaultPath returns the configuration file path inside Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks numeric limits and glob syntax.
func (c *Config) Validate() error {
	if c.Snapshot.Keep < 1 {
		return fmt.Errorf("%w: snapshot.keep must be at least 1", ErrInvalidConfig)
	}
	if c.Snapshot.Summarize < 1 {
		return fmt.Errorf("%w: snapshot.summarize must be at least 1", ErrInvalidConfig)
	}
	if c.Snapshot.Dir == "" {
		return fmt.Errorf("%w: snapshot.dir must not be empty", ErrInvalidConfig)
	}
	if c.Backup.Dir == "" {
		return fmt.Errorf("%w: backup.dir must not be empty", ErrInvalidConfig)
	}
	if c.Write.ToolTimeoutSeconds < 1 {
		return fmt.Errorf("%w: write.tool_timeout_seconds must be at least 1", ErrInvalidConfig)
	}
	if c.Recovery.GitTimeoutSeconds < 1 {
		return fmt.Errorf("%w: recovery.git_timeout_seconds must be at least 1", ErrInvalidConfig)
	}

	globs := map[string][]string{
		"write.test_file_globs":        c.Write.TestFileGlobs,
		"workspace.ignore_untracked":   c.Workspace.IgnoreUntracked,
		"backup.ignore":                c.Backup.Ignore,
		"recovery.pre_recovery_ignore": c.Recovery.PreRecoveryIgnore,
	}
	for key, patterns := range globs {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("%w: %s has invalid glob %q", ErrInvalidConfig, key, p)
			}
		}
	}
	return nil
}

// EnsureConfigFile creates the directory and writes the default config file
// if none exists. It returns the file path and whether it was created.
func EnsureConfigFile(dir string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.WriteFile(path, defaultConfig, 0644); err != nil {
		return "", false, fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return path, true, nil
}
