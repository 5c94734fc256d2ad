package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, ".claude", cfg.Snapshot.Dir)
	assert.Equal(t, 5, cfg.Snapshot.Keep)
	assert.Equal(t, 3, cfg.Snapshot.Summarize)
	assert.Equal(t, []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts"}, cfg.Write.Extensions)
	assert.True(t, cfg.Write.RunTypeScript)
	assert.True(t, cfg.Write.RunESLint)
	assert.Equal(t, 30*time.Second, cfg.Write.ToolTimeout())
	assert.Equal(t, ".destructive-guard-backups", cfg.Backup.Dir)
	assert.Contains(t, cfg.Backup.Ignore, "node_modules")
	assert.Contains(t, cfg.Workspace.IgnoreUntracked, "**/*.log")
	assert.Equal(t, 30*time.Second, cfg.Recovery.GitTimeout())
	assert.True(t, cfg.Recovery.SearchHomeBackups)
	assert.Equal(t, []string{".git", "node_modules", ".cache"}, cfg.Recovery.PreRecoveryIgnore)
	require.NoError(t, cfg.Validate())
}

func TestDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/custom/dir")
		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, "/custom/dir", dir)
	})

	t.Run("home default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		dir, err := Dir()
		require.NoError(t, err)
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, ".config", "claude-guards"), dir)
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		check       func(*testing.T, *Config)
		errContains string
	}{
		{
			name: "overrides selected keys",
			content: `
debug = true
[snapshot]
keep = 10
[write]
run_eslint = false
`,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, 10, cfg.Snapshot.Keep)
				assert.Equal(t, 3, cfg.Snapshot.Summarize)
				assert.False(t, cfg.Write.RunESLint)
				assert.True(t, cfg.Write.RunTypeScript)
			},
		},
		{
			name:        "invalid toml",
			content:     "debug = [",
			errContains: "failed to parse",
		},
		{
			name:        "invalid keep",
			content:     "[snapshot]\nkeep = 0\n",
			errContains: "snapshot.keep",
		},
		{
			name:        "invalid recovery timeout",
			content:     "[recovery]\ngit_timeout_seconds = 0\n",
			errContains: "recovery.git_timeout_seconds",
		},
		{
			name:        "invalid glob",
			content:     "[backup]\nignore = [\"[\"]\n",
			errContains: "backup.ignore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnsureConfigFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, created, err := EnsureConfigFile(dir)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBytes(), data)

	require.NoError(t, os.WriteFile(path, []byte("debug = true\n"), 0644))
	_, created, err = EnsureConfigFile(dir)
	require.NoError(t, err)
	assert.False(t, created)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug = true\n", string(data))
}
