package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultRepoURL, cfg.Repository.URL)
	assert.Equal(t, "master", cfg.Repository.Branch)
	assert.Equal(t, "bayanat", cfg.Service.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	// An explicitly named config file must exist; a typo'd path
	// silently running with defaults would go unnoticed.
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"repository:\n  branch: main\nservice:\n  name: bayanat-staging\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Repository.Branch)
	assert.Equal(t, "bayanat-staging", cfg.Service.Name)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultRepoURL, cfg.Repository.URL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repository: [\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoadDefaultHonorsEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDefaultDanglingEnvOverrideFails(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadDefault()
	require.Error(t, err)
}
