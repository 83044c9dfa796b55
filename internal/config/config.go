// Package config loads the CLI's own configuration: where the
// application source lives, which service unit to restart, and how to
// log. Values resolve as defaults, then the optional YAML config file,
// then command-line flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRepoURL is the canonical Bayanat source repository.
	DefaultRepoURL = "https://github.com/sjacorg/bayanat.git"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "BAYANAT_CLI_CONFIG"
)

// Config is the CLI configuration.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Service    ServiceConfig    `yaml:"service"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RepositoryConfig locates the application source.
type RepositoryConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
}

// ServiceConfig names the managed service unit.
type ServiceConfig struct {
	Name string `yaml:"name"`
}

// LoggingConfig mirrors logging.Config for the YAML file.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Repository: RepositoryConfig{
			URL:    DefaultRepoURL,
			Branch: "master",
		},
		Service: ServiceConfig{Name: "bayanat"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads the YAML file at path over the defaults. The caller
// named the file explicitly, so a missing file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return parse(path, data)
}

// LoadDefault loads the configuration from the conventional location,
// honoring the BAYANAT_CLI_CONFIG override. The override is treated
// like --config: a dangling path is an error. Only the conventional
// location is optional.
func LoadDefault() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}

	path := filepath.Join(home, ".config", "bayanat-cli", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
