// Package appversion reads the application's declared metadata from
// pyproject.toml and resolves a best-effort version identifier for an
// installation.
package appversion

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultVenvPath is the conventional virtualenv location inside a
// checkout when pyproject.toml does not override it.
const DefaultVenvPath = "env"

// Manifest is the subset of pyproject.toml the CLI cares about.
type Manifest struct {
	Project struct {
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Bayanat struct {
			VenvPath string `toml:"venv_path"`
		} `toml:"bayanat"`
	} `toml:"tool"`
}

// LoadManifest parses appDir/pyproject.toml.
func LoadManifest(appDir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(appDir, "pyproject.toml"))
	if err != nil {
		return Manifest{}, fmt.Errorf("reading pyproject.toml: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing pyproject.toml: %w", err)
	}
	return m, nil
}

// VenvPath returns the virtualenv directory for appDir, honoring the
// [tool.bayanat] venv_path override and falling back to the default.
func VenvPath(appDir string) string {
	m, err := LoadManifest(appDir)
	if err != nil || m.Tool.Bayanat.VenvPath == "" {
		return filepath.Join(appDir, DefaultVenvPath)
	}
	return filepath.Join(appDir, m.Tool.Bayanat.VenvPath)
}
