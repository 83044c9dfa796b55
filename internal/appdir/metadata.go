package appdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MetadataFile is the install-metadata file the CLI writes at the
// install root. It is the only persisted artifact this tool owns.
const MetadataFile = ".bayanat-cli"

// Metadata records how and when an installation was created.
type Metadata struct {
	Version          string    `json:"version"`
	InstalledAt      time.Time `json:"installed_at"`
	InstallationType string    `json:"installation_type"`
}

// ErrMetadataNotFound is returned when the install root has no
// metadata file.
var ErrMetadataNotFound = errors.New("install metadata not found")

// WriteMetadata writes meta as indented JSON to dir/.bayanat-cli.
func WriteMetadata(dir string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling install metadata: %w", err)
	}
	path := filepath.Join(dir, MetadataFile)
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("writing install metadata: %w", err)
	}
	return nil
}

// ReadMetadata reads dir/.bayanat-cli. A missing file yields
// ErrMetadataNotFound.
func ReadMetadata(dir string) (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, ErrMetadataNotFound
		}
		return Metadata{}, fmt.Errorf("reading install metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parsing install metadata: %w", err)
	}
	return meta, nil
}

// Detect resolves the application directory for commands invoked
// without an explicit path. When cwd holds the install metadata file,
// the application lives in the "bayanat" subdirectory; otherwise the
// working directory itself is treated as the installation.
func Detect(cwd string) string {
	if _, err := os.Stat(filepath.Join(cwd, MetadataFile)); err == nil {
		return filepath.Join(cwd, "bayanat")
	}
	return cwd
}
