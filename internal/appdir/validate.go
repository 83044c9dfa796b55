// Package appdir knows what a Bayanat checkout looks like on disk:
// the marker files that identify one, the install metadata the CLI
// owns, and how to locate an installation from the working directory.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker layout of a Bayanat checkout. Validation must pass before any
// mutating command (update, backup, restore) is allowed to run.
var (
	requiredFiles = []string{
		"docker-compose.yml",
		"pyproject.toml",
		"README.md",
		"run.py",
		filepath.Join("requirements", "main.txt"),
	}
	requiredDirs = []string{
		"flask",
		"nginx",
		"docs",
		"tests",
		"requirements",
	}
)

// ValidationError lists every missing marker so the user can see all
// problems at once instead of fixing them one re-run at a time.
type ValidationError struct {
	Path    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is not a valid Bayanat directory, missing: %s",
		e.Path, strings.Join(e.Missing, ", "))
}

// Validate checks that path has the expected Bayanat layout. It is
// read-only and re-run on every command invocation rather than cached.
// On failure it returns a *ValidationError naming each missing item.
func Validate(path string) error {
	var missing []string

	for _, f := range requiredFiles {
		info, err := os.Stat(filepath.Join(path, f))
		if err != nil || info.IsDir() {
			missing = append(missing, "file "+f)
		}
	}
	for _, d := range requiredDirs {
		info, err := os.Stat(filepath.Join(path, d))
		if err != nil || !info.IsDir() {
			missing = append(missing, "directory "+d)
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Path: path, Missing: missing}
	}
	return nil
}
