// Package sysreq checks host prerequisites before any mutating
// operation: required binaries, filesystem permissions, and network
// reachability of the source repository.
package sysreq

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sjacorg/bayanat-cli/internal/command"
)

// networkTimeout bounds the repository reachability probe.
const networkTimeout = 5 * time.Second

// CheckBinaries verifies each named executable is resolvable on PATH.
func CheckBinaries(runner command.Runner, names ...string) error {
	for _, name := range names {
		if _, err := runner.LookPath(name); err != nil {
			return fmt.Errorf("%s is not installed: %w", name, err)
		}
	}
	return nil
}

// CheckNetwork probes url with a plain GET and a short timeout,
// expecting a 200 response.
func CheckNetwork(url string) error {
	client := &http.Client{Timeout: networkTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("cannot reach repository %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot reach repository %s: status %d", url, resp.StatusCode)
	}
	return nil
}

// CheckWritable probes read/write permission on dir by creating and
// removing a scratch file there.
func CheckWritable(dir string) error {
	probe := filepath.Join(dir, ".bayanat-cli-permcheck")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("insufficient permissions for directory %s: %w", dir, err)
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return nil
}
