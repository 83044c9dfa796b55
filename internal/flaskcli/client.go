// Package flaskcli drives the target application's own administrative
// CLI (Flask subcommands): lock/unlock, version bookkeeping, schema
// migrations and database backup/restore. Outcomes are classified from
// the tools' human-readable output where their exit codes are not
// authoritative; that fragile string matching is kept in small
// functions that are unit-tested without process invocation.
package flaskcli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjacorg/bayanat-cli/internal/appversion"
	"github.com/sjacorg/bayanat-cli/internal/command"
)

// Client runs Flask subcommands inside the installation's virtualenv.
type Client struct {
	runner command.Runner
	appDir string
}

// New returns a Client for the installation at appDir.
func New(runner command.Runner, appDir string) *Client {
	return &Client{runner: runner, appDir: appDir}
}

// AppDir returns the installation directory this client operates on.
func (c *Client) AppDir() string {
	return c.appDir
}

// run executes `python -m flask <args>` with the virtualenv's
// interpreter, FLASK_APP set, and the installation as working
// directory.
func (c *Client) run(ctx context.Context, args ...string) (command.Result, error) {
	python := filepath.Join(appversion.VenvPath(c.appDir), "bin", "python")
	if _, err := os.Stat(python); err != nil {
		return command.Result{}, fmt.Errorf(
			"virtual environment interpreter not found at %s", python)
	}

	return c.runner.Run(ctx, command.Spec{
		Name: python,
		Args: append([]string{"-m", "flask"}, args...),
		Dir:  c.appDir,
		Env:  []string{"FLASK_APP=run.py"},
	})
}

// Lock places the application's advisory maintenance lock. The lock is
// cooperative: it relies on the application honoring it, not on any
// OS-level file locking.
func (c *Client) Lock(ctx context.Context, reason string) error {
	if _, err := c.run(ctx, "lock", "--reason", reason); err != nil {
		return fmt.Errorf("locking application: %w", err)
	}
	return nil
}

// Unlock releases the advisory maintenance lock.
func (c *Client) Unlock(ctx context.Context) error {
	if _, err := c.run(ctx, "unlock"); err != nil {
		return fmt.Errorf("unlocking application: %w", err)
	}
	return nil
}

// SetVersion records version against the running database.
func (c *Client) SetVersion(ctx context.Context, version string) error {
	if _, err := c.run(ctx, "set_version", version); err != nil {
		return fmt.Errorf("recording version %s: %w", version, err)
	}
	return nil
}

// VerifyVersion asks the application to report its stored version and
// returns the raw output plus whether it flagged a mismatch between
// settings and database.
func (c *Client) VerifyVersion(ctx context.Context) (output string, mismatch bool, err error) {
	res, err := c.run(ctx, "get_version")
	if err != nil {
		return "", false, fmt.Errorf("verifying version: %w", err)
	}
	return res.Stdout, strings.Contains(res.Stdout, "Warning:"), nil
}
