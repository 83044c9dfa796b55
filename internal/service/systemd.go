// Package service restarts the managed application service through the
// host's service manager. It classifies failures but neither retries
// nor escalates privileges itself.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/logging"
)

// DefaultName is the systemd unit the application conventionally runs
// under.
const DefaultName = "bayanat"

var (
	// ErrUnsupportedPlatform means the host has no systemctl and the
	// service cannot be managed by this tool.
	ErrUnsupportedPlatform = errors.New("systemctl not found: service restart requires systemd")
	// ErrPermissionDenied means the restart was rejected for lack of
	// privileges; the caller should advise escalation, not perform it.
	ErrPermissionDenied = errors.New("permission denied restarting service: run with sudo or as root")
)

// Manager issues restarts via systemctl.
type Manager struct {
	runner command.Runner
}

// NewManager returns a Manager using the given runner.
func NewManager(runner command.Runner) *Manager {
	return &Manager{runner: runner}
}

// Restart restarts the named service. The result is one of: nil,
// ErrUnsupportedPlatform, ErrPermissionDenied (detected from the
// service manager's error text), or a generic failure carrying that
// text.
func (m *Manager) Restart(ctx context.Context, name string) error {
	if _, err := m.runner.LookPath("systemctl"); err != nil {
		return ErrUnsupportedPlatform
	}

	log := logging.FromContext(ctx)
	log.Info().
		Str("component", "service").
		Str("service", name).
		Msg("restarting service")

	res, err := m.runner.Run(ctx, command.Spec{
		Name: "systemctl",
		Args: []string{"restart", name},
	})
	if err == nil {
		return nil
	}

	if isPermissionDenied(res.Stderr) {
		return ErrPermissionDenied
	}
	return fmt.Errorf("restarting service %s: %w", name, err)
}

// isPermissionDenied matches the error phrases systemd and polkit emit
// for privilege failures.
func isPermissionDenied(stderr string) bool {
	return strings.Contains(stderr, "Access denied") ||
		strings.Contains(stderr, "Permission denied")
}
