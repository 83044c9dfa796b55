package appversion

import (
	"context"
	"strings"

	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/logging"
)

// Unknown is the sentinel returned when no version source resolves.
const Unknown = "unknown"

// Resolver determines the installed application version.
type Resolver struct {
	runner command.Runner
}

// NewResolver returns a Resolver that shells out via runner for the
// git-tag fallback.
func NewResolver(runner command.Runner) *Resolver {
	return &Resolver{runner: runner}
}

// Resolve returns the best-effort version of the installation at
// appDir. Priority: the version declared in pyproject.toml (single
// source of truth, needs no running environment), then the most recent
// reachable git tag with any leading "v" stripped, then Unknown.
// Failed sources never propagate; the next source is tried instead.
func (r *Resolver) Resolve(ctx context.Context, appDir string) string {
	log := logging.FromContext(ctx)

	if m, err := LoadManifest(appDir); err == nil && m.Project.Version != "" {
		return m.Project.Version
	} else if err != nil {
		log.Debug().
			Str("component", "appversion").
			Err(err).
			Msg("manifest version unavailable, trying git tags")
	}

	res, err := r.runner.Run(ctx, command.Spec{
		Name: "git",
		Args: []string{"describe", "--tags", "--abbrev=0"},
		Dir:  appDir,
	})
	if err == nil {
		if tag := strings.TrimSpace(res.Stdout); tag != "" {
			return strings.TrimPrefix(tag, "v")
		}
	} else {
		log.Debug().
			Str("component", "appversion").
			Err(err).
			Msg("git tag version unavailable")
	}

	return Unknown
}
