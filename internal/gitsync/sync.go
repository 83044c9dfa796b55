// Package gitsync drives the external git client to keep a checkout in
// step with its canonical repository: fresh clone on first run,
// fetch/checkout/pull afterwards, and a one-step revert for rollback.
package gitsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/logging"
)

// DefaultBranch is the Bayanat mainline branch.
const DefaultBranch = "master"

// Syncer synchronizes one checkout with one remote repository.
type Syncer struct {
	runner  command.Runner
	dir     string
	repoURL string
	branch  string
}

// New returns a Syncer for the checkout at dir tracking repoURL.
// An empty branch selects DefaultBranch.
func New(runner command.Runner, dir, repoURL, branch string) *Syncer {
	if branch == "" {
		branch = DefaultBranch
	}
	return &Syncer{runner: runner, dir: dir, repoURL: repoURL, branch: branch}
}

// HasRepo reports whether dir contains version-control metadata.
func (s *Syncer) HasRepo() bool {
	info, err := os.Stat(filepath.Join(s.dir, ".git"))
	return err == nil && info.IsDir()
}

// Sync brings the checkout up to date with the remote mainline. With
// no repository metadata present it performs a fresh clone; otherwise
// it fetches, checks out the mainline branch and pulls. When force is
// set the local branch is hard-reset to the remote mainline first,
// discarding local divergence. Any sub-step failure aborts the whole
// sync; there is no partial retry.
func (s *Syncer) Sync(ctx context.Context, force bool) error {
	log := logging.FromContext(ctx)

	if !s.HasRepo() {
		log.Info().
			Str("component", "gitsync").
			Str("repo", s.repoURL).
			Str("dir", s.dir).
			Msg("cloning repository")
		if err := s.git(ctx, "", "clone", s.repoURL, s.dir); err != nil {
			return fmt.Errorf("cloning repository: %w", err)
		}
		return nil
	}

	log.Info().
		Str("component", "gitsync").
		Str("dir", s.dir).
		Str("branch", s.branch).
		Bool("force", force).
		Msg("fetching latest code")

	if err := s.git(ctx, s.dir, "fetch"); err != nil {
		return fmt.Errorf("fetching remote state: %w", err)
	}
	if err := s.git(ctx, s.dir, "checkout", s.branch); err != nil {
		return fmt.Errorf("checking out %s: %w", s.branch, err)
	}
	if force {
		if err := s.git(ctx, s.dir, "reset", "--hard", "origin/"+s.branch); err != nil {
			return fmt.Errorf("resetting to origin/%s: %w", s.branch, err)
		}
	}
	if err := s.git(ctx, s.dir, "pull"); err != nil {
		return fmt.Errorf("pulling %s: %w", s.branch, err)
	}
	return nil
}

// Revert moves the working tree back to the immediately prior position
// of HEAD. It is the compensating action for a failed update and is
// only meaningful after a Sync moved the tree forward.
func (s *Syncer) Revert(ctx context.Context) error {
	if err := s.git(ctx, s.dir, "reset", "--hard", "HEAD@{1}"); err != nil {
		return fmt.Errorf("reverting to previous commit: %w", err)
	}
	return nil
}

func (s *Syncer) git(ctx context.Context, dir string, args ...string) error {
	_, err := s.runner.Run(ctx, command.Spec{Name: "git", Args: args, Dir: dir})
	return err
}
