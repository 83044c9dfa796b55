// Package pydeps ensures the application's isolated Python environment
// exists and carries the declared package set. Every pip invocation
// uses the environment's own binary, never a system-wide one.
package pydeps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sjacorg/bayanat-cli/internal/appversion"
	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/logging"
)

// Installer provisions the virtualenv and installs requirements.
type Installer struct {
	runner command.Runner
	appDir string
}

// New returns an Installer for the checkout at appDir.
func New(runner command.Runner, appDir string) *Installer {
	return &Installer{runner: runner, appDir: appDir}
}

// Install ensures the virtualenv exists (creating it with
// `python3 -m venv` if absent), upgrades pip, installs the primary
// requirements manifest, and finally the development manifest when one
// is present. Any failing step aborts installation; the error carries
// the underlying tool's output and is fatal to the calling workflow.
func (i *Installer) Install(ctx context.Context) error {
	log := logging.FromContext(ctx)
	venv := appversion.VenvPath(i.appDir)

	if _, err := os.Stat(venv); err != nil {
		log.Info().
			Str("component", "pydeps").
			Str("venv", venv).
			Msg("creating virtual environment")
		if err := i.run(ctx, "python3", "-m", "venv", venv); err != nil {
			return fmt.Errorf("creating virtual environment: %w", err)
		}
	}

	pip := filepath.Join(venv, "bin", "pip")

	log.Info().Str("component", "pydeps").Msg("upgrading pip")
	if err := i.run(ctx, pip, "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("upgrading pip: %w", err)
	}

	mainReqs := filepath.Join(i.appDir, "requirements", "main.txt")
	log.Info().
		Str("component", "pydeps").
		Str("manifest", mainReqs).
		Msg("installing packages")
	if err := i.run(ctx, pip, "install", "-r", mainReqs); err != nil {
		return fmt.Errorf("installing requirements: %w", err)
	}

	devReqs := filepath.Join(i.appDir, "requirements", "dev.txt")
	if _, err := os.Stat(devReqs); err == nil {
		log.Info().Str("component", "pydeps").Msg("installing development packages")
		if err := i.run(ctx, pip, "install", "-r", devReqs); err != nil {
			return fmt.Errorf("installing development requirements: %w", err)
		}
	}

	return nil
}

func (i *Installer) run(ctx context.Context, name string, args ...string) error {
	_, err := i.runner.Run(ctx, command.Spec{Name: name, Args: args, Dir: i.appDir})
	return err
}
