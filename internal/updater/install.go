package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
	"github.com/sjacorg/bayanat-cli/internal/appversion"
	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/config"
	"github.com/sjacorg/bayanat-cli/internal/flaskcli"
	"github.com/sjacorg/bayanat-cli/internal/gitsync"
	"github.com/sjacorg/bayanat-cli/internal/logging"
	"github.com/sjacorg/bayanat-cli/internal/pydeps"
	"github.com/sjacorg/bayanat-cli/internal/sysreq"
	"github.com/sjacorg/bayanat-cli/internal/ui"
)

// AppSubdir is the subdirectory of the install root that receives the
// application checkout.
const AppSubdir = "bayanat"

// Bootstrap performs first-time installation into an install root.
// Collaborators are created per-directory through factories so tests
// can substitute fakes.
type Bootstrap struct {
	Runner   command.Runner
	RepoURL  string
	Branch   string
	Reporter ui.Reporter
	Resolve  VersionFunc

	NewCode func(dir string) CodeSyncer
	NewDeps func(dir string) DepInstaller
	NewApp  func(dir string) AppClient
	Network func(url string) error
}

// NewBootstrap wires a Bootstrap with the real collaborators.
func NewBootstrap(runner command.Runner, cfg *config.Config, reporter ui.Reporter) *Bootstrap {
	return &Bootstrap{
		Runner:   runner,
		RepoURL:  cfg.Repository.URL,
		Branch:   cfg.Repository.Branch,
		Reporter: reporter,
		Resolve:  appversion.NewResolver(runner).Resolve,
		NewCode: func(dir string) CodeSyncer {
			return gitsync.New(runner, dir, cfg.Repository.URL, cfg.Repository.Branch)
		},
		NewDeps: func(dir string) DepInstaller { return pydeps.New(runner, dir) },
		NewApp:  func(dir string) AppClient { return flaskcli.New(runner, dir) },
		Network: sysreq.CheckNetwork,
	}
}

// InstallOptions controls a bootstrap run.
type InstallOptions struct {
	// Dir is the install root; the checkout lands in Dir/bayanat.
	Dir string
	// Force proceeds even when Dir is not empty.
	Force bool
}

// Install bootstraps a new installation: prerequisite checks, clone,
// virtualenv and dependencies, install metadata, initial migrations.
// On failure the partial checkout is rolled back best-effort.
func (b *Bootstrap) Install(ctx context.Context, opts InstallOptions) error {
	log := logging.FromContext(ctx)
	appDir := filepath.Join(opts.Dir, AppSubdir)

	b.Reporter.Info("Checking system requirements...")
	if err := sysreq.CheckBinaries(b.Runner, "git", "python3"); err != nil {
		return err
	}
	if err := b.Network(b.RepoURL); err != nil {
		return err
	}

	b.Reporter.Info("Installing Bayanat in: " + opts.Dir)
	if err := sysreq.CheckWritable(opts.Dir); err != nil {
		return err
	}
	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return fmt.Errorf("reading install directory: %w", err)
	}
	if len(entries) > 0 && !opts.Force {
		return fmt.Errorf("directory %s is not empty, use --force to override", opts.Dir)
	}

	if err := b.install(ctx, opts.Dir, appDir); err != nil {
		log.Error().
			Str("component", "updater").
			Err(err).
			Str("dir", opts.Dir).
			Msg("installation failed")
		b.rollbackInstall(ctx, appDir)
		return err
	}

	b.Reporter.Success("Bayanat installation completed successfully!")
	b.Reporter.Info(fmt.Sprintf("Run 'bayanat-cli update' from %s to update in the future.", opts.Dir))
	return nil
}

func (b *Bootstrap) install(ctx context.Context, rootDir, appDir string) error {
	b.Reporter.Info("Setting up directory structure...")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("creating application directory: %w", err)
	}

	b.Reporter.Info("Cloning the Bayanat repository...")
	if err := b.NewCode(appDir).Sync(ctx, true); err != nil {
		return err
	}

	b.Reporter.Info("Installing dependencies...")
	if err := b.NewDeps(appDir).Install(ctx); err != nil {
		return err
	}

	b.Reporter.Info("Creating installation metadata...")
	meta := appdir.Metadata{
		Version:          b.Resolve(ctx, appDir),
		InstalledAt:      time.Now().UTC(),
		InstallationType: "production",
	}
	if err := appdir.WriteMetadata(rootDir, meta); err != nil {
		return err
	}

	// Initial migrations may legitimately fail before the database is
	// configured; setup finishes them later, so this is a warning.
	b.Reporter.Info("Applying initial database migrations...")
	if res, err := b.NewApp(appDir).ApplyMigrations(ctx, b.Reporter.Info); err != nil {
		b.Reporter.Warn("Initial migrations not applied: " + err.Error())
	} else {
		b.Reporter.Success(res.Message)
	}

	return nil
}

// rollbackInstall undoes a partial bootstrap. There is no backup
// artifact yet, so only the checkout can be compensated.
func (b *Bootstrap) rollbackInstall(ctx context.Context, appDir string) {
	b.Reporter.Warn("Rolling back the installation...")
	code := b.NewCode(appDir)
	if !code.HasRepo() {
		return
	}
	if err := code.Revert(ctx); err != nil {
		b.Reporter.Error("Failed to revert code: " + err.Error())
	}
}
