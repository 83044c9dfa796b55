// Package updater orchestrates the in-place update of an installation:
// lock, backup, code sync, version check, dependency install, schema
// migration, service restart, unlock, verify. The steps mutate
// external, non-transactional systems, so failure handling is a
// best-effort compensating rollback over whatever artifacts (backup
// file, prior commit, lock state) exist at the point of failure —
// deliberately not a two-phase commit.
package updater

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
	"github.com/sjacorg/bayanat-cli/internal/appversion"
	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/config"
	"github.com/sjacorg/bayanat-cli/internal/flaskcli"
	"github.com/sjacorg/bayanat-cli/internal/gitsync"
	"github.com/sjacorg/bayanat-cli/internal/logging"
	"github.com/sjacorg/bayanat-cli/internal/pydeps"
	"github.com/sjacorg/bayanat-cli/internal/service"
	"github.com/sjacorg/bayanat-cli/internal/sysreq"
	"github.com/sjacorg/bayanat-cli/internal/ui"
)

// AppClient is the slice of the target application's administrative
// CLI the orchestrator depends on.
type AppClient interface {
	Lock(ctx context.Context, reason string) error
	Unlock(ctx context.Context) error
	SetVersion(ctx context.Context, version string) error
	VerifyVersion(ctx context.Context) (output string, mismatch bool, err error)
	ApplyMigrations(ctx context.Context, report func(string)) (flaskcli.MigrationResult, error)
	Backup(ctx context.Context, output string) (flaskcli.BackupResult, error)
	Restore(ctx context.Context, backupFile string) error
}

// CodeSyncer synchronizes and reverts the source checkout.
type CodeSyncer interface {
	Sync(ctx context.Context, force bool) error
	Revert(ctx context.Context) error
	HasRepo() bool
}

// DepInstaller provisions the isolated runtime environment.
type DepInstaller interface {
	Install(ctx context.Context) error
}

// ServiceRestarter restarts the managed service.
type ServiceRestarter interface {
	Restart(ctx context.Context, name string) error
}

// VersionFunc resolves the installed application version.
type VersionFunc func(ctx context.Context, appDir string) string

// Updater ties the collaborators together. Fields are exported so
// tests can assemble one from fakes.
type Updater struct {
	App      AppClient
	Code     CodeSyncer
	Deps     DepInstaller
	Services ServiceRestarter
	Resolve  VersionFunc
	Runner   command.Runner
	Reporter ui.Reporter
	Path     string
}

// New wires an Updater with the real collaborators for the
// installation at path.
func New(runner command.Runner, path string, cfg *config.Config, reporter ui.Reporter) *Updater {
	return &Updater{
		App:      flaskcli.New(runner, path),
		Code:     gitsync.New(runner, path, cfg.Repository.URL, cfg.Repository.Branch),
		Deps:     pydeps.New(runner, path),
		Services: service.NewManager(runner),
		Resolve:  appversion.NewResolver(runner).Resolve,
		Runner:   runner,
		Reporter: reporter,
		Path:     path,
	}
}

// Options controls a single update run.
type Options struct {
	SkipGit        bool
	SkipDeps       bool
	SkipMigrations bool
	SkipRestart    bool
	Force          bool
	ServiceName    string
}

// Update runs the full update sequence. Validation and lock
// acquisition failures halt before any mutation. Once the lock is
// held, unlock is attempted exactly once on every exit path, and any
// failure in the mutating phase triggers the compensating rollback
// before the original error is returned.
func (u *Updater) Update(ctx context.Context, opts Options) (err error) {
	log := logging.FromContext(ctx)

	if err := appdir.Validate(u.Path); err != nil {
		return err
	}

	sess := newSession(u.Path)
	log.Info().
		Str("component", "updater").
		Str("session", sess.id).
		Str("path", u.Path).
		Msg("starting update session")

	sess.preVersion = u.Resolve(ctx, u.Path)
	u.Reporter.Info(ui.VersionPanel("Current Bayanat version", sess.preVersion))

	u.Reporter.Info("Attempting to lock the Bayanat application...")
	reason := fmt.Sprintf("CLI update in progress (session %s)", sess.id)
	if err := u.App.Lock(ctx, reason); err != nil {
		// No mutation has happened; nothing to roll back.
		return err
	}
	sess.lockApplied = true
	u.Reporter.Success("Application locked.")

	// Exactly once, on success, failure, and even when rollback below
	// fails. Holding the lock is less damaging than crashing here, so
	// unlock failure is only a warning.
	defer u.unlockOnce(ctx, sess)

	if err := u.runLocked(ctx, sess, opts); err != nil {
		u.rollback(ctx, sess)
		return fmt.Errorf("update failed: %w", err)
	}

	u.Reporter.Success("Update completed successfully!")
	return nil
}

// runLocked is the mutating phase; it assumes the lock is held.
func (u *Updater) runLocked(ctx context.Context, sess *session, opts Options) error {
	log := logging.FromContext(ctx)

	if err := sysreq.CheckBinaries(u.Runner, "git"); err != nil {
		return err
	}
	u.Reporter.Progress(10)

	u.Reporter.Info("Backing up the database...")
	backup, err := u.App.Backup(ctx, "")
	if err != nil {
		return err
	}
	if backup.Located {
		sess.backupPath = backup.Path
		u.Reporter.Success("Database backup created at: " + backup.Path)
	} else {
		// The dump may exist somewhere; continue, but without a
		// rollback artifact.
		u.Reporter.Warn("Backup completed but couldn't locate backup file")
	}
	u.Reporter.Progress(20)

	if !opts.SkipGit {
		u.Reporter.Info("Fetching latest code...")
		if err := u.Code.Sync(ctx, opts.Force); err != nil {
			return err
		}
	}
	u.Reporter.Progress(40)

	sess.postVersion = u.Resolve(ctx, u.Path)
	if sess.postVersion == sess.preVersion && !opts.Force {
		u.Reporter.Success("Bayanat is already up-to-date!")
		return nil
	}

	if msg, downgrade := downgradeWarning(sess.preVersion, sess.postVersion); downgrade {
		u.Reporter.Warn(msg)
	}

	// Optimistic update: record the target version before the risky
	// steps, so a crash mid-upgrade leaves the stored version pointing
	// at the target rather than the stale source.
	u.Reporter.Info(fmt.Sprintf("Updating database version from %s to %s...",
		sess.preVersion, sess.postVersion))
	if err := u.App.SetVersion(ctx, sess.postVersion); err != nil {
		u.Reporter.Warn("Failed to update version in database.")
		log.Warn().Str("component", "updater").Err(err).Msg("set_version failed")
	}

	if !opts.SkipDeps {
		u.Reporter.Info("Installing dependencies...")
		if err := u.Deps.Install(ctx); err != nil {
			return err
		}
		u.Reporter.Success("Dependencies installed.")
	}
	u.Reporter.Progress(60)

	if !opts.SkipMigrations {
		u.Reporter.Info("Applying migrations...")
		res, err := u.App.ApplyMigrations(ctx, u.Reporter.Info)
		if err != nil {
			// Migration failure is always fatal and always rolls back.
			return err
		}
		u.Reporter.Success(res.Message)
	}
	u.Reporter.Progress(80)

	if !opts.SkipRestart {
		name := opts.ServiceName
		if name == "" {
			name = service.DefaultName
		}
		u.Reporter.Info("Restarting services...")
		if err := u.Services.Restart(ctx, name); err != nil {
			// Code and schema are committed at this point; a failed
			// restart is reported but does not trigger rollback.
			u.Reporter.Warn("Failed to restart service: " + err.Error())
		} else {
			u.Reporter.Success("Service restarted.")
		}
	}
	u.Reporter.Progress(95)

	u.Reporter.Info("Verifying version consistency...")
	out, mismatch, err := u.App.VerifyVersion(ctx)
	switch {
	case err != nil:
		u.Reporter.Warn("Could not verify version consistency: " + err.Error())
	case mismatch:
		u.Reporter.Warn("Version mismatch detected after update.")
		u.Reporter.Warn(out)
	default:
		u.Reporter.Success("Version verification successful.")
	}
	u.Reporter.Progress(100)

	u.Reporter.Info(ui.VersionPanel("Updated Bayanat version", sess.postVersion))
	return nil
}

// unlockOnce releases the advisory lock if this session holds it and
// has not released it yet.
func (u *Updater) unlockOnce(ctx context.Context, sess *session) {
	if !sess.lockApplied || sess.unlocked {
		return
	}
	sess.unlocked = true

	u.Reporter.Info("Unlocking the Bayanat application...")
	if err := u.App.Unlock(ctx); err != nil {
		u.Reporter.Warn("Failed to unlock application, manual unlock may be required: " + err.Error())
		return
	}
	u.Reporter.Success("Application unlocked.")
}

// downgradeWarning reports when the post-sync version is semantically
// older than the pre-update one. Purely informational: version
// equality, not ordering, gates the upgrade path, and non-semver
// version strings simply skip the check.
func downgradeWarning(pre, post string) (string, bool) {
	pv, errPre := semver.NewVersion(pre)
	nv, errPost := semver.NewVersion(post)
	if errPre != nil || errPost != nil {
		return "", false
	}
	if nv.LessThan(pv) {
		return fmt.Sprintf("Fetched version %s is older than installed %s (downgrade).", post, pre), true
	}
	return "", false
}
