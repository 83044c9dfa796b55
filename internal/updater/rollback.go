package updater

import (
	"context"
	"os"

	"github.com/sjacorg/bayanat-cli/internal/logging"
)

// rollback undoes partial progress using whatever artifacts the
// session produced before the failure: the database backup, then the
// checkout's prior commit. Each compensating action catches and logs
// its own failure so the original error is never masked by a second
// one.
func (u *Updater) rollback(ctx context.Context, sess *session) {
	log := logging.FromContext(ctx)
	u.Reporter.Warn("Rolling back the update...")
	log.Warn().
		Str("component", "updater").
		Str("session", sess.id).
		Str("backup", sess.backupPath).
		Msg("rolling back")

	if sess.backupPath != "" && fileExists(sess.backupPath) {
		u.Reporter.Info("Restoring database from backup: " + sess.backupPath)
		if err := u.App.Restore(ctx, sess.backupPath); err != nil {
			u.Reporter.Error("Failed to restore database: " + err.Error())
		} else {
			u.Reporter.Success("Database restored successfully.")
		}
	} else {
		u.Reporter.Warn("No database backup file available for rollback.")
	}

	if u.Code.HasRepo() {
		u.Reporter.Info("Reverting code to previous state...")
		if err := u.Code.Revert(ctx); err != nil {
			u.Reporter.Error("Failed to revert code: " + err.Error())
		} else {
			u.Reporter.Success("Code reverted to previous state.")
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
