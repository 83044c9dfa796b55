package flaskcli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupCreatedMarker is the line prefix the backup subcommand prints
// when it writes its artifact somewhere other than the requested path.
const backupCreatedMarker = "Database backup created successfully at"

// backupFileSuffix is appended to the sortable timestamp in derived
// backup filenames.
const backupFileSuffix = "_bayanat_backup.dump"

// BackupResult reports where a backup landed. Located is false for the
// ambiguous case: the subcommand reported success but the artifact
// could not be found at the expected path nor via its output — the
// underlying dump may still exist, so callers downgrade this to a
// warning rather than failing.
type BackupResult struct {
	Path    string
	Located bool
}

// ExpectedBackupPath computes where a backup invoked at now should
// land: the explicit output path when given, otherwise a
// timestamp-derived file under the installation's backups directory.
func ExpectedBackupPath(appDir, output string, now time.Time) string {
	if output != "" {
		return output
	}
	name := now.Format("20060102_150405") + backupFileSuffix
	return filepath.Join(appDir, "backups", name)
}

// Backup invokes the application's backup subcommand and locates the
// resulting artifact: first at the expected path, then by scanning the
// command output for the created-at line. Neither succeeding yields an
// ambiguous BackupResult with Located false, not an error.
func (c *Client) Backup(ctx context.Context, output string) (BackupResult, error) {
	expected := ExpectedBackupPath(c.appDir, output, time.Now())

	res, err := c.run(ctx, "backup-db", "--output", expected)
	if err != nil {
		return BackupResult{}, fmt.Errorf("database backup: %w", err)
	}

	if _, statErr := os.Stat(expected); statErr == nil {
		return BackupResult{Path: expected, Located: true}, nil
	}

	if alt, ok := scanBackupOutput(res.Stdout); ok {
		if _, statErr := os.Stat(alt); statErr == nil {
			return BackupResult{Path: alt, Located: true}, nil
		}
	}

	return BackupResult{Located: false}, nil
}

// Restore replays a backup artifact into the database via the
// application's restore subcommand.
func (c *Client) Restore(ctx context.Context, backupFile string) error {
	if _, err := c.run(ctx, "restore-db", backupFile); err != nil {
		return fmt.Errorf("database restore: %w", err)
	}
	return nil
}

// scanBackupOutput extracts the artifact path from the backup
// subcommand's output, if it announced one.
func scanBackupOutput(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if idx := strings.Index(line, backupCreatedMarker); idx >= 0 {
			path := strings.TrimSpace(line[idx+len(backupCreatedMarker):])
			if path != "" {
				return path, true
			}
		}
	}
	return "", false
}
