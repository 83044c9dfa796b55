package flaskcli

import (
	"context"
	"fmt"
	"strings"
)

// Output markers of the application's migration subcommand. The
// subcommand's exit code is not authoritative; these substrings are.
const (
	migrationNoPendingMarker = "No pending migrations to apply"
	migrationSuccessMarker   = "[Success]"
)

// MigrationOutcome classifies a completed migration run.
type MigrationOutcome int

const (
	// MigrationNoPending means the dry-run found nothing to apply and
	// the apply phase was skipped entirely.
	MigrationNoPending MigrationOutcome = iota
	// MigrationApplied means pending migrations were applied and the
	// tool confirmed success.
	MigrationApplied
)

// MigrationResult is the successful outcome of ApplyMigrations.
type MigrationResult struct {
	Outcome MigrationOutcome
	Message string
}

// ApplyMigrations runs the application's migration subcommand in two
// phases: a dry-run whose output is always surfaced through report,
// then — only when the dry-run found pending work — the apply phase.
// An already-migrated installation therefore performs no mutation.
// Apply success requires the success marker in the output regardless
// of exit code; anything else fails with the raw output embedded for
// diagnosis. Migration failure is always fatal to the caller.
func (c *Client) ApplyMigrations(ctx context.Context, report func(string)) (MigrationResult, error) {
	dryRun, err := c.run(ctx, "apply-migrations", "--dry-run")
	if dryRun.Stdout != "" {
		report(dryRun.Stdout)
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("migration dry-run: %w", err)
	}

	if strings.Contains(dryRun.Stdout, migrationNoPendingMarker) {
		return MigrationResult{
			Outcome: MigrationNoPending,
			Message: migrationNoPendingMarker + ".",
		}, nil
	}

	apply, err := c.run(ctx, "apply-migrations")
	if apply.Stdout != "" {
		report(apply.Stdout)
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("applying migrations: %w", err)
	}

	return classifyMigrationOutput(apply.Stdout)
}

// classifyMigrationOutput decides the apply-phase outcome from the
// tool's output text alone.
func classifyMigrationOutput(output string) (MigrationResult, error) {
	if strings.Contains(output, migrationSuccessMarker) {
		return MigrationResult{
			Outcome: MigrationApplied,
			Message: "Migrations applied successfully.",
		}, nil
	}
	return MigrationResult{}, fmt.Errorf("migration process failed: %s", strings.TrimSpace(output))
}
