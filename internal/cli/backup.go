package cli

import (
	"github.com/spf13/cobra"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/flaskcli"
	"github.com/sjacorg/bayanat-cli/internal/ui"
)

// NewBackupCmd creates the backup command.
func NewBackupCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup [path]",
		Short: "Back up the Bayanat database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := installationPath(pathArg(args))
			if err != nil {
				return err
			}
			if err := appdir.Validate(path); err != nil {
				return err
			}

			reporter := ui.NewConsole(cmd.OutOrStdout())
			reporter.Info("Backing up the database...")

			app := flaskcli.New(command.ExecRunner{}, path)
			res, err := app.Backup(cmd.Context(), output)
			if err != nil {
				return err
			}
			if res.Located {
				reporter.Success("Database backup created at: " + res.Path)
			} else {
				reporter.Warn("Backup completed but couldn't locate backup file")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file path (default backups/<timestamp>_bayanat_backup.dump)")
	return cmd
}
