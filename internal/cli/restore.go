package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/flaskcli"
	"github.com/sjacorg/bayanat-cli/internal/ui"
)

// NewRestoreCmd creates the restore command. Restoring overwrites the
// live database, so an interactive confirmation guards it unless
// --yes is given.
func NewRestoreCmd() *cobra.Command {
	var (
		yes     bool
		pathOpt string
	)

	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore the Bayanat database from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backupFile := args[0]
			if _, err := os.Stat(backupFile); err != nil {
				return fmt.Errorf("backup file %s not found", backupFile)
			}

			path, err := installationPath(pathOpt)
			if err != nil {
				return err
			}
			if err := appdir.Validate(path); err != nil {
				return err
			}

			if !yes {
				if !ui.IsTTY() {
					return fmt.Errorf("refusing to restore without confirmation, pass --yes to proceed")
				}
				prompt := fmt.Sprintf("Restore the database from %s? This overwrites current data.", backupFile)
				if !ui.Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), prompt) {
					return fmt.Errorf("restore cancelled")
				}
			}

			reporter := ui.NewConsole(cmd.OutOrStdout())
			reporter.Info("Restoring database from: " + backupFile)

			app := flaskcli.New(command.ExecRunner{}, path)
			if err := app.Restore(cmd.Context(), backupFile); err != nil {
				return err
			}
			reporter.Success("Database restored successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringVar(&pathOpt, "path", "", "installation path (default auto-detected)")
	return cmd
}
