// Package cli defines the bayanat-cli command tree.
package cli

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
	"github.com/sjacorg/bayanat-cli/internal/config"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command. Configuration is loaded
// and logging wired up in PersistentPreRunE so every subcommand runs
// with a logger attached to its context.
func NewRootCmd(ver string) *cobra.Command {
	var (
		cfg      *config.Config
		closeLog func() error
	)

	cmd := &cobra.Command{
		Use:     "bayanat-cli",
		Short:   "Bayanat installation and update manager",
		Long:    "bayanat-cli installs, updates, backs up, and restores a Bayanat deployment.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = loadConfig(cmd)
			if err != nil {
				return err
			}
			closeLog, err = setupLogging(cmd, cfg)
			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to config file")

	getConfig := func() *config.Config {
		if cfg == nil {
			return config.Default()
		}
		return cfg
	}
	cmd.AddCommand(
		NewInstallCmd(getConfig),
		NewUpdateCmd(getConfig),
		NewBackupCmd(),
		NewRestoreCmd(),
		NewVersionCmd(ver),
	)

	return cmd
}

// installationPath resolves the target installation: an explicit path
// wins, otherwise auto-detection from the working directory.
func installationPath(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return appdir.Detect(cwd), nil
}

// pathArg returns the optional positional installation path.
func pathArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return ""
}

// loadConfig honors --config first, then the default lookup chain.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

const rootCmdExample = `  # Install Bayanat into the current directory
  bayanat-cli install

  # Update an existing installation
  bayanat-cli update

  # Update without restarting services
  bayanat-cli update --skip-restart

  # Back up the database
  bayanat-cli backup

  # Restore the database from a backup file
  bayanat-cli restore backups/20250101_120000_bayanat_backup.dump`
