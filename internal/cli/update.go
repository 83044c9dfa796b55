package cli

import (
	"github.com/spf13/cobra"

	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/config"
	"github.com/sjacorg/bayanat-cli/internal/ui"
	"github.com/sjacorg/bayanat-cli/internal/updater"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd(getConfig func() *config.Config) *cobra.Command {
	var opts updater.Options

	cmd := &cobra.Command{
		Use:   "update [path]",
		Short: "Update an existing Bayanat installation",
		Long: "Update locks the application, backs up the database, pulls the latest " +
			"code, installs dependencies, applies migrations, and restarts services. " +
			"On failure the database and code are rolled back. The installation path " +
			"defaults to auto-detection from the current directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := installationPath(pathArg(args))
			if err != nil {
				return err
			}
			cfg := getConfig()
			if opts.ServiceName == "" {
				opts.ServiceName = cfg.Service.Name
			}

			reporter := ui.NewConsole(cmd.OutOrStdout())
			u := updater.New(command.ExecRunner{}, path, cfg, reporter)
			return u.Update(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipGit, "skip-git", false, "skip pulling the latest code")
	cmd.Flags().BoolVar(&opts.SkipDeps, "skip-deps", false, "skip installing Python dependencies")
	cmd.Flags().BoolVar(&opts.SkipMigrations, "skip-migrations", false, "skip database migrations")
	cmd.Flags().BoolVar(&opts.SkipRestart, "skip-restart", false, "skip restarting services")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "force update, discarding local changes")
	cmd.Flags().StringVar(&opts.ServiceName, "service-name", "", "systemd service to restart")

	return cmd
}
