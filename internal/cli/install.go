package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/config"
	"github.com/sjacorg/bayanat-cli/internal/ui"
	"github.com/sjacorg/bayanat-cli/internal/updater"
)

// NewInstallCmd creates the install command.
func NewInstallCmd(getConfig func() *config.Config) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install [directory]",
		Short: "Install Bayanat into a directory",
		Long: "Install clones the Bayanat repository, provisions a Python virtual " +
			"environment, and records installation metadata. The target directory " +
			"defaults to the current directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}

			reporter := ui.NewConsole(cmd.OutOrStdout())
			b := updater.NewBootstrap(command.ExecRunner{}, getConfig(), reporter)
			return b.Install(cmd.Context(), updater.InstallOptions{Dir: dir, Force: force})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "install even if the directory is not empty")
	return cmd
}
