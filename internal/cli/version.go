package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
	"github.com/sjacorg/bayanat-cli/internal/appversion"
	"github.com/sjacorg/bayanat-cli/internal/command"
	"github.com/sjacorg/bayanat-cli/internal/ui"
)

// NewVersionCmd creates the version command. Alongside the CLI's own
// version it reports the installed Bayanat version when pointed at
// (or run inside) an installation.
func NewVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version [path]",
		Short: "Show CLI and installed Bayanat versions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.VersionPanel("bayanat-cli version", ver))

			path, err := installationPath(pathArg(args))
			if err != nil {
				return err
			}
			if appdir.Validate(path) != nil {
				return nil
			}
			appVer := appversion.NewResolver(command.ExecRunner{}).Resolve(cmd.Context(), path)
			fmt.Fprintln(out, ui.VersionPanel("Installed Bayanat version", appVer))
			return nil
		},
	}
}
