package cli

import (
	"github.com/spf13/cobra"

	"github.com/sjacorg/bayanat-cli/internal/config"
	"github.com/sjacorg/bayanat-cli/internal/logging"
)

// setupLogging configures logging from the config file and CLI flags
// and attaches the logger to the command context. The returned closer
// releases the log file handle, if any.
func setupLogging(cmd *cobra.Command, cfg *config.Config) (func() error, error) {
	loggingCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
		loggingCfg.File = ""
	}

	log, closeLog, err := logging.New(loggingCfg)
	if err != nil {
		return nil, err
	}
	logger = logging.ComponentLogger(log, "cli")

	ctx := logging.WithContext(cmd.Context(), logger)
	cmd.SetContext(ctx)

	logger.Info().Str("command", cmd.Name()).Msg("command started")
	return closeLog, nil
}
