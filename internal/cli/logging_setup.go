package cli

import (
	"github.com/spf13/cobra"

	"github.com/lycfight/swebatch/internal/logging"
)

// setupLogging configures the command's logger from the merged
// configuration (config file and SWEBATCH_LOG_LEVEL included) plus the
// --debug flag, then attaches the logger and a fresh trace ID to the
// command context. The returned cleanup releases the log file handle,
// if any.
func setupLogging(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (func() error, error) {
	cfg, err := loadConfig(cmd, lookupEnv)
	if err != nil {
		return nil, err
	}
	logCfg := cfg.Logging.ToLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		logCfg.Level = "debug"
		logCfg.Format = logging.FormatConsole
		logCfg.File = ""
	}

	logger, cleanup, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	logger = logging.ComponentLogger(logger, "cli")

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Str("trace_id", traceID).Msg("command started")

	return cleanup, nil
}
