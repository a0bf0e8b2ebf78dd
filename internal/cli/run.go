package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lycfight/swebatch/internal/config"
	"github.com/lycfight/swebatch/internal/harness"
	"github.com/lycfight/swebatch/internal/logging"
	"github.com/lycfight/swebatch/internal/runner"
)

// Positional argument indexes for the run command.
const (
	argBaseDir = iota
	argRunID
	argMaxWorkers
	argTimeout
	maxRunArgs
)

// runFlags holds the run command's flag values.
type runFlags struct {
	pattern          string
	harnessCmd       string
	dryRun           bool
	haltOnError      bool
	skipVersionCheck bool
}

// newRunCmd creates the run subcommand.
func newRunCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [base-dir [run-id [max-workers [timeout]]]]",
		Short: "Run the validation harness once per dataset file",
		Long: "Discovers dataset files in the base directory and invokes the " +
			"validation harness for each, one at a time. The harness receives " +
			"the file as --dataset_name plus the shared split, worker, timeout, " +
			"cache-level, and run-id options.",
		Args: cobra.MaximumNArgs(maxRunArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args, &flags, lookupEnv)
			if err != nil {
				return err
			}
			return runBatch(cmd, cfg, &flags)
		},
	}

	cmd.Flags().StringVar(&flags.pattern, "pattern", config.DefaultPattern,
		"dataset file suffix matched in the base directory")
	cmd.Flags().StringVar(&flags.harnessCmd, "harness", "",
		"validation harness command override (space-separated argv)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false,
		"print each harness command line without executing it")
	cmd.Flags().BoolVar(&flags.haltOnError, "halt-on-error", false,
		"stop the batch at the first failed invocation")
	cmd.Flags().BoolVar(&flags.skipVersionCheck, "skip-version-check", false,
		"skip the harness version compatibility probe")

	return cmd
}

// buildConfig assembles the immutable run configuration: defaults, then
// the YAML config file, then environment variables, then CLI arguments.
func buildConfig(
	cmd *cobra.Command,
	args []string,
	flags *runFlags,
	lookupEnv func(string) (string, bool),
) (*config.Config, error) {
	cfg, err := loadConfig(cmd, lookupEnv)
	if err != nil {
		return nil, err
	}

	if len(args) > argBaseDir {
		cfg.Runner.BaseDir = args[argBaseDir]
	}
	if len(args) > argRunID {
		cfg.Runner.RunID = args[argRunID]
	}
	if len(args) > argMaxWorkers {
		n, err := strconv.Atoi(args[argMaxWorkers])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidMaxWorkers, args[argMaxWorkers])
		}
		cfg.Runner.MaxWorkers = n
	}
	if len(args) > argTimeout {
		n, err := strconv.Atoi(args[argTimeout])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidTimeout, args[argTimeout])
		}
		cfg.Runner.TimeoutSeconds = n
	}

	if cmd.Flags().Changed("pattern") {
		cfg.Runner.Pattern = flags.pattern
	}
	if cmd.Flags().Changed("halt-on-error") {
		cfg.Runner.HaltOnError = flags.haltOnError
	}
	if flags.harnessCmd != "" {
		cfg.Harness.Command = strings.Fields(flags.harnessCmd)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runBatch checks harness compatibility, selects an invoker, and runs
// the batch loop.
func runBatch(cmd *cobra.Command, cfg *config.Config, flags *runFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if !flags.dryRun && !flags.skipVersionCheck {
		probe, err := harness.NewVersionProbe(cfg.Harness.VersionProbe)
		if err != nil {
			return err
		}
		v, err := probe.Probe(ctx)
		if err != nil {
			return fmt.Errorf("%w (use --skip-version-check to bypass)", err)
		}
		if err := harness.CheckVersion(v, cfg.Harness.MinVersion); err != nil {
			return err
		}
	}

	var invoker harness.Invoker
	if flags.dryRun {
		invoker = &harness.PrintInvoker{
			Command: cfg.Harness.Command,
			Out:     cmd.OutOrStdout(),
		}
	} else {
		execInvoker, err := harness.NewExecInvoker(cfg.Harness.Command)
		if err != nil {
			return err
		}
		invoker = execInvoker.WithStreams(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	log.Debug().
		Ctx(ctx).
		Str("harness", strings.Join(cfg.Harness.Command, " ")).
		Bool("dry_run", flags.dryRun).
		Msg("batch configured")

	banners := runner.NewBanners(isTerminal(os.Stdout))
	return runner.New(cfg.Runner, invoker, cmd.OutOrStdout(), banners).Run(ctx)
}
