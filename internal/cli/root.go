// Package cli wires the swebatch command surface: a cobra root command
// hosting the run subcommand, plus logging setup shared by all commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root cobra command for the swebatch CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env
// lookup so tests can inject their own environment.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logCleanup func() error

	cmd := &cobra.Command{
		Use:     "swebatch",
		Short:   "Batch runner for SWE-bench-style validation harnesses",
		Long: "swebatch scans a directory for dataset files and invokes the " +
			"external validation harness once per file, sequentially, " +
			"forwarding a shared parameter set.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cleanup, err := setupLogging(cmd, lookupEnv)
			if err != nil {
				return err
			}
			logCleanup = cleanup
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCleanup != nil {
				return logCleanup()
			}
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a YAML config file (default ~/.swebatch/config.yaml)")
	cmd.AddCommand(newRunCmd(lookupEnv))

	return cmd
}

const rootCmdExample = `  # Validate every .jsonl file under data/tasks with the defaults
  swebatch run

  # Custom base directory and run identifier
  swebatch run datasets/swe 0412

  # Override worker count and per-instance timeout
  swebatch run datasets/swe 0412 8 1800

  # Show the harness command lines without executing anything
  swebatch run datasets/swe --dry-run

  # Stop the batch at the first failed invocation
  swebatch run --halt-on-error`
