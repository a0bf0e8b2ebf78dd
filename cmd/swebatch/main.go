// Command swebatch iterates over dataset files in a directory and runs
// an external validation harness once per file.
package main

import (
	"os"

	"github.com/lycfight/swebatch/internal/cli"
	"github.com/lycfight/swebatch/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the root command and maps the outcome to an exit code.
// Cobra has already printed the error by the time Execute returns.
func run(args []string) int {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
