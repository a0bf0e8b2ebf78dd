package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/lycfight/swebatch/internal/logging"
)

// ErrEmptyCommand is returned when an invoker is built without a
// harness command.
var ErrEmptyCommand = errors.New("harness command cannot be empty")

// Invoker runs the validation harness for a single dataset file and
// blocks until the spawned process exits.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) error
}

// ExecInvoker launches the harness as a child process. The child
// inherits the configured stdout/stderr so harness output lands on the
// runner's own streams.
type ExecInvoker struct {
	command []string
	stdout  io.Writer
	stderr  io.Writer
}

// NewExecInvoker creates an invoker for the given harness argv prefix.
// Output streams default to the process's stdout and stderr.
func NewExecInvoker(command []string) (*ExecInvoker, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}
	return &ExecInvoker{
		command: command,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}, nil
}

// WithStreams redirects the child process's stdout and stderr. Used by
// the CLI to honor cobra's output overrides.
func (e *ExecInvoker) WithStreams(stdout, stderr io.Writer) *ExecInvoker {
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// Invoke runs the harness once and waits for it to terminate. The exit
// status is surfaced as an error but never interpreted further; retry
// and timeout enforcement belong to the harness itself.
func (e *ExecInvoker) Invoke(ctx context.Context, inv Invocation) error {
	argv := append(append([]string{}, e.command...), inv.Args()...)

	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "harness").
		Str("dataset", inv.DatasetPath).
		Str("argv", strings.Join(argv, " ")).
		Msg("starting harness process")

	//nolint:gosec // The harness command is operator-supplied configuration.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running validation harness for %s: %w", inv.DatasetPath, err)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "harness").
		Str("dataset", inv.DatasetPath).
		Msg("harness process exited")

	return nil
}

// PrintInvoker writes the argv of each would-be invocation to Out
// instead of executing it. Backs the --dry-run flag.
type PrintInvoker struct {
	Command []string
	Out     io.Writer
}

// Invoke prints the rendered command line and returns immediately.
func (p *PrintInvoker) Invoke(_ context.Context, inv Invocation) error {
	argv := append(append([]string{}, p.Command...), inv.Args()...)
	_, err := fmt.Fprintln(p.Out, strings.Join(argv, " "))
	return err
}
