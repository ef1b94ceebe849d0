package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/caraveo/aske/pkg/logging"
)

const subsystem = "Shell"

// ErrTimeout is returned when a command exceeds its timeout. Callers may retry.
var ErrTimeout = errors.New("command timed out")

// Command describes an external process invocation
type Command struct {
	Name    string
	Args    []string
	Stdin   string        // Written to the process stdin when non-empty
	Timeout time.Duration // Zero means no timeout beyond the caller's context
}

// String returns the command line for messages and logs
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result represents the outcome of a command that ran to completion
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status 0
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes external commands. A non-zero exit is reported through
// Result.ExitCode, not as an error; errors mean the command could not run to
// completion (missing binary, timeout, cancellation).
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
	LookPath(name string) (string, error)
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct{}

// NewExecRunner creates a new process runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	logging.Debug(subsystem, "Running: %s", cmd)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	err := c.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, fmt.Errorf("%s: %w after %v", cmd, ErrTimeout, cmd.Timeout)
		}
		return result, fmt.Errorf("%s: %w", cmd, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		logging.Debug(subsystem, "%s exited with %d", cmd.Name, result.ExitCode)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
	}

	return result, nil
}

// LookPath searches for an executable in PATH
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
