package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/caraveo/aske/pkg/types"
)

// Common errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrNotInstalled  = errors.New("binary not installed")
	ErrCommandFailed = errors.New("command exited with non-zero status")
)

// CommandError describes a failed external command. It wraps ErrCommandFailed.
type CommandError struct {
	Command  string // Full command line, for messages
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// Unwrap makes errors.Is(err, ErrCommandFailed) hold for every CommandError
func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}

// VirtualizationProvider defines the operations aske needs from the
// virtualization CLI
type VirtualizationProvider interface {
	// Name returns the CLI binary name (e.g., "limactl")
	Name() string

	// Available reports whether the CLI binary can be found
	Available() bool

	// ListInstances returns all instances known to the CLI
	ListInstances(ctx context.Context) ([]types.Instance, error)

	// StartInstance creates and starts an instance from a configuration document
	StartInstance(ctx context.Context, name string, config string) error

	// StopInstance stops a running instance
	StopInstance(ctx context.Context, name string) error

	// DeleteInstance deletes a stopped instance
	DeleteInstance(ctx context.Context, name string) error

	// Shell runs a command inside the instance and returns its stdout
	Shell(ctx context.Context, name string, command ...string) (string, error)
}

// PackageManager defines the interface for the host package manager
type PackageManager interface {
	// Name returns the package manager binary name (e.g., "brew")
	Name() string

	// Available reports whether the package manager binary can be found
	Available() bool

	// Install installs a package, returning a *CommandError on non-zero exit
	Install(ctx context.Context, pkg string) error

	// InstallHint returns the instructions for installing the package manager itself
	InstallHint() string
}
