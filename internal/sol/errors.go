package sol

import (
	"errors"
	"fmt"

	"github.com/caraveo/aske/internal/shell"
	"github.com/caraveo/aske/pkg/provider"
)

// Kind classifies container manager failures
type Kind int

const (
	KindIO Kind = iota
	KindMissingPackageManager
	KindVirtualizationInstallFailed
	KindVirtualizationUnavailable
	KindDuplicateContainer
	KindRegistryWriteFailed
	KindVirtualizationStartFailed
	KindUnknownContainer
	KindVirtualizationStopFailed
	KindVirtualizationDeleteFailed
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IOError"
	case KindMissingPackageManager:
		return "MissingPackageManager"
	case KindVirtualizationInstallFailed:
		return "VirtualizationInstallFailed"
	case KindVirtualizationUnavailable:
		return "VirtualizationUnavailable"
	case KindDuplicateContainer:
		return "DuplicateContainer"
	case KindRegistryWriteFailed:
		return "RegistryWriteFailed"
	case KindVirtualizationStartFailed:
		return "VirtualizationStartFailed"
	case KindUnknownContainer:
		return "UnknownContainer"
	case KindVirtualizationStopFailed:
		return "VirtualizationStopFailed"
	case KindVirtualizationDeleteFailed:
		return "VirtualizationDeleteFailed"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrIO                          = &Error{Kind: KindIO}
	ErrMissingPackageManager       = &Error{Kind: KindMissingPackageManager}
	ErrVirtualizationInstallFailed = &Error{Kind: KindVirtualizationInstallFailed}
	ErrVirtualizationUnavailable   = &Error{Kind: KindVirtualizationUnavailable}
	ErrDuplicateContainer          = &Error{Kind: KindDuplicateContainer}
	ErrRegistryWriteFailed         = &Error{Kind: KindRegistryWriteFailed}
	ErrVirtualizationStartFailed   = &Error{Kind: KindVirtualizationStartFailed}
	ErrUnknownContainer            = &Error{Kind: KindUnknownContainer}
	ErrVirtualizationStopFailed    = &Error{Kind: KindVirtualizationStopFailed}
	ErrVirtualizationDeleteFailed  = &Error{Kind: KindVirtualizationDeleteFailed}
)

// Error is the structured failure returned by Manager and Toolchain
type Error struct {
	Kind     Kind
	Op       string // create, list, delete, toolchain ...
	Name     string // Container name, or the tool name for toolchain errors
	ExitCode int    // Exit code of the failed external command, if any
	Stderr   string // Stderr of the failed external command, if any
	Hint     string // Actionable instructions for the user
	Err      error
}

// newError builds an Error, lifting exit code and stderr out of a wrapped
// provider.CommandError.
func newError(kind Kind, op, name string, err error) *Error {
	e := &Error{Kind: kind, Op: op, Name: name, Err: err}
	var cmdErr *provider.CommandError
	if errors.As(err, &cmdErr) {
		e.ExitCode = cmdErr.ExitCode
		e.Stderr = cmdErr.Stderr
	}
	return e
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindMissingPackageManager:
		msg = fmt.Sprintf("package manager %s not found", e.Name)
	case KindVirtualizationInstallFailed:
		msg = fmt.Sprintf("failed to install %s (exit code %d)", e.Name, e.ExitCode)
	case KindVirtualizationUnavailable:
		if e.Op == "toolchain" {
			msg = fmt.Sprintf("%s is still unavailable after installation", e.Name)
		} else {
			msg = fmt.Sprintf("%s is not installed", e.Name)
		}
	case KindDuplicateContainer:
		msg = fmt.Sprintf("container %q already exists", e.Name)
	case KindRegistryWriteFailed:
		msg = fmt.Sprintf("failed to write registry entry for %q", e.Name)
	case KindVirtualizationStartFailed:
		msg = fmt.Sprintf("failed to start container %q", e.Name)
	case KindUnknownContainer:
		msg = fmt.Sprintf("container %q not found", e.Name)
	case KindVirtualizationStopFailed:
		msg = fmt.Sprintf("failed to stop container %q", e.Name)
	case KindVirtualizationDeleteFailed:
		msg = fmt.Sprintf("failed to delete container %q", e.Name)
	default:
		msg = fmt.Sprintf("%s %s failed", e.Op, e.Name)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Retryable reports whether the failure was a timeout
func (e *Error) Retryable() bool {
	return errors.Is(e.Err, shell.ErrTimeout)
}
