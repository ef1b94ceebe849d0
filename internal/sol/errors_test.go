package sol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caraveo/aske/internal/shell"
	"github.com/caraveo/aske/pkg/provider"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Kind: KindDuplicateContainer, Op: "create", Name: "mydb"})

	assert.True(t, errors.Is(err, ErrDuplicateContainer))
	assert.False(t, errors.Is(err, ErrUnknownContainer))

	var solErr *Error
	assert.True(t, errors.As(err, &solErr))
	assert.Equal(t, "mydb", solErr.Name)
}

func TestNewError_LiftsCommandError(t *testing.T) {
	cmdErr := &provider.CommandError{Command: "limactl stop mdb", ExitCode: 1, Stderr: "not running"}
	err := newError(KindVirtualizationStopFailed, "delete", "mdb", cmdErr)

	assert.Equal(t, 1, err.ExitCode)
	assert.Equal(t, "not running", err.Stderr)
	assert.True(t, errors.Is(err, provider.ErrCommandFailed))
	assert.Contains(t, err.Error(), `failed to stop container "mdb"`)
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindMissingPackageManager, Name: "brew"}, "package manager brew not found"},
		{&Error{Kind: KindVirtualizationInstallFailed, Name: "lima", ExitCode: 2, Stderr: "no formula"}, "failed to install lima (exit code 2): no formula"},
		{&Error{Kind: KindVirtualizationUnavailable, Op: "toolchain", Name: "limactl"}, "limactl is still unavailable after installation"},
		{&Error{Kind: KindVirtualizationUnavailable, Op: "list", Name: "limactl"}, "limactl is not installed"},
		{&Error{Kind: KindDuplicateContainer, Name: "mydb"}, `container "mydb" already exists`},
		{&Error{Kind: KindUnknownContainer, Name: "x"}, `container "x" not found`},
		{&Error{Kind: KindIO, Op: "read", Name: "x", Err: errors.New("denied")}, "read x failed: denied"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Retryable(t *testing.T) {
	timeout := newError(KindVirtualizationStartFailed, "create", "pgdb", fmt.Errorf("limactl start: %w", shell.ErrTimeout))
	assert.True(t, timeout.Retryable())

	exit := newError(KindVirtualizationStartFailed, "create", "pgdb", &provider.CommandError{ExitCode: 1})
	assert.False(t, exit.Retryable())
}
