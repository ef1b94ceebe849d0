package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "limactl", Command{Name: "limactl"}.String())
	assert.Equal(t, "limactl stop pgdb", Command{Name: "limactl", Args: []string{"stop", "pgdb"}}.String())
}

func TestExecRunner_Success(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo out; echo err 1>&2"}})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err", res.Stderr)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo nope 1>&2; exit 3"}})
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "nope", res.Stderr)
}

func TestExecRunner_Stdin(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Command{Name: "cat", Stdin: "arch: host\n"})
	require.NoError(t, err)
	assert.Equal(t, "arch: host\n", res.Stdout)
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), Command{Name: "sleep", Args: []string{"5"}, Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestExecRunner_Cancelled(t *testing.T) {
	r := NewExecRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Command{Name: "sleep", Args: []string{"5"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Command{Name: "aske-definitely-missing-binary"})
	assert.Error(t, err)
	assert.Nil(t, res)

	_, err = r.LookPath("aske-definitely-missing-binary")
	assert.Error(t, err)
}
