package brew

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caraveo/aske/internal/shell"
	"github.com/caraveo/aske/pkg/provider"
)

type mockRunner struct {
	result      *shell.Result
	err         error
	found       bool
	execHistory []shell.Command
}

func (m *mockRunner) Run(ctx context.Context, cmd shell.Command) (*shell.Result, error) {
	m.execHistory = append(m.execHistory, cmd)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &shell.Result{}, nil
}

func (m *mockRunner) LookPath(name string) (string, error) {
	if m.found {
		return "/opt/homebrew/bin/" + name, nil
	}
	return "", errors.New("not found")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(&mockRunner{}, "", 0)
	assert.Equal(t, "brew", c.Name())
	assert.Equal(t, DefaultInstallTimeout, c.installTimeout)
}

func TestClient_Install(t *testing.T) {
	runner := &mockRunner{}
	c := NewClient(runner, "", 0)

	require.NoError(t, c.Install(context.Background(), "lima"))
	require.Len(t, runner.execHistory, 1)
	assert.Equal(t, "brew install lima", runner.execHistory[0].String())
	assert.Equal(t, DefaultInstallTimeout, runner.execHistory[0].Timeout)
}

func TestClient_Install_NonZero(t *testing.T) {
	runner := &mockRunner{result: &shell.Result{ExitCode: 1, Stderr: "Error: No available formula"}}
	c := NewClient(runner, "", 0)

	err := c.Install(context.Background(), "lima")
	require.Error(t, err)

	var cmdErr *provider.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Equal(t, "Error: No available formula", cmdErr.Stderr)
}

func TestClient_Install_RunError(t *testing.T) {
	runner := &mockRunner{err: shell.ErrTimeout}
	c := NewClient(runner, "", 0)

	err := c.Install(context.Background(), "lima")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shell.ErrTimeout))
}

func TestClient_AvailableAndHint(t *testing.T) {
	runner := &mockRunner{}
	c := NewClient(runner, "", 0)
	assert.False(t, c.Available())

	runner.found = true
	assert.True(t, c.Available())
	assert.Contains(t, c.InstallHint(), "Homebrew/install")
}
