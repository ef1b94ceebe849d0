package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caraveo/aske/internal/shell"
	"github.com/caraveo/aske/internal/sol"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	dir := t.TempDir()
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--registry-dir", filepath.Join(dir, "sol"),
	}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestEnginesCommand(t *testing.T) {
	out, err := runRoot(t, "sol", "engines")
	require.NoError(t, err)

	assert.Contains(t, out, "mysql")
	assert.Contains(t, out, "5432")
	assert.Contains(t, out, "mongod")
}

func TestVersionCommand(t *testing.T) {
	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:")
}

func TestLoadSettings_FlagOverridesRegistryDir(t *testing.T) {
	_, err := runRoot(t, "version")
	require.NoError(t, err)

	require.NotNil(t, settings)
	assert.Equal(t, "sol", filepath.Base(settings.RegistryDir))
}

func TestCreateCommand_UnknownEngine(t *testing.T) {
	_, err := runRoot(t, "sol", "create", "oracle", "odb")
	assert.ErrorContains(t, err, "unsupported engine")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &sol.Error{
		Kind: sol.KindMissingPackageManager,
		Name: "brew",
		Hint: "Install Homebrew first",
	})

	out := buf.String()
	assert.Contains(t, out, "package manager brew not found")
	assert.Contains(t, out, "Install Homebrew first")
}

func TestPrintError_Retryable(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &sol.Error{
		Kind: sol.KindVirtualizationStartFailed,
		Name: "pgdb",
		Err:  errors.Join(errors.New("limactl start"), shell.ErrTimeout),
	})

	assert.Contains(t, buf.String(), "safe to retry")
}
