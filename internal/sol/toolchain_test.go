package sol

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caraveo/aske/pkg/provider"
)

func TestToolchain_Ensure(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		pm := &fakePackageManager{available: true}
		virt := newFakeProvider()

		require.NoError(t, NewToolchain(pm, virt).Ensure(context.Background()))
		assert.Empty(t, pm.installs)
	})

	t.Run("missing package manager", func(t *testing.T) {
		pm := &fakePackageManager{}
		virt := newFakeProvider()
		virt.available = false

		err := NewToolchain(pm, virt).Ensure(context.Background())
		require.ErrorIs(t, err, ErrMissingPackageManager)

		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, "install brew first", e.Hint)
		assert.Empty(t, pm.installs, "package manager must never be installed")
	})

	t.Run("installs virtualization once", func(t *testing.T) {
		virt := newFakeProvider()
		virt.available = false
		pm := &fakePackageManager{available: true, onInstall: func() { virt.available = true }}

		require.NoError(t, NewToolchain(pm, virt).Ensure(context.Background()))
		assert.Equal(t, []string{"lima"}, pm.installs)
	})

	t.Run("install fails", func(t *testing.T) {
		virt := newFakeProvider()
		virt.available = false
		pm := &fakePackageManager{
			available:  true,
			installErr: &provider.CommandError{Command: "brew install lima", ExitCode: 1, Stderr: "no bottle"},
		}

		err := NewToolchain(pm, virt).Ensure(context.Background())
		require.ErrorIs(t, err, ErrVirtualizationInstallFailed)

		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, 1, e.ExitCode)
		assert.Equal(t, "no bottle", e.Stderr)
		assert.Len(t, pm.installs, 1)
	})

	t.Run("still unavailable after install", func(t *testing.T) {
		virt := newFakeProvider()
		virt.available = false
		pm := &fakePackageManager{available: true}

		err := NewToolchain(pm, virt).Ensure(context.Background())
		require.ErrorIs(t, err, ErrVirtualizationUnavailable)
		assert.Len(t, pm.installs, 1)
	})
}

func TestToolchain_Status(t *testing.T) {
	virt := newFakeProvider()
	virt.available = false
	pm := &fakePackageManager{}

	s := NewToolchain(pm, virt).Status()
	assert.Equal(t, "brew", s.PackageManager)
	assert.False(t, s.PackageManagerFound)
	assert.Equal(t, "limactl", s.Virtualization)
	assert.False(t, s.VirtualizationFound)
	assert.Equal(t, "install brew first", s.PackageManagerInstall)
	assert.Empty(t, pm.installs)
}

func TestToolchain_Require(t *testing.T) {
	pm := &fakePackageManager{available: true}
	virt := newFakeProvider()
	tc := NewToolchain(pm, virt)

	require.NoError(t, tc.Require("list"))

	virt.available = false
	err := tc.Require("list")
	require.ErrorIs(t, err, ErrVirtualizationUnavailable)
	assert.EqualError(t, err, "limactl is not installed")
	assert.Empty(t, pm.installs)
}
