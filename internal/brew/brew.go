package brew

import (
	"context"
	"fmt"
	"time"

	"github.com/caraveo/aske/internal/shell"
	"github.com/caraveo/aske/pkg/logging"
	"github.com/caraveo/aske/pkg/provider"
)

const (
	DefaultBinary         = "brew"
	DefaultInstallTimeout = 15 * time.Minute

	// InstallCommand is the official Homebrew bootstrap. It is shown to the
	// user, never executed by aske.
	InstallCommand = `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`
)

const subsystem = "Brew"

var _ provider.PackageManager = (*Client)(nil)

// Client installs packages with Homebrew.
type Client struct {
	runner         shell.Runner
	binary         string
	installTimeout time.Duration
}

// NewClient creates a Homebrew client. An empty binary selects "brew" and a
// zero timeout selects DefaultInstallTimeout.
func NewClient(runner shell.Runner, binary string, installTimeout time.Duration) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if installTimeout <= 0 {
		installTimeout = DefaultInstallTimeout
	}
	return &Client{runner: runner, binary: binary, installTimeout: installTimeout}
}

// Name returns the configured binary.
func (c *Client) Name() string { return c.binary }

// Available reports whether brew is on PATH.
func (c *Client) Available() bool {
	_, err := c.runner.LookPath(c.binary)
	return err == nil
}

// Install runs `brew install <pkg>`.
func (c *Client) Install(ctx context.Context, pkg string) error {
	cmd := shell.Command{Name: c.binary, Args: []string{"install", pkg}, Timeout: c.installTimeout}
	logging.Info(subsystem, "Installing %s", pkg)

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", pkg, err)
	}
	if !res.Success() {
		return &provider.CommandError{Command: cmd.String(), ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	logging.Info(subsystem, "Installed %s", pkg)
	return nil
}

// InstallHint returns the steps for installing Homebrew itself.
func (c *Client) InstallHint() string {
	return "Homebrew is required. Install it with:\n  " + InstallCommand +
		"\nthen re-run this command."
}
