package lima

import (
	"time"

	"github.com/caraveo/aske/internal/shell"
)

const (
	DefaultBinary        = "limactl"
	DefaultStartTimeout  = 10 * time.Minute
	DefaultStopTimeout   = 2 * time.Minute
	DefaultDeleteTimeout = 2 * time.Minute
	DefaultShellTimeout  = 5 * time.Second
)

// Client drives the limactl CLI.
// It implements provider.VirtualizationProvider.
type Client struct {
	runner        shell.Runner
	binary        string
	startTimeout  time.Duration
	stopTimeout   time.Duration
	deleteTimeout time.Duration
	shellTimeout  time.Duration
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithBinary sets the limactl binary name or path.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithStartTimeout bounds `limactl start`, which includes guest provisioning.
func WithStartTimeout(d time.Duration) Option {
	return func(c *Client) { c.startTimeout = d }
}

// WithStopTimeout bounds `limactl stop`.
func WithStopTimeout(d time.Duration) Option {
	return func(c *Client) { c.stopTimeout = d }
}

// WithDeleteTimeout bounds `limactl delete`.
func WithDeleteTimeout(d time.Duration) Option {
	return func(c *Client) { c.deleteTimeout = d }
}

// WithShellTimeout bounds `limactl shell` status probes.
func WithShellTimeout(d time.Duration) Option {
	return func(c *Client) { c.shellTimeout = d }
}

// NewClient creates a limactl client that runs commands through runner.
func NewClient(runner shell.Runner, opts ...Option) *Client {
	c := &Client{
		runner:        runner,
		binary:        DefaultBinary,
		startTimeout:  DefaultStartTimeout,
		stopTimeout:   DefaultStopTimeout,
		deleteTimeout: DefaultDeleteTimeout,
		shellTimeout:  DefaultShellTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the configured binary.
func (c *Client) Name() string { return c.binary }

// Available reports whether limactl is on PATH.
func (c *Client) Available() bool {
	_, err := c.runner.LookPath(c.binary)
	return err == nil
}
