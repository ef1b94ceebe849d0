package lima

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caraveo/aske/internal/shell"
	"github.com/caraveo/aske/pkg/logging"
	"github.com/caraveo/aske/pkg/provider"
	"github.com/caraveo/aske/pkg/types"
)

const subsystem = "Lima"

var _ provider.VirtualizationProvider = (*Client)(nil)

// ListInstances runs `limactl list` and parses its table output.
func (c *Client) ListInstances(ctx context.Context) ([]types.Instance, error) {
	res, err := c.run(ctx, 0, "", "list")
	if err != nil {
		return nil, err
	}
	return parseList(res.Stdout), nil
}

// parseList extracts instances from `limactl list` output. The first
// whitespace-delimited token of each non-header line is the instance name;
// the second, when present, is the status.
func parseList(out string) []types.Instance {
	instances := []types.Instance{}

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] == "NAME" {
			continue
		}

		inst := types.Instance{Name: fields[0], Status: types.InstanceUnknown}
		if len(fields) > 1 {
			inst.Status = types.ParseInstanceStatus(fields[1])
		}
		instances = append(instances, inst)
	}

	return instances
}

// StartInstance creates and starts an instance, passing config on stdin.
func (c *Client) StartInstance(ctx context.Context, name string, config string) error {
	logging.Info(subsystem, "Starting instance %s", name)
	_, err := c.run(ctx, c.startTimeout, config, "start", "--name", name, "--tty=false", "-")
	return err
}

// StopInstance stops an instance.
func (c *Client) StopInstance(ctx context.Context, name string) error {
	logging.Info(subsystem, "Stopping instance %s", name)
	_, err := c.run(ctx, c.stopTimeout, "", "stop", name)
	return err
}

// DeleteInstance deletes an instance.
func (c *Client) DeleteInstance(ctx context.Context, name string) error {
	logging.Info(subsystem, "Deleting instance %s", name)
	_, err := c.run(ctx, c.deleteTimeout, "", "delete", name)
	return err
}

// Shell runs a command inside the instance. Stdout is returned even when the
// command exits non-zero, since probes such as `systemctl is-active` report
// through both.
func (c *Client) Shell(ctx context.Context, name string, command ...string) (string, error) {
	args := append([]string{"shell", name}, command...)

	cmd := shell.Command{Name: c.binary, Args: args, Timeout: c.shellTimeout}
	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return res.Stdout, &provider.CommandError{Command: cmd.String(), ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res.Stdout, nil
}

func (c *Client) run(ctx context.Context, timeout time.Duration, stdin string, args ...string) (*shell.Result, error) {
	cmd := shell.Command{Name: c.binary, Args: args, Stdin: stdin, Timeout: timeout}

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("limactl %s: %w", args[0], err)
	}
	if !res.Success() {
		logging.Debug(subsystem, "%s failed: %s", cmd, res.Stderr)
		return res, &provider.CommandError{Command: cmd.String(), ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}
