package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caraveo/aske/internal/brew"
	"github.com/caraveo/aske/internal/lima"
	"github.com/caraveo/aske/internal/shell"
	"github.com/caraveo/aske/internal/sol"
	"github.com/caraveo/aske/internal/ui"
	"github.com/caraveo/aske/pkg/types"
)

var solCmd = &cobra.Command{
	Use:   "sol",
	Short: "Manage database containers",
	Long: `Manage named database containers. Each container is a Lima virtual
machine running one database engine, with the engine's port forwarded to
the host.

Examples:
  aske sol create postgresql pgdb  # Create a PostgreSQL container
  aske sol create mysql mydb       # Create a MySQL container
  aske sol list                    # List containers
  aske sol show pgdb               # Show a container's stored configuration
  aske sol delete pgdb             # Stop and delete a container
  aske sol prune                   # Forget containers whose VM is gone`,
}

var solCreateCmd = &cobra.Command{
	Use:   "create [engine] <name>",
	Short: "Create a database container",
	Long: `Create a database container and start it.

Installs lima with brew first if limactl is missing. Provisioning the
guest can take several minutes. Without an engine an interactive picker
is shown.

Run 'aske sol engines' for the supported engines.

Examples:
  aske sol create postgresql pgdb
  aske sol create mongo mdb
  aske sol create mydb`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSolCreate,
}

var solListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List database containers",
	Long: `List every Lima instance with its status. Containers created by aske
also show their engine, forwarded port and database service state.

Examples:
  aske sol list
  aske sol ls`,
	Args: cobra.NoArgs,
	RunE: runSolList,
}

var solDeleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm"},
	Short:   "Delete a database container",
	Long: `Stop and delete a container, then remove its stored configuration.

Without a name an interactive selector is shown. Deletion asks for
confirmation unless --yes is given.

Examples:
  aske sol delete pgdb
  aske sol rm pgdb --yes
  aske sol delete`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolDelete,
}

var solShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a container's stored configuration",
	Long: `Print the Lima configuration aske stored for a container, followed by
the engine's connection instructions.

Examples:
  aske sol show pgdb`,
	Args: cobra.ExactArgs(1),
	RunE: runSolShow,
}

var solPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stored configurations without a Lima instance",
	Long: `Remove registry entries for containers whose Lima instance no longer
exists, for example after 'limactl delete' was run by hand.

A container that is still being created in another terminal has no Lima
instance yet and is offered for removal too. Do not run prune --yes while a
create is in progress.

Examples:
  aske sol prune
  aske sol prune --yes`,
	Args: cobra.NoArgs,
	RunE: runSolPrune,
}

var solEnginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List supported database engines",
	Args:  cobra.NoArgs,
	Run:   runSolEngines,
}

var (
	solDeleteYes bool
	solPruneYes  bool
)

func init() {
	rootCmd.AddCommand(solCmd)
	solCmd.AddCommand(solCreateCmd)
	solCmd.AddCommand(solListCmd)
	solCmd.AddCommand(solDeleteCmd)
	solCmd.AddCommand(solShowCmd)
	solCmd.AddCommand(solPruneCmd)
	solCmd.AddCommand(solEnginesCmd)

	solDeleteCmd.Flags().BoolVarP(&solDeleteYes, "yes", "y", false, "Delete without asking for confirmation")
	solPruneCmd.Flags().BoolVarP(&solPruneYes, "yes", "y", false, "Prune without asking for confirmation")
}

// newClients builds the brew and limactl adapters from the effective settings
func newClients() (*brew.Client, *lima.Client) {
	runner := shell.NewExecRunner()

	limaClient := lima.NewClient(runner,
		lima.WithBinary(settings.LimaBinary),
		lima.WithStartTimeout(settings.Timeouts.Start),
		lima.WithStopTimeout(settings.Timeouts.Stop),
		lima.WithDeleteTimeout(settings.Timeouts.Delete),
		lima.WithShellTimeout(settings.Timeouts.Probe),
	)
	brewClient := brew.NewClient(runner, settings.BrewBinary, settings.Timeouts.Install)

	return brewClient, limaClient
}

// newSolManager wires the container manager
func newSolManager() *sol.Manager {
	brewClient, limaClient := newClients()
	toolchain := sol.NewToolchain(brewClient, limaClient)
	return sol.NewManager(toolchain, limaClient, sol.NewFileRegistry(settings.RegistryDir))
}

// confirmFunc asks on the terminal unless yes is set
func confirmFunc(yes bool, question func(name string) string) sol.ConfirmFunc {
	if yes {
		return sol.AlwaysConfirm
	}
	prompter := ui.NewPrompter()
	return func(name string) bool {
		return prompter.Confirm(question(name))
	}
}

func runSolCreate(cmd *cobra.Command, args []string) error {
	name := args[len(args)-1]

	var engine types.Engine
	if len(args) == 2 {
		parsed, err := types.ParseEngine(args[0])
		if err != nil {
			return err
		}
		engine = parsed
	} else {
		if err := sol.ValidateName(name); err != nil {
			return err
		}
		picked, err := ui.SelectEngine(engineOptions(), name)
		if errors.Is(err, ui.ErrSelectionCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		engine = picked
	}

	manager := newSolManager()

	progress := ui.StartProgress(cmd.ErrOrStderr(),
		fmt.Sprintf("Creating %s container %s (this can take a few minutes)...", engine.DisplayName(), name))
	res, err := manager.Create(cmd.Context(), engine, name)
	if err != nil {
		progress.Stop("")
		return err
	}
	progress.Stop(ui.RunningStyle.Render("✓ Created " + name))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	ui.PrintDetails(out, "Container", []ui.Detail{
		{Label: "Name:", Value: res.Container.Name, Style: ui.NameStyle},
		{Label: "Engine:", Value: res.Container.Engine.DisplayName(), Style: ui.EngineStyle},
		{Label: "Host port:", Value: strconv.Itoa(res.Container.HostPort), Style: ui.PortStyle},
		{Label: "Config:", Value: res.Location, Style: ui.MutedStyle},
	})
	if !res.Forwarded {
		fmt.Fprintln(out)
		ui.PrintHint(out, fmt.Sprintf("Port %d did not answer yet; the database may still be starting.", res.Container.HostPort))
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, res.Instructions)
	return nil
}

func runSolList(cmd *cobra.Command, args []string) error {
	manager := newSolManager()

	instances, err := manager.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(instances) == 0 {
		fmt.Fprintln(out, "No containers found")
		fmt.Fprintln(out)
		ui.PrintHint(out, "Create one with: aske sol create <engine> <name>")
		return nil
	}

	ui.PrintInstanceTable(out, instances)
	return nil
}

func runSolDelete(cmd *cobra.Command, args []string) error {
	manager := newSolManager()
	ctx := cmd.Context()

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		instances, err := manager.List(ctx)
		if err != nil {
			return err
		}
		selected, err := ui.SelectInstance(instances)
		if errors.Is(err, ui.ErrSelectionCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		name = selected.Name
	}

	confirm := confirmFunc(solDeleteYes, func(name string) string {
		return fmt.Sprintf("Stop and delete container %s? This destroys its data.", ui.NameStyle.Render(name))
	})

	var progress *ui.Progress
	res, err := manager.Delete(ctx, name, func(n string) bool {
		if !confirm(n) {
			return false
		}
		progress = ui.StartProgress(cmd.ErrOrStderr(), "Deleting "+n+"...")
		return true
	})
	if progress != nil {
		progress.Stop("")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Declined {
		fmt.Fprintln(out, ui.MutedStyle.Render("Deletion cancelled"))
		return nil
	}
	fmt.Fprintln(out, ui.RunningStyle.Render("✓ Deleted "+res.Name))
	return nil
}

func runSolShow(cmd *cobra.Command, args []string) error {
	manager := newSolManager()

	res, err := manager.Show(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	engine := "-"
	if res.Container.Engine != "" {
		engine = res.Container.Engine.DisplayName()
	}
	port := "-"
	if res.Container.HostPort != 0 {
		port = strconv.Itoa(res.Container.HostPort)
	}
	ui.PrintDetails(out, "Container", []ui.Detail{
		{Label: "Name:", Value: res.Container.Name, Style: ui.NameStyle},
		{Label: "Engine:", Value: engine, Style: ui.EngineStyle},
		{Label: "Host port:", Value: port, Style: ui.PortStyle},
		{Label: "Config:", Value: res.Location, Style: ui.MutedStyle},
	})

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.HeaderStyle.Render("Lima configuration"))
	fmt.Fprint(out, res.Container.Config)

	if res.Instructions != "" {
		fmt.Fprintln(out)
		fmt.Fprint(out, res.Instructions)
	}
	return nil
}

func runSolPrune(cmd *cobra.Command, args []string) error {
	manager := newSolManager()

	confirm := confirmFunc(solPruneYes, func(name string) string {
		return fmt.Sprintf("Forget container %s? Its Lima instance no longer exists.", ui.NameStyle.Render(name))
	})

	res, err := manager.Prune(cmd.Context(), confirm)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Removed) == 0 && len(res.Skipped) == 0 {
		fmt.Fprintln(out, "Nothing to prune")
		return nil
	}
	for _, name := range res.Removed {
		fmt.Fprintln(out, ui.RunningStyle.Render("✓ Pruned "+name))
	}
	for _, name := range res.Skipped {
		fmt.Fprintln(out, ui.MutedStyle.Render("- Kept "+name))
	}
	return nil
}

func runSolEngines(cmd *cobra.Command, args []string) {
	ui.PrintEngineTable(cmd.OutOrStdout(), engineOptions())
}

func engineOptions() []ui.EngineOption {
	var options []ui.EngineOption
	for _, p := range sol.Profiles() {
		options = append(options, ui.EngineOption{Engine: p.Engine, Port: p.DefaultPort, Service: p.ServiceName})
	}
	return options
}
