package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/caraveo/aske/internal/sol"
	"github.com/caraveo/aske/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show toolchain and registry status",
	Long: `Check that brew and limactl are available and show where container
configurations are stored. Nothing is installed.

Examples:
  aske status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	brewClient, limaClient := newClients()
	status := sol.NewToolchain(brewClient, limaClient).Status()

	registry := sol.NewFileRegistry(settings.RegistryDir)
	names, err := registry.List()
	if err != nil {
		return fmt.Errorf("failed to read registry: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Status")
	fmt.Fprintln(out, ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Fprintln(out)

	printToolStatus(out, "Package:", status.PackageManager, status.PackageManagerFound)
	printToolStatus(out, "Lima:", status.Virtualization, status.VirtualizationFound)
	fmt.Fprintf(out, "Registry: %s\n", registry.Dir())
	fmt.Fprintf(out, "Entries:  %d\n", len(names))

	if !status.PackageManagerFound {
		fmt.Fprintln(out)
		ui.PrintHint(out, status.PackageManagerInstall)
	} else if !status.VirtualizationFound {
		fmt.Fprintln(out)
		ui.PrintHint(out, fmt.Sprintf("%s will be installed with '%s install %s' on the first 'aske sol create'.",
			status.Virtualization, status.PackageManager, sol.VirtualizationPackage))
	}

	return nil
}

func printToolStatus(w io.Writer, label, name string, found bool) {
	fmt.Fprintf(w, "%-10s", label)
	if found {
		fmt.Fprintln(w, ui.RunningStyle.Render("✓ "+name))
		return
	}
	fmt.Fprintln(w, ui.BrokenStyle.Render("✗ "+name+" not found"))
}
