package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caraveo/aske/internal/config"
	"github.com/caraveo/aske/internal/sol"
	"github.com/caraveo/aske/internal/ui"
	"github.com/caraveo/aske/pkg/logging"
)

var (
	// Global flags
	cfgFile     string
	registryDir string
	logLevel    string

	// settings is the effective configuration, loaded before any command runs
	settings *config.Config
	v        *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "aske",
	Short: "Aske - local database containers on Lima",
	Long: `Aske bootstraps a local development environment. Its sol commands
create, list and delete named database containers (MySQL, PostgreSQL,
MongoDB), each running in its own Lima virtual machine.

Container Commands:
  aske sol create postgresql pgdb  # Create a PostgreSQL container
  aske sol list                    # List containers and their service status
  aske sol delete pgdb             # Stop and delete a container
  aske sol engines                 # Show supported engines

Environment:
  aske status                      # Check brew and limactl
  aske version                     # Print version information

Configuration is read from ~/.aske/config.yaml and ASKE_* environment
variables (a .env file in the working directory is loaded too).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.aske/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&registryDir, "registry-dir", "", "Directory holding container configurations (default ~/.aske/sol)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func initConfig() {
	// .env first so its values are visible to viper's environment lookup
	config.LoadDotEnv()

	v = config.NewViper()
	_ = v.BindPFlag(config.KeyRegistryDir, rootCmd.PersistentFlags().Lookup("registry-dir"))
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// loadSettings resolves flag > env > file > default and sets up logging
func loadSettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(v)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		fw, err := logging.NewFileWriter(logging.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAge,
		})
		if err != nil {
			return err
		}
		out = io.MultiWriter(os.Stderr, fw)
	}
	logging.InitForCLI(level, out)

	settings = cfg
	return nil
}

// printError renders a failure, including the actionable hint of typed
// container errors
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, ui.BrokenStyle.Render("Error: "+err.Error()))

	var solErr *sol.Error
	if errors.As(err, &solErr) {
		if solErr.Hint != "" {
			fmt.Fprintln(w)
			ui.PrintHint(w, solErr.Hint)
		}
		if solErr.Retryable() {
			ui.PrintHint(w, "The command timed out; it is safe to retry.")
		}
	}
}
