// Package cmd implements the fiberdemo commands.
//
// Every command mounts one demo from the apps package into a memory host
// driven by a scheduler on a simulated clock, then prints the host tree,
// the mutations and the commits each step produced.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	configPath  string
	verbose     bool
	showMetrics bool

	// settings and logger are resolved before any command runs.
	settings *config.Resolved
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fiberdemo",
	Short: "Run fiber reconciler demos against an in-memory host",
	Long: `fiberdemo runs small applications through the fiber reconciler and
prints what each update does to the host tree: the resulting markup, the
host mutations applied and a summary of every commit.

Settings are read from fiber.yaml in the working directory when present,
or from the file named by --config.`,
	Version:           fmt.Sprintf("%s (built %s)", Version, BuildTime),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a fiber.yaml file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log scheduler and reconciler diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print reconciler metrics after the demo")
}

// RegisterCommand adds a subcommand to the CLI.
func RegisterCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	resolved, err := config.Resolve(dir, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		resolved.LogLevel = slog.LevelDebug
	}
	settings = resolved
	logger = resolved.Logger(cmd.ErrOrStderr())
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: verbose})

	if resolved.Source != "" {
		logger.Debug("config loaded", "path", resolved.Source)
	}
	return nil
}

// run wraps a demo so it gets a fresh session writing to the command's
// output.
func run(demo func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd.OutOrStdout())
		defer s.close()
		if err := demo(s, args); err != nil {
			return err
		}
		if showMetrics {
			return printMetrics(cmd.OutOrStdout())
		}
		return nil
	}
}
