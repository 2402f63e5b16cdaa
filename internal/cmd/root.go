// Package cmd provides the stackforge CLI.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/orchestrator"
	"github.com/tuannvm/stackforge/internal/runner"
	"github.com/tuannvm/stackforge/internal/templates"
)

var (
	verbose     bool
	quiet       bool
	settingsDir string
	version     = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "stackforge",
	Short: "Generate Next.js projects from a stack configuration",
	Long: `Stackforge scaffolds a Next.js application and layers the stack you
choose on top of it: database and ORM, Better Auth, shadcn/ui, state
management, testing, Docker and CI.

Each layer is a named operation. Operations are idempotent, so re-running
one after a failure or an upgrade leaves earlier edits in place.

Example:
  stackforge init
  stackforge create ./work
  stackforge run setup_database ./work/my-app
  stackforge mcp --transport http`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stackforge version %s\n", version)
	},
}

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logError("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")
	rootCmd.PersistentFlags().StringVar(&settingsDir, "settings-dir", "", "directory holding stackforge-server.yaml")
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads process settings and lets -v/-q override verbosity.
func loadSettings() (*config.Settings, error) {
	s, err := config.LoadSettings(settingsDir)
	if err != nil {
		return nil, err
	}
	switch {
	case verbose:
		s.Verbosity = config.VerbosityVerbose
	case quiet:
		s.Verbosity = config.VerbosityQuiet
	}
	return s, nil
}

// newLogger writes structured logs to stderr so stdout carries only reports.
func newLogger(s *config.Settings) *slog.Logger {
	return runner.NewLogger(os.Stderr, s.Verbosity)
}

func newOrchestrator(s *config.Settings, logger *slog.Logger) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Options{
		Executor: runner.NewExecutor(logger, runner.WithEnv(runner.NonInteractiveEnv...)),
		Loader:   templates.NewLoader(s.TemplateDir),
		Logger:   logger,
	})
}

func logInfo(format string, args ...interface{}) {
	if !quiet {
		_, _ = fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

func logVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		_, _ = fmt.Fprintf(os.Stdout, "[DEBUG] "+format+"\n", args...)
	}
}

func logError(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
