// Package main provides the standalone entry point for the stackforge MCP server.
//
// Supports multiple transport modes:
//   - stdio (default): Standard input/output for CLI integration
//   - http: Streamable HTTP transport for web integration
//   - http+oauth: HTTP with OAuth 2.1 authentication
//
// Defaults come from stackforge-server.yaml and STACKFORGE_* variables.
//
// Usage:
//
//	stackforge-mcp                           # stdio mode (default)
//	stackforge-mcp --transport http --port 8080
//	stackforge-mcp --transport http --port 8080 --oauth --issuer https://company.okta.com --audience api://stackforge
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuannvm/stackforge/internal/config"
	sfmcp "github.com/tuannvm/stackforge/internal/mcp"
	"github.com/tuannvm/stackforge/internal/orchestrator"
	"github.com/tuannvm/stackforge/internal/runner"
	"github.com/tuannvm/stackforge/internal/templates"
)

// Version is the server version, set by the build process.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadSettings("")
	if err != nil {
		return err
	}

	flag.StringVar(&settings.Transport, "transport", settings.Transport, "Transport mode: stdio, http")
	flag.StringVar(&settings.Port, "port", settings.Port, "HTTP port (only used with --transport http)")
	flag.BoolVar(&settings.OAuthEnabled, "oauth", settings.OAuthEnabled, "Enable OAuth 2.1 authentication (only with http transport)")
	flag.StringVar(&settings.OAuthProvider, "provider", settings.OAuthProvider, "OAuth provider: okta, google, azure, hmac")
	flag.StringVar(&settings.OAuthIssuer, "issuer", settings.OAuthIssuer, "OAuth issuer URL (required with --oauth)")
	flag.StringVar(&settings.OAuthAudience, "audience", settings.OAuthAudience, "OAuth audience (required with --oauth)")
	flag.StringVar(&settings.ServerURL, "server-url", settings.ServerURL, "Public base URL for OAuth callbacks")
	flag.DurationVar(&settings.SessionTimeout, "session-timeout", settings.SessionTimeout, "HTTP session timeout")
	configPath := flag.String("config", "", "Project configuration used when a call omits config")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	if *verbose {
		settings.Verbosity = config.VerbosityVerbose
	}
	logger := runner.NewLogger(os.Stderr, settings.Verbosity)

	orch := orchestrator.New(orchestrator.Options{
		Executor: runner.NewExecutor(logger, runner.WithEnv(runner.NonInteractiveEnv...)),
		Loader:   templates.NewLoader(settings.TemplateDir),
		Logger:   logger,
	})
	handlers := sfmcp.NewHandlers(orch)
	if *configPath != "" {
		handlers.WithConfigPath(*configPath)
	}

	cfg, err := sfmcp.ServerConfigFromSettings(settings, handlers, logger)
	if err != nil {
		return err
	}
	cfg.Version = Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sfmcp.NewServer(cfg).Serve(ctx, settings.Transport); err != nil {
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}
