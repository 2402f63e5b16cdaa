package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/config"
	sfmcp "github.com/tuannvm/stackforge/internal/mcp"
)

var mcpFlags struct {
	transport      string
	port           string
	oauth          bool
	provider       string
	issuer         string
	audience       string
	serverURL      string
	sessionTimeout time.Duration
	configPath     string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run stackforge as an MCP server",
	Long: `Run stackforge as an MCP (Model Context Protocol) server exposing one
tool per operation.

Settings come from stackforge-server.yaml and STACKFORGE_* environment
variables; flags override both.

Transports:
  stdio    Standard input/output for CLI integration (default)
  http     Streamable HTTP transport for web integration

Example:
  stackforge mcp
  stackforge mcp --transport http --port 8080
  stackforge mcp --transport http --oauth \
    --issuer https://company.okta.com \
    --audience api://stackforge`,
	Args: cobra.NoArgs,
	RunE: mcpCommand,
}

func init() {
	f := mcpCmd.Flags()
	f.StringVar(&mcpFlags.transport, "transport", config.TransportStdio, "transport mode: stdio, http")
	f.StringVar(&mcpFlags.port, "port", "8080", "HTTP port (only used with --transport http)")
	f.BoolVar(&mcpFlags.oauth, "oauth", false, "enable OAuth 2.1 authentication (only with http transport)")
	f.StringVar(&mcpFlags.provider, "provider", "okta", "OAuth provider: okta, google, azure, hmac")
	f.StringVar(&mcpFlags.issuer, "issuer", "", "OAuth issuer URL (required with --oauth)")
	f.StringVar(&mcpFlags.audience, "audience", "", "OAuth audience (required with --oauth)")
	f.StringVar(&mcpFlags.serverURL, "server-url", "", "public base URL for OAuth callbacks")
	f.DurationVar(&mcpFlags.sessionTimeout, "session-timeout", 30*time.Minute, "HTTP session timeout")
	f.StringVarP(&mcpFlags.configPath, "config", "c", "", "project configuration used when a call omits config")
	rootCmd.AddCommand(mcpCmd)
}

// applyMCPFlags overrides settings with the flags the user set explicitly.
func applyMCPFlags(cmd *cobra.Command, s *config.Settings) {
	f := cmd.Flags()
	if f.Changed("transport") {
		s.Transport = mcpFlags.transport
	}
	if f.Changed("port") {
		s.Port = mcpFlags.port
	}
	if f.Changed("oauth") {
		s.OAuthEnabled = mcpFlags.oauth
	}
	if f.Changed("provider") {
		s.OAuthProvider = mcpFlags.provider
	}
	if f.Changed("issuer") {
		s.OAuthIssuer = mcpFlags.issuer
	}
	if f.Changed("audience") {
		s.OAuthAudience = mcpFlags.audience
	}
	if f.Changed("server-url") {
		s.ServerURL = mcpFlags.serverURL
	}
	if f.Changed("session-timeout") {
		s.SessionTimeout = mcpFlags.sessionTimeout
	}
}

func mcpCommand(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyMCPFlags(cmd, settings)

	// stdout carries the stdio protocol, so logs always go to stderr
	logger := newLogger(settings)
	handlers := sfmcp.NewHandlers(newOrchestrator(settings, logger))
	if mcpFlags.configPath != "" {
		handlers.WithConfigPath(mcpFlags.configPath)
	}

	cfg, err := sfmcp.ServerConfigFromSettings(settings, handlers, logger)
	if err != nil {
		return err
	}
	cfg.Version = version

	if err := sfmcp.NewServer(cfg).Serve(cmd.Context(), settings.Transport); err != nil {
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}
