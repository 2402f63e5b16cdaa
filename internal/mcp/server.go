package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	oauth "github.com/tuannvm/oauth-mcp-proxy"
	mcpoauth "github.com/tuannvm/oauth-mcp-proxy/mcp"

	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/orchestrator"
	"github.com/tuannvm/stackforge/internal/runner"
)

const (
	// ServerName is the MCP server name.
	ServerName = "stackforge"
	// ServerVersion is the MCP server version.
	ServerVersion = "1.0.0"
)

// ServerInstructions provides usage guidance for LLMs.
const ServerInstructions = `Stackforge generates Next.js projects from a configuration of stack choices (language, package manager, database, ORM, auth, UI library, state management, testing).

Every operation tool takes {config, targetPath, projectPath} and returns a text report whose first line starts with ✅ (success), ⚠️ (partial: files written but a follow-up command failed or was skipped) or ❌ (failure).

Typical workflow:
1. Use resolve_configuration to see the defaults applied to a partial config
2. Run scaffold_project with targetPath set to the parent directory
3. Run the remaining operations with projectPath set to <targetPath>/<name>, in the order list_operations returns
4. Finish with validate_project

Operations are idempotent: re-running one leaves existing edits in place.`

const (
	defaultPort           = 8080
	defaultSessionTimeout = 30 * time.Minute
)

// ServerConfig configures NewServer. Zero fields take defaults.
type ServerConfig struct {
	Version  string
	Logger   *slog.Logger
	Handlers *Handlers

	Port           int
	SessionTimeout time.Duration

	// OAuth protects the HTTP transport when set. An empty ServerURL
	// defaults to http://localhost:<Port>.
	OAuth *oauth.Config
}

// ServerConfigFromSettings builds a ServerConfig from process settings.
func ServerConfigFromSettings(st *config.Settings, h *Handlers, logger *slog.Logger) (*ServerConfig, error) {
	port, err := strconv.Atoi(st.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", st.Port, err)
	}
	cfg := &ServerConfig{
		Logger:         logger,
		Handlers:       h,
		Port:           port,
		SessionTimeout: st.SessionTimeout,
	}
	if st.OAuthEnabled {
		if st.OAuthIssuer == "" || st.OAuthAudience == "" {
			return nil, fmt.Errorf("OAuth requires an issuer and an audience")
		}
		cfg.OAuth = &oauth.Config{
			Provider:  st.OAuthProvider,
			Issuer:    st.OAuthIssuer,
			Audience:  st.OAuthAudience,
			ServerURL: st.ServerURL,
		}
	}
	return cfg, nil
}

// Server exposes the orchestrator's operations over MCP.
type Server struct {
	mcpServer *mcp.Server
	config    ServerConfig
}

// NewServer registers every operation as a tool. cfg may be nil.
func NewServer(cfg *ServerConfig) *Server {
	var c ServerConfig
	if cfg != nil {
		c = *cfg
	}
	if c.Version == "" {
		c.Version = ServerVersion
	}
	if c.Logger == nil {
		c.Logger = runner.NewDiscardLogger()
	}
	if c.Handlers == nil {
		c.Handlers = NewHandlers(orchestrator.New(orchestrator.Options{Logger: c.Logger}))
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.SessionTimeout == 0 {
		c.SessionTimeout = defaultSessionTimeout
	}

	impl := &mcp.Implementation{Name: ServerName, Version: c.Version}
	srv := mcp.NewServer(impl, &mcp.ServerOptions{Instructions: ServerInstructions, Logger: c.Logger})
	registerTools(srv, c.Handlers)

	return &Server{mcpServer: srv, config: c}
}

// Serve runs the server on the configured transport until ctx is cancelled.
// HTTP uses OAuth when ServerConfig.OAuth is set.
func (s *Server) Serve(ctx context.Context, transport string) error {
	switch transport {
	case config.TransportStdio:
		s.config.Logger.Info("starting MCP server", "transport", transport)
		return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	case config.TransportHTTP:
		handler, err := s.httpHandler()
		if err != nil {
			return err
		}
		return s.runHTTPServer(ctx, fmt.Sprintf(":%d", s.config.Port), handler)
	default:
		return fmt.Errorf("unknown transport: %s (use: %s, %s)", transport, config.TransportStdio, config.TransportHTTP)
	}
}

// httpHandler builds the /mcp and /health routes, wrapping /mcp with OAuth
// when configured.
func (s *Server) httpHandler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.health)

	if s.config.OAuth == nil {
		mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return s.mcpServer
		}, &mcp.StreamableHTTPOptions{
			SessionTimeout: s.config.SessionTimeout,
			Logger:         s.config.Logger,
		}))
		s.config.Logger.Info("starting MCP server",
			"transport", config.TransportHTTP,
			"endpoint", fmt.Sprintf("http://localhost:%d/mcp", s.config.Port))
		return mux, nil
	}

	oc := *s.config.OAuth
	if oc.ServerURL == "" {
		oc.ServerURL = fmt.Sprintf("http://localhost:%d", s.config.Port)
	}
	oauthServer, protected, err := mcpoauth.WithOAuth(mux, &oc, s.mcpServer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth server: %w", err)
	}
	mux.Handle("/mcp", protected)

	s.config.Logger.Info("starting MCP server",
		"transport", config.TransportHTTP,
		"endpoint", oc.ServerURL+"/mcp",
		"oauth_provider", oc.Provider,
		"oauth_issuer", oc.Issuer)
	oauthServer.LogStartup(false)
	return mux, nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":"ok","version":"%s","operations":%d}`,
		s.config.Version, len(s.config.Handlers.Operations()))
}

// runHTTPServer serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) runHTTPServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      10 * time.Minute, // installs and create-next-app run inside a call
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.config.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}

func boolPtr(b bool) *bool {
	return &b
}

// registerTools registers one tool per operation plus the discovery tools.
func registerTools(server *mcp.Server, h *Handlers) {
	for _, op := range h.Operations() {
		registerOperationTool(server, h, op)
	}
	registerListOperationsTool(server, h)
	registerResolveConfigTool(server, h)
}

func registerOperationTool(server *mcp.Server, h *Handlers, op orchestrator.Operation) {
	name := op.Name
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        name,
			Description: op.Description,
			Annotations: &mcp.ToolAnnotations{
				Title:           op.Title,
				ReadOnlyHint:    op.ReadOnly,
				DestructiveHint: boolPtr(false),
				IdempotentHint:  true,
				OpenWorldHint:   boolPtr(op.RunsCommands),
			},
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input OperationInput) (*mcp.CallToolResult, OperationOutput, error) {
			output, err := h.Run(ctx, name, input)
			if err != nil {
				return nil, OperationOutput{}, err
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: output.Text}},
			}, output, nil
		},
	)
}

func registerListOperationsTool(server *mcp.Server, h *Handlers) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_operations",
			Description: "List every generation operation in natural pipeline order, with whether it needs a configuration.",
			Annotations: &mcp.ToolAnnotations{
				Title:          "List Operations",
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
			},
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input ListOperationsInput) (*mcp.CallToolResult, ListOperationsOutput, error) {
			return nil, h.ListOperations(ctx, input), nil
		},
	)
}

func registerResolveConfigTool(server *mcp.Server, h *Handlers) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "resolve_configuration",
			Description: "Fill defaults into a partial configuration and check the ORM and database pairing.",
			Annotations: &mcp.ToolAnnotations{
				Title:          "Resolve Configuration",
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
			},
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input ResolveConfigInput) (*mcp.CallToolResult, ResolveConfigOutput, error) {
			return nil, h.ResolveConfig(ctx, input), nil
		},
	)
}
