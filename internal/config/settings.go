package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Transport values for the MCP server
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Settings holds process-level settings for the CLI and MCP server.
// Unlike ProjectConfiguration these describe the tool, not the generated project.
type Settings struct {
	Transport      string
	Port           string
	TemplateDir    string // optional directory overriding embedded templates
	Verbosity      string // normal, verbose, quiet
	SessionTimeout time.Duration

	// OAuth settings for the HTTP transport
	OAuthEnabled  bool
	OAuthProvider string
	OAuthIssuer   string
	OAuthAudience string
	ServerURL     string
}

// LoadSettings reads stackforge-server.yaml (if present in dir) and applies
// STACKFORGE_* environment overrides.
func LoadSettings(dir string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("stackforge-server")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetDefault("transport", TransportStdio)
	v.SetDefault("port", "8080")
	v.SetDefault("template_dir", "")
	v.SetDefault("verbosity", VerbosityNormal)
	v.SetDefault("session_timeout", "30m")
	v.SetDefault("oauth.enabled", false)
	v.SetDefault("oauth.provider", "okta")

	// Enable environment variable overrides, e.g. STACKFORGE_OAUTH_ISSUER
	v.SetEnvPrefix("STACKFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read stackforge-server.yaml: %w", err)
		}
	}

	s := &Settings{
		Transport:      v.GetString("transport"),
		Port:           v.GetString("port"),
		TemplateDir:    v.GetString("template_dir"),
		Verbosity:      v.GetString("verbosity"),
		SessionTimeout: v.GetDuration("session_timeout"),
		OAuthEnabled:   v.GetBool("oauth.enabled"),
		OAuthProvider:  v.GetString("oauth.provider"),
		OAuthIssuer:    v.GetString("oauth.issuer"),
		OAuthAudience:  v.GetString("oauth.audience"),
		ServerURL:      v.GetString("server_url"),
	}

	if s.Transport != TransportStdio && s.Transport != TransportHTTP {
		return nil, fmt.Errorf("invalid transport %q (must be %s or %s)", s.Transport, TransportStdio, TransportHTTP)
	}
	if !IsValidVerbosity(s.Verbosity) {
		return nil, fmt.Errorf("invalid verbosity %q", s.Verbosity)
	}
	return s, nil
}
