package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannvm/stackforge/internal/types"
)

func TestOptionTablesMatchValidation(t *testing.T) {
	tables := map[string][]Option{
		"language":        LanguageOptions,
		"packageManager":  PackageManagerOptions,
		"database":        DatabaseOptions,
		"orm":             ORMOptions,
		"auth":            AuthOptions,
		"uiLibrary":       UILibraryOptions,
		"stateManagement": StateManagementOptions,
		"testing":         TestingOptions,
	}

	for name, opts := range tables {
		t.Run(name, func(t *testing.T) {
			for _, o := range opts {
				cfg := Resolve(&types.ProjectConfiguration{Name: "opts"})
				switch name {
				case "language":
					cfg.Architecture.Language = o.Value
				case "packageManager":
					cfg.Architecture.PackageManager = o.Value
				case "database":
					cfg.Architecture.Database = o.Value
					cfg.Architecture.ORM = types.ORMNone
				case "orm":
					cfg.Architecture.ORM = o.Value
					cfg.Architecture.Database = types.DatabaseMongoDB
				case "auth":
					cfg.Architecture.Auth = o.Value
				case "uiLibrary":
					cfg.Architecture.UILibrary = o.Value
				case "stateManagement":
					cfg.Architecture.StateManagement = o.Value
				case "testing":
					cfg.Architecture.Testing = o.Value
				}
				if name == "orm" && o.Value == types.ORMDrizzle {
					cfg.Architecture.Database = types.DatabasePostgres
				}
				assert.NoError(t, Validate(cfg), "option %q", o.Value)
			}
		})
	}
}

func TestORMOptionsFor(t *testing.T) {
	tests := []struct {
		db   string
		want []string
	}{
		{types.DatabasePostgres, []string{types.ORMPrisma, types.ORMDrizzle, types.ORMNone}},
		{types.DatabaseMongoDB, []string{types.ORMPrisma, types.ORMMongoose, types.ORMNone}},
		{types.DatabaseSQLite, []string{types.ORMPrisma, types.ORMDrizzle, types.ORMNone}},
		{types.DatabaseNone, []string{types.ORMNone}},
	}
	for _, tt := range tests {
		t.Run(tt.db, func(t *testing.T) {
			assert.Equal(t, tt.want, values(ORMOptionsFor(tt.db)))
		})
	}
}

func TestIsValidVerbosity(t *testing.T) {
	assert.True(t, IsValidVerbosity(VerbosityQuiet))
	assert.False(t, IsValidVerbosity("loud"))
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, TransportStdio, s.Transport)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 30*time.Minute, s.SessionTimeout)
	assert.False(t, s.OAuthEnabled)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "transport: http\nport: \"9090\"\ntemplate_dir: /tmp/tpl\noauth:\n  enabled: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stackforge-server.yaml"), []byte(content), 0644))
	t.Setenv("STACKFORGE_PORT", "7070")
	t.Setenv("STACKFORGE_OAUTH_ISSUER", "https://issuer.example.com")

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, s.Transport)
	assert.Equal(t, "7070", s.Port, "env overrides file")
	assert.Equal(t, "/tmp/tpl", s.TemplateDir)
	assert.True(t, s.OAuthEnabled)
	assert.Equal(t, "https://issuer.example.com", s.OAuthIssuer)
}

func TestLoadSettingsRejectsUnknownTransport(t *testing.T) {
	t.Setenv("STACKFORGE_TRANSPORT", "carrier-pigeon")
	_, err := LoadSettings(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport")
}

func values(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}
