package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tuannvm/stackforge/internal/types"
)

// DefaultDescription is used when a configuration omits the description.
const DefaultDescription = "A Next.js application generated by stackforge"

// ProjectFileName is the project configuration file written by `stackforge init`.
const ProjectFileName = "stackforge.yaml"

// ErrIncompatible is returned when the ORM cannot target the selected database.
var ErrIncompatible = errors.New("incompatible architecture")

// SupportedDatabases lists, per ORM, the databases it can target.
var SupportedDatabases = map[string][]string{
	types.ORMPrisma:   {types.DatabasePostgres, types.DatabaseMySQL, types.DatabaseSQLite, types.DatabaseMongoDB},
	types.ORMDrizzle:  {types.DatabasePostgres, types.DatabaseMySQL, types.DatabaseSQLite},
	types.ORMMongoose: {types.DatabaseMongoDB},
}

var npmNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("npmname", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return len(name) <= 214 && npmNamePattern.MatchString(name)
	})
	return v
}

// DefaultArchitecture returns the architecture used for every omitted field.
func DefaultArchitecture() types.Architecture {
	return types.Architecture{
		Language:        types.LanguageTypeScript,
		ReactCompiler:   types.Bool(false),
		PackageManager:  types.PackageManagerPNPM,
		Database:        types.DatabasePostgres,
		ORM:             types.ORMPrisma,
		Auth:            types.AuthBetterAuth,
		UILibrary:       types.UILibraryShadcn,
		StateManagement: types.StateNone,
		Testing:         types.TestingNone,
		SkipInstall:     types.Bool(false),
	}
}

// Resolve fills every omitted field of a partial configuration with its default.
// It never fails; compatibility is checked separately by Validate.
// A nil input resolves to the full default configuration.
func Resolve(partial *types.ProjectConfiguration) types.ProjectConfiguration {
	var cfg types.ProjectConfiguration
	if partial != nil {
		cfg = *partial
	}

	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = RandomName()
	}
	if strings.TrimSpace(cfg.Description) == "" {
		cfg.Description = DefaultDescription
	}

	def := DefaultArchitecture()
	a := &cfg.Architecture
	a.Language = orDefault(a.Language, def.Language)
	a.PackageManager = orDefault(a.PackageManager, def.PackageManager)
	a.Database = orDefault(a.Database, def.Database)
	a.ORM = orDefault(a.ORM, def.ORM)
	a.Auth = orDefault(a.Auth, def.Auth)
	a.UILibrary = orDefault(a.UILibrary, def.UILibrary)
	a.StateManagement = orDefault(a.StateManagement, def.StateManagement)
	a.Testing = orDefault(a.Testing, def.Testing)
	if a.ReactCompiler == nil {
		a.ReactCompiler = types.Bool(*def.ReactCompiler)
	}
	if a.SkipInstall == nil {
		a.SkipInstall = types.Bool(*def.SkipInstall)
	}

	return cfg
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// Validate checks enum values, the project name, and the ORM × database matrix
// of a resolved configuration.
func Validate(cfg types.ProjectConfiguration) error {
	if err := validate.Struct(cfg); err != nil {
		var valErr validator.ValidationErrors
		if errors.As(err, &valErr) {
			return fmt.Errorf("invalid configuration: %s", describeValidation(valErr))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return CheckCompatibility(cfg.Architecture)
}

// CheckCompatibility reports whether the chosen ORM supports the chosen database.
// A missing database under Better Auth is reported as the auth prerequisite.
func CheckCompatibility(a types.Architecture) error {
	if !a.HasORM() {
		return nil
	}
	supported, ok := SupportedDatabases[a.ORM]
	if !ok {
		return fmt.Errorf("%w: unknown ORM %q", ErrIncompatible, a.ORM)
	}
	if !slices.Contains(supported, a.Database) {
		if a.Auth == types.AuthBetterAuth && !a.HasDatabase() {
			return fmt.Errorf("%w: Better Auth requires a database, but database is %q (ORM %q has nothing to target)",
				ErrIncompatible, a.Database, a.ORM)
		}
		return fmt.Errorf("%w: ORM %q does not support database %q (supported: %s)",
			ErrIncompatible, a.ORM, a.Database, strings.Join(supported, ", "))
	}
	return nil
}

func describeValidation(valErr validator.ValidationErrors) string {
	lists := make([]string, 0, len(valErr))
	for _, fe := range valErr {
		switch fe.Tag() {
		case "oneof":
			lists = append(lists, fmt.Sprintf("%s %q must be one of [%s]", fe.Field(), fe.Value(), fe.Param()))
		case "npmname":
			lists = append(lists, fmt.Sprintf("%s %q is not a valid npm package name", fe.Field(), fe.Value()))
		default:
			lists = append(lists, fe.Field()+" ("+fe.Tag()+")")
		}
	}
	return strings.Join(lists, "; ")
}

// Load reads a project configuration from file, checking multiple locations
// when path is empty. The result is not resolved.
func Load(path string) (*types.ProjectConfiguration, error) {
	configPath := path
	if configPath == "" {
		locations := []string{
			ProjectFileName,
			".stackforge/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".stackforge/config.yaml"),
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				configPath = loc
				break
			}
		}
	}

	if configPath == "" {
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg types.ProjectConfiguration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg types.ProjectConfiguration) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
