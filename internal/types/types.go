// Package types contains shared type definitions used across the stackforge codebase.
// This avoids duplication between config, adapter and orchestrator packages.
package types

// Architecture is the flat record of enumerated stack choices for a generated project.
// Every field is a plain string so partially specified input can be detected as "".
type Architecture struct {
	Language        string `json:"language,omitempty" yaml:"language,omitempty" validate:"oneof=typescript javascript"`
	ReactCompiler   *bool  `json:"reactCompiler,omitempty" yaml:"reactCompiler,omitempty"`
	PackageManager  string `json:"packageManager,omitempty" yaml:"packageManager,omitempty" validate:"oneof=npm pnpm yarn bun"`
	Database        string `json:"database,omitempty" yaml:"database,omitempty" validate:"oneof=none postgres mysql mongodb sqlite"`
	ORM             string `json:"orm,omitempty" yaml:"orm,omitempty" validate:"oneof=none prisma drizzle mongoose"`
	Auth            string `json:"auth,omitempty" yaml:"auth,omitempty" validate:"oneof=none better-auth"`
	UILibrary       string `json:"uiLibrary,omitempty" yaml:"uiLibrary,omitempty" validate:"oneof=none shadcn"`
	StateManagement string `json:"stateManagement,omitempty" yaml:"stateManagement,omitempty" validate:"oneof=none zustand redux"`
	Testing         string `json:"testing,omitempty" yaml:"testing,omitempty" validate:"oneof=none jest vitest playwright"`
	SkipInstall     *bool  `json:"skipInstall,omitempty" yaml:"skipInstall,omitempty"`
}

// ProjectConfiguration describes the project to generate.
// Name and Description are optional until resolution.
type ProjectConfiguration struct {
	Name         string       `json:"name,omitempty" yaml:"name,omitempty" validate:"npmname"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Architecture Architecture `json:"architecture" yaml:"architecture"`
}

// Language values
const (
	LanguageTypeScript = "typescript"
	LanguageJavaScript = "javascript"
)

// Package manager values
const (
	PackageManagerNPM  = "npm"
	PackageManagerPNPM = "pnpm"
	PackageManagerYarn = "yarn"
	PackageManagerBun  = "bun"
)

// Database values. DatabaseNone means the project is stateless.
const (
	DatabaseNone     = "none"
	DatabasePostgres = "postgres"
	DatabaseMySQL    = "mysql"
	DatabaseMongoDB  = "mongodb"
	DatabaseSQLite   = "sqlite"
)

// ORM values
const (
	ORMNone     = "none"
	ORMPrisma   = "prisma"
	ORMDrizzle  = "drizzle"
	ORMMongoose = "mongoose"
)

// Auth values
const (
	AuthNone       = "none"
	AuthBetterAuth = "better-auth"
)

// UI library values
const (
	UILibraryNone   = "none"
	UILibraryShadcn = "shadcn"
)

// State management values
const (
	StateNone    = "none"
	StateZustand = "zustand"
	StateRedux   = "redux"
)

// Testing framework values
const (
	TestingNone       = "none"
	TestingJest       = "jest"
	TestingVitest     = "vitest"
	TestingPlaywright = "playwright"
)

// TypeScript reports whether the project is generated in typed mode.
func (a Architecture) TypeScript() bool {
	return a.Language != LanguageJavaScript
}

// UsesReactCompiler returns the compiler opt-in flag, false when unset.
func (a Architecture) UsesReactCompiler() bool {
	return a.ReactCompiler != nil && *a.ReactCompiler
}

// SkipsInstall returns the skip-install flag, false when unset.
func (a Architecture) SkipsInstall() bool {
	return a.SkipInstall != nil && *a.SkipInstall
}

// HasDatabase returns true when a database was selected.
func (a Architecture) HasDatabase() bool {
	return a.Database != "" && a.Database != DatabaseNone
}

// HasORM returns true when an ORM was selected.
func (a Architecture) HasORM() bool {
	return a.ORM != "" && a.ORM != ORMNone
}

// Bool returns a pointer to b, for populating optional flags.
func Bool(b bool) *bool {
	return &b
}
