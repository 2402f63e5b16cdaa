// options.go provides shared option definitions for CLI and TUI.
package config

import "github.com/tuannvm/stackforge/internal/types"

// Option represents a selectable option with value and label
type Option struct {
	Value       string
	Label       string
	Description string
}

// Shared option definitions - SINGLE SOURCE OF TRUTH
var LanguageOptions = []Option{
	{Value: types.LanguageTypeScript, Label: "TypeScript", Description: "Typed, recommended"},
	{Value: types.LanguageJavaScript, Label: "JavaScript", Description: "Untyped"},
}

var PackageManagerOptions = []Option{
	{Value: types.PackageManagerPNPM, Label: "pnpm", Description: "Fast, disk efficient"},
	{Value: types.PackageManagerNPM, Label: "npm", Description: "Ships with Node.js"},
	{Value: types.PackageManagerYarn, Label: "Yarn", Description: "Classic workspaces"},
	{Value: types.PackageManagerBun, Label: "Bun", Description: "All-in-one runtime"},
}

var DatabaseOptions = []Option{
	{Value: types.DatabasePostgres, Label: "PostgreSQL", Description: "Relational"},
	{Value: types.DatabaseMySQL, Label: "MySQL", Description: "Relational"},
	{Value: types.DatabaseSQLite, Label: "SQLite", Description: "File-based"},
	{Value: types.DatabaseMongoDB, Label: "MongoDB", Description: "Document store"},
	{Value: types.DatabaseNone, Label: "None", Description: "Stateless"},
}

var ORMOptions = []Option{
	{Value: types.ORMPrisma, Label: "Prisma", Description: "All databases"},
	{Value: types.ORMDrizzle, Label: "Drizzle", Description: "SQL databases"},
	{Value: types.ORMMongoose, Label: "Mongoose", Description: "MongoDB only"},
	{Value: types.ORMNone, Label: "None", Description: "No ORM"},
}

var AuthOptions = []Option{
	{Value: types.AuthBetterAuth, Label: "Better Auth", Description: "Requires a database"},
	{Value: types.AuthNone, Label: "None", Description: "No authentication"},
}

var UILibraryOptions = []Option{
	{Value: types.UILibraryShadcn, Label: "shadcn/ui", Description: "Copy-in components"},
	{Value: types.UILibraryNone, Label: "None", Description: "Tailwind only"},
}

var StateManagementOptions = []Option{
	{Value: types.StateNone, Label: "None", Description: "React state only"},
	{Value: types.StateZustand, Label: "Zustand", Description: "Minimal stores"},
	{Value: types.StateRedux, Label: "Redux Toolkit", Description: "Provider + slices"},
}

var TestingOptions = []Option{
	{Value: types.TestingNone, Label: "None", Description: "No test runner"},
	{Value: types.TestingVitest, Label: "Vitest", Description: "Unit tests"},
	{Value: types.TestingJest, Label: "Jest", Description: "Unit tests"},
	{Value: types.TestingPlaywright, Label: "Playwright", Description: "End-to-end"},
}

// VerbosityNormal, VerbosityVerbose, VerbosityQuiet are verbosity constants
const (
	VerbosityNormal  = "normal"
	VerbosityVerbose = "verbose"
	VerbosityQuiet   = "quiet"
)

var VerbosityOptions = []Option{
	{Value: VerbosityNormal, Label: "Normal", Description: "Standard output"},
	{Value: VerbosityVerbose, Label: "Verbose", Description: "Debug info"},
	{Value: VerbosityQuiet, Label: "Quiet", Description: "Errors only"},
}

// IsValidVerbosity returns true if v is a known verbosity level.
func IsValidVerbosity(v string) bool {
	return Contains(VerbosityOptions, v)
}

// Contains reports whether opts has an option with the given value.
func Contains(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ORMOptionsFor returns the ORM options able to target db.
// "none" is always offered.
func ORMOptionsFor(db string) []Option {
	var out []Option
	for _, o := range ORMOptions {
		if o.Value == types.ORMNone {
			out = append(out, o)
			continue
		}
		if db == types.DatabaseNone {
			continue
		}
		if CheckCompatibility(types.Architecture{ORM: o.Value, Database: db}) == nil {
			out = append(out, o)
		}
	}
	return out
}
