// Package project locates files inside a generated project tree.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Paths is the fixed relative-path convention shared by all handlers.
// A handler that writes a file and a handler that later reads it agree
// through these values only.
type Paths struct {
	DBDir          string
	DBClient       string
	DrizzleSchema  string
	MongooseModels string
	MongooseModel  string
	PrismaSchema   string
	DrizzleConfig  string
	Auth           string
	AuthClient     string
	AuthRoute      string
	StoreDir       string
	StoreIndex     string
	StoreProvider  string
	ZustandStore   string
	ComponentsJSON string
	Utils          string
	ComponentsUI   string
	Dockerfile     string
	DockerIgnore   string
	DockerCompose  string
	Readme         string
	CIWorkflow     string
	Manifest       string
	EnvFiles       []string
	JestConfig     string
	JestSetup      string
	VitestConfig   string
	PlaywrightConf string
	UnitTest       string
	E2ETest        string
}

// ConventionFor returns the layout for the language mode.
func ConventionFor(ts bool) Paths {
	ext, jsx := "js", "jsx"
	if ts {
		ext, jsx = "ts", "tsx"
	}
	return Paths{
		DBDir:          "src/lib/db",
		DBClient:       "src/lib/db/index." + ext,
		DrizzleSchema:  "src/lib/db/schema." + ext,
		MongooseModels: "src/lib/db/models",
		MongooseModel:  "src/lib/db/models/note." + ext,
		PrismaSchema:   "prisma/schema.prisma",
		DrizzleConfig:  "drizzle.config." + ext,
		Auth:           "src/lib/auth." + ext,
		AuthClient:     "src/lib/auth-client." + ext,
		AuthRoute:      "src/app/api/auth/[...all]/route." + ext,
		StoreDir:       "src/store",
		StoreIndex:     "src/store/index." + ext,
		StoreProvider:  "src/store/provider." + jsx,
		ZustandStore:   "src/store/use-counter-store." + ext,
		ComponentsJSON: "components.json",
		Utils:          "src/lib/utils." + ext,
		ComponentsUI:   "src/components/ui",
		Dockerfile:     "Dockerfile",
		DockerIgnore:   ".dockerignore",
		DockerCompose:  "docker-compose.yml",
		Readme:         "README.md",
		CIWorkflow:     ".github/workflows/ci.yml",
		Manifest:       "package.json",
		EnvFiles:       []string{".env", ".env.example", ".env.local"},
		JestConfig:     "jest.config.mjs",
		JestSetup:      "jest.setup." + ext,
		VitestConfig:   "vitest.config.mts",
		PlaywrightConf: "playwright.config." + ext,
		UnitTest:       "src/__tests__/sanity.test." + jsx,
		E2ETest:        "e2e/home.spec." + ext,
	}
}

// Layout describes what Detect found in a project directory.
type Layout struct {
	Root        string
	AppDir      string // "src/app" or "app", relative to Root
	LayoutFile  string // root layout, relative to Root; empty if missing
	GlobalsCSS  string // relative to Root; empty if missing
	NextConfig  string // relative to Root; empty if missing
	HasManifest bool
	TypeScript  bool
}

// Detect inspects an existing project directory.
func Detect(root string) (*Layout, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absPath)
	}

	l := &Layout{Root: absPath, AppDir: "src/app"}
	if !isDir(filepath.Join(absPath, "src/app")) && isDir(filepath.Join(absPath, "app")) {
		l.AppDir = "app"
	}

	l.LayoutFile = firstExisting(absPath, l.AppDir+"/layout.tsx", l.AppDir+"/layout.jsx", l.AppDir+"/layout.js", l.AppDir+"/layout.ts")
	l.GlobalsCSS = firstExisting(absPath, l.AppDir+"/globals.css", "src/styles/globals.css", "styles/globals.css")
	l.NextConfig = firstExisting(absPath, "next.config.ts", "next.config.mjs", "next.config.js")
	l.HasManifest = exists(filepath.Join(absPath, "package.json"))
	l.TypeScript = exists(filepath.Join(absPath, "tsconfig.json"))
	return l, nil
}

// Abs joins a project-relative path onto the layout root.
func (l *Layout) Abs(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Exists reports whether a project-relative path exists.
func (l *Layout) Exists(rel string) bool {
	return exists(l.Abs(rel))
}

// SourceFiles returns project-relative source files, skipping dependency,
// build and hidden directories.
func (l *Layout) SourceFiles() ([]string, error) {
	var files []string
	err := filepath.Walk(l.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}
		name := info.Name()
		if info.IsDir() {
			if path != l.Root && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".mts":
			rel, err := filepath.Rel(l.Root, path)
			if err == nil {
				files = append(files, filepath.ToSlash(rel))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func firstExisting(root string, candidates ...string) string {
	for _, c := range candidates {
		if exists(filepath.Join(root, filepath.FromSlash(c))) {
			return c
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
