package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tuannvm/stackforge/internal/runner"
	"github.com/tuannvm/stackforge/internal/state"
	"github.com/tuannvm/stackforge/internal/types"
)

type call struct {
	command, dir, label string
}

// fakeRunner records commands and fails those whose label is listed.
type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]bool
}

func (f *fakeRunner) Execute(_ context.Context, command, dir, label string) runner.CommandResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{command, dir, label})
	if f.fail[label] {
		return runner.CommandResult{Success: false, ExitCode: 1, Output: "boom: " + label}
	}
	return runner.CommandResult{Success: true}
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.command)
	}
	return out
}

const fixtureLayout = `import type { Metadata } from "next";
import "./globals.css";

export default function RootLayout({
  children,
}: Readonly<{
  children: React.ReactNode;
}>) {
  return (
    <html lang="en">
      <body>
        {children}
      </body>
    </html>
  );
}
`

const fixturePackageJSON = `{
  "name": "demo",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "next dev",
    "build": "next build",
    "lint": "eslint"
  },
  "dependencies": {
    "next": "15.5.3",
    "react": "19.1.0"
  }
}
`

// nextProject writes the files create-next-app would leave behind.
func nextProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"package.json":        fixturePackageJSON,
		"tsconfig.json":       "{}\n",
		"next.config.ts":      "import type { NextConfig } from \"next\";\n\nconst nextConfig: NextConfig = {\n  /* config options here */\n};\n\nexport default nextConfig;\n",
		"src/app/layout.tsx":  fixtureLayout,
		"src/app/globals.css": "@import \"tailwindcss\";\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestOrchestrator(fail ...string) (*Orchestrator, *fakeRunner) {
	f := &fakeRunner{fail: map[string]bool{}}
	for _, l := range fail {
		f.fail[l] = true
	}
	return New(Options{Executor: f}), f
}

func cfg(a types.Architecture) *types.ProjectConfiguration {
	return &types.ProjectConfiguration{Name: "demo", Architecture: a}
}

func mustRun(t *testing.T, o *Orchestrator, op string, req Request) Response {
	t.Helper()
	resp, err := o.Run(context.Background(), op, req)
	require.NoError(t, err)
	return resp
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func nextSteps(text string) string {
	_, after, _ := strings.Cut(text, "Next steps:")
	return after
}

func TestUnknownOperation(t *testing.T) {
	o, _ := newTestOrchestrator()
	_, err := o.Run(context.Background(), "deploy_to_mars", Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOperation))
}

func TestOperationsNaturalOrder(t *testing.T) {
	o, _ := newTestOrchestrator()
	var names []string
	for _, op := range o.Operations() {
		names = append(names, op.Name)
	}
	assert.Equal(t, []string{
		OpScaffold, OpDirectories, OpManifest, OpDatabase, OpAuth, OpUILibrary,
		OpStateManagement, OpTesting, OpDocker, OpCI, OpReadme, OpInstall, OpValidate,
	}, names)

	op, ok := o.Lookup(OpValidate)
	require.True(t, ok)
	assert.False(t, op.ConfigRequired)
}

func TestSetupDatabaseWithoutDatabase(t *testing.T) {
	o, f := newTestOrchestrator()
	root := t.TempDir()

	resp := mustRun(t, o, OpDatabase, Request{
		Config:     cfg(types.Architecture{Database: types.DatabaseNone, ORM: types.ORMNone, Auth: types.AuthNone}),
		TargetPath: root,
	})

	assert.Equal(t, StatusSuccess, resp.Status())
	assert.Contains(t, resp.Text, "no database configuration needed")
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "no files may be written")
	assert.Empty(t, f.commands())
}

func TestSetupDatabaseSQLitePrisma(t *testing.T) {
	o, f := newTestOrchestrator()
	root := t.TempDir()

	resp := mustRun(t, o, OpDatabase, Request{
		Config:     cfg(types.Architecture{Database: types.DatabaseSQLite, ORM: types.ORMPrisma}),
		TargetPath: root,
	})

	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	assert.Contains(t, resp.Text, "ORM: prisma")
	assert.DirExists(t, filepath.Join(root, "src", "lib", "db"))
	for _, env := range []string{".env", ".env.example", ".env.local"} {
		assert.Contains(t, readFile(t, root, env), `DATABASE_URL="file:./dev.db"`, env)
	}
	assert.Contains(t, readFile(t, root, "prisma/schema.prisma"), `provider = "sqlite"`)
	assert.Contains(t, readFile(t, root, "src/lib/db/index.ts"), "new PrismaClient()")
	assert.Equal(t, []string{"pnpm exec prisma generate", "pnpm exec prisma db push"}, f.commands())

	m := state.NewManager(root)
	require.NoError(t, m.Load())
	rec, ok := m.Journal().Operations[OpDatabase]
	require.True(t, ok)
	assert.Equal(t, state.StatusSuccess, rec.Status)
	assert.Contains(t, rec.Files, "src/lib/db/index.ts")
}

func TestSetupDatabaseIsIdempotent(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{Database: types.DatabasePostgres, ORM: types.ORMDrizzle}), ProjectPath: root}

	mustRun(t, o, OpDatabase, req)
	first := readFile(t, root, ".env")
	client := readFile(t, root, "src/lib/db/index.ts")

	mustRun(t, o, OpDatabase, req)
	assert.Equal(t, first, readFile(t, root, ".env"))
	assert.Equal(t, client, readFile(t, root, "src/lib/db/index.ts"))
	assert.Equal(t, 1, strings.Count(first, "DATABASE_URL="))
	assert.Contains(t, readFile(t, root, "drizzle.config.ts"), `dialect: "postgresql"`)
}

func TestSetupDatabasePartialFailure(t *testing.T) {
	o, f := newTestOrchestrator("Apply schema")
	root := nextProject(t)

	resp := mustRun(t, o, OpDatabase, Request{
		Config:      cfg(types.Architecture{Database: types.DatabasePostgres, ORM: types.ORMPrisma}),
		ProjectPath: root,
	})

	assert.Equal(t, StatusPartial, resp.Status(), resp.Text)
	assert.Contains(t, resp.Text, "✓ Generate client: pnpm exec prisma generate")
	assert.Contains(t, resp.Text, "✗ Apply schema: pnpm exec prisma db push")
	steps := nextSteps(resp.Text)
	assert.Contains(t, steps, "Apply schema: pnpm exec prisma db push")
	assert.NotContains(t, steps, "prisma generate")
	assert.Len(t, f.commands(), 2)

	m := state.NewManager(root)
	require.NoError(t, m.Load())
	assert.Equal(t, state.StatusPartial, m.Journal().Operations[OpDatabase].Status)
}

func TestSetupDatabaseGenerateFailureStopsPlan(t *testing.T) {
	o, f := newTestOrchestrator("Generate migrations")
	root := nextProject(t)

	resp := mustRun(t, o, OpDatabase, Request{
		Config:      cfg(types.Architecture{Database: types.DatabaseMySQL, ORM: types.ORMDrizzle, PackageManager: types.PackageManagerNPM}),
		ProjectPath: root,
	})

	assert.Equal(t, StatusPartial, resp.Status())
	assert.Equal(t, []string{"npx drizzle-kit generate"}, f.commands())
	steps := nextSteps(resp.Text)
	assert.Less(t, strings.Index(steps, "npx drizzle-kit generate"), strings.Index(steps, "npx drizzle-kit migrate"))
}

func TestSetupDatabaseSkipInstall(t *testing.T) {
	o, f := newTestOrchestrator()
	root := nextProject(t)

	resp := mustRun(t, o, OpDatabase, Request{
		Config: cfg(types.Architecture{
			Database: types.DatabasePostgres, ORM: types.ORMPrisma, SkipInstall: types.Bool(true),
		}),
		ProjectPath: root,
	})

	assert.Equal(t, StatusPartial, resp.Status())
	assert.Empty(t, f.commands())
	steps := nextSteps(resp.Text)
	assert.Contains(t, steps, "pnpm install")
	assert.Contains(t, steps, "pnpm exec prisma generate")
	assert.Contains(t, steps, "pnpm exec prisma db push")
}

func TestSetupDatabaseMongoose(t *testing.T) {
	o, f := newTestOrchestrator()
	root := nextProject(t)

	resp := mustRun(t, o, OpDatabase, Request{
		Config:      cfg(types.Architecture{Database: types.DatabaseMongoDB, ORM: types.ORMMongoose}),
		ProjectPath: root,
	})

	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	assert.Empty(t, f.commands(), "mongoose has no schema commands")
	assert.FileExists(t, filepath.Join(root, "src", "lib", "db", "models", "note.ts"))
	assert.Contains(t, readFile(t, root, ".env"), `DATABASE_URL="mongodb://localhost:27017/demo"`)
}

func TestIncompatibleConfigurationWritesNothing(t *testing.T) {
	o, f := newTestOrchestrator()
	root := t.TempDir()

	resp := mustRun(t, o, OpDatabase, Request{
		Config:     cfg(types.Architecture{Database: types.DatabaseMongoDB, ORM: types.ORMDrizzle}),
		TargetPath: root,
	})

	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, resp.Text, "Configuration error")
	assert.Contains(t, resp.Text, "mongodb")
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, f.commands())
}

func TestSetupAuthRequiresDatabase(t *testing.T) {
	tests := []struct {
		name string
		arch types.Architecture
	}{
		{"orm none", types.Architecture{Auth: types.AuthBetterAuth, Database: types.DatabaseNone, ORM: types.ORMNone}},
		{"orm defaulted", types.Architecture{Auth: types.AuthBetterAuth, Database: types.DatabaseNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newTestOrchestrator()
			root := nextProject(t)

			resp := mustRun(t, o, OpAuth, Request{Config: cfg(tt.arch), ProjectPath: root})

			assert.Equal(t, StatusFailure, resp.Status())
			assert.Contains(t, resp.Text, "Better Auth requires a database")
			assert.NoFileExists(t, filepath.Join(root, "src", "lib", "auth.ts"))
			assert.NoFileExists(t, filepath.Join(root, ".env"))
		})
	}
}

func TestSetupAuthAfterDatabase(t *testing.T) {
	o, f := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{Database: types.DatabasePostgres, ORM: types.ORMDrizzle}), ProjectPath: root}

	mustRun(t, o, OpDatabase, req)
	f.calls = nil

	resp := mustRun(t, o, OpAuth, req)
	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	assert.Contains(t, readFile(t, root, "src/lib/auth.ts"), `drizzleAdapter(db, { provider: "pg" })`)
	assert.FileExists(t, filepath.Join(root, "src", "app", "api", "auth", "[...all]", "route.ts"))
	assert.Equal(t, []string{
		"pnpm dlx @better-auth/cli@latest generate --yes --config src/lib/auth.ts --output src/lib/db/auth-schema.ts",
		"pnpm exec drizzle-kit generate",
		"pnpm exec drizzle-kit migrate",
	}, f.commands())

	env := readFile(t, root, ".env")
	assert.Contains(t, env, `BETTER_AUTH_URL="http://localhost:3000"`)
	assert.Contains(t, readFile(t, root, ".env.example"), authSecretPlaceholder)

	// the secret is generated once
	mustRun(t, o, OpAuth, req)
	assert.Equal(t, env, readFile(t, root, ".env"))
}

func TestSetupAuthNeedsDatabaseClient(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)

	resp := mustRun(t, o, OpAuth, Request{Config: cfg(types.Architecture{}), ProjectPath: root})
	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, resp.Text, "src/lib/db/index.ts")
	assert.Contains(t, resp.Text, OpDatabase)
}

func TestUpdateManifestTwice(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{Testing: types.TestingVitest, StateManagement: types.StateZustand}), ProjectPath: root}

	counts := func() [3]int {
		doc := readFile(t, root, "package.json")
		return [3]int{
			len(gjson.Get(doc, "dependencies").Map()),
			len(gjson.Get(doc, "devDependencies").Map()),
			len(gjson.Get(doc, "scripts").Map()),
		}
	}

	first := mustRun(t, o, OpManifest, req)
	assert.Equal(t, StatusSuccess, first.Status())
	assert.Contains(t, first.Text, "package.json updated")
	afterFirst := counts()
	content := readFile(t, root, "package.json")

	second := mustRun(t, o, OpManifest, req)
	assert.Contains(t, second.Text, "already up to date")
	assert.Equal(t, afterFirst, counts())
	assert.Equal(t, content, readFile(t, root, "package.json"))
	assert.Equal(t, "vitest run", gjson.Get(content, "scripts.test").String())
}

func TestUpdateManifestWithoutPackageJSON(t *testing.T) {
	o, _ := newTestOrchestrator()
	resp := mustRun(t, o, OpManifest, Request{Config: cfg(types.Architecture{}), ProjectPath: t.TempDir()})
	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, resp.Text, "package.json not found")
}

func TestReduxProviderWrappedOnce(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{StateManagement: types.StateRedux}), ProjectPath: root}

	resp := mustRun(t, o, OpStateManagement, req)
	require.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	once := readFile(t, root, "src/app/layout.tsx")

	mustRun(t, o, OpStateManagement, req)
	twice := readFile(t, root, "src/app/layout.tsx")

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, "<StoreProvider>"))
	assert.Equal(t, 1, strings.Count(twice, `import StoreProvider from "@/store/provider";`))
	assert.Contains(t, readFile(t, root, "src/store/provider.tsx"), "useRef<AppStore | null>(null)")
}

func TestReduxWithoutLayoutFails(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := t.TempDir()

	resp := mustRun(t, o, OpStateManagement, Request{Config: cfg(types.Architecture{StateManagement: types.StateRedux}), ProjectPath: root})
	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, resp.Text, "layout")
	assert.NoFileExists(t, filepath.Join(root, "src", "store", "index.ts"))
}

func TestSetupUILibraryAppendsThemeOnce(t *testing.T) {
	o, f := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{UILibrary: types.UILibraryShadcn}), ProjectPath: root}

	mustRun(t, o, OpUILibrary, req)
	mustRun(t, o, OpUILibrary, req)

	css := readFile(t, root, "src/app/globals.css")
	assert.Equal(t, 1, strings.Count(css, "--radius: 0.625rem"))
	assert.Contains(t, readFile(t, root, "components.json"), `"css": "src/app/globals.css"`)
	assert.Contains(t, readFile(t, root, "src/lib/utils.ts"), "ClassValue[]")
	assert.Contains(t, f.commands(), "pnpm dlx shadcn@latest add button --yes --overwrite")
}

func TestSetupTestingPlaywright(t *testing.T) {
	o, f := newTestOrchestrator()
	root := nextProject(t)

	resp := mustRun(t, o, OpTesting, Request{Config: cfg(types.Architecture{Testing: types.TestingPlaywright, PackageManager: types.PackageManagerBun}), ProjectPath: root})

	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	assert.Contains(t, readFile(t, root, "playwright.config.ts"), `command: "bun run dev"`)
	assert.FileExists(t, filepath.Join(root, "e2e", "home.spec.ts"))
	assert.Equal(t, []string{"bunx playwright install --with-deps chromium"}, f.commands())
	assert.Equal(t, "playwright test", gjson.Get(readFile(t, root, "package.json"), "scripts.test:e2e").String())
}

func TestGenerateDocker(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{}), ProjectPath: root}

	resp := mustRun(t, o, OpDocker, req)
	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)

	dockerfile := readFile(t, root, "Dockerfile")
	assert.Contains(t, dockerfile, "RUN corepack enable pnpm")
	assert.Contains(t, dockerfile, "RUN pnpm install --frozen-lockfile")
	assert.Contains(t, dockerfile, "RUN pnpm exec prisma generate")
	assert.Contains(t, readFile(t, root, "docker-compose.yml"), "image: postgres:16-alpine")

	mustRun(t, o, OpDocker, req)
	assert.Equal(t, 1, strings.Count(readFile(t, root, "next.config.ts"), `output: "standalone"`))
}

func TestGenerateDockerWithoutNextConfig(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "next.config.ts")))

	resp := mustRun(t, o, OpDocker, Request{Config: cfg(types.Architecture{Database: types.DatabaseSQLite}), ProjectPath: root})
	assert.Equal(t, StatusPartial, resp.Status())
	assert.FileExists(t, filepath.Join(root, "Dockerfile"))
	assert.NotContains(t, readFile(t, root, "docker-compose.yml"), "db:")
}

func TestGenerateCIAndReadme(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{Testing: types.TestingVitest, PackageManager: types.PackageManagerYarn}), ProjectPath: root}

	mustRun(t, o, OpCI, req)
	ci := readFile(t, root, ".github/workflows/ci.yml")
	assert.Contains(t, ci, "cache: yarn")
	assert.Contains(t, ci, "run: yarn install --frozen-lockfile")
	assert.Contains(t, ci, "run: yarn test")

	mustRun(t, o, OpReadme, req)
	readme := readFile(t, root, "README.md")
	assert.Contains(t, readme, "# demo")
	assert.Contains(t, readme, "| ORM | prisma |")
	assert.Contains(t, readme, "- `yarn dev`: `next dev`")
	assert.Contains(t, readme, "- `yarn test`: `vitest run`")
	assert.Contains(t, readme, "`DATABASE_URL`")
}

func TestCreateDirectories(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := t.TempDir()
	req := Request{Config: cfg(types.Architecture{StateManagement: types.StateZustand, Testing: types.TestingJest}), ProjectPath: root}

	resp := mustRun(t, o, OpDirectories, req)
	assert.Equal(t, StatusSuccess, resp.Status())
	for _, dir := range []string{"src/lib/db", "prisma", "src/store", "src/components/ui", "src/__tests__", ".github/workflows"} {
		assert.DirExists(t, filepath.Join(root, filepath.FromSlash(dir)))
	}

	again := mustRun(t, o, OpDirectories, req)
	assert.Contains(t, again.Text, "already in place")
}

func TestScaffold(t *testing.T) {
	o, f := newTestOrchestrator()
	target := t.TempDir()

	resp := mustRun(t, o, OpScaffold, Request{Config: cfg(types.Architecture{}), TargetPath: target})
	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	require.Len(t, f.calls, 1)
	assert.True(t, strings.HasPrefix(f.calls[0].command, "pnpm dlx create-next-app@latest demo --ts"))
	abs, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, abs, f.calls[0].dir)

	// already scaffolded
	require.NoError(t, os.MkdirAll(filepath.Join(target, "demo"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "demo", "package.json"), []byte(fixturePackageJSON), 0644))
	resp = mustRun(t, o, OpScaffold, Request{Config: cfg(types.Architecture{}), TargetPath: target})
	assert.Contains(t, resp.Text, "already scaffolded")
	assert.Len(t, f.calls, 1)
}

func TestScaffoldFailure(t *testing.T) {
	o, _ := newTestOrchestrator("create-next-app")
	resp := mustRun(t, o, OpScaffold, Request{Config: cfg(types.Architecture{}), TargetPath: t.TempDir()})
	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, nextSteps(resp.Text), "create-next-app@latest demo")
}

func TestInstallDependencies(t *testing.T) {
	o, f := newTestOrchestrator()
	root := nextProject(t)

	resp := mustRun(t, o, OpInstall, Request{Config: cfg(types.Architecture{PackageManager: types.PackageManagerNPM}), ProjectPath: root})
	assert.Equal(t, StatusSuccess, resp.Status())
	assert.Equal(t, []string{"npm install"}, f.commands())

	resp = mustRun(t, o, OpInstall, Request{Config: cfg(types.Architecture{SkipInstall: types.Bool(true)}), ProjectPath: root})
	assert.Contains(t, resp.Text, "skipped")
	assert.Len(t, f.commands(), 1)
}

func TestMissingConfigAndPath(t *testing.T) {
	o, _ := newTestOrchestrator()

	resp := mustRun(t, o, OpDatabase, Request{ProjectPath: t.TempDir()})
	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, resp.Text, "requires a configuration")

	resp = mustRun(t, o, OpValidate, Request{})
	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, resp.Text, "projectPath")

	resp = mustRun(t, o, OpValidate, Request{ProjectPath: filepath.Join(t.TempDir(), "nope")})
	assert.Contains(t, resp.Text, "project directory not found")
}

func TestValidateProject(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{}), ProjectPath: root}

	resp := mustRun(t, o, OpValidate, req)
	assert.Equal(t, StatusFailure, resp.Status())
	assert.Contains(t, resp.Text, "src/lib/db/index.ts (missing)")

	for _, op := range []string{OpManifest, OpDatabase, OpAuth, OpUILibrary} {
		r := mustRun(t, o, op, req)
		require.NotEqual(t, StatusFailure, r.Status(), r.Text)
	}

	resp = mustRun(t, o, OpValidate, req)
	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	assert.Contains(t, resp.Text, "Source files: ")

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "lib", "db", "index.ts"), []byte("// edited\n"), 0644))
	resp = mustRun(t, o, OpValidate, req)
	assert.Contains(t, resp.Text, "src/lib/db/index.ts modified since generation")

	base := mustRun(t, o, OpValidate, Request{ProjectPath: root})
	assert.Equal(t, StatusSuccess, base.Status(), base.Text)
	assert.Contains(t, base.Text, "no configuration given")
}

func TestValidateNotesTypeScriptInJavaScriptProject(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{Language: types.LanguageJavaScript, Database: types.DatabaseNone, ORM: types.ORMNone, Auth: types.AuthNone, UILibrary: types.UILibraryNone}), ProjectPath: root}

	resp := mustRun(t, o, OpValidate, req)
	assert.Contains(t, resp.Text, "javascript project contains 1 TypeScript sources: src/app/layout.tsx")
	assert.NotContains(t, resp.Text, "next.config.ts")
}

func TestTypeScriptSources(t *testing.T) {
	files := []string{
		"next.config.ts",
		"src/app/layout.tsx",
		"src/app/page.jsx",
		"src/lib/db/index.ts",
		"src/types/env.d.ts",
		"scripts/seed.mts",
	}
	assert.Equal(t, []string{"src/app/layout.tsx", "src/lib/db/index.ts", "scripts/seed.mts"}, typeScriptSources(files))
	assert.Empty(t, typeScriptSources([]string{"next.config.mjs", "src/app/page.js"}))
}

func TestConcurrentRunsOnSameProject(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	req := Request{Config: cfg(types.Architecture{Database: types.DatabaseSQLite, ORM: types.ORMPrisma}), ProjectPath: root}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = o.Run(context.Background(), OpDatabase, req)
		}()
	}
	wg.Wait()

	for _, env := range []string{".env", ".env.example", ".env.local"} {
		assert.Equal(t, 1, strings.Count(readFile(t, root, env), "DATABASE_URL="), env)
	}
}

func TestRunLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	o := New(Options{Executor: &fakeRunner{}, Logger: runner.NewLogger(&buf, "verbose")})

	_, err := o.Run(context.Background(), OpValidate, Request{ProjectPath: t.TempDir()})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "operation=validate_project")
	assert.Contains(t, buf.String(), "operation finished")
}

func TestRequestConfigIsNotMutated(t *testing.T) {
	o, _ := newTestOrchestrator()
	root := nextProject(t)
	c := &types.ProjectConfiguration{Architecture: types.Architecture{Database: types.DatabaseSQLite, ORM: types.ORMPrisma}}

	resp := mustRun(t, o, OpDatabase, Request{Config: c, ProjectPath: root})
	assert.Equal(t, StatusSuccess, resp.Status(), resp.Text)
	assert.Empty(t, c.Name)
	assert.Empty(t, c.Architecture.PackageManager)
}
