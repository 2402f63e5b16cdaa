package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/project"
	"github.com/tuannvm/stackforge/internal/state"
	"github.com/tuannvm/stackforge/internal/types"
)

type checker struct {
	rep    *Report
	total  int
	failed int
}

func (c *checker) check(ok bool, subject string) {
	c.total++
	if ok {
		c.rep.File(subject, "ok")
		return
	}
	c.failed++
	c.rep.File(subject, "missing")
}

func validateProject(_ context.Context, r *run) *Report {
	rep := r.report
	layout, err := project.Detect(r.root)
	if err != nil {
		return r.ioFailure("Project validation", err)
	}

	c := &checker{rep: rep}
	c.check(layout.HasManifest, r.paths.Manifest)
	c.check(isDir(layout.Abs(layout.AppDir)), layout.AppDir+"/")
	c.check(layout.LayoutFile != "", layout.AppDir+"/layout")
	c.check(layout.NextConfig != "", "next.config")

	if r.hasConfig {
		rep.Fact("Project", r.cfg.Name)
		validateArchitecture(r, c, layout)
	} else {
		rep.Note("no configuration given; only the base structure was checked")
	}

	for _, opt := range []struct{ rel, op string }{
		{r.paths.Dockerfile, OpDocker},
		{r.paths.CIWorkflow, OpCI},
	} {
		if !r.exists(opt.rel) {
			rep.Note("optional %s not generated (%s)", opt.rel, opt.op)
		}
	}

	m := state.NewManager(r.root)
	if err := m.Load(); err != nil {
		rep.Note("journal unreadable: %v", err)
	} else {
		for _, d := range m.Drift() {
			rep.Note("%s %s (written by %s)", d.Path, d.Reason, d.Operation)
		}
	}

	if c.failed > 0 {
		return rep.Fail("Project validation failed: %d of %d checks failed", c.failed, c.total)
	}
	rep.Title("Project structure is valid (%d checks passed)", c.total)
	return rep
}

func validateArchitecture(r *run, c *checker, layout *project.Layout) {
	a := r.arch()
	p := r.paths

	if a.TypeScript() {
		c.check(layout.TypeScript, "tsconfig.json")
	}

	var files []string
	switch a.ORM {
	case types.ORMPrisma:
		files = append(files, p.DBClient, p.PrismaSchema)
	case types.ORMDrizzle:
		files = append(files, p.DBClient, p.DrizzleSchema, p.DrizzleConfig)
	case types.ORMMongoose:
		files = append(files, p.DBClient, p.MongooseModel)
	}
	if a.Auth == types.AuthBetterAuth {
		files = append(files, p.Auth, p.AuthClient, p.AuthRoute)
	}
	if a.UILibrary == types.UILibraryShadcn {
		files = append(files, p.ComponentsJSON, p.Utils)
	}
	switch a.StateManagement {
	case types.StateZustand:
		files = append(files, p.ZustandStore)
	case types.StateRedux:
		files = append(files, p.StoreIndex, p.StoreProvider)
	}
	switch a.Testing {
	case types.TestingJest:
		files = append(files, p.JestConfig)
	case types.TestingVitest:
		files = append(files, p.VitestConfig)
	case types.TestingPlaywright:
		files = append(files, p.PlaywrightConf)
	}
	for _, rel := range files {
		c.check(r.exists(rel), rel)
	}

	env := r.readEnv(".env")
	if a.HasDatabase() {
		c.check(env["DATABASE_URL"] != "", ".env DATABASE_URL")
	}
	if a.Auth == types.AuthBetterAuth {
		c.check(env[authSecretKey] != "", ".env "+authSecretKey)
	}
	if a.StateManagement == types.StateRedux && layout.LayoutFile != "" {
		data, _ := os.ReadFile(layout.Abs(layout.LayoutFile))
		c.check(strings.Contains(string(data), "<StoreProvider>"), layout.LayoutFile+" <StoreProvider>")
	}

	if sources, err := layout.SourceFiles(); err == nil {
		r.report.Fact("Source files", strconv.Itoa(len(sources)))
		if !a.TypeScript() {
			if typed := typeScriptSources(sources); len(typed) > 0 {
				shown := typed[:min(len(typed), 3)]
				r.report.Note("javascript project contains %d TypeScript sources: %s", len(typed), strings.Join(shown, ", "))
			}
		}
	}

	if layout.HasManifest {
		missing := missingDependencies(layout.Abs(p.Manifest), adapter.ManifestFor(a))
		c.check(len(missing) == 0, p.Manifest+" dependencies")
		if len(missing) > 0 {
			r.report.Note("package.json lacks %s; run %s", strings.Join(missing, ", "), OpManifest)
		}
	}
}

func missingDependencies(path string, m adapter.Manifest) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	deps := gjson.GetBytes(data, "dependencies").Map()
	devDeps := gjson.GetBytes(data, "devDependencies").Map()

	var missing []string
	for pkg := range m.Dependencies {
		if _, ok := deps[pkg]; !ok {
			missing = append(missing, pkg)
		}
	}
	for pkg := range m.DevDependencies {
		if _, ok := devDeps[pkg]; !ok {
			missing = append(missing, pkg)
		}
	}
	sort.Strings(missing)
	return missing
}

// typeScriptSources returns the typed files below the project root.
// Root-level tool configs such as next.config.ts are not counted.
func typeScriptSources(files []string) []string {
	var out []string
	for _, f := range files {
		if !strings.Contains(f, "/") {
			continue
		}
		switch filepath.Ext(f) {
		case ".ts", ".tsx", ".mts":
			if !strings.HasSuffix(f, ".d.ts") {
				out = append(out, f)
			}
		}
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
