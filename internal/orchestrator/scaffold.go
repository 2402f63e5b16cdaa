package orchestrator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/types"
)

func scaffoldProject(ctx context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()
	rep.Fact("Project", r.cfg.Name)
	rep.Fact("Location", r.root)

	if r.exists(r.paths.Manifest) {
		rep.Title("Project %s is already scaffolded", r.cfg.Name)
		rep.Note("package.json exists, create-next-app was not run")
		return rep
	}

	parent := filepath.Dir(r.root)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return r.ioFailure("Project scaffold", err)
	}

	cmd := adapter.ScaffoldCommand(r.cfg)
	res := r.exec.Execute(ctx, cmd, parent, "create-next-app")
	rep.Command(res.Success, "create-next-app", cmd)
	if !res.Success {
		rep.Fail("Project scaffold failed: create-next-app exited with code %d", res.ExitCode)
		rep.Note("%s", lastLines(res.Output, 5))
		rep.Next("Run it manually from %s: %s", relOrAbs(parent), cmd)
		return rep
	}

	rep.Title("Project %s created", r.cfg.Name)
	rep.Fact("Language", a.Language)
	rep.Fact("Package manager", a.PackageManager)
	rep.Next("cd %s", relOrAbs(r.root))
	if a.SkipsInstall() {
		rep.Next("Install dependencies: %s", adapter.InstallCommand(a.PackageManager))
	}
	rep.Next("Continue with %s, %s and %s using projectPath %s", OpManifest, OpDatabase, OpAuth, r.root)
	rep.Next("Start the dev server: %s", adapter.RunScriptCommand(a.PackageManager, "dev"))
	return rep
}

// layoutDirectories lists the directories the architecture's handlers
// write into.
func layoutDirectories(r *run) []string {
	a := r.arch()
	p := r.paths
	dirs := []string{"public", "src/components", "src/hooks", "src/lib"}
	if a.TypeScript() {
		dirs = append(dirs, "src/types")
	}
	switch a.ORM {
	case types.ORMPrisma:
		dirs = append(dirs, p.DBDir, filepath.ToSlash(filepath.Dir(p.PrismaSchema)))
	case types.ORMDrizzle:
		dirs = append(dirs, p.DBDir, "drizzle")
	case types.ORMMongoose:
		dirs = append(dirs, p.DBDir, p.MongooseModels)
	}
	if a.Auth == types.AuthBetterAuth {
		dirs = append(dirs, filepath.ToSlash(filepath.Dir(p.AuthRoute)))
	}
	if a.UILibrary == types.UILibraryShadcn {
		dirs = append(dirs, p.ComponentsUI)
	}
	if a.StateManagement != types.StateNone {
		dirs = append(dirs, p.StoreDir)
	}
	switch a.Testing {
	case types.TestingJest, types.TestingVitest:
		dirs = append(dirs, filepath.ToSlash(filepath.Dir(p.UnitTest)))
	case types.TestingPlaywright:
		dirs = append(dirs, filepath.ToSlash(filepath.Dir(p.E2ETest)))
	}
	return append(dirs, filepath.ToSlash(filepath.Dir(p.CIWorkflow)))
}

func createDirectories(_ context.Context, r *run) *Report {
	rep := r.report
	var created, existing int
	for _, dir := range layoutDirectories(r) {
		isNew, err := r.mkdir(dir)
		if err != nil {
			return r.ioFailure("Directory layout", err)
		}
		if isNew {
			created++
			rep.File(dir+"/", "created")
		} else {
			existing++
		}
	}

	if created == 0 {
		rep.Title("Directory layout already in place")
	} else {
		rep.Title("Created %s", plural(created, "directory", "directories"))
	}
	if existing > 0 {
		rep.Fact("Already present", plural(existing, "directory", "directories"))
	}
	return rep
}

func installDependencies(ctx context.Context, r *run) *Report {
	rep := r.report
	pm := r.arch().PackageManager
	install := adapter.InstallCommand(pm)

	if r.arch().SkipsInstall() {
		rep.Title("Dependency install skipped")
		rep.Note("skipInstall is set")
		rep.Next("Install dependencies: %s", install)
		return rep
	}
	if !r.exists(r.paths.Manifest) {
		rep.Fail("Dependency install failed: package.json not found in %s", r.root)
		rep.Next("Run %s first", OpScaffold)
		return rep
	}

	plan := r.runPlan(ctx, false, step{Label: "Install dependencies", Command: install})
	if plan.State == planFailed {
		rep.Fail("Dependency install failed")
		rep.Note("%s", lastLines(plan.Output, 5))
		rep.Next("Run manually in %s: %s", relOrAbs(r.root), install)
		return rep
	}
	rep.Title("Dependencies installed with %s", pm)
	return rep
}
