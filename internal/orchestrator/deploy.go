package orchestrator

import (
	"context"
	"errors"
	"regexp"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/mutate"
	"github.com/tuannvm/stackforge/internal/project"
	"github.com/tuannvm/stackforge/internal/templates"
	"github.com/tuannvm/stackforge/internal/types"
)

// nextConfigAnchor matches the config object literal create-next-app emits.
var nextConfigAnchor = regexp.MustCompile(`const nextConfig(: NextConfig)? = \{`)

const standaloneOutput = `output: "standalone"`

func generateDocker(_ context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()
	pm := a.PackageManager

	prebuild := ""
	if a.ORM == types.ORMPrisma {
		prebuild = "RUN " + adapter.SchemaCommand(a.ORM, pm) + "\n"
	}
	err := r.writeTemplate("dockerfile", r.paths.Dockerfile, templates.Vars{
		"PROJECT_NAME": r.cfg.Name,
		"PM_SETUP":     adapter.ImageSetup(pm),
		"LOCKFILE":     adapter.Lockfile(pm),
		"INSTALL_CMD":  adapter.FrozenInstallCommand(pm),
		"PREBUILD":     prebuild,
		"BUILD_CMD":    adapter.RunScriptCommand(pm, "build"),
	}, true)
	if err != nil {
		return r.ioFailure("Docker setup", err)
	}
	if err := r.writeTemplate("dockerignore", r.paths.DockerIgnore, nil, true); err != nil {
		return r.ioFailure("Docker setup", err)
	}

	compose, hasService := adapter.ComposeServiceFor(a.Database, r.cfg.Name)
	err = r.writeTemplate("docker-compose", r.paths.DockerCompose, templates.Vars{
		"APP_DEPENDS": compose.AppEnv,
		"DB_SERVICE":  compose.Service,
		"VOLUMES":     compose.Volumes,
	}, true)
	if err != nil {
		return r.ioFailure("Docker setup", err)
	}
	if hasService {
		image, _, _ := adapter.DockerImage(a.Database)
		rep.Fact("Database service", image)
	}

	rep.Title("Docker setup complete")
	if err := enableStandalone(r); err != nil {
		if !errors.Is(err, mutate.ErrAnchorNotFound) && !errors.Is(err, errNoNextConfig) {
			return r.ioFailure("Docker setup", err)
		}
		rep.Degrade(StatusPartial)
		rep.Title("Docker files written; next.config needs a manual edit")
		rep.Next("Add %s to the object exported from next.config", standaloneOutput)
	}

	if hasService {
		rep.Next("Start the database: docker compose up -d db")
	}
	rep.Next("Build and run the app: docker compose up --build")
	return rep
}

var errNoNextConfig = errors.New("next.config not found")

// enableStandalone makes next build emit the standalone server the
// Dockerfile copies.
func enableStandalone(r *run) error {
	layout, err := project.Detect(r.root)
	if err != nil {
		return err
	}
	if layout.NextConfig == "" {
		return errNoNextConfig
	}
	_, err = r.apply(layout.NextConfig, false, mutate.InsertAfter{
		Anchor:   nextConfigAnchor,
		Sentinel: standaloneOutput,
		Text:     "\n  " + standaloneOutput + ",",
		Label:    "standalone output",
	})
	return err
}

func generateCIWorkflow(_ context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()
	pm := a.PackageManager

	vars := templates.Vars{
		"PM_SETUP_STEP":  "",
		"NODE_CACHE":     "",
		"INSTALL_CMD":    adapter.FrozenInstallCommand(pm),
		"LINT_CMD":       adapter.RunScriptCommand(pm, "lint"),
		"PRE_BUILD_STEP": "",
		"BUILD_CMD":      adapter.RunScriptCommand(pm, "build"),
		"TEST_STEP":      "",
	}
	switch pm {
	case types.PackageManagerPNPM:
		vars["PM_SETUP_STEP"] = "      - uses: pnpm/action-setup@v4\n"
		vars["NODE_CACHE"] = "          cache: pnpm\n"
	case types.PackageManagerBun:
		vars["PM_SETUP_STEP"] = "      - uses: oven-sh/setup-bun@v2\n"
	default:
		vars["NODE_CACHE"] = "          cache: " + pm + "\n"
	}
	if a.ORM == types.ORMPrisma {
		vars["PRE_BUILD_STEP"] = "      - name: Generate Prisma client\n        run: " + adapter.SchemaCommand(a.ORM, pm) + "\n"
	}
	switch a.Testing {
	case types.TestingJest, types.TestingVitest:
		vars["TEST_STEP"] = "      - name: Test\n        run: " + adapter.RunScriptCommand(pm, "test") + "\n"
	case types.TestingPlaywright:
		vars["TEST_STEP"] = "      - name: Install browsers\n        run: " + adapter.PlaywrightInstallCommand(pm) + "\n" +
			"      - name: End-to-end tests\n        run: " + adapter.RunScriptCommand(pm, "test:e2e") + "\n"
	}

	if err := r.writeTemplate("ci-workflow", r.paths.CIWorkflow, vars, true); err != nil {
		return r.ioFailure("CI workflow", err)
	}
	rep.Title("CI workflow generated")
	rep.Fact("Package manager", pm)
	if !r.exists(adapter.Lockfile(pm)) {
		rep.Note("%s not found; the frozen install in CI needs a committed lockfile", adapter.Lockfile(pm))
	}
	return rep
}
