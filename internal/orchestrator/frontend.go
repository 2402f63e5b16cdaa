package orchestrator

import (
	"context"
	"strconv"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/mutate"
	"github.com/tuannvm/stackforge/internal/project"
	"github.com/tuannvm/stackforge/internal/templates"
	"github.com/tuannvm/stackforge/internal/types"
)

// shadcnSentinel marks the theme block appended to globals.css.
const shadcnSentinel = "--radius"

// mergeIfPresent merges m into package.json when the manifest exists.
func mergeIfPresent(r *run, m adapter.Manifest) error {
	if !r.exists(r.paths.Manifest) {
		r.report.Note("package.json not found; run %s once it exists", OpManifest)
		return nil
	}
	_, err := r.mergeManifest(m)
	return err
}

func setupUILibrary(ctx context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()
	if a.UILibrary == types.UILibraryNone {
		rep.Title("UI library skipped: none selected")
		return rep
	}

	layout, err := project.Detect(r.root)
	if err != nil {
		return r.ioFailure("UI library setup", err)
	}
	if layout.GlobalsCSS == "" {
		rep.Fail("UI library setup failed: %s/globals.css not found", layout.AppDir)
		rep.Next("Run %s first", OpScaffold)
		return rep
	}

	ts := a.TypeScript()
	rep.Fact("Library", "shadcn/ui")
	rep.Fact("Stylesheet", layout.GlobalsCSS)

	err = r.writeTemplate("components-json", r.paths.ComponentsJSON, templates.Vars{
		"TSX":      strconv.FormatBool(ts),
		"CSS_PATH": layout.GlobalsCSS,
	}, false)
	if err != nil {
		return r.ioFailure("UI library setup", err)
	}

	utilVars := templates.Vars{"CLASS_VALUE_IMPORT": "", "CLASS_VALUE_TYPE": ""}
	if ts {
		utilVars = templates.Vars{"CLASS_VALUE_IMPORT": ", type ClassValue", "CLASS_VALUE_TYPE": ": ClassValue[]"}
	}
	if err := r.writeTemplate("utils", r.paths.Utils, utilVars, true); err != nil {
		return r.ioFailure("UI library setup", err)
	}

	theme, err := r.loader.Load("shadcn-css")
	if err != nil {
		return r.ioFailure("UI library setup", err)
	}
	_, err = r.apply(layout.GlobalsCSS, false, mutate.AppendBlock{Sentinel: shadcnSentinel, Block: theme, Label: "theme variables"})
	if err != nil {
		return r.ioFailure("UI library setup", err)
	}

	if err := mergeIfPresent(r, adapter.ManifestFor(types.Architecture{Language: a.Language, UILibrary: a.UILibrary})); err != nil {
		return r.ioFailure("UI library setup", err)
	}

	plan := r.runPlan(ctx, a.SkipsInstall(), step{Label: "Add button component", Command: adapter.ShadcnAddCommand(a.PackageManager)})
	plan.describe(rep, adapter.InstallCommand(a.PackageManager))
	switch plan.State {
	case planFailed:
		rep.Title("shadcn/ui configured, but %s failed", plan.Failed.Label)
	case planSkipped:
		rep.Title("shadcn/ui configured; starter component still to add")
	default:
		rep.Title("shadcn/ui configured")
	}
	rep.Next("Add more components: %s", adapter.DlxPrefix(a.PackageManager)+" shadcn@latest add <component>")
	return rep
}

func setupStateManagement(_ context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()
	ts := a.TypeScript()

	switch a.StateManagement {
	case types.StateZustand:
		rep.Fact("Library", "zustand")
		vars := templates.Vars{"STATE_TYPE": "", "STATE_GENERIC": ""}
		if ts {
			vars = templates.Vars{
				"STATE_TYPE":    "\ntype CounterState = {\n  count: number;\n  increment: () => void;\n  decrement: () => void;\n  reset: () => void;\n};\n",
				"STATE_GENERIC": "<CounterState>()",
			}
		}
		if err := r.writeTemplate("zustand-store", r.paths.ZustandStore, vars, false); err != nil {
			return r.ioFailure("State management setup", err)
		}
		if err := mergeIfPresent(r, adapter.ManifestFor(types.Architecture{Language: a.Language, StateManagement: a.StateManagement})); err != nil {
			return r.ioFailure("State management setup", err)
		}
		rep.Title("Zustand store ready")
		rep.Next("Use it in a client component: import { useCounterStore } from \"@/store/use-counter-store\"")
		return rep

	case types.StateRedux:
		return setupRedux(r)

	default:
		rep.Title("State management skipped: none selected")
		return rep
	}
}

func setupRedux(r *run) *Report {
	rep := r.report
	a := r.arch()
	ts := a.TypeScript()

	layout, err := project.Detect(r.root)
	if err != nil {
		return r.ioFailure("State management setup", err)
	}
	if layout.LayoutFile == "" {
		rep.Fail("State management setup failed: root layout not found in %s", layout.AppDir)
		rep.Next("Run %s first", OpScaffold)
		return rep
	}
	rep.Fact("Library", "redux toolkit")
	rep.Fact("Layout", layout.LayoutFile)

	storeVars := templates.Vars{"STORE_TYPES": ""}
	providerVars := templates.Vars{"STORE_TYPE_IMPORT": "", "CHILDREN_TYPE": "", "STORE_REF_GENERIC": ""}
	if ts {
		storeVars["STORE_TYPES"] = "\nexport type AppStore = ReturnType<typeof makeStore>;\n" +
			"export type RootState = ReturnType<AppStore[\"getState\"]>;\n" +
			"export type AppDispatch = AppStore[\"dispatch\"];\n"
		providerVars = templates.Vars{
			"STORE_TYPE_IMPORT": ", type AppStore",
			"CHILDREN_TYPE":     ": { children: React.ReactNode }",
			"STORE_REF_GENERIC": "<AppStore | null>",
		}
	}
	if err := r.writeTemplate("redux-store", r.paths.StoreIndex, storeVars, false); err != nil {
		return r.ioFailure("State management setup", err)
	}
	if err := r.writeTemplate("redux-provider", r.paths.StoreProvider, providerVars, false); err != nil {
		return r.ioFailure("State management setup", err)
	}

	_, err = r.apply(layout.LayoutFile, false,
		mutate.InsertImport{Specifier: "@/store/provider", Statement: `import StoreProvider from "@/store/provider";`},
		mutate.WrapBody{Component: "StoreProvider"},
	)
	if err != nil {
		return r.ioFailure("State management setup", err)
	}

	if err := mergeIfPresent(r, adapter.ManifestFor(types.Architecture{Language: a.Language, StateManagement: a.StateManagement})); err != nil {
		return r.ioFailure("State management setup", err)
	}
	rep.Title("Redux store ready and provided from the root layout")
	return rep
}

func setupTesting(ctx context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()
	ts := a.TypeScript()

	if a.Testing == types.TestingNone {
		rep.Title("Testing skipped: none selected")
		return rep
	}
	rep.Fact("Framework", a.Testing)

	var err error
	var steps []step
	switch a.Testing {
	case types.TestingJest:
		err = writeAll(r,
			templated{"jest-config", r.paths.JestConfig, templates.Vars{"EXT": adapter.Extension(ts)}},
			templated{"jest-setup", r.paths.JestSetup, nil},
			templated{"unit-test", r.paths.UnitTest, templates.Vars{"TEST_IMPORTS": `import { describe, expect, it } from "@jest/globals";` + "\n"}},
		)
	case types.TestingVitest:
		err = writeAll(r,
			templated{"vitest-config", r.paths.VitestConfig, nil},
			templated{"unit-test", r.paths.UnitTest, templates.Vars{"TEST_IMPORTS": `import { describe, expect, it } from "vitest";` + "\n"}},
		)
	case types.TestingPlaywright:
		err = writeAll(r,
			templated{"playwright-config", r.paths.PlaywrightConf, templates.Vars{"DEV_CMD": adapter.RunScriptCommand(a.PackageManager, "dev")}},
			templated{"e2e-test", r.paths.E2ETest, nil},
		)
		steps = append(steps, step{Label: "Install browsers", Command: adapter.PlaywrightInstallCommand(a.PackageManager)})
	}
	if err != nil {
		return r.ioFailure("Testing setup", err)
	}

	if err := mergeIfPresent(r, adapter.ManifestFor(types.Architecture{Language: a.Language, Testing: a.Testing})); err != nil {
		return r.ioFailure("Testing setup", err)
	}

	plan := r.runPlan(ctx, a.SkipsInstall(), steps...)
	plan.describe(rep, adapter.InstallCommand(a.PackageManager))
	if plan.State == planFailed {
		rep.Title("%s configured, but %s failed", a.Testing, plan.Failed.Label)
		return rep
	}

	rep.Title("%s configured", a.Testing)
	script := "test"
	if a.Testing == types.TestingPlaywright {
		script = "test:e2e"
	}
	rep.Next("Run the tests: %s", adapter.RunScriptCommand(a.PackageManager, script))
	return rep
}

type templated struct {
	id   string
	rel  string
	vars templates.Vars
}

// writeAll writes user-editable templated files, keeping existing ones.
func writeAll(r *run, files ...templated) error {
	for _, f := range files {
		if err := r.writeTemplate(f.id, f.rel, f.vars, false); err != nil {
			return err
		}
	}
	return nil
}
