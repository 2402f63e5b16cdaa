package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/templates"
	"github.com/tuannvm/stackforge/internal/types"
)

func generateReadme(_ context.Context, r *run) *Report {
	rep := r.report
	err := r.writeTemplate("readme", r.paths.Readme, templates.Vars{
		"PROJECT_NAME": r.cfg.Name,
		"DESCRIPTION":  r.cfg.Description,
		"STACK_ROWS":   stackRows(r.arch()),
		"SETUP_STEPS":  setupSteps(r),
		"SCRIPTS":      scriptList(r),
		"ENV_VARS":     envList(r),
	}, true)
	if err != nil {
		return r.ioFailure("README", err)
	}
	rep.Title("README generated for %s", r.cfg.Name)
	return rep
}

func stackRows(a types.Architecture) string {
	language := "TypeScript"
	if !a.TypeScript() {
		language = "JavaScript"
	}
	rows := [][2]string{
		{"Framework", "Next.js (App Router)"},
		{"Language", language},
		{"Package manager", a.PackageManager},
		{"Database", a.Database},
		{"ORM", a.ORM},
		{"Authentication", a.Auth},
		{"UI library", a.UILibrary},
		{"State management", a.StateManagement},
		{"Testing", a.Testing},
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("| %s | %s |", row[0], row[1]))
	}
	return strings.Join(lines, "\n")
}

func setupSteps(r *run) string {
	a := r.arch()
	cmds := []string{adapter.InstallCommand(a.PackageManager)}
	if _, _, ok := adapter.DockerImage(a.Database); ok {
		cmds = append(cmds, "docker compose up -d db")
	}
	for _, s := range schemaSteps(r) {
		if s.Command != "" {
			cmds = append(cmds, s.Command)
		}
	}
	cmds = append(cmds, adapter.RunScriptCommand(a.PackageManager, "dev"))
	return "```bash\n" + strings.Join(cmds, "\n") + "\n```"
}

// scriptList documents the package.json scripts, in file order, followed by
// scripts the architecture adds that the manifest does not have yet.
func scriptList(r *run) string {
	pm := r.arch().PackageManager
	seen := map[string]bool{}
	var lines []string

	if data, err := os.ReadFile(r.abs(r.paths.Manifest)); err == nil {
		gjson.GetBytes(data, "scripts").ForEach(func(key, value gjson.Result) bool {
			seen[key.String()] = true
			lines = append(lines, fmt.Sprintf("- `%s`: `%s`", adapter.RunScriptCommand(pm, key.String()), value.String()))
			return true
		})
	}

	scripts := adapter.ManifestFor(r.arch()).Scripts
	for _, name := range sortedKeys(scripts) {
		if !seen[name] {
			lines = append(lines, fmt.Sprintf("- `%s`: `%s`", adapter.RunScriptCommand(pm, name), scripts[name]))
		}
	}
	if len(lines) == 0 {
		return "_No scripts defined._"
	}
	return strings.Join(lines, "\n")
}

// envList documents the variables from .env.example plus those the
// architecture needs.
func envList(r *run) string {
	a := r.arch()
	vars := r.readEnv(".env.example")
	if a.HasDatabase() {
		vars["DATABASE_URL"] = r.desc.ConnectionURL
	}
	if a.Auth == types.AuthBetterAuth && a.HasDatabase() {
		vars[authSecretKey] = authSecretPlaceholder
		vars[authURLKey] = devServerURL
		vars[publicAppURLKey] = devServerURL
	}
	if len(vars) == 0 {
		return "_No environment variables required._"
	}
	lines := make([]string, 0, len(vars))
	for _, k := range sortedKeys(vars) {
		lines = append(lines, fmt.Sprintf("- `%s` (example: `%s`)", k, vars[k]))
	}
	return strings.Join(lines, "\n")
}
