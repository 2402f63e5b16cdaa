package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/orchestrator"
	"github.com/tuannvm/stackforge/internal/tui"
	"github.com/tuannvm/stackforge/internal/types"
)

var (
	createConfigPath string
	createSkip       []string
	createWizard     bool
	createAccessible bool
)

var createCmd = &cobra.Command{
	Use:   "create [target]",
	Short: "Run every operation in order to generate a project",
	Long: `Create a project in <target>/<name> by running every operation in
natural order: scaffold, directories, package.json, database, auth, UI,
state, testing, Docker, CI, README, install and validation.

The pipeline continues after a failing step and prints every report.
It stops early only if scaffolding fails, since later steps need the project.

Example:
  stackforge create
  stackforge create ./work -c stackforge.yaml
  stackforge create ./work --skip generate_dockerfile,generate_ci_workflow
  stackforge create --wizard`,
	Args: cobra.MaximumNArgs(1),
	RunE: createCommand,
}

func init() {
	createCmd.Flags().StringVarP(&createConfigPath, "config", "c", "", "project configuration file")
	createCmd.Flags().StringSliceVar(&createSkip, "skip", nil, "operations to leave out")
	createCmd.Flags().BoolVarP(&createWizard, "wizard", "w", false, "build the configuration interactively")
	createCmd.Flags().BoolVar(&createAccessible, "accessible", false, "enable accessible mode for screen readers")
	rootCmd.AddCommand(createCmd)
}

// pipelineStep is the outcome of one operation in a create run.
type pipelineStep struct {
	Operation string
	Response  orchestrator.Response
	Skipped   bool
}

func createCommand(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	orch := newOrchestrator(settings, newLogger(settings))

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	var partial *types.ProjectConfiguration
	if createWizard {
		res, err := tui.RunWizard(tui.WizardOptions{Accessible: createAccessible})
		if err != nil {
			return err
		}
		if res.Cancelled {
			logInfo("Cancelled")
			return nil
		}
		partial = &res.Config
	} else {
		partial, err = projectConfig(createConfigPath, ".")
		if err != nil {
			return err
		}
	}

	for _, name := range createSkip {
		if _, ok := orch.Lookup(name); !ok {
			return fmt.Errorf("%w: %s", orchestrator.ErrUnknownOperation, name)
		}
	}

	// Resolve once so a generated name is shared by every step.
	cfg := config.Resolve(partial)
	if err := config.Validate(cfg); err != nil {
		return err
	}
	logInfo("Creating %s in %s", cfg.Name, filepath.Join(target, cfg.Name))

	steps := runPipeline(cmd.Context(), orch, cfg, target, createSkip, printReport)
	printSummary(steps)

	for _, s := range steps {
		if !s.Skipped && s.Response.Status() == orchestrator.StatusFailure {
			return errOperationFailed
		}
	}
	return nil
}

// runPipeline runs every registered operation in order against
// <target>/<name>. Failed steps do not stop the run, except scaffolding.
func runPipeline(ctx context.Context, orch *orchestrator.Orchestrator, cfg types.ProjectConfiguration,
	target string, skip []string, report func(orchestrator.Response)) []pipelineStep {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}
	projectPath := filepath.Join(target, cfg.Name)

	var steps []pipelineStep
	for _, op := range orch.Operations() {
		if skipped[op.Name] {
			steps = append(steps, pipelineStep{Operation: op.Name, Skipped: true})
			continue
		}

		req := orchestrator.Request{Config: &cfg, ProjectPath: projectPath}
		if op.Name == orchestrator.OpScaffold {
			req = orchestrator.Request{Config: &cfg, TargetPath: target}
		}

		resp, err := orch.Run(ctx, op.Name, req)
		if err != nil {
			resp = orchestrator.Response{Text: fmt.Sprintf("%s %v", orchestrator.StatusFailure.Marker(), err)}
		}
		report(resp)
		steps = append(steps, pipelineStep{Operation: op.Name, Response: resp})

		if op.Name == orchestrator.OpScaffold && resp.Status() == orchestrator.StatusFailure {
			break
		}
	}
	return steps
}

func printSummary(steps []pipelineStep) {
	if quiet {
		return
	}
	fmt.Println(tui.DefaultStyles().Heading.Render("Summary"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "OPERATION\tRESULT")
	for _, s := range steps {
		result := "skipped"
		if !s.Skipped {
			result = s.Response.Status().Marker()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", s.Operation, result)
	}
	_ = w.Flush()
}
