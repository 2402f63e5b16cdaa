package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/orchestrator"
	"github.com/tuannvm/stackforge/internal/tui"
	"github.com/tuannvm/stackforge/internal/types"
)

// errOperationFailed makes the process exit non-zero after a ❌ report.
var errOperationFailed = errors.New("operation failed")

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run <operation> [path]",
	Short: "Run one operation against a project",
	Long: `Run a single generation operation.

For scaffold_project, path is the parent directory the project is created in.
For every other operation it is the project directory (default: current directory).

The configuration is read from --config, else <path>/stackforge.yaml, else the
usual locations (./stackforge.yaml, ./.stackforge/config.yaml, ~/.stackforge/config.yaml).

Example:
  stackforge run scaffold_project ./work -c stackforge.yaml
  stackforge run setup_database ./work/my-app
  stackforge run validate_project`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "project configuration file")
	rootCmd.AddCommand(runCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	orch := newOrchestrator(settings, newLogger(settings))

	name := args[0]
	op, ok := orch.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s (available: %s)", orchestrator.ErrUnknownOperation, name, operationNames(orch.Operations()))
	}

	path := "."
	if len(args) > 1 {
		path = args[1]
	} else if name != orchestrator.OpScaffold {
		if path, err = defaultProjectPath("."); err != nil {
			return err
		}
	}

	cfg, err := projectConfig(runConfigPath, path)
	if err != nil {
		return err
	}
	if cfg == nil && op.ConfigRequired {
		return fmt.Errorf("%s needs a configuration; run 'stackforge init' or pass --config", name)
	}
	logVerbose("running %s in %s", name, path)

	req := orchestrator.Request{Config: cfg, ProjectPath: path}
	if name == orchestrator.OpScaffold {
		req = orchestrator.Request{Config: cfg, TargetPath: path}
	}

	resp, err := orch.Run(cmd.Context(), name, req)
	if err != nil {
		return err
	}
	printReport(resp)
	if resp.Status() == orchestrator.StatusFailure {
		return errOperationFailed
	}
	return nil
}

// projectConfig loads the configuration named by flag, falling back to the
// project's own stackforge.yaml and then the default search. A missing file
// is not an error; the result is nil.
func projectConfig(flag, dir string) (*types.ProjectConfiguration, error) {
	if flag != "" {
		return config.Load(flag)
	}
	if path, ok := tui.ProjectConfigPath(dir); ok {
		return config.Load(path)
	}
	cfg, err := config.Load("")
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return cfg, err
}

// defaultProjectPath returns dir when it holds a package.json, else the single
// project found directly below it.
func defaultProjectPath(dir string) (string, error) {
	found := tui.DiscoverProjects(dir)
	switch {
	case len(found) == 0:
		return dir, nil
	case slices.Contains(found, dir):
		return dir, nil
	case len(found) == 1:
		logVerbose("using project %s", found[0])
		return found[0], nil
	default:
		return "", fmt.Errorf("several projects found (%s); pass the project path", strings.Join(found, ", "))
	}
}

func printReport(resp orchestrator.Response) {
	if quiet && resp.Status() == orchestrator.StatusSuccess {
		return
	}
	fmt.Print(tui.RenderReport(resp.Text))
}

func operationNames(ops []orchestrator.Operation) string {
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.Name)
	}
	return strings.Join(names, ", ")
}
