package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/tui"
)

var (
	initOutput     string
	initForce      bool
	initDefaults   bool
	initAccessible bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a stackforge.yaml project configuration",
	Long: `Walk through the stack choices and write them to stackforge.yaml.

With --defaults no questions are asked: every field takes its default
(pnpm, postgres, prisma, better-auth, shadcn, no state library, no tests).

Example:
  stackforge init
  stackforge init --defaults -o ./work/stackforge.yaml`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().StringVarP(&initOutput, "output", "o", config.ProjectFileName, "file to write")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the default configuration without prompting")
	initCmd.Flags().BoolVar(&initAccessible, "accessible", false, "enable accessible mode for screen readers")
	rootCmd.AddCommand(initCmd)
}

func initCommand(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initOutput); err == nil && !initForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", initOutput)
	}

	// an existing file pre-fills the wizard under --force
	initial, err := config.Load(initOutput)
	if err != nil {
		initial = nil
	}

	cfg := config.Resolve(initial)
	if !initDefaults {
		res, err := tui.RunWizard(tui.WizardOptions{Initial: initial, Accessible: initAccessible})
		if err != nil {
			return err
		}
		if res.Cancelled {
			logInfo("Cancelled")
			return nil
		}
		cfg = res.Config
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(initOutput, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logInfo("Created %s", initOutput)
	logInfo("")
	logInfo("Generate the project with:")
	logInfo("  stackforge create -c %s", initOutput)
	return nil
}
