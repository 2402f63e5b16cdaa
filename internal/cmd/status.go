package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/state"
)

var statusReset bool

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show which operations have run against a project",
	Long: `Show the run journal of a project: each operation's last result, when it
ran, and generated files edited or removed since.

Example:
  stackforge status ./work/my-app
  stackforge status --reset`,
	Args: cobra.MaximumNArgs(1),
	RunE: statusCommand,
}

func init() {
	statusCmd.Flags().BoolVar(&statusReset, "reset", false, "delete the journal")
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	m := state.NewManager(root)
	if statusReset {
		if err := m.Clear(); err != nil {
			return fmt.Errorf("failed to delete journal: %w", err)
		}
		logInfo("Journal cleared")
		return nil
	}

	if !m.Exists() {
		logInfo("No operations recorded in %s", root)
		return nil
	}
	if err := m.Load(); err != nil {
		return err
	}

	ops := m.Journal().Operations
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return ops[names[i]].At.Before(ops[names[j]].At)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "OPERATION\tSTATUS\tFILES\tAT")
	for _, name := range names {
		rec := ops[name]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, rec.Status, len(rec.Files), rec.At.Local().Format(time.DateTime))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	drift := m.Drift()
	if len(drift) == 0 {
		return nil
	}
	logInfo("")
	logInfo("Changed since generation:")
	for _, d := range drift {
		logInfo("  %s %s (%s)", d.Path, d.Reason, d.Operation)
	}
	return nil
}
