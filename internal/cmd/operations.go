package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/orchestrator"
)

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"ops"},
	Short:   "List available operations",
	Long: `List every operation in natural pipeline order.

Example:
  stackforge operations`,
	Args: cobra.NoArgs,
	RunE: operationsCommand,
}

func init() {
	rootCmd.AddCommand(operationsCmd)
}

func operationsCommand(cmd *cobra.Command, args []string) error {
	orch := orchestrator.New(orchestrator.Options{})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "OPERATION\tCONFIG\tDESCRIPTION")
	for _, op := range orch.Operations() {
		needs := "required"
		if !op.ConfigRequired {
			needs = "optional"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, needs, op.Description)
	}
	return w.Flush()
}
