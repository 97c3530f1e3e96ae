package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/internal/db"
	"github.com/strrl/trackdash/internal/exports"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "inspect <export-file>",
		Short: "Summarize a downloaded CSV or JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return err
			}
			// Don't close the singleton connection

			summary, err := exports.Inspect(cmd.Context(), database, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Export: %s (%s)\n", summary.Path, summary.Format)
			if summary.Period != "" {
				fmt.Fprintf(out, "Period: %s\n", summary.Period)
			}
			fmt.Fprintf(out, "Applications: %d\n", len(summary.Apps))
			fmt.Fprintf(out, "Total: %s\n\n", dashboard.FormatDuration(summary.TotalSeconds))

			for i, row := range summary.Top(top) {
				fmt.Fprintf(out, "%2d. %-30s %s %6s\n",
					i+1, row.App, dashboard.FormatDuration(row.Seconds), dashboard.FormatPercent(row.Percent))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 10, "Number of applications to list (0 for all)")
	return cmd
}
