package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strrl/trackdash/internal/exports"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var (
		period periodFlags
		format string
		dir    string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the aggregated export for a period",
		Long: `Download /export/aggregated from the tracker as CSV or JSON.
The file is named trackmytime_<period>_<YYYYMMDD>.<format> and written to
the export directory, or streamed to stdout with --stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !exports.ValidFormat(format) {
				return fmt.Errorf("unsupported format %q: use csv or json", format)
			}
			sel, err := period.selection()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, _, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}

			if stdout {
				_, err := client.Download(cmd.Context(), sel, format, cmd.OutOrStdout())
				return err
			}

			if dir == "" {
				dir = cfg.Export.Dir
			}
			saved, err := exports.Save(cmd.Context(), client, sel, format, dir, time.Now())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", saved.Path, saved.Bytes)
			return nil
		},
	}

	period.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", exports.FormatCSV, "Export format: csv or json")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write to (default from config)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the export to stdout")
	return cmd
}
