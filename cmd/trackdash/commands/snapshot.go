package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/internal/htmlview"
)

// NewSnapshotCommand creates the snapshot command
func NewSnapshotCommand() *cobra.Command {
	var (
		period periodFlags
		flat   bool
		html   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print one dashboard refresh without the TUI",
		Long: `Run a single refresh cycle and print it as text, or as a standalone
HTML page with --html. Exits non-zero when any fetch failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := period.selection()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, logger, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}

			snap := dashboard.NewRefresher(client, logger).Run(cmd.Context(), dashboard.Request{
				Generation: 1,
				Selection:  sel,
				Grouped:    !flat,
			})

			if output == "" {
				err = writeSnapshot(cmd.OutOrStdout(), snap, html)
			} else {
				err = writeSnapshotFile(output, snap, html)
			}
			if err != nil {
				return err
			}

			if snap.Failed() {
				return fmt.Errorf("%d of 4 fetches failed: %w", len(snap.Errors), snap.Err())
			}
			return nil
		},
	}

	period.bind(cmd)
	cmd.Flags().BoolVar(&flat, "flat", false, "List top applications without grouping")
	cmd.Flags().BoolVar(&html, "html", false, "Render as an HTML page")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func writeSnapshot(w io.Writer, snap dashboard.Snapshot, html bool) error {
	if html {
		return htmlview.Render(w, snap, time.Now())
	}
	printSnapshot(w, snap)
	return nil
}

// writeSnapshotFile writes the snapshot to path; a failed write or close removes the file
func writeSnapshotFile(path string, snap dashboard.Snapshot, html bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := writeSnapshot(f, snap, html); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func printSnapshot(w io.Writer, snap dashboard.Snapshot) {
	labels := dashboard.PeriodLabels(snap.Selection)
	fmt.Fprintf(w, "%s\n", labels.Period)
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(labels.Period))))

	if snap.Stats != nil {
		fmt.Fprintf(w, "%-26s %s\n", labels.TotalTime+":", dashboard.FormatDuration(snap.Stats.TotalActiveSeconds))
		fmt.Fprintf(w, "%-26s %s\n", labels.IdleTime+":", dashboard.FormatDuration(snap.Stats.TotalIdleSeconds))
		fmt.Fprintf(w, "%-26s %d\n", labels.Apps+":", dashboard.AppCount(*snap.Stats))
	}

	fmt.Fprintln(w)
	switch a := snap.Activity; {
	case a == nil:
		fmt.Fprintln(w, "Current activity: unavailable")
	case a.Idle() || a.AppName == "":
		fmt.Fprintln(w, "Current activity: none")
	default:
		fmt.Fprintf(w, "Current activity: %s (%s)\n", a.AppName, dashboard.FormatDuration(a.CurrentDuration))
		if a.WindowTitle != "" {
			fmt.Fprintf(w, "   %s\n", a.WindowTitle)
		}
	}

	if snap.TopApps != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Top applications:")
		if snap.TopApps.Grouped {
			for _, row := range dashboard.GroupRows(snap.TopApps.Groups, nil) {
				fmt.Fprintf(w, "%2d. %-30s %s\n", row.Rank+1, row.Name, row.Duration)
				for _, child := range row.Children {
					fmt.Fprintf(w, "      - %-26s %s %6s\n", child.Name, child.Duration, dashboard.FormatPercent(child.Percent))
				}
			}
		} else {
			for _, e := range dashboard.FlatEntries(snap.TopApps.Flat) {
				fmt.Fprintf(w, "%2d. %-30s %s %6s\n", e.Rank+1, e.Name, e.Duration, dashboard.FormatPercent(e.Percent))
			}
		}
	}

	if snap.Hourly != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Busiest hours:")
		busiest := topBars(dashboard.HourlyBars(*snap.Hourly), 3)
		if len(busiest) == 0 {
			fmt.Fprintln(w, "   none")
		}
		for _, bar := range busiest {
			fmt.Fprintf(w, "   %s  %d min\n", bar.Label, bar.Minutes)
		}
	}

	for _, e := range snap.Errors {
		fmt.Fprintf(w, "\nfailed: %v", e)
	}
	if snap.Failed() {
		fmt.Fprintln(w)
	}
}

// topBars returns the n busiest non-empty buckets, busiest first
func topBars(bars []dashboard.Bar, n int) []dashboard.Bar {
	var out []dashboard.Bar
	for _, b := range bars {
		if b.Minutes > 0 {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minutes > out[j].Minutes
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
