package dashboard

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders seconds as HH:MM:SS; hours are not wrapped at 24
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// Percent returns part/total*100 rounded to one decimal, or 0 when total is not positive
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// FormatPercent renders a percentage with one decimal place
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// ExportFilename is the local name of an export download, e.g. trackmytime_week_20240107.csv
func ExportFilename(sel Selection, format string, now time.Time) string {
	return fmt.Sprintf("trackmytime_%s_%s.%s", sel.Period, now.Format("20060102"), format)
}
