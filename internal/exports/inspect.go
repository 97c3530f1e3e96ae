package exports

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/internal/db"
)

// totalRow is the label of the summary row the API appends to exports
const totalRow = "TOTAL"

// AppRow is one application of an inspected export
type AppRow struct {
	App     string
	Seconds int64
	Percent float64
}

// Summary is what inspect reports about a downloaded export
type Summary struct {
	Path         string
	Format       string
	Period       string
	Apps         []AppRow
	TotalSeconds int64
}

// DetectFormat infers the export format from the file extension
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("cannot tell the format of %s: expected .csv or .json", path)
	}
}

// csvQuery reads the aggregated CSV export:
// Application,Duration (HH:MM:SS),Total Hours,Total Seconds
func csvQuery(path string) string {
	return fmt.Sprintf(`
		SELECT
			CAST("Application" AS VARCHAR) AS app,
			CAST("Total Seconds" AS BIGINT) AS seconds
		FROM read_csv_auto(%s, header = true)
		WHERE "Application" IS NOT NULL AND "Application" <> '%s'
		ORDER BY seconds DESC, app
	`, db.QuoteLiteral(path), totalRow)
}

// jsonQuery reads the aggregated JSON export:
// {"period": ..., "applications": [{app_name, duration, total_hours, total_seconds}], "total": {...}}
func jsonQuery(path string) string {
	return fmt.Sprintf(`
		SELECT
			CAST(struct_extract(a, 'app_name') AS VARCHAR) AS app,
			CAST(struct_extract(a, 'total_seconds') AS BIGINT) AS seconds
		FROM (
			SELECT unnest(applications) AS a
			FROM read_json_auto(%s)
		)
		ORDER BY seconds DESC, app
	`, db.QuoteLiteral(path))
}

func jsonPeriodQuery(path string) string {
	return fmt.Sprintf(`SELECT CAST(period AS VARCHAR) FROM read_json_auto(%s) LIMIT 1`, db.QuoteLiteral(path))
}

// Inspect summarizes a downloaded export with DuckDB
func Inspect(ctx context.Context, database *sql.DB, path string) (Summary, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Summary{}, err
	}

	query := csvQuery(path)
	if format == FormatJSON {
		query = jsonQuery(path)
	}

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read %s export: %w", format, err)
	}
	defer rows.Close()

	summary := Summary{Path: path, Format: format}
	for rows.Next() {
		var row AppRow
		var seconds sql.NullInt64
		if err := rows.Scan(&row.App, &seconds); err != nil {
			return Summary{}, fmt.Errorf("failed to scan export row: %w", err)
		}
		row.Seconds = seconds.Int64
		summary.Apps = append(summary.Apps, row)
		summary.TotalSeconds += row.Seconds
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("failed to read export rows: %w", err)
	}

	for i := range summary.Apps {
		summary.Apps[i].Percent = dashboard.Percent(summary.Apps[i].Seconds, summary.TotalSeconds)
	}

	if format == FormatJSON {
		var period sql.NullString
		if err := database.QueryRowContext(ctx, jsonPeriodQuery(path)).Scan(&period); err == nil {
			summary.Period = period.String
		}
	}

	return summary, nil
}

// Top returns at most n applications of the summary
func (s Summary) Top(n int) []AppRow {
	if n <= 0 || n >= len(s.Apps) {
		return s.Apps
	}
	return s.Apps[:n]
}
