package exports

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/strrl/trackdash/internal/dashboard"
)

// Export formats accepted by /export/aggregated
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Downloader streams an aggregated export for a selection
type Downloader interface {
	Download(ctx context.Context, sel dashboard.Selection, format string, w io.Writer) (int64, error)
}

// Saved describes an export written to disk
type Saved struct {
	Path   string
	Format string
	Bytes  int64
}

// ValidFormat reports whether format is one the API can export
func ValidFormat(format string) bool {
	return format == FormatCSV || format == FormatJSON
}

// Save downloads the export for sel into dir, named after the period and
// today's date. The file only appears once the download completed.
func Save(ctx context.Context, d Downloader, sel dashboard.Selection, format, dir string, now time.Time) (Saved, error) {
	if !ValidFormat(format) {
		return Saved{}, fmt.Errorf("unsupported export format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Saved{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".trackdash-export-*")
	if err != nil {
		return Saved{}, fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := d.Download(ctx, sel, format, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write export file: %w", cerr)
	}
	if err != nil {
		return Saved{}, err
	}

	path := filepath.Join(dir, dashboard.ExportFilename(sel, format, now))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Saved{}, fmt.Errorf("failed to move export into place: %w", err)
	}

	return Saved{Path: path, Format: format, Bytes: n}, nil
}
