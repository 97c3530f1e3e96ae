package exports

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/internal/db"
)

const sampleCSV = `Application,Duration (HH:MM:SS),Total Hours,Total Seconds
Terminal,01:00:00,1.00,3600
Firefox,00:30:00,0.50,1800
Slack,00:10:00,0.17,600
TOTAL,01:40:00,1.67,6000
`

const sampleJSON = `{
  "period": "week",
  "applications": [
    {"app_name": "Firefox", "duration": "00:30:00", "total_hours": 0.5, "total_seconds": 1800},
    {"app_name": "Terminal", "duration": "01:00:00", "total_hours": 1.0, "total_seconds": 3600}
  ],
  "total": {"app_name": "TOTAL", "duration": "01:30:00", "total_hours": 1.5, "total_seconds": 5400}
}
`

type fakeDownloader struct {
	body string
	err  error
}

func (f fakeDownloader) Download(ctx context.Context, sel dashboard.Selection, format string, w io.Writer) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := io.Copy(w, strings.NewReader(f.body))
	return n, err
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)

	saved, err := Save(context.Background(), fakeDownloader{body: sampleCSV},
		dashboard.Selection{Period: dashboard.PeriodWeek}, FormatCSV, dir, now)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := filepath.Join(dir, "trackmytime_week_20240305.csv")
	if saved.Path != want {
		t.Errorf("expected %s, got %s", want, saved.Path)
	}
	content, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != sampleCSV || saved.Bytes != int64(len(sampleCSV)) {
		t.Errorf("unexpected file content (%d bytes)", saved.Bytes)
	}
}

func TestSaveLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := Save(context.Background(), fakeDownloader{err: errors.New("connection refused")},
		dashboard.Selection{Period: dashboard.PeriodToday}, FormatJSON, dir, time.Now())
	if err == nil {
		t.Fatal("expected download error")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed export left %d files behind", len(entries))
	}
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	if _, err := Save(context.Background(), fakeDownloader{}, dashboard.Selection{Period: dashboard.PeriodToday}, "xlsx", t.TempDir(), time.Now()); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"export.csv", FormatCSV, false},
		{"EXPORT.JSON", FormatJSON, false},
		{"export.txt", "", true},
		{"export", "", true},
	}

	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := db.QuoteLiteral("/tmp/it's.csv"); got != "'/tmp/it''s.csv'" {
		t.Errorf("unexpected literal %s", got)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectCSV(t *testing.T) {
	database, err := db.GetDB()
	if err != nil {
		t.Skipf("DuckDB not available: %v", err)
	}

	summary, err := Inspect(context.Background(), database, writeFile(t, "week.csv", sampleCSV))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if len(summary.Apps) != 3 {
		t.Fatalf("expected 3 applications without the total row, got %+v", summary.Apps)
	}
	if summary.Apps[0].App != "Terminal" || summary.Apps[0].Seconds != 3600 {
		t.Errorf("unexpected top application %+v", summary.Apps[0])
	}
	if summary.TotalSeconds != 6000 {
		t.Errorf("expected 6000 total seconds, got %d", summary.TotalSeconds)
	}
	if summary.Apps[0].Percent != 60 {
		t.Errorf("expected 60%%, got %v", summary.Apps[0].Percent)
	}
	if top := summary.Top(2); len(top) != 2 || top[1].App != "Firefox" {
		t.Errorf("unexpected top 2: %+v", top)
	}
}

func TestInspectJSON(t *testing.T) {
	database, err := db.GetDB()
	if err != nil {
		t.Skipf("DuckDB not available: %v", err)
	}

	summary, err := Inspect(context.Background(), database, writeFile(t, "week.json", sampleJSON))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if summary.Period != "week" {
		t.Errorf("expected period week, got %q", summary.Period)
	}
	if len(summary.Apps) != 2 || summary.Apps[0].App != "Terminal" {
		t.Errorf("applications should be ordered by duration: %+v", summary.Apps)
	}
	if summary.TotalSeconds != 5400 {
		t.Errorf("expected 5400 total seconds, got %d", summary.TotalSeconds)
	}
}
