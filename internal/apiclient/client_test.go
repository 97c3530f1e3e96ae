package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/strrl/trackdash/internal/dashboard"
)

// fakeAPI serves the tracker endpoints and records the requests it saw
type fakeAPI struct {
	mu       sync.Mutex
	requests []*url.URL
	healthy  bool
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
	record := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			u := *r.URL
			f.requests = append(f.requests, &u)
			f.mu.Unlock()
			next(w, r)
		}
	}

	mux.HandleFunc("/health", record(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		healthy := f.healthy
		f.mu.Unlock()
		if !healthy {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	mux.HandleFunc("/activity/current", record(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"app_name": "Terminal", "window_title": "vim main.go", "current_duration": 42})
	}))
	for _, p := range []string{"today", "week", "month", "custom"} {
		mux.HandleFunc("/stats/"+p, record(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{
				"total_active_seconds": 3661,
				"total_idle_seconds":   120,
				"stats_by_app":         map[string]int64{"Terminal": 2461, "Firefox": 1200},
			})
		}))
	}
	mux.HandleFunc("/api/stats/grouped", record(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"period": r.URL.Query().Get("period"),
			"groups": []map[string]any{
				{"app_name": "Firefox", "total_seconds": 1200, "children": []map[string]any{
					{"name": "GitHub", "duration": 900},
					{"name": "Docs", "duration": 300},
				}},
			},
		})
	}))
	mux.HandleFunc("/api/stats/hourly", record(func(w http.ResponseWriter, r *http.Request) {
		data := make([]int64, 24)
		data[10] = 1800
		writeJSON(w, map[string]any{"timeline_data": data})
	}))
	mux.HandleFunc("/export/aggregated", record(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Application,Duration (HH:MM:SS),Total Hours,Total Seconds\nTerminal,00:41:01,0.68,2461\n"))
	}))
	return mux
}

func (f *fakeAPI) setHealthy(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthy = ok
}

func (f *fakeAPI) last() *url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{healthy: true}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, 2*time.Second, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, api
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New("localhost:8787", time.Second, nil); err == nil {
		t.Error("expected error for URL without scheme")
	}
}

func TestStats(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	stats, err := c.Stats(ctx, dashboard.Selection{Period: dashboard.PeriodWeek})
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalActiveSeconds != 3661 || stats.StatsByApp["Firefox"] != 1200 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if got := api.last(); got.Path != "/stats/week" || got.RawQuery != "" {
		t.Errorf("unexpected request %s", got)
	}

	_, err = c.Stats(ctx, dashboard.Selection{Period: dashboard.PeriodCustom, Start: "2024-01-01", End: "2024-01-07"})
	if err != nil {
		t.Fatal(err)
	}
	got := api.last()
	if got.Path != "/stats/custom" || got.Query().Get("start") != "2024-01-01" || got.Query().Get("end") != "2024-01-07" {
		t.Errorf("unexpected custom request %s", got)
	}
}

func TestGroupedAndHourly(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()
	sel := dashboard.Selection{Period: dashboard.PeriodCustom, Start: "2024-01-01", End: "2024-01-07"}

	grouped, err := c.Grouped(ctx, sel)
	if err != nil {
		t.Fatalf("Grouped failed: %v", err)
	}
	if len(grouped.Groups) != 1 || len(grouped.Groups[0].Children) != 2 {
		t.Errorf("unexpected groups: %+v", grouped)
	}
	q := api.last().Query()
	if q.Get("period") != "custom" || q.Get("start") != "2024-01-01" {
		t.Errorf("unexpected grouped query %v", q)
	}

	hourly, err := c.Hourly(ctx, dashboard.Selection{Period: dashboard.PeriodToday})
	if err != nil {
		t.Fatalf("Hourly failed: %v", err)
	}
	if len(hourly.Series()) != 24 || hourly.Series()[10] != 1800 {
		t.Errorf("unexpected hourly: %+v", hourly)
	}
	if q := api.last().Query(); q.Get("period") != "today" || q.Has("start") {
		t.Errorf("unexpected hourly query %v", q)
	}
}

func TestCurrentActivity(t *testing.T) {
	c, _ := newTestClient(t)
	activity, err := c.CurrentActivity(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if activity.Idle() || activity.AppName != "Terminal" || activity.WindowTitle != "vim main.go" {
		t.Errorf("unexpected activity %+v", activity)
	}
}

func TestExportURL(t *testing.T) {
	c, err := New("http://localhost:8787", time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}

	week := c.ExportURL(dashboard.Selection{Period: dashboard.PeriodWeek}, "csv")
	if !strings.HasPrefix(week, "http://localhost:8787/export/aggregated?") {
		t.Errorf("unexpected export URL %s", week)
	}
	for _, want := range []string{"period=week", "format=csv"} {
		if !strings.Contains(week, want) {
			t.Errorf("export URL %s missing %s", week, want)
		}
	}
	for _, unwanted := range []string{"start=", "end="} {
		if strings.Contains(week, unwanted) {
			t.Errorf("week export URL %s must not contain %s", week, unwanted)
		}
	}

	custom := c.ExportURL(dashboard.Selection{Period: dashboard.PeriodCustom, Start: "2024-01-01", End: "2024-01-07"}, "json")
	for _, want := range []string{"period=custom", "format=json", "start=2024-01-01", "end=2024-01-07"} {
		if !strings.Contains(custom, want) {
			t.Errorf("custom export URL %s missing %s", custom, want)
		}
	}
}

func TestDownload(t *testing.T) {
	c, api := newTestClient(t)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), dashboard.Selection{Period: dashboard.PeriodMonth}, "csv", &buf)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if n != int64(buf.Len()) || !strings.Contains(buf.String(), "Terminal,00:41:01") {
		t.Errorf("unexpected download (%d bytes): %s", n, buf.String())
	}
	if q := api.last().Query(); q.Get("format") != "csv" || q.Get("period") != "month" {
		t.Errorf("unexpected export query %v", q)
	}
	if want := c.ExportURL(dashboard.Selection{Period: dashboard.PeriodMonth}, "csv"); !strings.HasSuffix(want, api.last().String()) {
		t.Errorf("download should request %s, got %s", want, api.last())
	}

	if _, err := c.Download(context.Background(), dashboard.Selection{Period: dashboard.PeriodMonth}, "", &buf); err == nil {
		t.Error("empty format should be rejected")
	}
}

func TestStatusFollowsLastCall(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	if c.Status().Known() {
		t.Error("status should be unknown before any call")
	}

	api.setHealthy(false)
	_, err := c.Health(ctx)
	if err == nil {
		t.Fatal("expected health failure")
	}
	if HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Errorf("expected 503 status error, got %v", err)
	}
	if c.Status().Online() {
		t.Error("failed health check should set offline")
	}
	wentDown := c.Status().Since()
	if wentDown.IsZero() {
		t.Error("status change time should be recorded")
	}

	c.Health(ctx)
	if !c.Status().Since().Equal(wentDown) {
		t.Error("repeated failure should not move the change time")
	}

	if _, err := c.CurrentActivity(ctx); err != nil {
		t.Fatal(err)
	}
	if !c.Status().Online() {
		t.Error("a successful call should set online again")
	}
	if c.Status().LastError() != nil {
		t.Error("last error should clear after success")
	}
	if c.Status().Since().Before(wentDown) {
		t.Error("coming back online should move the change time forward")
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := New(addr, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Stats(context.Background(), dashboard.Selection{Period: dashboard.PeriodToday})
	if !IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
	if c.Status().Online() || !c.Status().Known() {
		t.Error("network failure should set offline")
	}
}

func TestNotFoundIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Grouped(context.Background(), dashboard.Selection{Period: dashboard.PeriodToday})
	if HTTPStatus(err) != http.StatusNotFound || IsNetwork(err) {
		t.Errorf("expected 404 status error, got %v", err)
	}
}

func TestCancelledCallDoesNotFlipStatus(t *testing.T) {
	c, _ := newTestClient(t)
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Stats(ctx, dashboard.Selection{Period: dashboard.PeriodToday}); err == nil {
		t.Fatal("cancelled call should fail")
	}
	if !c.Status().Online() {
		t.Error("cancellation must not mark the API offline")
	}
}
