package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/pkg/models"
)

// Client talks to the tracker API at a fixed origin. All calls are GETs and
// none are retried: the next refresh tick is the retry.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *log.Logger
	status *StatusTracker
}

// New creates a client for the API at baseURL
func New(baseURL string, timeout time.Duration, logger *log.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid API base URL %q", baseURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("API base URL must be absolute, got %q", baseURL)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
		status: &StatusTracker{},
	}, nil
}

// Status returns the online/offline tracker fed by every call
func (c *Client) Status() *StatusTracker {
	return c.status
}

// BaseURL returns the API origin
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	return c.open(ctx, path, c.endpoint(path, query))
}

// open performs a GET of endpoint and returns the open body of a 2xx response.
// Failures are logged and recorded on the status tracker before being returned.
func (c *Client) open(ctx context.Context, path, endpoint string) (io.ReadCloser, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail(ctx, path, errors.Wrapf(err, "build request for %s", path))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(ctx, path, errors.Wrapf(ErrNetwork, "GET %s: %v", path, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, c.fail(ctx, path, &StatusError{Endpoint: path, Code: resp.StatusCode})
	}

	c.logger.Debug("api call", "endpoint", path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp.Body, nil
}

func (c *Client) fail(ctx context.Context, path string, err error) error {
	// a cancelled caller is shutting down, not evidence that the API is offline
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), path)
	}
	c.logger.Error("api call failed", "endpoint", path, "err", err)
	c.status.Record(err)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return c.fail(ctx, path, errors.Wrapf(err, "decode %s", path))
	}
	c.status.Record(nil)
	return nil
}

// Health probes the API; any 2xx is healthy
func (c *Client) Health(ctx context.Context) (models.Health, error) {
	body, err := c.get(ctx, "/health", nil)
	if err != nil {
		return models.Health{}, err
	}
	defer body.Close()

	var health models.Health
	if err := json.NewDecoder(body).Decode(&health); err != nil {
		health.Status = "ok"
	}
	c.status.Record(nil)
	return health, nil
}

// CurrentActivity returns the foreground window the tracker is timing
func (c *Client) CurrentActivity(ctx context.Context) (models.CurrentActivity, error) {
	var activity models.CurrentActivity
	err := c.getJSON(ctx, "/activity/current", nil, &activity)
	return activity, err
}

// StatsPath returns the stats endpoint for a selection: /stats/{period}
func StatsPath(sel dashboard.Selection) string {
	return "/stats/" + string(sel.Period)
}

// Stats returns the totals and per-application seconds for a period
func (c *Client) Stats(ctx context.Context, sel dashboard.Selection) (models.Stats, error) {
	var stats models.Stats
	err := c.getJSON(ctx, StatsPath(sel), sel.RangeQuery(), &stats)
	if stats.StatsByApp == nil {
		stats.StatsByApp = map[string]int64{}
	}
	return stats, err
}

// Grouped returns the ranked application groups with their child activities
func (c *Client) Grouped(ctx context.Context, sel dashboard.Selection) (models.GroupedStats, error) {
	var grouped models.GroupedStats
	err := c.getJSON(ctx, "/api/stats/grouped", sel.Query(), &grouped)
	return grouped, err
}

// Hourly returns the activity timeline
func (c *Client) Hourly(ctx context.Context, sel dashboard.Selection) (models.HourlyStats, error) {
	var hourly models.HourlyStats
	err := c.getJSON(ctx, "/api/stats/hourly", sel.Query(), &hourly)
	return hourly, err
}

const exportPath = "/export/aggregated"

func exportQuery(sel dashboard.Selection, format string) url.Values {
	q := sel.Query()
	q.Set("format", format)
	return q
}

// ExportURL is the download URL of the aggregated export for a selection
func (c *Client) ExportURL(sel dashboard.Selection, format string) string {
	return c.endpoint(exportPath, exportQuery(sel, format))
}

// Download streams the aggregated export into w. The content is not inspected.
func (c *Client) Download(ctx context.Context, sel dashboard.Selection, format string, w io.Writer) (int64, error) {
	if format == "" {
		return 0, fmt.Errorf("export format is required")
	}

	exportURL := c.ExportURL(sel, format)
	body, err := c.open(ctx, exportPath, exportURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, c.fail(ctx, exportPath, errors.Wrapf(ErrNetwork, "download interrupted: %v", err))
	}
	c.status.Record(nil)
	c.logger.Info("export downloaded", "url", exportURL, "bytes", n)
	return n, nil
}
