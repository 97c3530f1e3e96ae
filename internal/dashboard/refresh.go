package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/strrl/trackdash/internal/logging"
	"github.com/strrl/trackdash/pkg/models"
)

// Fetch names used in snapshots and logs
const (
	FetchActivity = "activity"
	FetchStats    = "stats"
	FetchHourly   = "hourly"
	FetchTopApps  = "top_apps"
)

// Source is the tracker API as seen by a refresh cycle
type Source interface {
	CurrentActivity(ctx context.Context) (models.CurrentActivity, error)
	Stats(ctx context.Context, sel Selection) (models.Stats, error)
	Grouped(ctx context.Context, sel Selection) (models.GroupedStats, error)
	Hourly(ctx context.Context, sel Selection) (models.HourlyStats, error)
}

// Request describes one refresh cycle; it is a copy of the state taken when the cycle starts
type Request struct {
	Generation uint64
	Selection  Selection
	Grouped    bool
}

// TopApps is the top-apps payload in whichever view mode was requested
type TopApps struct {
	Grouped bool
	Groups  []models.AppGroup
	Flat    map[string]int64
}

// FetchError records one failed fetch of a cycle
type FetchError struct {
	Fetch string
	Err   error
}

func (e FetchError) Error() string {
	return e.Fetch + ": " + e.Err.Error()
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// Snapshot is everything one refresh cycle managed to fetch.
// A nil field means that fetch failed and the previous value should stay on screen.
type Snapshot struct {
	Request
	RequestID string
	Activity  *models.CurrentActivity
	Stats     *models.Stats
	Hourly    *models.HourlyStats
	TopApps   *TopApps
	Errors    []FetchError
	StartedAt time.Time
	Elapsed   time.Duration
}

// Failed reports whether any fetch of the cycle failed
func (s Snapshot) Failed() bool {
	return len(s.Errors) > 0
}

// Err joins the cycle's fetch errors, or returns nil
func (s Snapshot) Err() error {
	if len(s.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(s.Errors))
	for i, e := range s.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Refresher runs refresh cycles against a Source
type Refresher struct {
	source Source
	logger *log.Logger
}

// NewRefresher creates a refresher
func NewRefresher(source Source, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Refresher{source: source, logger: logger}
}

// Run fetches current activity, stats (with the hourly timeline) and top apps
// concurrently. A failing fetch is logged and recorded; it never blocks the others.
func (r *Refresher) Run(ctx context.Context, req Request) Snapshot {
	snap := Snapshot{
		Request:   req,
		RequestID: uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := r.logger.With("request_id", snap.RequestID, "generation", req.Generation, "period", req.Selection.Period)
	logger.Debug("refresh started", "grouped", req.Grouped)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	fail := func(fetch string, err error) error {
		logger.Warn("fetch failed", "fetch", fetch, "err", err)
		mu.Lock()
		snap.Errors = append(snap.Errors, FetchError{Fetch: fetch, Err: err})
		mu.Unlock()
		return err
	}

	g.Go(func() error {
		activity, err := r.source.CurrentActivity(ctx)
		if err != nil {
			return fail(FetchActivity, err)
		}
		mu.Lock()
		snap.Activity = &activity
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		stats, err := r.source.Stats(ctx, req.Selection)
		if err != nil {
			return fail(FetchStats, err)
		}
		mu.Lock()
		snap.Stats = &stats
		mu.Unlock()

		// The timeline follows the stats so both charts describe the same moment
		hourly, err := r.source.Hourly(ctx, req.Selection)
		if err != nil {
			return fail(FetchHourly, err)
		}
		mu.Lock()
		snap.Hourly = &hourly
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		top, err := r.fetchTopApps(ctx, req)
		if err != nil {
			return fail(FetchTopApps, err)
		}
		mu.Lock()
		snap.TopApps = top
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		sort.Slice(snap.Errors, func(i, j int) bool {
			return snap.Errors[i].Fetch < snap.Errors[j].Fetch
		})
	}

	snap.Elapsed = time.Since(snap.StartedAt)
	logger.Debug("refresh finished", "elapsed", snap.Elapsed, "failures", len(snap.Errors))
	return snap
}

func (r *Refresher) fetchTopApps(ctx context.Context, req Request) (*TopApps, error) {
	if req.Grouped {
		grouped, err := r.source.Grouped(ctx, req.Selection)
		if err != nil {
			return nil, err
		}
		return &TopApps{Grouped: true, Groups: grouped.Groups}, nil
	}

	stats, err := r.source.Stats(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	return &TopApps{Grouped: false, Flat: stats.StatsByApp}, nil
}
