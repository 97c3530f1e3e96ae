package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSchedulerStarted is returned by Start on a scheduler that is already running or stopped
var ErrSchedulerStarted = errors.New("scheduler already started")

// Scheduler owns the two repeating timers of the dashboard: the refresh
// cycle and the cosmetic countdown. They fire independently with no ordering
// between them; Stop cancels both and waits for their goroutines.
type Scheduler struct {
	refreshEvery   time.Duration
	countdownEvery time.Duration

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler; nothing runs until Start
func NewScheduler(refreshEvery, countdownEvery time.Duration) *Scheduler {
	return &Scheduler{
		refreshEvery:   refreshEvery,
		countdownEvery: countdownEvery,
	}
}

// Start launches both timers. The callbacks run on the timer goroutines and
// must hand work back to the owner of the UI state rather than touch it.
func (s *Scheduler) Start(ctx context.Context, onRefresh, onCountdown func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrSchedulerStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.run(ctx, s.refreshEvery, onRefresh)
	s.run(ctx, s.countdownEvery, onCountdown)
	return nil
}

func (s *Scheduler) run(ctx context.Context, every time.Duration, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// Stop cancels both timers and waits until no callback can fire anymore.
// It is safe to call more than once and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.started = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
