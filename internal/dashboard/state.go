package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingRange is returned when a custom period lacks a start or end date
	ErrMissingRange = errors.New("please select a start and an end date")
	// ErrInvalidRange is returned when the end date precedes the start date
	ErrInvalidRange = errors.New("end date must not be before start date")
)

// State is the UI state shared by the controller and the render functions.
// It is owned by a single goroutine; render functions only read it.
type State struct {
	selection  Selection
	grouped    bool
	open       map[int]struct{}
	generation uint64 // last cycle issued
	applied    uint64 // last cycle rendered
	paramsFrom uint64 // first cycle issued with the current period and view
}

// NewState returns the initial state: today, with the given view mode
func NewState(grouped bool) *State {
	return &State{
		selection: Selection{Period: PeriodToday},
		grouped:   grouped,
		open:      make(map[int]struct{}),
	}
}

// Selection returns the active period selection
func (s *State) Selection() Selection {
	return s.selection
}

// Grouped reports whether top apps are grouped by application
func (s *State) Grouped() bool {
	return s.grouped
}

// SetPeriod switches to a preset period. Switching to custom reuses the
// last applied range and fails with ErrMissingRange when none was applied.
func (s *State) SetPeriod(p Period) error {
	if _, err := ParsePeriod(string(p)); err != nil {
		return err
	}

	if p == PeriodCustom {
		if s.selection.Start == "" || s.selection.End == "" {
			return ErrMissingRange
		}
	}

	s.selection.Period = p
	s.paramsChanged()
	return nil
}

// ApplyCustom validates a custom date range and selects it
func (s *State) ApplyCustom(start, end string) error {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	if start == "" || end == "" {
		return ErrMissingRange
	}

	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return fmt.Errorf("invalid start date %q (YYYY-MM-DD)", start)
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return fmt.Errorf("invalid end date %q (YYYY-MM-DD)", end)
	}
	if endDate.Before(startDate) {
		return ErrInvalidRange
	}

	s.selection = Selection{Period: PeriodCustom, Start: start, End: end}
	s.paramsChanged()
	return nil
}

// ToggleView flips between grouped and flat rendering and returns the new mode
func (s *State) ToggleView() bool {
	s.grouped = !s.grouped
	s.paramsChanged()
	return s.grouped
}

// ToggleGroup flips the expansion of the group at rank index i and returns the new state
func (s *State) ToggleGroup(i int) bool {
	if _, ok := s.open[i]; ok {
		delete(s.open, i)
		return false
	}
	s.open[i] = struct{}{}
	return true
}

// IsOpen reports whether the group at rank index i is expanded
func (s *State) IsOpen(i int) bool {
	_, ok := s.open[i]
	return ok
}

// NextGeneration starts a new refresh cycle and returns its id
func (s *State) NextGeneration() uint64 {
	s.generation++
	return s.generation
}

// Generation returns the id of the most recently started cycle
func (s *State) Generation() uint64 {
	return s.generation
}

// Accept decides whether the snapshot of cycle gen may be rendered and, if so,
// marks it applied. Cycles issued before the last period or view change, and
// cycles older than one already rendered, are stale.
func (s *State) Accept(gen uint64) bool {
	if gen < s.paramsFrom || gen <= s.applied {
		return false
	}
	s.applied = gen
	return true
}

func (s *State) paramsChanged() {
	s.paramsFrom = s.generation + 1
}

// DefaultCustomRange returns the range a fresh custom form is prefilled with: the last 7 days
func DefaultCustomRange(now time.Time) (start, end string) {
	return now.AddDate(0, 0, -7).Format(DateLayout), now.Format(DateLayout)
}
