package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	for _, p := range Periods {
		got, err := ParsePeriod(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePeriod(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePeriod("year"); err == nil {
		t.Error("unknown period should fail")
	}
}

func TestSelectionQuery(t *testing.T) {
	week := Selection{Period: PeriodWeek}
	q := week.Query()
	if q.Get("period") != "week" || q.Has("start") || q.Has("end") {
		t.Errorf("unexpected week query: %v", q)
	}
	if week.RangeQuery() != nil {
		t.Error("preset periods have no range query")
	}

	custom := Selection{Period: PeriodCustom, Start: "2024-01-01", End: "2024-01-07"}
	q = custom.Query()
	if q.Get("period") != "custom" || q.Get("start") != "2024-01-01" || q.Get("end") != "2024-01-07" {
		t.Errorf("unexpected custom query: %v", q)
	}
}

func TestPeriodLabels(t *testing.T) {
	if l := PeriodLabels(Selection{Period: PeriodToday}); l.Period != "Today" || l.TotalTime != "Total time today" {
		t.Errorf("unexpected today labels: %+v", l)
	}
	if l := PeriodLabels(Selection{Period: PeriodMonth}); l.Period != "This month" {
		t.Errorf("unexpected month labels: %+v", l)
	}
	l := PeriodLabels(Selection{Period: PeriodCustom, Start: "2024-01-01", End: "2024-01-07"})
	if l.Period != "2024-01-01 → 2024-01-07" {
		t.Errorf("unexpected custom label %q", l.Period)
	}
	if l.Apps != "Applications" || l.IdleTime != "Idle time" {
		t.Errorf("static labels changed: %+v", l)
	}
}

func TestStateDefaults(t *testing.T) {
	st := NewState(true)
	if st.Selection().Period != PeriodToday {
		t.Errorf("initial period = %s", st.Selection().Period)
	}
	if !st.Grouped() {
		t.Error("state should honour the initial view mode")
	}
	if st.ToggleView() {
		t.Error("first toggle should switch to flat")
	}
}

func TestApplyCustomRequiresBothDates(t *testing.T) {
	st := NewState(true)

	for _, tt := range []struct{ start, end string }{
		{"", ""},
		{"2024-01-01", ""},
		{"", "2024-01-07"},
		{"  ", "2024-01-07"},
	} {
		if err := st.ApplyCustom(tt.start, tt.end); !errors.Is(err, ErrMissingRange) {
			t.Errorf("ApplyCustom(%q, %q) = %v, want ErrMissingRange", tt.start, tt.end, err)
		}
	}
	if st.Selection().Period != PeriodToday {
		t.Error("rejected range must not change the selection")
	}

	if err := st.ApplyCustom("2024-13-01", "2024-01-07"); err == nil || !strings.Contains(err.Error(), "start") {
		t.Errorf("malformed start should fail, got %v", err)
	}
	if err := st.ApplyCustom("2024-01-07", "2024-01-01"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range should fail, got %v", err)
	}

	if err := st.ApplyCustom("2024-01-01", "2024-01-07"); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
	sel := st.Selection()
	if sel.Period != PeriodCustom || sel.Start != "2024-01-01" || sel.End != "2024-01-07" {
		t.Errorf("unexpected selection %+v", sel)
	}
}

func TestSetPeriodCustomNeedsRange(t *testing.T) {
	st := NewState(true)
	if err := st.SetPeriod(PeriodCustom); !errors.Is(err, ErrMissingRange) {
		t.Errorf("custom without range should fail, got %v", err)
	}
	if err := st.SetPeriod(PeriodWeek); err != nil {
		t.Fatal(err)
	}

	if err := st.ApplyCustom("2024-01-01", "2024-01-07"); err != nil {
		t.Fatal(err)
	}
	if err := st.SetPeriod(PeriodMonth); err != nil {
		t.Fatal(err)
	}
	// the last applied range is remembered
	if err := st.SetPeriod(PeriodCustom); err != nil {
		t.Errorf("custom with a remembered range should succeed: %v", err)
	}
	if err := st.SetPeriod(Period("year")); err == nil {
		t.Error("unknown period should fail")
	}
}

func TestAcceptDiscardsStaleCycles(t *testing.T) {
	st := NewState(true)

	first := st.NextGeneration()
	second := st.NextGeneration()

	if !st.Accept(second) {
		t.Error("newest cycle should be accepted")
	}
	if st.Accept(first) {
		t.Error("a cycle older than the rendered one is stale")
	}
	if st.Accept(second) {
		t.Error("the same cycle must not be applied twice")
	}
}

func TestAcceptAllowsOverlappingTimerCycles(t *testing.T) {
	st := NewState(true)

	// a slow API: the next timer cycle starts before the first returns
	first := st.NextGeneration()
	second := st.NextGeneration()

	if !st.Accept(first) {
		t.Error("an older cycle with current parameters should still render")
	}
	if !st.Accept(second) {
		t.Error("the newer cycle should render after it")
	}
}

func TestAcceptDiscardsCyclesFromPreviousPeriod(t *testing.T) {
	st := NewState(true)

	beforeChange := st.NextGeneration()
	if err := st.SetPeriod(PeriodWeek); err != nil {
		t.Fatal(err)
	}
	afterChange := st.NextGeneration()

	if st.Accept(beforeChange) {
		t.Error("a today response arriving after switching to week must be discarded")
	}
	if !st.Accept(afterChange) {
		t.Error("the week response should render")
	}

	inFlight := st.NextGeneration()
	st.ToggleView()
	if st.Accept(inFlight) {
		t.Error("a response issued before a view toggle must be discarded")
	}
}

func TestDefaultCustomRange(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	start, end := DefaultCustomRange(now)
	if start != "2024-02-27" || end != "2024-03-05" {
		t.Errorf("DefaultCustomRange = %s, %s", start, end)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 1, 7, 9, 30, 0, 0, time.UTC)
	got := ExportFilename(Selection{Period: PeriodWeek}, "csv", now)
	if got != "trackmytime_week_20240107.csv" {
		t.Errorf("ExportFilename = %s", got)
	}
}

func TestCountdown(t *testing.T) {
	c := NewCountdown(5)
	if c.Value() != 5 {
		t.Errorf("initial value = %d", c.Value())
	}

	var got []int
	for i := 0; i < 11; i++ {
		got = append(got, c.Tick())
	}
	want := []int{4, 3, 2, 1, 0, 4, 3, 2, 1, 0, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("countdown sequence = %v, want %v", got, want)
		}
	}
	if c.Value() != 4 {
		t.Errorf("Value() should return the last displayed value, got %d", c.Value())
	}
}
