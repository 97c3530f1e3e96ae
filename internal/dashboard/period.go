package dashboard

import (
	"fmt"
	"net/url"
)

// Period is the date range selector driving which API variant is queried
type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

// DateLayout is the wire format of custom range bounds
const DateLayout = "2006-01-02"

// Periods lists the selectable periods in tab order
var Periods = []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodCustom}

// ParsePeriod converts a user-supplied string into a Period
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid period %q (today, week, month, custom)", s)
}

// Selection is a period plus, for custom, its inclusive start/end dates
type Selection struct {
	Period Period
	Start  string
	End    string
}

// IsCustom reports whether the selection carries a date range
func (s Selection) IsCustom() bool {
	return s.Period == PeriodCustom
}

// Query returns the period query parameters used by the grouped, hourly and export endpoints
func (s Selection) Query() url.Values {
	q := url.Values{}
	q.Set("period", string(s.Period))
	if s.IsCustom() {
		q.Set("start", s.Start)
		q.Set("end", s.End)
	}
	return q
}

// RangeQuery returns only start/end, or nil for non-custom periods
func (s Selection) RangeQuery() url.Values {
	if !s.IsCustom() {
		return nil
	}
	return url.Values{"start": {s.Start}, "end": {s.End}}
}

// Labels are the period-dependent captions of the stats cards
type Labels struct {
	Period    string
	TotalTime string
	IdleTime  string
	Apps      string
}

// PeriodLabels returns the captions for the given selection
func PeriodLabels(s Selection) Labels {
	labels := Labels{
		IdleTime: "Idle time",
		Apps:     "Applications",
	}

	switch s.Period {
	case PeriodWeek:
		labels.Period = "This week"
		labels.TotalTime = "Total time this week"
	case PeriodMonth:
		labels.Period = "This month"
		labels.TotalTime = "Total time this month"
	case PeriodCustom:
		labels.Period = fmt.Sprintf("%s → %s", s.Start, s.End)
		labels.TotalTime = "Total time for the period"
	default:
		labels.Period = "Today"
		labels.TotalTime = "Total time today"
	}

	return labels
}
