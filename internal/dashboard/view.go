package dashboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/strrl/trackdash/pkg/models"
)

// MaxDonutSlices caps the application-share chart
const MaxDonutSlices = 8

// Badge is the visual rank indicator of a list entry
type Badge int

const (
	BadgeGold Badge = iota
	BadgeSilver
	BadgeBronze
	BadgePlain
)

// RankBadge returns the badge for a 0-based rank: the podium gets distinct badges, everyone else is plain
func RankBadge(index int) Badge {
	switch index {
	case 0:
		return BadgeGold
	case 1:
		return BadgeSilver
	case 2:
		return BadgeBronze
	default:
		return BadgePlain
	}
}

// AppShare is one application's duration and its share of a total
type AppShare struct {
	Name     string
	Seconds  int64
	Duration string
	Percent  float64
}

// FlatEntry is one row of the flat top-apps list
type FlatEntry struct {
	AppShare
	Rank  int
	Badge Badge
}

// ChildRow is one activity inside an expanded group
type ChildRow = AppShare

// GroupRow is one application of the grouped top-apps list
type GroupRow struct {
	Rank          int
	Badge         Badge
	Name          string
	Seconds       int64
	Duration      string
	ActivityCount int
	Expandable    bool
	Open          bool
	Children      []ChildRow
}

// Bar is one bucket of the hourly timeline
type Bar struct {
	Label   string
	Minutes int
}

// sortedApps orders a per-app mapping by seconds descending, ties by name
func sortedApps(stats map[string]int64) []AppShare {
	apps := make([]AppShare, 0, len(stats))
	for name, seconds := range stats {
		apps = append(apps, AppShare{Name: name, Seconds: seconds})
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Seconds != apps[j].Seconds {
			return apps[i].Seconds > apps[j].Seconds
		}
		return apps[i].Name < apps[j].Name
	})
	return apps
}

func sumSeconds(apps []AppShare) int64 {
	var total int64
	for _, a := range apps {
		total += a.Seconds
	}
	return total
}

// FlatEntries ranks applications by duration with their share of the grand total
func FlatEntries(stats map[string]int64) []FlatEntry {
	apps := sortedApps(stats)
	total := sumSeconds(apps)

	entries := make([]FlatEntry, len(apps))
	for i, app := range apps {
		app.Duration = FormatDuration(app.Seconds)
		app.Percent = Percent(app.Seconds, total)
		entries[i] = FlatEntry{AppShare: app, Rank: i, Badge: RankBadge(i)}
	}
	return entries
}

// Expandable reports whether a group hides more than its own name:
// several children, or a single child named differently from the group.
func Expandable(g models.AppGroup) bool {
	switch len(g.Children) {
	case 0:
		return false
	case 1:
		return g.Children[0].Name != g.AppName
	default:
		return true
	}
}

// GroupRows builds the grouped list in the order the API ranked it.
// Expansion comes from the state's open-group set, keyed by rank.
func GroupRows(groups []models.AppGroup, st *State) []GroupRow {
	rows := make([]GroupRow, len(groups))
	for i, g := range groups {
		expandable := Expandable(g)
		row := GroupRow{
			Rank:          i,
			Badge:         RankBadge(i),
			Name:          g.AppName,
			Seconds:       g.TotalSeconds,
			Duration:      FormatDuration(g.TotalSeconds),
			ActivityCount: len(g.Children),
			Expandable:    expandable,
			Open:          expandable && st != nil && st.IsOpen(i),
		}
		if expandable {
			row.Children = make([]ChildRow, len(g.Children))
			for j, c := range g.Children {
				row.Children[j] = ChildRow{
					Name:     c.Name,
					Seconds:  c.Duration,
					Duration: FormatDuration(c.Duration),
					Percent:  Percent(c.Duration, g.TotalSeconds),
				}
			}
		}
		rows[i] = row
	}
	return rows
}

// DonutSlices returns the top applications by duration, at most MaxDonutSlices,
// with each share computed against the slices shown
func DonutSlices(stats map[string]int64) []AppShare {
	apps := sortedApps(stats)
	if len(apps) > MaxDonutSlices {
		apps = apps[:MaxDonutSlices]
	}
	total := sumSeconds(apps)
	for i := range apps {
		apps[i].Duration = FormatDuration(apps[i].Seconds)
		apps[i].Percent = Percent(apps[i].Seconds, total)
	}
	return apps
}

// HourLabel is the default caption of hour bucket i
func HourLabel(i int) string {
	return fmt.Sprintf("%02d:00", i)
}

// HourlyBars converts timeline seconds into whole active minutes per bucket.
// An empty timeline yields 24 zero buckets; missing labels default to HH:00.
func HourlyBars(h models.HourlyStats) []Bar {
	series := h.Series()
	if len(series) == 0 {
		series = make([]int64, 24)
	}

	useLabels := len(h.Labels) == len(series)
	bars := make([]Bar, len(series))
	for i, seconds := range series {
		label := HourLabel(i)
		if useLabels {
			label = h.Labels[i]
		}
		bars[i] = Bar{
			Label:   label,
			Minutes: int(math.Round(float64(seconds) / 60)),
		}
	}
	return bars
}

// AppCount is the number of distinct applications in a stats response
func AppCount(s models.Stats) int {
	return len(s.StatsByApp)
}
