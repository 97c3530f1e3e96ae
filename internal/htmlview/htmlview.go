// Package htmlview renders one refresh snapshot as a standalone HTML page.
// Application names and window titles come from arbitrary windows, so every
// value goes through html/template's contextual escaping.
package htmlview

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/pkg/models"
)

// Card is one stats card
type Card struct {
	Label string
	Value string
}

// Bar is one timeline bucket with its height relative to the peak
type Bar struct {
	Label   string
	Minutes int
	Height  float64
}

// Page is the template input
type Page struct {
	Title       string
	Period      string
	GeneratedAt string
	Cards       []Card
	Activity    *models.CurrentActivity
	Grouped     bool
	Groups      []dashboard.GroupRow
	Flat        []dashboard.FlatEntry
	Bars        []Bar
	Shares      []dashboard.AppShare
	Errors      []string
}

var funcs = template.FuncMap{
	"duration": dashboard.FormatDuration,
	"percent":  dashboard.FormatPercent,
	"inc":      func(i int) int { return i + 1 },
	"badge": func(b dashboard.Badge) string {
		switch b {
		case dashboard.BadgeGold:
			return "gold"
		case dashboard.BadgeSilver:
			return "silver"
		case dashboard.BadgeBronze:
			return "bronze"
		default:
			return "plain"
		}
	},
}

var page = template.Must(template.New("snapshot").Funcs(funcs).Parse(pageTemplate))

// NewPage builds the template input from a snapshot. Groups are rendered expanded.
func NewPage(snap dashboard.Snapshot, now time.Time) Page {
	labels := dashboard.PeriodLabels(snap.Selection)
	p := Page{
		Title:       "TrackMyTime · " + labels.Period,
		Period:      labels.Period,
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
		Activity:    snap.Activity,
	}

	if snap.Stats != nil {
		p.Cards = []Card{
			{Label: labels.TotalTime, Value: dashboard.FormatDuration(snap.Stats.TotalActiveSeconds)},
			{Label: labels.IdleTime, Value: dashboard.FormatDuration(snap.Stats.TotalIdleSeconds)},
			{Label: labels.Apps, Value: fmt.Sprintf("%d", dashboard.AppCount(*snap.Stats))},
		}
		p.Shares = dashboard.DonutSlices(snap.Stats.StatsByApp)
	}

	if snap.TopApps != nil {
		p.Grouped = snap.TopApps.Grouped
		if p.Grouped {
			p.Groups = dashboard.GroupRows(snap.TopApps.Groups, nil)
		} else {
			p.Flat = dashboard.FlatEntries(snap.TopApps.Flat)
		}
	}

	if snap.Hourly != nil {
		bars := dashboard.HourlyBars(*snap.Hourly)
		peak := 0
		for _, b := range bars {
			peak = max(peak, b.Minutes)
		}
		for _, b := range bars {
			var height float64
			if peak > 0 {
				height = float64(b.Minutes) / float64(peak) * 100
			}
			p.Bars = append(p.Bars, Bar{Label: b.Label, Minutes: b.Minutes, Height: height})
		}
	}

	for _, e := range snap.Errors {
		p.Errors = append(p.Errors, e.Error())
	}
	return p
}

// Render writes the snapshot as an HTML document
func Render(w io.Writer, snap dashboard.Snapshot, now time.Time) error {
	if err := page.Execute(w, NewPage(snap, now)); err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #222; }
.cards { display: flex; gap: 1rem; }
.card { border: 1px solid #5f5fd7; border-radius: 8px; padding: .5rem 1.5rem; }
.card .value { font-size: 1.5rem; font-weight: bold; color: #d75f87; }
.badge { display: inline-block; min-width: 1.6rem; text-align: center; border-radius: 4px; }
.gold { background: #ffd700; } .silver { background: #c0c0c0; } .bronze { background: #cd7f32; }
.timeline { display: flex; align-items: flex-end; height: 120px; gap: 2px; }
.timeline div { flex: 1; background: #5f5fd7; }
.share-cell { width: 200px; }
.share { background: #5faf5f; height: .6rem; }
.errors { color: #d70000; }
</style>
</head>
<body>
<h1>{{.Period}}</h1>
<p>Generated {{.GeneratedAt}}</p>
{{with .Errors}}<ul class="errors">{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}

<section class="cards">
{{range .Cards}}<div class="card"><div>{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</section>

<h2>Current activity</h2>
{{with .Activity}}{{if .Idle}}<p>No activity</p>{{else}}<p><strong>{{.AppName}}</strong> {{duration .CurrentDuration}}<br>{{.WindowTitle}}</p>{{end}}{{else}}<p>unavailable</p>{{end}}

<h2>Top applications</h2>
{{if .Grouped}}<ol>
{{range .Groups}}<li><span class="badge {{badge .Badge}}">{{inc .Rank}}</span> {{if .Expandable}}<details><summary>{{.Name}} {{.Duration}} ({{.ActivityCount}} activities)</summary><ul>
{{range .Children}}<li>{{.Name}} {{.Duration}} {{percent .Percent}}</li>
{{end}}</ul></details>{{else}}{{.Name}} {{.Duration}}{{end}}</li>
{{end}}</ol>
{{else}}<table>
{{range .Flat}}<tr><td><span class="badge {{badge .Badge}}">{{inc .Rank}}</span></td><td>{{.Name}}</td><td>{{.Duration}}</td><td>{{percent .Percent}}</td></tr>
{{end}}</table>
{{end}}

<h2>Activity timeline</h2>
<div class="timeline">{{range .Bars}}<div title="{{.Label}}: {{.Minutes}} min" style="height: {{printf "%.1f" .Height}}%"></div>{{end}}</div>

<h2>Time share</h2>
<table>
{{range .Shares}}<tr><td>{{.Name}}</td><td>{{.Duration}}</td><td>{{percent .Percent}}</td><td class="share-cell"><div class="share" style="width: {{printf "%.1f" .Percent}}%"></div></td></tr>
{{end}}</table>
</body>
</html>
`
