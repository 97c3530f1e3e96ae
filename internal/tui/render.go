package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/strrl/trackdash/internal/dashboard"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	staleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true)

	// one color per donut slice
	sharePalette = []string{"212", "63", "42", "220", "39", "172", "141", "203"}
)

const nameWidth = 24

func (m model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63")).
		Padding(0, 1)

	sel := m.state.Selection()
	tabs := []struct {
		key    string
		label  string
		period dashboard.Period
	}{
		{"1", "Today", dashboard.PeriodToday},
		{"2", "Week", dashboard.PeriodWeek},
		{"3", "Month", dashboard.PeriodMonth},
		{"c", "Custom", dashboard.PeriodCustom},
	}

	var parts []string
	for _, tab := range tabs {
		label := fmt.Sprintf("%s %s", tab.key, tab.label)
		if tab.period == sel.Period {
			parts = append(parts, accentStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+label+" "))
		}
	}

	header := titleStyle.Render("TrackMyTime") + " " + strings.Join(parts, " ") +
		"  " + textStyle.Render(dashboard.PeriodLabels(sel).Period) +
		"  " + m.renderStatus()
	if m.busy.busy() {
		header += "  " + m.busy.view()
	}
	return header
}

// renderStatus is the API connectivity dot
func (m model) renderStatus() string {
	status := m.api.Status()
	switch {
	case !status.Known():
		return mutedStyle.Render("● connecting")
	case status.Online():
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("● online")
	default:
		return errorStyle.Render("● offline since " + status.Since().Format("15:04:05"))
	}
}

func (m model) renderFooter() string {
	var parts []string
	parts = append(parts, mutedStyle.Render(fmt.Sprintf("next refresh in %ds", m.countdown.Value())))
	if m.stale {
		parts = append(parts, staleStyle.Render(" STALE "))
	}
	if !m.lastSync.IsZero() {
		parts = append(parts, mutedStyle.Render("updated "+m.lastSync.Format("15:04:05")))
	}

	switch {
	case m.prompt != "":
		parts = append(parts, accentStyle.Render(m.prompt))
	case m.lastErr != nil:
		msg := strings.ReplaceAll(m.lastErr.Error(), "\n", "; ")
		parts = append(parts, errorStyle.Render(truncate(msg, max(m.width/2, 20))))
	case m.notice != "":
		parts = append(parts, textStyle.Render(m.notice))
	}

	return strings.Join(parts, "  ") + "\n" + mutedStyle.Render(truncate(m.keys.help(), max(m.width, 20)))
}

func (m model) renderBody() string {
	var sections []string
	if m.form != nil {
		sections = append(sections, m.form.view())
	}
	sections = append(sections,
		m.renderCards(),
		m.renderActivity(),
		m.renderTopApps(),
		m.renderTimeline(),
		m.renderShares(),
	)
	return strings.Join(sections, "\n\n")
}

func (m model) renderCards() string {
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 2)

	labels := dashboard.PeriodLabels(m.state.Selection())
	total, idle, apps := "--:--:--", "--:--:--", "-"
	if m.stats != nil {
		total = dashboard.FormatDuration(m.stats.TotalActiveSeconds)
		idle = dashboard.FormatDuration(m.stats.TotalIdleSeconds)
		apps = fmt.Sprintf("%d", dashboard.AppCount(*m.stats))
	}

	card := func(label, value string) string {
		return cardStyle.Render(mutedStyle.Render(label) + "\n" + accentStyle.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(labels.TotalTime, total),
		card(labels.IdleTime, idle),
		card(labels.Apps, apps))
}

func (m model) renderActivity() string {
	var s strings.Builder
	s.WriteString(sectionStyle.Render("Current activity") + "\n")

	switch {
	case m.activity == nil:
		s.WriteString(mutedStyle.Render("waiting for the tracker..."))
	case m.activity.Idle() || m.activity.AppName == "":
		s.WriteString(mutedStyle.Render("No activity"))
	default:
		s.WriteString(accentStyle.Render(m.activity.AppName))
		if m.activity.CurrentDuration > 0 {
			s.WriteString(mutedStyle.Render("  " + dashboard.FormatDuration(m.activity.CurrentDuration)))
		}
		if m.activity.WindowTitle != "" {
			for _, line := range wrapText(m.activity.WindowTitle, max(m.width-4, 20)) {
				s.WriteString("\n  " + textStyle.Render(line))
			}
		}
	}
	return s.String()
}

func renderBadge(b dashboard.Badge, rank int) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch b {
	case dashboard.BadgeGold:
		style = style.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	case dashboard.BadgeSilver:
		style = style.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("250"))
	case dashboard.BadgeBronze:
		style = style.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("172"))
	default:
		style = style.Foreground(lipgloss.Color("245"))
	}
	return style.Render(fmt.Sprintf("%2d", rank+1))
}

func (m model) renderTopApps() string {
	var s strings.Builder
	mode := "flat"
	if m.state.Grouped() {
		mode = "grouped"
	}
	s.WriteString(sectionStyle.Render("Top applications") + mutedStyle.Render(" ("+mode+")") + "\n")

	if m.topApps == nil || m.topApps.Grouped != m.state.Grouped() {
		s.WriteString(m.placeholder())
		return s.String()
	}

	if m.topApps.Grouped {
		s.WriteString(m.renderGroups())
	} else {
		s.WriteString(m.renderFlat())
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m model) renderGroups() string {
	rows := dashboard.GroupRows(m.topApps.Groups, m.state)
	if len(rows) == 0 {
		return mutedStyle.Render("No activity recorded for this period")
	}

	var s strings.Builder
	for i, row := range rows {
		cursor := "  "
		nameStyle := textStyle
		if i == m.cursor {
			cursor = "> "
			nameStyle = accentStyle
		}

		marker := " "
		if row.Expandable {
			marker = "▸"
			if row.Open {
				marker = "▾"
			}
		}

		line := fmt.Sprintf("%s%s %s %s %s",
			cursor,
			marker,
			renderBadge(row.Badge, row.Rank),
			nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, truncate(row.Name, nameWidth))),
			textStyle.Render(row.Duration))
		if row.ActivityCount > 1 {
			line += mutedStyle.Render(fmt.Sprintf("  %d activities", row.ActivityCount))
		}
		s.WriteString(line + "\n")

		if !row.Open {
			continue
		}
		for _, child := range row.Children {
			s.WriteString(fmt.Sprintf("        └ %s %s %s\n",
				textStyle.Render(fmt.Sprintf("%-*s", nameWidth, truncate(child.Name, nameWidth))),
				mutedStyle.Render(child.Duration),
				mutedStyle.Render(dashboard.FormatPercent(child.Percent))))
		}
	}
	return s.String()
}

func (m model) renderFlat() string {
	entries := dashboard.FlatEntries(m.topApps.Flat)
	if len(entries) == 0 {
		return mutedStyle.Render("No activity recorded for this period")
	}

	var s strings.Builder
	for _, e := range entries {
		s.WriteString(fmt.Sprintf("  %s %s %s %s %s\n",
			renderBadge(e.Badge, e.Rank),
			textStyle.Render(fmt.Sprintf("%-*s", nameWidth, truncate(e.Name, nameWidth))),
			textStyle.Render(e.Duration),
			renderProgressBar(e.Percent, 20),
			mutedStyle.Render(dashboard.FormatPercent(e.Percent))))
	}
	return s.String()
}

func (m model) renderTimeline() string {
	var s strings.Builder
	s.WriteString(sectionStyle.Render("Activity timeline") + mutedStyle.Render(" (minutes)") + "\n")
	if m.hourly == nil {
		s.WriteString(m.placeholder())
		return s.String()
	}
	s.WriteString(renderBarChart(dashboard.HourlyBars(*m.hourly), 5, m.width))
	return s.String()
}

func (m model) renderShares() string {
	var s strings.Builder
	s.WriteString(sectionStyle.Render("Time share") + "\n")
	if m.stats == nil {
		s.WriteString(m.placeholder())
		return s.String()
	}

	slices := dashboard.DonutSlices(m.stats.StatsByApp)
	if len(slices) == 0 {
		s.WriteString(mutedStyle.Render("No activity recorded for this period"))
		return s.String()
	}
	s.WriteString(renderShareBar(slices, min(max(m.width-4, 20), 60)) + "\n")
	s.WriteString(renderShareLegend(slices))
	return s.String()
}

// placeholder stands in for a section with no data: a cycle is still
// coming, or the last one finished without it
func (m model) placeholder() string {
	if m.busy.refreshes > 0 {
		return mutedStyle.Render("loading...")
	}
	return errorStyle.Render("unavailable")
}

// truncate shortens s to maxLen runes, marking the cut
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// wrapText breaks a window title into lines of at most width cells
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	return strings.Split(wordwrap.String(text, width), "\n")
}
