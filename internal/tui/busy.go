package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// busyTickMsg advances the busy indicator animation
type busyTickMsg time.Time

// busyIndicator counts the background work the dashboard is waiting on
// and animates in the header while any of it is pending.
type busyIndicator struct {
	spin    spinner.Spinner
	frame   int
	ticking bool

	refreshes int
	exports   map[string]int
}

func newBusyIndicator() *busyIndicator {
	return &busyIndicator{
		spin:    spinner.MiniDot,
		exports: make(map[string]int),
	}
}

// beginRefresh records a refresh cycle going out and returns the animation tick if one is needed
func (b *busyIndicator) beginRefresh() tea.Cmd {
	b.refreshes++
	return b.wake()
}

// endRefresh records a finished cycle, whatever its outcome
func (b *busyIndicator) endRefresh() {
	if b.refreshes > 0 {
		b.refreshes--
	}
}

func (b *busyIndicator) beginExport(format string) tea.Cmd {
	b.exports[format]++
	return b.wake()
}

func (b *busyIndicator) endExport(format string) {
	if b.exports[format] <= 1 {
		delete(b.exports, format)
		return
	}
	b.exports[format]--
}

func (b *busyIndicator) busy() bool {
	return b.refreshes > 0 || len(b.exports) > 0
}

func (b *busyIndicator) wake() tea.Cmd {
	if b.ticking {
		return nil
	}
	b.ticking = true
	return b.tick()
}

func (b *busyIndicator) tick() tea.Cmd {
	return tea.Tick(b.spin.FPS, func(t time.Time) tea.Msg {
		return busyTickMsg(t)
	})
}

// advance moves to the next frame; the animation stops once nothing is pending
func (b *busyIndicator) advance() tea.Cmd {
	if !b.busy() {
		b.ticking = false
		b.frame = 0
		return nil
	}
	b.frame = (b.frame + 1) % len(b.spin.Frames)
	return b.tick()
}

// label names the pending work, e.g. "refreshing, exporting csv"
func (b *busyIndicator) label() string {
	var parts []string
	switch {
	case b.refreshes == 1:
		parts = append(parts, "refreshing")
	case b.refreshes > 1:
		parts = append(parts, fmt.Sprintf("refreshing (%d)", b.refreshes))
	}

	formats := make([]string, 0, len(b.exports))
	for f := range b.exports {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		parts = append(parts, "exporting "+f)
	}
	return strings.Join(parts, ", ")
}

func (b *busyIndicator) view() string {
	if !b.busy() {
		return ""
	}
	return accentStyle.Render(b.spin.Frames[b.frame]) + " " + mutedStyle.Render(b.label())
}

// renderLoading fills the screen until the first cycle has delivered anything
func renderLoading(width, height int, b *busyIndicator) string {
	content := b.view() + "\n\n" + mutedStyle.Render("[q to quit]")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
