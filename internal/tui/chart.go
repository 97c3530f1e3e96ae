package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/strrl/trackdash/internal/dashboard"
)

// eighth blocks, index n is n/8 of a cell
var blocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// renderBarChart draws the timeline as vertical bars, height rows tall,
// with the first and last bucket labels under the axis
func renderBarChart(bars []dashboard.Bar, height, width int) string {
	if len(bars) == 0 {
		return mutedStyle.Render("no data")
	}
	if height < 1 {
		height = 1
	}

	peak := 0
	peakAt := 0
	for i, b := range bars {
		if b.Minutes > peak {
			peak, peakAt = b.Minutes, i
		}
	}

	// two columns per bar when the terminal allows it
	gap := " "
	if width > 0 && len(bars)*2 > width {
		gap = ""
	}

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	var s strings.Builder
	for row := height - 1; row >= 0; row-- {
		var line strings.Builder
		for _, b := range bars {
			level := 0
			if peak > 0 {
				level = b.Minutes * height * 8 / peak
			}
			cell := level - row*8
			switch {
			case cell >= 8:
				line.WriteString(blocks[8])
			case cell > 0:
				line.WriteString(blocks[cell])
			default:
				line.WriteString(blocks[0])
			}
			line.WriteString(gap)
		}
		s.WriteString(barStyle.Render(line.String()) + "\n")
	}

	span := len(bars) * (1 + len(gap))
	first, last := bars[0].Label, bars[len(bars)-1].Label
	padding := span - len([]rune(first)) - len([]rune(last))
	if padding < 1 {
		padding = 1
	}
	s.WriteString(mutedStyle.Render(first + strings.Repeat(" ", padding) + last))

	if peak > 0 {
		s.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("peak %s: %d min", bars[peakAt].Label, peak)))
	}
	return s.String()
}

// renderShareBar draws the application shares as one stacked bar of the given width
func renderShareBar(slices []dashboard.AppShare, width int) string {
	var s strings.Builder
	used := 0
	for i, slice := range slices {
		n := int(float64(width)*slice.Percent/100 + 0.5)
		if i == len(slices)-1 {
			n = width - used
		}
		if n <= 0 {
			continue
		}
		if used+n > width {
			n = width - used
		}
		used += n
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(sharePalette[i%len(sharePalette)]))
		s.WriteString(style.Render(strings.Repeat("█", n)))
	}
	return s.String()
}

// renderShareLegend lists each slice with its color swatch and percentage
func renderShareLegend(slices []dashboard.AppShare) string {
	lines := make([]string, len(slices))
	for i, slice := range slices {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(sharePalette[i%len(sharePalette)])).Render("■")
		lines[i] = fmt.Sprintf("%s %s %s %s",
			swatch,
			textStyle.Render(fmt.Sprintf("%-*s", nameWidth, truncate(slice.Name, nameWidth))),
			mutedStyle.Render(slice.Duration),
			textStyle.Render(dashboard.FormatPercent(slice.Percent)))
	}
	return strings.Join(lines, "\n")
}

// renderProgressBar draws a horizontal share bar for a 0-100 percentage
func renderProgressBar(percent float64, width int) string {
	percent = min(max(percent, 0), 100)
	filled := int(math.Round(float64(width) * percent / 100))
	return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render(strings.Repeat("░", width-filled))
}
