package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/internal/exports"
	"github.com/strrl/trackdash/pkg/models"
)

// Message types for async operations
type (
	// refreshTickMsg asks for a new refresh cycle (scheduler, manual refresh or startup)
	refreshTickMsg struct{}

	// countdownTickMsg advances the cosmetic countdown by one second
	countdownTickMsg struct{}

	// snapshotMsg carries the outcome of one refresh cycle
	snapshotMsg struct {
		dashboard.Snapshot
	}

	// healthMsg is the result of the startup health probe
	healthMsg struct {
		Health models.Health
		Err    error
	}

	// exportDoneMsg reports a finished export download
	exportDoneMsg struct {
		Format string
		Saved  exports.Saved
		Err    error
	}
)

// refreshCmd runs one refresh cycle off the UI goroutine
func refreshCmd(ctx context.Context, r *dashboard.Refresher, req dashboard.Request) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{Snapshot: r.Run(ctx, req)}
	}
}

// healthCmd probes the API once
func healthCmd(ctx context.Context, api Backend) tea.Cmd {
	return func() tea.Msg {
		health, err := api.Health(ctx)
		return healthMsg{Health: health, Err: err}
	}
}

// exportCmd downloads an export for the current selection into dir
func exportCmd(ctx context.Context, d exports.Downloader, sel dashboard.Selection, format, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		saved, err := exports.Save(ctx, d, sel, format, dir, now)
		return exportDoneMsg{Format: format, Saved: saved, Err: err}
	}
}

// refreshNow requests an immediate refresh cycle
func refreshNow() tea.Msg {
	return refreshTickMsg{}
}
