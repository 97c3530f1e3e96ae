package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/strrl/trackdash/internal/apiclient"
	"github.com/strrl/trackdash/internal/dashboard"
	"github.com/strrl/trackdash/internal/exports"
	"github.com/strrl/trackdash/internal/logging"
	"github.com/strrl/trackdash/pkg/models"
)

// Backend is the tracker API as the dashboard uses it
type Backend interface {
	dashboard.Source
	Health(ctx context.Context) (models.Health, error)
	Download(ctx context.Context, sel dashboard.Selection, format string, w io.Writer) (int64, error)
	Status() *apiclient.StatusTracker
}

// Options configures a dashboard run
type Options struct {
	Grouped         bool
	RefreshInterval time.Duration
	CountdownStart  int
	ExportDir       string
	Logger          *log.Logger

	// Now is the clock used for export names and the custom range prefill
	Now func() time.Time
}

type model struct {
	ctx       context.Context
	api       Backend
	refresher *dashboard.Refresher
	state     *dashboard.State
	countdown *dashboard.Countdown
	logger    *log.Logger
	keys      keyMap
	exportDir string
	now       func() time.Time

	// last data received per section; nil until the first successful fetch
	activity *models.CurrentActivity
	stats    *models.Stats
	hourly   *models.HourlyStats
	topApps  *dashboard.TopApps
	dataSel  dashboard.Selection
	lastSync time.Time

	busy    *busyIndicator
	stale   bool
	lastErr error

	cursor int
	form   *rangeForm
	prompt string
	notice string

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func initialModel(ctx context.Context, api Backend, opts Options) model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	return model{
		ctx:       ctx,
		api:       api,
		refresher: dashboard.NewRefresher(api, logger),
		state:     dashboard.NewState(opts.Grouped),
		countdown: dashboard.NewCountdown(opts.CountdownStart),
		logger:    logger,
		keys:      defaultKeyMap(),
		exportDir: exportDir,
		now:       now,
		busy:      newBusyIndicator(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(refreshNow, healthCmd(m.ctx, m.api))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.viewport.KeyMap = viewportKeys()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 3
		}

	case tea.KeyMsg:
		if m.form != nil {
			cmd := m.updateForm(msg)
			m.updateViewport()
			return m, cmd
		}
		if cmd, handled := m.handleKey(msg); handled {
			m.updateViewport()
			return m, cmd
		}

	case refreshTickMsg:
		cmds = append(cmds, m.startRefresh())

	case countdownTickMsg:
		m.countdown.Tick()

	case snapshotMsg:
		m.applySnapshot(msg.Snapshot)

	case healthMsg:
		if msg.Err != nil {
			m.logger.Warn("api health check failed", "err", msg.Err)
		} else {
			m.logger.Info("api healthy", "status", msg.Health.Status)
		}

	case exportDoneMsg:
		m.busy.endExport(msg.Format)
		if msg.Err != nil {
			m.notice = fmt.Sprintf("%s export failed: %v", msg.Format, msg.Err)
			m.logger.Error("export failed", "format", msg.Format, "err", msg.Err)
		} else {
			m.notice = fmt.Sprintf("saved %s (%d bytes)", msg.Saved.Path, msg.Saved.Bytes)
		}

	case busyTickMsg:
		cmds = append(cmds, m.busy.advance())
	}

	if m.form != nil {
		cmds = append(cmds, m.form.update(msg))
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.updateViewport()
	return m, tea.Batch(cmds...)
}

// handleKey applies a dashboard key binding; keys it does not know fall through to the viewport
func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Today):
		return m.selectPeriod(dashboard.PeriodToday), true
	case key.Matches(msg, m.keys.Week):
		return m.selectPeriod(dashboard.PeriodWeek), true
	case key.Matches(msg, m.keys.Month):
		return m.selectPeriod(dashboard.PeriodMonth), true

	case key.Matches(msg, m.keys.Custom):
		return m.openForm(), true

	case key.Matches(msg, m.keys.ToggleView):
		m.state.ToggleView()
		m.cursor = 0
		return m.startRefresh(), true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return nil, true

	case key.Matches(msg, m.keys.Expand):
		m.toggleCursorGroup()
		return nil, true

	case key.Matches(msg, m.keys.ExportCSV):
		return m.export(exports.FormatCSV), true
	case key.Matches(msg, m.keys.ExportJSON):
		return m.export(exports.FormatJSON), true

	case key.Matches(msg, m.keys.Refresh):
		return m.startRefresh(), true
	}

	return nil, false
}

func (m *model) selectPeriod(p dashboard.Period) tea.Cmd {
	if err := m.state.SetPeriod(p); err != nil {
		m.prompt = err.Error()
		return nil
	}
	m.prompt = ""
	return m.startRefresh()
}

func (m *model) openForm() tea.Cmd {
	start, end := dashboard.DefaultCustomRange(m.now())
	if sel := m.state.Selection(); sel.IsCustom() {
		start, end = sel.Start, sel.End
	}

	form, cmd := newRangeForm(start, end)
	m.form = form
	return cmd
}

func (m *model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.prompt = ""
		return nil

	case "tab", "shift+tab", "up", "down":
		return m.form.switchFocus()

	case "enter":
		start, end := m.form.values()
		err := m.state.ApplyCustom(start, end)
		switch {
		case errors.Is(err, dashboard.ErrMissingRange):
			// nothing is requested until both dates are set
			m.prompt = "Select both a start and an end date"
			return nil
		case err != nil:
			m.form.err = err.Error()
			return nil
		}

		m.form = nil
		m.prompt = ""
		return m.startRefresh()
	}

	m.form.err = ""
	return m.form.update(msg)
}

// startRefresh issues a refresh cycle for the current parameters
func (m *model) startRefresh() tea.Cmd {
	req := dashboard.Request{
		Generation: m.state.NextGeneration(),
		Selection:  m.state.Selection(),
		Grouped:    m.state.Grouped(),
	}
	return tea.Batch(refreshCmd(m.ctx, m.refresher, req), m.busy.beginRefresh())
}

// applySnapshot renders what a cycle fetched. Sections whose fetch failed keep
// their previous data unless the period or view mode changed since it was fetched.
func (m *model) applySnapshot(snap dashboard.Snapshot) {
	m.busy.endRefresh()

	if !m.state.Accept(snap.Generation) {
		m.logger.Debug("discarding stale snapshot",
			"request_id", snap.RequestID,
			"generation", snap.Generation,
			"current", m.state.Generation())
		return
	}

	periodChanged := snap.Selection != m.dataSel
	viewChanged := m.topApps != nil && m.topApps.Grouped != snap.Grouped
	if snap.Activity != nil {
		m.activity = snap.Activity
	}
	if snap.Stats != nil || periodChanged {
		m.stats = snap.Stats
	}
	if snap.Hourly != nil || periodChanged {
		m.hourly = snap.Hourly
	}
	if snap.TopApps != nil || periodChanged || viewChanged {
		m.topApps = snap.TopApps
	}
	m.dataSel = snap.Selection
	m.lastSync = m.now()

	if n := m.listLen(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}

	m.stale = snap.Failed()
	m.lastErr = snap.Err()
}

func (m *model) export(format string) tea.Cmd {
	sel := m.state.Selection()
	m.notice = ""
	return tea.Batch(
		exportCmd(m.ctx, m.api, sel, format, m.exportDir, m.now()),
		m.busy.beginExport(format))
}

// groupRows returns the grouped list currently on screen, nil in flat mode
func (m *model) groupRows() []dashboard.GroupRow {
	if !m.showingGrouped() {
		return nil
	}
	return dashboard.GroupRows(m.topApps.Groups, m.state)
}

func (m *model) showingGrouped() bool {
	return m.topApps != nil && m.topApps.Grouped && m.state.Grouped()
}

func (m *model) listLen() int {
	return len(m.groupRows())
}

func (m *model) toggleCursorGroup() {
	rows := m.groupRows()
	if m.cursor < 0 || m.cursor >= len(rows) || !rows[m.cursor].Expandable {
		return
	}
	m.state.ToggleGroup(m.cursor)
}

func (m *model) hasData() bool {
	return m.activity != nil || m.stats != nil || m.hourly != nil || m.topApps != nil
}

func (m *model) updateViewport() {
	if m.ready {
		m.viewport.SetContent(m.renderBody())
	}
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	if !m.hasData() && m.busy.refreshes > 0 {
		return renderLoading(m.width, m.height, m.busy)
	}

	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

// Run shows the dashboard until the user quits. The refresh and countdown
// timers run for the lifetime of the program and are stopped before Run returns.
func Run(ctx context.Context, api Backend, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := initialModel(ctx, api, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	scheduler := dashboard.NewScheduler(opts.RefreshInterval, time.Second)
	err := scheduler.Start(ctx,
		func() { p.Send(refreshTickMsg{}) },
		func() { p.Send(countdownTickMsg{}) },
	)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	m.logger.Info("dashboard started", "refresh", opts.RefreshInterval, "grouped", opts.Grouped)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	m.logger.Info("dashboard closed")
	return nil
}
