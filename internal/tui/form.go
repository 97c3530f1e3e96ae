package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/strrl/trackdash/internal/dashboard"
)

// rangeForm is the custom period editor: a start and an end date input
type rangeForm struct {
	inputs [2]textinput.Model
	focus  int
	err    string
}

func newRangeForm(start, end string) (*rangeForm, tea.Cmd) {
	f := &rangeForm{}
	for i, label := range []string{"Start ", "End   "} {
		in := textinput.New()
		in.Prompt = label
		in.Placeholder = dashboard.DateLayout
		in.CharLimit = len(dashboard.DateLayout)
		in.Width = len(dashboard.DateLayout) + 1
		f.inputs[i] = in
	}
	f.inputs[0].SetValue(start)
	f.inputs[1].SetValue(end)
	return f, f.inputs[0].Focus()
}

func (f *rangeForm) values() (start, end string) {
	return f.inputs[0].Value(), f.inputs[1].Value()
}

// switchFocus moves the cursor to the other input
func (f *rangeForm) switchFocus() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *rangeForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *rangeForm) view() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("212")).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	content := fmt.Sprintf("%s\n%s\n%s\n%s",
		titleStyle.Render("Custom period"),
		f.inputs[0].View(),
		f.inputs[1].View(),
		hintStyle.Render("tab switch • enter apply • esc cancel"))
	if f.err != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(f.err)
	}
	return boxStyle.Render(content)
}
