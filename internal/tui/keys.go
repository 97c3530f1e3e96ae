package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type keyMap struct {
	Today      key.Binding
	Week       key.Binding
	Month      key.Binding
	Custom     key.Binding
	ToggleView key.Binding
	Up         key.Binding
	Down       key.Binding
	Expand     key.Binding
	ExportCSV  key.Binding
	ExportJSON key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Today:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "today")),
		Week:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "week")),
		Month:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "month")),
		Custom:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom")),
		ToggleView: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group/flat")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
		Down:       key.NewBinding(key.WithKeys("down", "j")),
		Expand:     key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "expand")),
		ExportCSV:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e/E", "export csv/json")),
		ExportJSON: key.NewBinding(key.WithKeys("E")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// help renders the footer hint from the bindings that carry help text
func (k keyMap) help() string {
	var parts []string
	for _, b := range []key.Binding{k.Today, k.Week, k.Month, k.Custom, k.ToggleView, k.Up, k.Expand, k.ExportCSV, k.Refresh, k.Quit} {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// viewportKeys scrolls the body with paging keys only; arrows and space belong to the list
func viewportKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
	}
}
