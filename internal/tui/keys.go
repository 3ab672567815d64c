package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Trigger key.Binding
	Days    key.Binding
	Help    key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	Trigger: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "ask the API to refetch upstream"),
	),
	Days: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "cycle history range"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
}

const helpText = "q: quit  r: refresh  R: refetch upstream  d: history range  ?: toggle help"
