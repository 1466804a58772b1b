package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every dashboard binding. It satisfies help.KeyMap.
type KeyMap struct {
	ToggleMode  key.Binding
	TogglePanel key.Binding
	FocusNext   key.Binding
	FocusPrev   key.Binding
	Up          key.Binding
	Down        key.Binding
	Pick        key.Binding
	Drop        key.Binding
	Cancel      key.Binding
	Remove      key.Binding
	Expand      key.Binding
	Notify      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap holds the standard bindings.
var DefaultKeyMap = KeyMap{
	ToggleMode: key.NewBinding(
		key.WithKeys("alt+v", "alt+V"),
		key.WithHelp("alt+v", "visit/pre-visit"),
	),
	TogglePanel: key.NewBinding(
		key.WithKeys("alt+l", "alt+L"),
		key.WithHelp("alt+l", "module panel"),
	),
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next pane"),
	),
	FocusPrev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev pane"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Pick: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "pick up / select"),
	),
	Drop: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "drop"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Remove: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "remove card"),
	),
	Expand: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "expand/collapse"),
	),
	Notify: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notifications"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleMode, k.TogglePanel, k.FocusNext, k.Pick, k.Remove, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleMode, k.TogglePanel, k.FocusNext, k.FocusPrev},
		{k.Up, k.Down, k.Pick, k.Drop, k.Cancel},
		{k.Remove, k.Expand, k.Notify},
		{k.Help, k.Quit},
	}
}
