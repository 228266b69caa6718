package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the browser.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	Stage    key.Binding
	Unstage  key.Binding
	Upload   key.Binding
	NewDir   key.Binding
	Delete   key.Binding
	Rename   key.Binding
	Move     key.Binding
	Cut      key.Binding
	Paste    key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Stage: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add file"),
		),
		Unstage: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove staged"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		NewDir: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new folder"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Cut: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cut"),
		),
		Paste: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "drop here"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("g", "f5"),
			key.WithHelp("g", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Upload, k.NewDir, k.Help, k.Quit}
}

// FullHelp returns the bindings of the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Activate, k.Refresh},
		{k.Stage, k.Unstage, k.Upload, k.NewDir},
		{k.Delete, k.Rename, k.Move},
		{k.Cut, k.Paste, k.Help, k.Quit},
	}
}
