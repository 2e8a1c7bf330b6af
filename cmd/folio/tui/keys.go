package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Wider         key.Binding
	Narrower      key.Binding
	Taller        key.Binding
	Shorter       key.Binding
	ReducedMotion key.Binding
	LowPower      key.Binding
	Logs          key.Binding
	Reset         key.Binding
	Help          key.Binding
	Quit          key.Binding
}

var keys = keyMap{
	Wider: key.NewBinding(
		key.WithKeys("right", "L"),
		key.WithHelp("→", "wider"),
	),
	Narrower: key.NewBinding(
		key.WithKeys("left", "H"),
		key.WithHelp("←", "narrower"),
	),
	Taller: key.NewBinding(
		key.WithKeys("down", "J"),
		key.WithHelp("↓", "taller"),
	),
	Shorter: key.NewBinding(
		key.WithKeys("up", "K"),
		key.WithHelp("↑", "shorter"),
	),
	ReducedMotion: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "reduced motion"),
	),
	LowPower: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "low-power agent"),
	),
	Logs: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "logs"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "fit terminal"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Narrower, k.Wider, k.ReducedMotion, k.LowPower, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Narrower, k.Wider, k.Shorter, k.Taller, k.Reset},
		{k.ReducedMotion, k.LowPower, k.Logs},
		{k.Help, k.Quit},
	}
}
