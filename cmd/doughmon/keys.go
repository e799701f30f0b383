package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Dark      key.Binding
	Reconnect key.Binding
	Quit      key.Binding
	Tab       key.Binding
	Up        key.Binding
	Down      key.Binding
	Switch    key.Binding
	Select    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Dark:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Toggle dark mode")),
		Reconnect: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reconnect")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Config/Data")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "Up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "Down")),
		Switch:    key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "Port/Baud")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Select")),
	}
}

func (k keyMap) dataHelp() []key.Binding {
	return []key.Binding{k.Dark, k.Reconnect, k.Quit, k.Tab, k.Up, k.Down}
}

func (k keyMap) configHelp() []key.Binding {
	return []key.Binding{k.Dark, k.Quit, k.Tab, k.Switch, k.Select}
}
