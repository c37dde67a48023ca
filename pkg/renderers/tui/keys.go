package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Space   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Escape  key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")),
		Space:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "update")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Next, k.Up, k.Down, k.Enter, k.Escape, k.Submit, k.Refresh, k.Quit}
}
