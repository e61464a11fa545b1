package tui

import "github.com/charmbracelet/bubbles/key"

// Key bindings
var keys = struct {
	Quit    key.Binding
	Top     key.Binding
	Section key.Binding
}{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Top:     key.NewBinding(key.WithKeys("t", "home")),
	Section: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9")),
}
