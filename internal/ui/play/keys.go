package play

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Retry      key.Binding
	Confirm    key.Binding
	Place      key.Binding
	NextBlank  key.Binding
	Remove     key.Binding
	RemoveLast key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Place:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "place option")),
		NextBlank:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next blank")),
		Remove:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "clear blank")),
		RemoveLast: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "clear last")),
	}
}
