package desktop

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the desktop-wide bindings. Everything else goes to the
// focused app.
type KeyMap struct {
	StartMenu key.Binding
	Taskbar   key.Binding
	Cycle     key.Binding
	Close     key.Binding
	Minimize  key.Binding
	Maximize  key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the stock desktop bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		StartMenu: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "start")),
		Taskbar:   key.NewBinding(key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5"), key.WithHelp("alt+1..5", "taskbar")),
		Cycle:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next window")),
		Close:     key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close")),
		Minimize:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "minimize")),
		Maximize:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "maximize")),
		MoveUp:    key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+↑↓←→", "move")),
		MoveDown:  key.NewBinding(key.WithKeys("alt+down")),
		MoveLeft:  key.NewBinding(key.WithKeys("alt+left")),
		MoveRight: key.NewBinding(key.WithKeys("alt+right")),
		Help:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartMenu, k.Cycle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartMenu, k.Taskbar, k.Cycle},
		{k.Close, k.Minimize, k.Maximize, k.MoveUp},
		{k.Help, k.Quit},
	}
}
