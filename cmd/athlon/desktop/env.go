// Package desktop is the Athlon desktop: a bubbletea model that paints the
// window stack, taskbar and start menu on a terminal canvas and hosts one
// view per application.
package desktop

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"athlonos/cmd/athlon/ui"
	"athlonos/internal/agent"
	"athlonos/internal/browser"
	"athlonos/internal/config"
	"athlonos/internal/files"
	"athlonos/internal/window"
)

// Env is what the desktop and its apps share.
type Env struct {
	Config  *config.Config
	Agent   *agent.Orchestrator
	Tree    *files.Tree
	Fetcher browser.Fetcher
	Styles  ui.Styles
	Clock   func() time.Time
}

func (e *Env) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

// App is one application view living inside a window.
type App interface {
	Init() tea.Cmd
	// SetSize receives the content area of the window, borders excluded.
	SetSize(width, height int)
	Update(msg tea.Msg) tea.Cmd
	View() string
	Focus() tea.Cmd
	Blur()
}

// appFactories maps every registry entry to its view.
var appFactories = map[window.AppID]func(*Env) App{
	window.AppFileExplorer: newExplorerApp,
	window.AppAgentChat:    newChatApp,
	window.AppNotepad:      newNotepadApp,
	window.AppSettings:     newSettingsApp,
	window.AppBrowser:      newBrowserApp,
}
