package desktop

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type notepadApp struct {
	env  *Env
	area textarea.Model
}

func newNotepadApp(env *Env) App {
	ta := textarea.New()
	ta.Placeholder = "Start typing..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = ""
	return &notepadApp{env: env, area: ta}
}

func (n *notepadApp) Init() tea.Cmd { return nil }

func (n *notepadApp) Focus() tea.Cmd { return n.area.Focus() }

func (n *notepadApp) Blur() { n.area.Blur() }

func (n *notepadApp) SetSize(width, height int) {
	n.area.SetWidth(max(width, 1))
	n.area.SetHeight(max(height-1, 1))
}

func (n *notepadApp) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	n.area, cmd = n.area.Update(msg)
	return cmd
}

func (n *notepadApp) View() string {
	s := n.env.Styles
	status := s.Muted.Render("Untitled · ") + s.Muted.Render(lineCount(n.area.LineCount()))
	return n.area.View() + "\n" + status
}

func lineCount(n int) string {
	if n == 1 {
		return "1 line"
	}
	return fmt.Sprintf("%d lines", n)
}
