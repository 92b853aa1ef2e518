package desktop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"athlonos/cmd/athlon/ui"
	"athlonos/internal/files"
	"athlonos/internal/logging"
)

// fileEntry adapts files.FileItem to list.Item.
type fileEntry struct {
	item files.FileItem
}

func (e fileEntry) Title() string {
	if e.item.IsFolder() {
		return "▸ " + e.item.Name
	}
	return "  " + e.item.Name
}

func (e fileEntry) Description() string {
	d := files.Preview(e.item)
	return fmt.Sprintf("%s · %s · %s", d.Type, d.Size, d.Modified)
}

func (e fileEntry) FilterValue() string { return e.item.Name }

// explorerApp browses the mock file system.
type explorerApp struct {
	env    *Env
	nav    *files.Navigator
	list   list.Model
	width  int
	height int
}

func newExplorerApp(env *Env) App {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()

	e := &explorerApp{env: env, nav: files.NewNavigator(env.Tree), list: l}
	e.reload()
	return e
}

func (e *explorerApp) Init() tea.Cmd { return nil }

func (e *explorerApp) Focus() tea.Cmd { return nil }

func (e *explorerApp) Blur() {}

func (e *explorerApp) SetSize(width, height int) {
	e.width, e.height = width, height
	left, _ := ui.SplitPaneWidths(width)
	e.list.SetSize(left, max(height-2, 0))
}

func (e *explorerApp) reload() {
	children := e.nav.CurrentFiles()
	items := make([]list.Item, 0, len(children))
	for _, c := range children {
		items = append(items, fileEntry{item: c})
	}
	e.list.SetItems(items)
	e.list.ResetSelected()
}

func (e *explorerApp) highlighted() (files.FileItem, bool) {
	entry, ok := e.list.SelectedItem().(fileEntry)
	if !ok {
		return files.FileItem{}, false
	}
	return entry.item, true
}

func (e *explorerApp) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.Type {
	case tea.KeyEnter:
		if it, ok := e.highlighted(); ok {
			e.nav.Navigate(it)
			if it.IsFolder() {
				e.reload()
			}
			logging.FilesDebug("explorer: open %s", it.ID)
		}
		return nil
	case tea.KeyBackspace:
		if e.nav.Up() {
			e.reload()
		}
		return nil
	}
	var cmd tea.Cmd
	e.list, cmd = e.list.Update(msg)
	return cmd
}

func (e *explorerApp) View() string {
	s := e.env.Styles
	up := "  "
	if e.nav.CanGoUp() {
		up = "↑ "
	}
	header := s.Muted.Render(up) + s.Bold.Render(e.nav.Location())
	hint := s.Muted.Render("enter open · backspace up")

	left, right := ui.SplitPaneWidths(e.width)
	listing := e.list.View()
	if len(e.list.Items()) == 0 {
		listing = s.Muted.Render("This folder is empty.")
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(left).Render(listing),
		s.Muted.Render(strings.Repeat("│\n", max(e.height-2, 1))),
		lipgloss.NewStyle().Width(right).Render(e.preview()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, hint)
}

// preview shows the selected file, or the highlighted row when nothing is
// selected yet.
func (e *explorerApp) preview() string {
	s := e.env.Styles
	it, ok := e.nav.Selected()
	if !ok || it.ParentID != e.nav.CurrentFolder().ID {
		if it, ok = e.highlighted(); !ok {
			return s.Muted.Render(" Select a file to see details.")
		}
	}
	d := files.Preview(it)
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", s.Title.Render(it.Name))
	fmt.Fprintf(&b, " %s %s\n", s.Muted.Render("Type:"), d.Type)
	fmt.Fprintf(&b, " %s %s\n", s.Muted.Render("Size:"), d.Size)
	fmt.Fprintf(&b, " %s %s\n", s.Muted.Render("Modified:"), d.Modified)
	if !it.IsFolder() && it.Content != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(it.Content, "\n") {
			b.WriteString(" " + line + "\n")
		}
	}
	return b.String()
}
