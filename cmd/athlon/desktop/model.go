package desktop

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"athlonos/cmd/athlon/ui"
	"athlonos/internal/logging"
	"athlonos/internal/metrics"
	"athlonos/internal/window"
)

// clockTickMsg refreshes the taskbar clock.
type clockTickMsg time.Time

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

// Model is the desktop's bubbletea model.
type Model struct {
	env  *Env
	wm   *window.Manager
	apps map[window.AppID]App
	keys KeyMap
	help help.Model

	width, height int
	now           time.Time
	margin        int

	drag       *window.DragGesture
	menuCursor int
	showHelp   bool
}

// New builds the desktop over the default window registry. The agent chat
// starts focused.
func New(env *Env) Model {
	wm := window.NewManager(window.DefaultRegistry(), window.WithObserver(func(op string, id window.AppID) {
		metrics.RecordWindowOp(op, string(id))
	}))

	m := Model{
		env:    env,
		wm:     wm,
		apps:   make(map[window.AppID]App, len(appFactories)),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		now:    env.now(),
		margin: window.DefaultDragMargin,
	}
	if env.Config != nil && env.Config.Desktop.DragMargin > 0 {
		m.margin = env.Config.Desktop.DragMargin
	}
	for _, w := range wm.Snapshot() {
		if factory, ok := appFactories[w.ID]; ok {
			m.apps[w.ID] = factory(env)
		}
	}
	wm.Focus(window.AppAgentChat)
	return m
}

// Manager exposes the window manager.
func (m Model) Manager() *window.Manager { return m.wm }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{clockTick()}
	for _, id := range window.AllApps {
		if app, ok := m.apps[id]; ok {
			cmds = append(cmds, app.Init())
		}
	}
	logging.Desktop("desktop started with %d apps", len(m.apps))
	return tea.Batch(cmds...)
}

func (m Model) workArea() window.Size {
	w, h := ui.WorkArea(m.width, m.height)
	return window.Size{Width: w, Height: h}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case clockTickMsg:
		m.now = time.Time(msg)
		return m, clockTick()
	case tea.KeyMsg:
		var quit bool
		m, cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m, cmd = m.handleMouse(msg)
	default:
		cmd = m.broadcast(msg)
	}
	return m, tea.Batch(cmd, m.syncApps())
}

// broadcast delivers async results to every app; each ignores what is not
// its own.
func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range window.AllApps {
		if app, ok := m.apps[id]; ok {
			cmds = append(cmds, app.Update(msg))
		}
	}
	return tea.Batch(cmds...)
}

// syncApps pushes window sizes and focus down to the apps.
func (m Model) syncApps() tea.Cmd {
	active, hasActive := m.wm.Active()
	work := m.workArea()
	var cmds []tea.Cmd
	for _, w := range m.wm.Snapshot() {
		app, ok := m.apps[w.ID]
		if !ok {
			continue
		}
		r := window.BoundsOf(w, work)
		app.SetSize(ui.WindowContentSize(r.Width, r.Height))
		if hasActive && w.ID == active && w.Visible() {
			cmds = append(cmds, app.Focus())
		} else {
			app.Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) activeApp() (App, bool) {
	id, ok := m.wm.Active()
	if !ok {
		return nil, false
	}
	w, ok := m.wm.Window(id)
	if !ok || !w.Visible() {
		return nil, false
	}
	app, ok := m.apps[id]
	return app, ok
}

// launch opens an app from the start menu or a desktop icon.
func (m Model) launch(id window.AppID) {
	m.wm.Open(id)
	logging.DesktopDebug("launch %s", id)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		return m, nil, true
	}

	if m.wm.StartMenuOpen() {
		registry := m.wm.Snapshot()
		switch {
		case key.Matches(msg, m.keys.StartMenu), msg.Type == tea.KeyEsc:
			m.wm.CloseStartMenu()
		case msg.Type == tea.KeyUp:
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case msg.Type == tea.KeyDown:
			if m.menuCursor < len(registry)-1 {
				m.menuCursor++
			}
		case msg.Type == tea.KeyEnter:
			if m.menuCursor < len(registry) {
				m.launch(registry[m.menuCursor].ID)
			}
		}
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.StartMenu):
		m.wm.ToggleStartMenu()
		m.menuCursor = 0
	case key.Matches(msg, m.keys.Taskbar):
		s := msg.String()
		n := int(s[len(s)-1] - '1')
		if entries := m.wm.TaskbarEntries(); n >= 0 && n < len(entries) {
			m.wm.TaskbarClick(entries[n].ID)
		}
	case key.Matches(msg, m.keys.Cycle):
		m.wm.FocusNext()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Close, m.keys.Minimize, m.keys.Maximize):
		id, ok := m.wm.Active()
		if !ok {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Close):
			m.wm.Close(id)
		case key.Matches(msg, m.keys.Minimize):
			m.wm.Minimize(id)
		default:
			m.wm.Maximize(id)
		}
	case key.Matches(msg, m.keys.MoveUp, m.keys.MoveDown, m.keys.MoveLeft, m.keys.MoveRight):
		m.nudge(msg)
	default:
		if app, ok := m.activeApp(); ok {
			return m, app.Update(msg), false
		}
	}
	return m, nil, false
}

// nudge moves the active window one cell (two across) with drag clamping.
func (m Model) nudge(msg tea.KeyMsg) {
	id, ok := m.wm.Active()
	if !ok {
		return
	}
	w, ok := m.wm.Window(id)
	if !ok || w.IsMaximized {
		return
	}
	p := w.Position
	switch {
	case key.Matches(msg, m.keys.MoveUp):
		p.Y--
	case key.Matches(msg, m.keys.MoveDown):
		p.Y++
	case key.Matches(msg, m.keys.MoveLeft):
		p.X -= 2
	case key.Matches(msg, m.keys.MoveRight):
		p.X += 2
	}
	p = window.ClampPosition(p, m.workArea(), m.margin)
	m.wm.Move(id, p.X, p.Y)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	p := window.Point{X: msg.X, Y: msg.Y}
	work := m.workArea()

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.drag.Active() {
			m.drag.MoveTo(p, work)
		}
		return m, nil
	case tea.MouseActionRelease:
		if m.drag != nil {
			m.drag.End()
			m.drag = nil
		}
		return m, nil
	case tea.MouseActionPress:
	default:
		return m, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if app, ok := m.activeApp(); ok {
			return m, app.Update(msg)
		}
		return m, nil
	}
	if msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if p.Y >= work.Height {
		m.clickTaskbar(p.X)
		return m, nil
	}

	if m.wm.StartMenuOpen() {
		r := startMenuRect(work.Height)
		if i := startMenuItemAt(r, p); i >= 0 {
			m.launch(m.wm.Snapshot()[i].ID)
		} else if !r.Contains(p) {
			m.wm.CloseStartMenu()
		}
		return m, nil
	}

	if w, r, ok := m.wm.HitTest(p, work); ok {
		if p.Y == r.Y {
			switch titleButtonAt(r, p) {
			case buttonMinimize:
				m.wm.Minimize(w.ID)
			case buttonMaximize:
				m.wm.Maximize(w.ID)
			case buttonClose:
				m.wm.Close(w.ID)
			default:
				if g, ok := m.wm.BeginDrag(w.ID, p, m.margin); ok {
					m.drag = g
				} else {
					m.wm.Focus(w.ID)
				}
			}
			return m, nil
		}
		m.wm.Focus(w.ID)
		return m, nil
	}

	for n, id := range window.DesktopIcons() {
		if iconRect(n).Contains(p) {
			m.launch(id)
			break
		}
	}
	return m, nil
}

func (m Model) clickTaskbar(x int) {
	start, spans := taskbarLayout(m.wm.TaskbarEntries())
	if x >= start.x0 && x < start.x1 {
		m.wm.ToggleStartMenu()
		return
	}
	for _, sp := range spans {
		if x >= sp.x0 && x < sp.x1 {
			m.wm.TaskbarClick(sp.id)
			return
		}
	}
}

func (m Model) clock() string {
	clockFmt, dateFmt := "15:04", "Jan 2"
	if c := m.env.Config; c != nil {
		if c.Desktop.ClockFormat != "" {
			clockFmt = c.Desktop.ClockFormat
		}
		if c.Desktop.DateFormat != "" {
			dateFmt = c.Desktop.DateFormat
		}
	}
	return m.now.Format(clockFmt) + " · " + m.now.Format(dateFmt)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Booting Athlon OS..."
	}
	s := m.env.Styles
	work := m.workArea()

	canvas := renderWallpaper(s, m.wm, work.Width, work.Height)
	active, _ := m.wm.Active()
	for _, w := range m.wm.Stack() {
		app, ok := m.apps[w.ID]
		if !ok {
			continue
		}
		r := window.BoundsOf(w, work)
		overlay(canvas, renderWindow(s, w, r, w.ID == active, app.View()), r.X, r.Y, work.Width)
	}

	if m.wm.StartMenuOpen() {
		r := startMenuRect(work.Height)
		overlay(canvas, renderStartMenu(s, m.wm.Snapshot(), m.menuCursor), r.X, r.Y, work.Width)
	}

	if m.showHelp {
		block := strings.Split(m.help.View(m.keys), "\n")
		overlay(canvas, block, 0, work.Height-len(block), work.Width)
	} else if work.Height > 0 {
		hint := m.help.ShortHelpView(m.keys.ShortHelp())
		overlay(canvas, []string{hint}, work.Width-ansi.StringWidth(hint)-1, work.Height-1, work.Width)
	}

	taskbar := renderTaskbar(s, m.width, m.wm.TaskbarEntries(), m.clock())
	return strings.Join(canvas, "\n") + "\n" + taskbar
}
