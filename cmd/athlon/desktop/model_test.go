package desktop

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athlonos/internal/window"
)

const (
	termWidth  = 120
	termHeight = 40
)

func newTestModel(t *testing.T) (Model, *fixture) {
	t.Helper()
	f := newFixture(t)
	m := New(f.env)
	return send(m, tea.WindowSizeMsg{Width: termWidth, Height: termHeight}), f
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func requireWindow(t *testing.T, m Model, id window.AppID) window.WindowState {
	t.Helper()
	w, ok := m.Manager().Window(id)
	require.True(t, ok)
	return w
}

func activeID(m Model) window.AppID {
	id, _ := m.Manager().Active()
	return id
}

func TestNewModel(t *testing.T) {
	f := newFixture(t)
	m := New(f.env)

	assert.Equal(t, "Booting Athlon OS...", m.View())
	assert.Equal(t, window.AppAgentChat, activeID(m))
	assert.Len(t, m.apps, len(window.AllApps))

	m = send(m, tea.WindowSizeMsg{Width: termWidth, Height: termHeight})
	view := plain(m.View())
	assert.Contains(t, view, "Athlon Agent")
	assert.Contains(t, view, "Start")
	assert.Contains(t, view, "09:30 · Mar 5")
	assert.Len(t, strings.Split(view, "\n"), termHeight)
}

func TestClockTick(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(clockTickMsg(time.Date(2024, 3, 5, 17, 45, 0, 0, time.UTC)))
	m = next.(Model)

	assert.NotNil(t, cmd, "tick must reschedule itself")
	assert.Contains(t, plain(m.View()), "17:45 · Mar 5")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(keyType(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestStartMenuKeyboard(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(m, keyType(tea.KeyCtrlO))
	assert.True(t, m.Manager().StartMenuOpen())
	assert.Contains(t, plain(m.View()), "Athlon OS")

	m = send(m, keyType(tea.KeyCtrlO))
	assert.False(t, m.Manager().StartMenuOpen())

	// Cursor starts on the first registry entry.
	m = send(m, keyType(tea.KeyCtrlO))
	m = send(m, keyType(tea.KeyDown))
	m = send(m, keyType(tea.KeyDown))
	m = send(m, keyType(tea.KeyUp))
	m = send(m, keyType(tea.KeyUp))
	m = send(m, keyType(tea.KeyUp))
	m = send(m, keyType(tea.KeyEnter))

	assert.False(t, m.Manager().StartMenuOpen(), "launching closes the menu")
	assert.True(t, requireWindow(t, m, window.AppFileExplorer).IsOpen)
	assert.Equal(t, window.AppFileExplorer, activeID(m))

	m = send(m, keyType(tea.KeyCtrlO))
	m = send(m, keyType(tea.KeyEsc))
	assert.False(t, m.Manager().StartMenuOpen())
}

func TestStartMenuSwallowsAppKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, keyType(tea.KeyCtrlO))
	m = send(m, keyRunes("x"))

	chat := m.apps[window.AppAgentChat].(*chatApp)
	assert.Empty(t, chat.input.Value())
}

func TestTaskbarShortcut(t *testing.T) {
	m, _ := newTestModel(t)

	// The chat is the only open window and already in front.
	m = send(m, altRune('1'))
	assert.True(t, requireWindow(t, m, window.AppAgentChat).IsMinimized)
	_, hasActive := m.Manager().Active()
	assert.False(t, hasActive)

	m = send(m, altRune('1'))
	assert.False(t, requireWindow(t, m, window.AppAgentChat).IsMinimized)
	assert.Equal(t, window.AppAgentChat, activeID(m))

	// Out of range entries are ignored.
	m = send(m, altRune('4'))
	assert.Equal(t, window.AppAgentChat, activeID(m))
}

func TestWindowKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(m, keyType(tea.KeyCtrlX))
	assert.True(t, requireWindow(t, m, window.AppAgentChat).IsMaximized)
	m = send(m, keyType(tea.KeyCtrlX))
	assert.False(t, requireWindow(t, m, window.AppAgentChat).IsMaximized)

	m = send(m, keyType(tea.KeyCtrlN))
	assert.True(t, requireWindow(t, m, window.AppAgentChat).IsMinimized)

	m = send(m, altRune('1'))
	m = send(m, keyType(tea.KeyCtrlW))
	assert.False(t, requireWindow(t, m, window.AppAgentChat).IsOpen)
	assert.Empty(t, m.Manager().TaskbarEntries())

	// Nothing is active; window keys are no-ops.
	m = send(m, keyType(tea.KeyCtrlW))
	assert.Empty(t, m.Manager().TaskbarEntries())
}

func TestCycleFocus(t *testing.T) {
	m, _ := newTestModel(t)
	m.Manager().Open(window.AppFileExplorer)
	require.Equal(t, window.AppFileExplorer, activeID(m))

	m = send(m, keyType(tea.KeyTab))
	assert.Equal(t, window.AppAgentChat, activeID(m))
	m = send(m, keyType(tea.KeyTab))
	assert.Equal(t, window.AppFileExplorer, activeID(m))
}

func TestMoveWithKeysClamps(t *testing.T) {
	m, _ := newTestModel(t)
	start := requireWindow(t, m, window.AppAgentChat).Position
	require.Equal(t, window.Point{X: 3, Y: 1}, start)

	m = send(m, altKey(tea.KeyRight))
	m = send(m, altKey(tea.KeyDown))
	assert.Equal(t, window.Point{X: 5, Y: 2}, requireWindow(t, m, window.AppAgentChat).Position)

	for range 5 {
		m = send(m, altKey(tea.KeyLeft))
		m = send(m, altKey(tea.KeyUp))
	}
	assert.Equal(t, window.Point{X: 0, Y: 0}, requireWindow(t, m, window.AppAgentChat).Position)

	for range 100 {
		m = send(m, altKey(tea.KeyRight))
		m = send(m, altKey(tea.KeyDown))
	}
	workHeight := termHeight - 1
	assert.Equal(t, window.Point{X: termWidth - window.DefaultDragMargin, Y: workHeight - window.DefaultDragMargin},
		requireWindow(t, m, window.AppAgentChat).Position)
}

func TestMouseDragTitleBar(t *testing.T) {
	m, _ := newTestModel(t)

	// Title row of the chat window at (3,1), away from the buttons.
	m = send(m, press(10, 1))
	require.True(t, m.drag.Active())

	m = send(m, motion(30, 10))
	assert.Equal(t, window.Point{X: 23, Y: 10}, requireWindow(t, m, window.AppAgentChat).Position)

	m = send(m, motion(-50, -50))
	assert.Equal(t, window.Point{X: 0, Y: 0}, requireWindow(t, m, window.AppAgentChat).Position)

	m = send(m, release(0, 0))
	assert.Nil(t, m.drag)

	m = send(m, motion(40, 20))
	assert.Equal(t, window.Point{X: 0, Y: 0}, requireWindow(t, m, window.AppAgentChat).Position)
}

func TestMaximizedWindowDoesNotDrag(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, keyType(tea.KeyCtrlX))

	m = send(m, press(10, 0))
	assert.Nil(t, m.drag)
	assert.Equal(t, window.AppAgentChat, activeID(m))
}

func TestTitleButtons(t *testing.T) {
	// Chat window spans x in [3, 63); buttons occupy the last nine cells.
	tests := []struct {
		name  string
		x     int
		check func(t *testing.T, w window.WindowState)
	}{
		{"minimize", 55, func(t *testing.T, w window.WindowState) { assert.True(t, w.IsMinimized) }},
		{"maximize", 58, func(t *testing.T, w window.WindowState) { assert.True(t, w.IsMaximized) }},
		{"close", 61, func(t *testing.T, w window.WindowState) { assert.False(t, w.IsOpen) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m = send(m, press(tt.x, 1))
			assert.Nil(t, m.drag)
			tt.check(t, requireWindow(t, m, window.AppAgentChat))
		})
	}
}

func TestClickFocusesWindow(t *testing.T) {
	m, _ := newTestModel(t)
	m.Manager().Open(window.AppBrowser)
	require.Equal(t, window.AppBrowser, activeID(m))

	// The browser covers (9..89, 3..25); the chat peeks out at its top-left.
	m = send(m, press(4, 5))
	assert.Equal(t, window.AppAgentChat, activeID(m))
	chat := requireWindow(t, m, window.AppAgentChat)
	browser := requireWindow(t, m, window.AppBrowser)
	assert.Greater(t, chat.ZIndex, browser.ZIndex)
}

func TestTaskbarClicks(t *testing.T) {
	m, _ := newTestModel(t)
	bottom := termHeight - 1

	m = send(m, press(2, bottom))
	assert.True(t, m.Manager().StartMenuOpen())
	m = send(m, press(2, bottom))
	assert.False(t, m.Manager().StartMenuOpen())

	_, spans := taskbarLayout(m.Manager().TaskbarEntries())
	require.Len(t, spans, 1)

	m = send(m, press(spans[0].x0, bottom))
	assert.True(t, requireWindow(t, m, window.AppAgentChat).IsMinimized)
	m = send(m, press(spans[0].x0, bottom))
	assert.False(t, requireWindow(t, m, window.AppAgentChat).IsMinimized)
}

func TestStartMenuClick(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, keyType(tea.KeyCtrlO))

	r := startMenuRect(termHeight - 1)
	m = send(m, press(r.X+4, r.Y+2+4)) // fifth entry: browser
	assert.True(t, requireWindow(t, m, window.AppBrowser).IsOpen)
	assert.False(t, m.Manager().StartMenuOpen())

	// A click outside dismisses without launching.
	m = send(m, keyType(tea.KeyCtrlO))
	m = send(m, press(termWidth-2, 2))
	assert.False(t, m.Manager().StartMenuOpen())
	assert.False(t, requireWindow(t, m, window.AppNotepad).IsOpen)
}

func TestDesktopIconLaunches(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, keyType(tea.KeyCtrlW)) // uncover the icons

	r := iconRect(0)
	m = send(m, press(r.X+1, r.Y))
	assert.True(t, requireWindow(t, m, window.AppFileExplorer).IsOpen)
	assert.Equal(t, window.AppFileExplorer, activeID(m))
}

func TestKeysReachActiveApp(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, keyRunes("h"))
	m = send(m, keyRunes("i"))

	chat := m.apps[window.AppAgentChat].(*chatApp)
	assert.Equal(t, "hi", chat.input.Value())

	m = send(m, keyType(tea.KeyCtrlN))
	m = send(m, keyRunes("!"))
	assert.Equal(t, "hi", chat.input.Value(), "minimized apps get no keys")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, plain(m.View()), "ctrl+g help")

	m = send(m, keyType(tea.KeyCtrlG))
	view := plain(m.View())
	assert.Contains(t, view, "minimize")
	assert.Contains(t, view, "alt+1..5")
}

func TestAppsReceiveContentSize(t *testing.T) {
	m, _ := newTestModel(t)
	chat := m.apps[window.AppAgentChat].(*chatApp)
	assert.Equal(t, 58, chat.width)
	assert.Equal(t, 22, chat.height)

	m = send(m, keyType(tea.KeyCtrlX))
	assert.Equal(t, termWidth-2, chat.width)
	assert.Equal(t, termHeight-1-2, chat.height)
}
