package window

import (
	"sort"
	"sync"

	"athlonos/internal/logging"
)

// Op names reported to observers.
const (
	OpOpen     = "open"
	OpClose    = "close"
	OpMinimize = "minimize"
	OpMaximize = "maximize"
	OpFocus    = "focus"
	OpMove     = "move"
)

// Observer is notified after every state-changing operation.
type Observer func(op string, id AppID)

// Manager is the single owner of the window registry. Every other component
// reads snapshots and calls the operations below.
type Manager struct {
	mu        sync.RWMutex
	order     []AppID
	windows   map[AppID]*WindowState
	active    AppID
	topZ      int
	startOpen bool
	observer  Observer
}

// Option configures a Manager.
type Option func(*Manager)

// WithObserver installs an operation observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// WithTopZ overrides the initial z counter.
func WithTopZ(z int) Option {
	return func(m *Manager) { m.topZ = z }
}

// NewManager builds a manager over the given records. Records with unknown
// or duplicate ids are skipped.
func NewManager(registry []WindowState, opts ...Option) *Manager {
	m := &Manager{
		windows: make(map[AppID]*WindowState, len(registry)),
		topZ:    InitialTopZ,
	}
	for _, w := range registry {
		if !w.ID.Valid() {
			continue
		}
		if _, dup := m.windows[w.ID]; dup {
			continue
		}
		w := w
		m.windows[w.ID] = &w
		m.order = append(m.order, w.ID)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) notify(op string, id AppID) {
	if m.observer != nil {
		m.observer(op, id)
	}
}

// raise assigns the next z value. Caller holds mu.
func (m *Manager) raise(w *WindowState) {
	m.topZ++
	w.ZIndex = m.topZ
}

// Open shows the window, raises it, makes it active and closes the start menu.
func (m *Manager) Open(id AppID) {
	m.mu.Lock()
	w, ok := m.windows[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	w.IsOpen = true
	w.IsMinimized = false
	m.raise(w)
	z := w.ZIndex
	m.active = id
	m.startOpen = false
	m.mu.Unlock()

	logging.WindowDebug("open %s z=%d", id, z)
	m.notify(OpOpen, id)
}

// Close hides the window. Geometry and z are kept for the next Open.
func (m *Manager) Close(id AppID) {
	m.mu.Lock()
	w, ok := m.windows[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	w.IsOpen = false
	if m.active == id {
		m.active = ""
	}
	m.mu.Unlock()

	logging.WindowDebug("close %s", id)
	m.notify(OpClose, id)
}

// Minimize hides the window without closing it and clears the active window.
func (m *Manager) Minimize(id AppID) {
	m.mu.Lock()
	w, ok := m.windows[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	w.IsMinimized = true
	m.active = ""
	m.mu.Unlock()

	logging.WindowDebug("minimize %s", id)
	m.notify(OpMinimize, id)
}

// Maximize toggles the maximized flag and focuses the window. Stored
// position and size are left alone; see Bounds.
func (m *Manager) Maximize(id AppID) {
	m.mu.Lock()
	w, ok := m.windows[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	w.IsMaximized = !w.IsMaximized
	maximized := w.IsMaximized
	m.mu.Unlock()

	logging.WindowDebug("maximize %s -> %v", id, maximized)
	m.notify(OpMaximize, id)
	m.Focus(id)
}

// Focus raises and restores the window unless it is already active.
func (m *Manager) Focus(id AppID) {
	m.mu.Lock()
	w, ok := m.windows[id]
	if !ok || m.active == id {
		m.mu.Unlock()
		return
	}
	m.raise(w)
	w.IsMinimized = false
	m.active = id
	m.mu.Unlock()

	m.notify(OpFocus, id)
}

// Move sets the window's top-left corner. Callers clamp.
func (m *Manager) Move(id AppID, x, y int) {
	m.mu.Lock()
	w, ok := m.windows[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	w.Position = Point{X: x, Y: y}
	m.mu.Unlock()

	m.notify(OpMove, id)
}

// TaskbarClick minimizes the window when it is already in front, and
// otherwise brings it up.
func (m *Manager) TaskbarClick(id AppID) {
	m.mu.RLock()
	w, ok := m.windows[id]
	inFront := ok && w.IsOpen && !w.IsMinimized && m.active == id
	m.mu.RUnlock()
	if !ok {
		return
	}

	if inFront {
		m.Minimize(id)
		return
	}
	m.Open(id)
	m.Focus(id)
}

// ToggleStartMenu flips the start menu flag.
func (m *Manager) ToggleStartMenu() {
	m.mu.Lock()
	m.startOpen = !m.startOpen
	m.mu.Unlock()
}

// CloseStartMenu hides the start menu.
func (m *Manager) CloseStartMenu() {
	m.mu.Lock()
	m.startOpen = false
	m.mu.Unlock()
}

// StartMenuOpen reports the start menu flag.
func (m *Manager) StartMenuOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startOpen
}

// Active returns the focused window id, if any.
func (m *Manager) Active() (AppID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, m.active != ""
}

// TopZ returns the current value of the z counter.
func (m *Manager) TopZ() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.topZ
}

// Window returns a copy of one record.
func (m *Manager) Window(id AppID) (WindowState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return WindowState{}, false
	}
	return *w, true
}

// Snapshot copies the registry in registry order.
func (m *Manager) Snapshot() []WindowState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]WindowState, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.windows[id])
	}
	return out
}

// Stack returns the visible windows bottom to top.
func (m *Manager) Stack() []WindowState {
	var out []WindowState
	for _, w := range m.Snapshot() {
		if w.Visible() {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// TaskbarEntry is one button on the taskbar.
type TaskbarEntry struct {
	ID          AppID
	Title       string
	Icon        string
	Highlighted bool
}

// TaskbarEntries lists open windows in registry order.
func (m *Manager) TaskbarEntries() []TaskbarEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []TaskbarEntry
	for _, id := range m.order {
		w := m.windows[id]
		if !w.IsOpen {
			continue
		}
		out = append(out, TaskbarEntry{
			ID:          id,
			Title:       w.Title,
			Icon:        w.Icon,
			Highlighted: m.active == id && !w.IsMinimized,
		})
	}
	return out
}

// Bounds resolves where the window paints. A maximized window covers the
// whole work area.
func (m *Manager) Bounds(id AppID, workArea Size) (Rect, bool) {
	w, ok := m.Window(id)
	if !ok {
		return Rect{}, false
	}
	return BoundsOf(w, workArea), true
}

// BoundsOf is Bounds for an already captured record.
func BoundsOf(w WindowState, workArea Size) Rect {
	if w.IsMaximized {
		return Rect{Size: workArea}
	}
	return Rect{Point: w.Position, Size: w.Size}
}

// HitTest returns the topmost visible window containing p.
func (m *Manager) HitTest(p Point, workArea Size) (WindowState, Rect, bool) {
	stack := m.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		r := BoundsOf(stack[i], workArea)
		if r.Contains(p) {
			return stack[i], r, true
		}
	}
	return WindowState{}, Rect{}, false
}

// FocusNext moves focus to the visible window just below the top of the
// stack, cycling through all of them on repeated calls.
func (m *Manager) FocusNext() {
	stack := m.Stack()
	if len(stack) == 0 {
		return
	}
	// Raising the bottom window rotates the stack by one.
	m.Focus(stack[0].ID)
}
