package window

// DefaultDragMargin keeps part of a dragged window reachable on screen.
const DefaultDragMargin = 8

// DragGesture follows one press-move-release sequence on a title bar. It is
// only valid between BeginDrag and End.
type DragGesture struct {
	m      *Manager
	id     AppID
	offset Point
	margin int
	live   bool
}

// BeginDrag starts dragging id from the given pointer position. Maximized
// and hidden windows refuse the gesture.
func (m *Manager) BeginDrag(id AppID, pointer Point, margin int) (*DragGesture, bool) {
	w, ok := m.Window(id)
	if !ok || !w.Visible() || w.IsMaximized {
		return nil, false
	}
	m.Focus(id)
	return &DragGesture{
		m:      m,
		id:     id,
		offset: Point{X: pointer.X - w.Position.X, Y: pointer.Y - w.Position.Y},
		margin: margin,
		live:   true,
	}, true
}

// ID returns the window being dragged.
func (g *DragGesture) ID() AppID { return g.id }

// Active reports whether the gesture still tracks the pointer.
func (g *DragGesture) Active() bool { return g != nil && g.live }

// MoveTo repositions the window under the pointer, keeping its top-left
// corner within [0, viewport-margin] on both axes.
func (g *DragGesture) MoveTo(pointer Point, viewport Size) Point {
	if !g.Active() {
		return Point{}
	}
	p := Point{
		X: clamp(pointer.X-g.offset.X, 0, viewport.Width-g.margin),
		Y: clamp(pointer.Y-g.offset.Y, 0, viewport.Height-g.margin),
	}
	g.m.Move(g.id, p.X, p.Y)
	return p
}

// End releases the gesture.
func (g *DragGesture) End() {
	if g != nil {
		g.live = false
	}
}

// ClampPosition applies the drag bounds to an arbitrary position.
func ClampPosition(p Point, viewport Size, margin int) Point {
	return Point{
		X: clamp(p.X, 0, viewport.Width-margin),
		Y: clamp(p.Y, 0, viewport.Height-margin),
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
