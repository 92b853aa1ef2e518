package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrag_FollowsPointerWithOffset(t *testing.T) {
	m := NewManager(DefaultRegistry())
	m.Open(AppNotepad)
	start, _ := m.Window(AppNotepad)

	// Grab the title bar three cells in from the left edge.
	g, ok := m.BeginDrag(AppNotepad, Point{X: start.Position.X + 3, Y: start.Position.Y}, DefaultDragMargin)
	require.True(t, ok)
	assert.True(t, g.Active())
	assert.Equal(t, AppNotepad, g.ID())

	got := g.MoveTo(Point{X: 30, Y: 10}, Size{Width: 120, Height: 40})
	assert.Equal(t, Point{X: 27, Y: 10}, got)

	w, _ := m.Window(AppNotepad)
	assert.Equal(t, Point{X: 27, Y: 10}, w.Position)
}

func TestDrag_Clamps(t *testing.T) {
	viewport := Size{Width: 100, Height: 30}

	tests := []struct {
		name    string
		pointer Point
		want    Point
	}{
		{"negative", Point{X: -20, Y: -5}, Point{X: 0, Y: 0}},
		{"past right and bottom", Point{X: 500, Y: 500}, Point{X: 92, Y: 22}},
		{"inside", Point{X: 40, Y: 12}, Point{X: 40, Y: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(DefaultRegistry())
			m.Open(AppSettings)
			w, _ := m.Window(AppSettings)

			g, ok := m.BeginDrag(AppSettings, w.Position, DefaultDragMargin)
			require.True(t, ok)
			assert.Equal(t, tt.want, g.MoveTo(tt.pointer, viewport))
		})
	}
}

func TestDrag_RefusedWhenMaximizedOrHidden(t *testing.T) {
	m := NewManager(DefaultRegistry())
	m.Open(AppBrowser)
	m.Maximize(AppBrowser)

	_, ok := m.BeginDrag(AppBrowser, Point{}, DefaultDragMargin)
	assert.False(t, ok)

	_, ok = m.BeginDrag(AppNotepad, Point{}, DefaultDragMargin)
	assert.False(t, ok, "closed window")

	_, ok = m.BeginDrag("pinball", Point{}, DefaultDragMargin)
	assert.False(t, ok)
}

func TestDrag_EndStopsMoves(t *testing.T) {
	m := NewManager(DefaultRegistry())
	m.Open(AppNotepad)
	w, _ := m.Window(AppNotepad)

	g, ok := m.BeginDrag(AppNotepad, w.Position, DefaultDragMargin)
	require.True(t, ok)
	g.End()
	assert.False(t, g.Active())

	g.MoveTo(Point{X: 1, Y: 1}, Size{Width: 80, Height: 24})
	after, _ := m.Window(AppNotepad)
	assert.Equal(t, w.Position, after.Position)
}

func TestDrag_BeginFocuses(t *testing.T) {
	m := NewManager(DefaultRegistry())
	m.Open(AppNotepad)
	m.Open(AppBrowser)
	n, _ := m.Window(AppNotepad)

	_, ok := m.BeginDrag(AppNotepad, n.Position, DefaultDragMargin)
	require.True(t, ok)

	active, _ := m.Active()
	assert.Equal(t, AppNotepad, active)
}

func TestClampPosition_TinyViewport(t *testing.T) {
	got := ClampPosition(Point{X: 5, Y: 5}, Size{Width: 4, Height: 4}, DefaultDragMargin)
	assert.Equal(t, Point{}, got)
}
