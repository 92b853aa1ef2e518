package desktop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"athlonos/cmd/athlon/ui"
	"athlonos/internal/window"
)

// titleButton is a control on the right of a title bar.
type titleButton int

const (
	buttonNone titleButton = iota
	buttonMinimize
	buttonMaximize
	buttonClose
)

// titleButtonAt maps a click on the title row of r to a button.
func titleButtonAt(r window.Rect, p window.Point) titleButton {
	if p.Y != r.Y {
		return buttonNone
	}
	start := r.X + r.Width - ansi.StringWidth(ui.TitleButtons)
	if p.X < start || p.X >= r.X+r.Width {
		return buttonNone
	}
	switch (p.X - start) / ui.TitleButtonWidth {
	case 0:
		return buttonMinimize
	case 1:
		return buttonMaximize
	default:
		return buttonClose
	}
}

// renderWindow draws the frame around an app's content.
func renderWindow(s ui.Styles, w window.WindowState, r window.Rect, active bool, content string) []string {
	if r.Width < 2 || r.Height < 2 {
		return nil
	}
	buttons := ui.TitleButtons
	if ansi.StringWidth(buttons) > r.Width {
		buttons = ""
	}
	title := fitLine(fmt.Sprintf(" %s %s", w.Icon, w.Title), r.Width-ansi.StringWidth(buttons)) + buttons
	bar := s.TitleBar
	if active {
		bar = s.TitleBarActive
	}

	lines := make([]string, 0, r.Height)
	lines = append(lines, bar.Render(title))

	cw, ch := ui.WindowContentSize(r.Width, r.Height)
	side := s.WindowFrame.Render("│")
	for _, l := range fitBlock(content, cw, ch) {
		lines = append(lines, side+l+side)
	}
	lines = append(lines, s.WindowFrame.Render("└"+strings.Repeat("─", cw)+"┘"))
	return lines
}

// taskSpan is the clickable extent of a taskbar button.
type taskSpan struct {
	id     window.AppID
	label  string
	x0, x1 int
}

const maxTaskLabel = 18

// taskbarLayout positions the start button and window entries.
func taskbarLayout(entries []window.TaskbarEntry) (start taskSpan, spans []taskSpan) {
	start = taskSpan{label: ui.StartButtonText, x0: 0, x1: ansi.StringWidth(ui.StartButtonText)}
	x := start.x1 + 1
	for _, e := range entries {
		label := fmt.Sprintf(" %s %s ", e.Icon, e.Title)
		if ansi.StringWidth(label) > maxTaskLabel {
			label = ansi.Truncate(label, maxTaskLabel-1, "…") + " "
		}
		w := ansi.StringWidth(label)
		spans = append(spans, taskSpan{id: e.ID, label: label, x0: x, x1: x + w})
		x += w + 1
	}
	return start, spans
}

// renderTaskbar draws the bottom bar with the clock on the right.
func renderTaskbar(s ui.Styles, width int, entries []window.TaskbarEntry, clock string) string {
	start, spans := taskbarLayout(entries)
	var b strings.Builder
	b.WriteString(s.StartButton.Render(start.label))
	used := start.x1
	for i, sp := range spans {
		b.WriteString(s.Taskbar.Render(" "))
		style := s.TaskEntry
		if entries[i].Highlighted {
			style = s.TaskActive
		}
		b.WriteString(style.Render(sp.label))
		used = sp.x1
	}
	clock = " " + clock + strings.Repeat(" ", ui.ClockPadding)
	gap := width - used - ansi.StringWidth(clock)
	if gap > 0 {
		b.WriteString(s.Taskbar.Render(strings.Repeat(" ", gap)))
		b.WriteString(s.Clock.Render(clock))
	}
	return fitLine(b.String(), width)
}

const startMenuWidth = 26

// startMenuRect places the menu just above the taskbar.
func startMenuRect(workHeight int) window.Rect {
	h := len(window.AllApps) + 3 // border, header, border
	y := workHeight - h
	if y < 0 {
		y = 0
	}
	return window.Rect{Point: window.Point{X: 0, Y: y}, Size: window.Size{Width: startMenuWidth, Height: h}}
}

// startMenuItemAt returns the registry index under p, or -1.
func startMenuItemAt(r window.Rect, p window.Point) int {
	if !r.Contains(p) {
		return -1
	}
	i := p.Y - r.Y - 2
	if i < 0 || i >= len(window.AllApps) || p.X == r.X || p.X == r.X+r.Width-1 {
		return -1
	}
	return i
}

// renderStartMenu draws the menu box listing every app.
func renderStartMenu(s ui.Styles, registry []window.WindowState, cursor int) []string {
	inner := startMenuWidth - 2
	rows := []string{s.Title.Render(fitLine(" Athlon OS", inner))}
	for i, w := range registry {
		label := fitLine(fmt.Sprintf(" %s  %s", w.Icon, w.Title), inner)
		if i == cursor {
			rows = append(rows, s.MenuCursor.Render(label))
		} else {
			rows = append(rows, s.MenuItem.Render(label))
		}
	}
	box := s.StartMenu.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return strings.Split(box, "\n")
}

// iconRect is the clickable area of the nth desktop icon.
func iconRect(n int) window.Rect {
	return window.Rect{
		Point: window.Point{X: ui.IconColumnX, Y: 1 + n*ui.IconRowHeight},
		Size:  window.Size{Width: ui.IconWidth, Height: ui.IconRowHeight - 1},
	}
}

// renderWallpaper draws the empty desktop with its icons.
func renderWallpaper(s ui.Styles, wm *window.Manager, width, height int) []string {
	blank := s.Desktop.Render(strings.Repeat(" ", max(width, 0)))
	canvas := make([]string, height)
	for i := range canvas {
		canvas[i] = blank
	}
	for n, id := range window.DesktopIcons() {
		w, ok := wm.Window(id)
		if !ok {
			continue
		}
		r := iconRect(n)
		icon := []string{
			s.DesktopIcon.Render(fitLine("  "+w.Icon, r.Width)),
			s.Desktop.Render(fitLine(w.Title, r.Width)),
		}
		overlay(canvas, icon, r.X, r.Y, width)
	}
	return canvas
}
