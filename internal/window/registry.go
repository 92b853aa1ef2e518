// Package window owns the desktop's window registry and the state machine
// that drives it: open, close, minimize, maximize, focus, move and the
// taskbar click policy.
package window

// AppID identifies one of the fixed desktop applications.
type AppID string

const (
	AppFileExplorer AppID = "file-explorer"
	AppAgentChat    AppID = "agent-chat"
	AppNotepad      AppID = "notepad"
	AppSettings     AppID = "settings"
	AppBrowser      AppID = "browser"
)

// AllApps lists the known applications in registry order.
var AllApps = []AppID{AppFileExplorer, AppAgentChat, AppNotepad, AppSettings, AppBrowser}

// Valid reports whether id names a known application.
func (id AppID) Valid() bool {
	for _, a := range AllApps {
		if a == id {
			return true
		}
	}
	return false
}

// Point is a desktop-relative cell coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is a window extent in cells.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect is a positioned rectangle.
type Rect struct {
	Point
	Size
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// WindowState is the record kept for every application window. Records are
// created once with the registry and only their flags change afterwards.
type WindowState struct {
	ID          AppID  `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	IsOpen      bool   `json:"is_open"`
	IsMinimized bool   `json:"is_minimized"`
	IsMaximized bool   `json:"is_maximized"`
	ZIndex      int    `json:"z_index"`
	Position    Point  `json:"position"`
	Size        Size   `json:"size"`
}

// Visible reports whether the window should be painted.
func (w WindowState) Visible() bool {
	return w.IsOpen && !w.IsMinimized
}

// InitialTopZ is the counter value the manager starts raising from.
const InitialTopZ = 10

// DefaultRegistry returns the startup window set. Only the agent chat is
// open.
func DefaultRegistry() []WindowState {
	return []WindowState{
		{ID: AppFileExplorer, Title: "File Explorer", Icon: "▤", ZIndex: 1,
			Position: Point{X: 6, Y: 2}, Size: Size{Width: 72, Height: 20}},
		{ID: AppAgentChat, Title: "Athlon Agent", Icon: "◆", IsOpen: true, ZIndex: 2,
			Position: Point{X: 3, Y: 1}, Size: Size{Width: 60, Height: 24}},
		{ID: AppNotepad, Title: "Notepad", Icon: "✎", ZIndex: 1,
			Position: Point{X: 12, Y: 5}, Size: Size{Width: 52, Height: 16}},
		{ID: AppSettings, Title: "Settings", Icon: "⚙", ZIndex: 1,
			Position: Point{X: 16, Y: 6}, Size: Size{Width: 54, Height: 18}},
		{ID: AppBrowser, Title: "Browser", Icon: "◎", ZIndex: 1,
			Position: Point{X: 9, Y: 3}, Size: Size{Width: 80, Height: 22}},
	}
}

// DesktopIcons lists the apps that get a shortcut on the desktop surface.
func DesktopIcons() []AppID {
	icons := make([]AppID, 0, len(AllApps))
	for _, id := range AllApps {
		if id == AppSettings || id == AppNotepad {
			continue
		}
		icons = append(icons, id)
	}
	return icons
}
