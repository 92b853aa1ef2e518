// Package ui layout constants for the desktop canvas
package ui

// Layout constants, in terminal cells.
const (
	// Desktop chrome
	TaskbarHeight   = 1
	StartButtonText = " ◈ Start "
	ClockPadding    = 1

	// Window chrome: a title row, side borders and a bottom border.
	TitleBarHeight   = 1
	WindowBorderCols = 2
	WindowBorderRows = 2 // title bar plus bottom border
	TitleButtons     = " _  □  × "
	TitleButtonWidth = 3

	// Desktop icons
	IconColumnX   = 2
	IconRowHeight = 3
	IconWidth     = 14

	// Split pane dimensions
	SplitPaneLeftRatio = 0.45
	SplitPaneDivider   = 1

	// Responsive breakpoints
	MinimumTerminalWidth  = 40
	MinimumTerminalHeight = 12
)

// WorkArea returns the desktop area above the taskbar.
func WorkArea(termWidth, termHeight int) (width, height int) {
	height = termHeight - TaskbarHeight
	if height < 0 {
		height = 0
	}
	return termWidth, height
}

// WindowContentSize returns the app area inside a window of the given size.
func WindowContentSize(width, height int) (int, int) {
	w, h := width-WindowBorderCols, height-WindowBorderRows
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// SplitPaneWidths calculates left and right pane widths for a split view
func SplitPaneWidths(totalWidth int) (leftWidth, rightWidth int) {
	leftWidth = int(float64(totalWidth) * SplitPaneLeftRatio)
	rightWidth = totalWidth - leftWidth - SplitPaneDivider
	if rightWidth < 0 {
		rightWidth = 0
	}
	return
}
