package desktop

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// fitBlock cuts or pads s to exactly width×height cells.
func fitBlock(s string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	lines := strings.Split(s, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = fitLine(line, width)
	}
	return out
}

// fitLine cuts or pads one line to width cells.
func fitLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	line = strings.TrimRight(line, "\r")
	if ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width, "")
	}
	if pad := width - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// overlay paints block onto canvas with its top-left corner at (x, y),
// clipping to the canvas. Canvas lines are assumed width cells wide.
func overlay(canvas, block []string, x, y, width int) {
	for i, line := range block {
		row := y + i
		if row < 0 || row >= len(canvas) {
			continue
		}
		col := x
		if col < 0 {
			line = ansi.TruncateLeft(line, -col, "")
			col = 0
		}
		if col >= width {
			continue
		}
		if col+ansi.StringWidth(line) > width {
			line = ansi.Truncate(line, width-col, "")
		}
		bg := canvas[row]
		left := ansi.Truncate(bg, col, "")
		if pad := col - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(bg, col+ansi.StringWidth(line), "")
		canvas[row] = left + ansi.ResetStyle + line + ansi.ResetStyle + right
	}
}
