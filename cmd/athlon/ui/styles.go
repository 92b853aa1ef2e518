// Package ui provides the visual styling for the Athlon desktop.
// Light and dark palettes share one Styles layout.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors
	LightBackground = lipgloss.Color("#dbe4ee") // desktop wallpaper
	LightForeground = lipgloss.Color("#0f172a") // slate-900
	LightPrimary    = lipgloss.Color("#2563eb") // blue-600
	LightAccent     = lipgloss.Color("#0ea5e9") // sky-500
	LightSecondary  = lipgloss.Color("#e2e8f0") // slate-200
	LightMuted      = lipgloss.Color("#64748b") // slate-500
	LightBorder     = lipgloss.Color("#94a3b8") // slate-400
	LightCard       = lipgloss.Color("#f8fafc") // window body

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#0b1220")
	DarkForeground = lipgloss.Color("#e2e8f0")
	DarkPrimary    = lipgloss.Color("#3b82f6") // blue-500
	DarkAccent     = lipgloss.Color("#38bdf8") // sky-400
	DarkSecondary  = lipgloss.Color("#1e293b") // slate-800
	DarkMuted      = lipgloss.Color("#94a3b8")
	DarkBorder     = lipgloss.Color("#334155") // slate-700
	DarkCard       = lipgloss.Color("#0f172a")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#ef4444")
	Success     = lipgloss.Color("#22c55e")
	Warning     = lipgloss.Color("#f59e0b")
	Info        = lipgloss.Color("#3b82f6")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme guesses from the terminal, defaulting to dark.
func DetectTheme() Theme {
	if os.Getenv("ATHLON_DARK_MODE") == "0" {
		return LightTheme()
	}
	// COLORFGBG is "foreground;background"; 7 and 15 are light backgrounds.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if bgIdx == 7 || bgIdx == 15 {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// ThemeFor resolves the config value (auto, dark, light).
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// GlamourStyle names the glamour standard style matching the theme.
func (t Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Desktop
	Desktop     lipgloss.Style
	DesktopIcon lipgloss.Style
	Taskbar     lipgloss.Style
	StartButton lipgloss.Style
	TaskEntry   lipgloss.Style
	TaskActive  lipgloss.Style
	Clock       lipgloss.Style
	StartMenu   lipgloss.Style
	MenuItem    lipgloss.Style
	MenuCursor  lipgloss.Style

	// Windows
	TitleBar       lipgloss.Style
	TitleBarActive lipgloss.Style
	WindowFrame    lipgloss.Style
	WindowBody     lipgloss.Style

	// Text
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Chat
	UserMessage   lipgloss.Style
	AgentResponse lipgloss.Style
	Prompt        lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Code
	CodeBlock  lipgloss.Style
	CodeHeader lipgloss.Style

	// Components
	Spinner  lipgloss.Style
	Selected lipgloss.Style
	Badge    lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	white := lipgloss.Color("#ffffff")
	return Styles{
		Theme: theme,

		Desktop: lipgloss.NewStyle().
			Background(theme.Background).
			Foreground(theme.Foreground),

		DesktopIcon: lipgloss.NewStyle().
			Background(theme.Background).
			Foreground(theme.Accent).
			Bold(true),

		Taskbar: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Foreground),

		StartButton: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(white).
			Bold(true),

		TaskEntry: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Muted),

		TaskActive: lipgloss.NewStyle().
			Background(theme.Border).
			Foreground(theme.Foreground).
			Bold(true).
			Underline(true),

		Clock: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Foreground),

		StartMenu: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(theme.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary),

		MenuItem: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		MenuCursor: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(white).
			Bold(true),

		TitleBar: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Muted),

		TitleBarActive: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(white).
			Bold(true),

		WindowFrame: lipgloss.NewStyle().
			Foreground(theme.Border),

		WindowBody: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		AgentResponse: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		CodeBlock: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		CodeHeader: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Selected: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(white),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(white).
			Padding(0, 1).
			Bold(true),
	}
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
