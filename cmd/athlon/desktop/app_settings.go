package desktop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"athlonos/internal/agent"
	"athlonos/internal/logging"
)

// settingsField is one row of the settings form. Choice rows cycle through
// fixed values; the rest are free text.
type settingsField struct {
	label   string
	choices []string
	choice  int
	input   textinput.Model
	get     func(agent.Config) string
	set     func(*agent.Config, string)
}

func (f *settingsField) value() string {
	if f.choices != nil {
		return f.choices[f.choice]
	}
	return strings.TrimSpace(f.input.Value())
}

func (f *settingsField) load(cfg agent.Config) {
	v := f.get(cfg)
	if f.choices == nil {
		f.input.SetValue(v)
		return
	}
	for i, c := range f.choices {
		if c == v {
			f.choice = i
		}
	}
}

// settingsApp edits the agent transport settings.
type settingsApp struct {
	env    *Env
	fields []*settingsField
	cursor int
	status string
	width  int
}

func newSettingsApp(env *Env) App {
	text := func(placeholder string, secret bool) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = ""
		ti.CharLimit = 512
		if secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		return ti
	}

	a := &settingsApp{env: env}
	a.fields = []*settingsField{
		{
			label:   "Transport",
			choices: []string{agent.TransportLocal, agent.TransportCloud},
			get:     func(c agent.Config) string { return c.Transport },
			set:     func(c *agent.Config, v string) { c.Transport = v },
		},
		{
			label:   "Local mode",
			choices: []string{agent.ModeDirect, agent.ModeInterpreter},
			get:     func(c agent.Config) string { return c.Mode },
			set:     func(c *agent.Config, v string) { c.Mode = v },
		},
		{
			label: "Model",
			input: text("llama3", false),
			get:   func(c agent.Config) string { return c.Model },
			set:   func(c *agent.Config, v string) { c.Model = v },
		},
		{
			label: "API base URL",
			input: text("http://localhost:11434/v1", false),
			get:   func(c agent.Config) string { return c.APIBaseURL },
			set:   func(c *agent.Config, v string) { c.APIBaseURL = v },
		},
		{
			label: "API key",
			input: text("optional", true),
			get:   func(c agent.Config) string { return c.APIKey },
			set:   func(c *agent.Config, v string) { c.APIKey = v },
		},
		{
			label: "Backend URL",
			input: text("http://localhost:8000", false),
			get:   func(c agent.Config) string { return c.BackendURL },
			set:   func(c *agent.Config, v string) { c.BackendURL = v },
		},
		{
			label: "Cloud model",
			input: text("gemini-2.5-flash", false),
			get:   func(c agent.Config) string { return c.CloudModel },
			set:   func(c *agent.Config, v string) { c.CloudModel = v },
		},
		{
			label: "Cloud API key",
			input: text("required for cloud", true),
			get:   func(c agent.Config) string { return c.CloudAPIKey },
			set:   func(c *agent.Config, v string) { c.CloudAPIKey = v },
		},
	}
	a.load()
	return a
}

func (a *settingsApp) load() {
	cfg := a.env.Agent.Config()
	for _, f := range a.fields {
		f.load(cfg)
	}
}

func (a *settingsApp) Init() tea.Cmd { return nil }

func (a *settingsApp) Focus() tea.Cmd { return a.focusField() }

func (a *settingsApp) Blur() {
	for _, f := range a.fields {
		f.input.Blur()
	}
}

func (a *settingsApp) SetSize(width, _ int) {
	a.width = width
	for _, f := range a.fields {
		f.input.Width = max(width-18, 4)
	}
}

func (a *settingsApp) focusField() tea.Cmd {
	var cmd tea.Cmd
	for i, f := range a.fields {
		if i == a.cursor && f.choices == nil {
			cmd = f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	return cmd
}

// save pushes the form into the orchestrator. Fields not shown on the form
// keep their current values.
func (a *settingsApp) save() {
	cfg := a.env.Agent.Config()
	for _, f := range a.fields {
		f.set(&cfg, f.value())
	}
	a.env.Agent.Configure(cfg)
	transport, mode := cfg.Transport, cfg.Mode
	if transport == agent.TransportCloud {
		mode = "-"
	}
	a.status = "Settings saved."
	logging.Agent("settings saved: transport=%s mode=%s", transport, mode)
}

func (a *settingsApp) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	f := a.fields[a.cursor]
	switch key.String() {
	case "up", "shift+tab":
		if a.cursor > 0 {
			a.cursor--
		}
		return a.focusField()
	case "down":
		if a.cursor < len(a.fields)-1 {
			a.cursor++
		}
		return a.focusField()
	case "enter", "ctrl+s":
		a.save()
		return nil
	case "esc":
		a.load()
		a.status = "Changes discarded."
		return nil
	case "left", "right", " ":
		if f.choices != nil {
			step := 1
			if key.String() == "left" {
				step = len(f.choices) - 1
			}
			f.choice = (f.choice + step) % len(f.choices)
			a.status = ""
			return nil
		}
	}
	if f.choices != nil {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	a.status = ""
	return cmd
}

func (a *settingsApp) View() string {
	s := a.env.Styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Agent connection") + "\n\n")
	for i, f := range a.fields {
		label := fmt.Sprintf("%-14s", f.label)
		if i == a.cursor {
			label = s.Selected.Render("› " + label)
		} else {
			label = s.Muted.Render("  " + label)
		}
		var value string
		if f.choices != nil {
			value = "◂ " + f.choices[f.choice] + " ▸"
		} else {
			value = f.input.View()
		}
		b.WriteString(label + " " + value + "\n")
	}
	b.WriteString("\n")
	if a.status != "" {
		b.WriteString(s.Success.Render(a.status) + "\n")
	}
	b.WriteString(s.Muted.Render("↑/↓ field · ←/→ choose · enter save · esc revert"))
	return b.String()
}
