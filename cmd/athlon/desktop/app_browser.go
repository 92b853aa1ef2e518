package desktop

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"athlonos/internal/browser"
)

var errNoFetcher = errors.New("no page fetcher configured")

// pageMsg is the result of one fetch. seq discards results overtaken by a
// newer navigation.
type pageMsg struct {
	seq  int
	page browser.Page
	err  error
}

type browserApp struct {
	env     *Env
	address textinput.Model
	vp      viewport.Model
	spin    spinner.Model

	seq     int
	loading bool
	page    browser.Page
	err     error
	width   int
}

func newBrowserApp(env *Env) App {
	ti := textinput.New()
	ti.Prompt = "🌐 "
	ti.Placeholder = "Enter an address"
	ti.CharLimit = 2048
	if env.Config != nil {
		ti.SetValue(env.Config.Browser.HomeURL)
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = env.Styles.Spinner

	return &browserApp{env: env, address: ti, vp: viewport.New(0, 0), spin: sp}
}

func (b *browserApp) Init() tea.Cmd { return nil }

func (b *browserApp) Focus() tea.Cmd { return b.address.Focus() }

func (b *browserApp) Blur() { b.address.Blur() }

func (b *browserApp) SetSize(width, height int) {
	b.width = width
	b.address.Width = max(width-4, 1)
	b.vp.Width = width
	b.vp.Height = max(height-3, 1)
	b.render()
}

// navigate fetches the address bar's URL off the update loop.
func (b *browserApp) navigate() tea.Cmd {
	if b.env.Fetcher == nil {
		b.err = errNoFetcher
		b.render()
		return nil
	}
	b.seq++
	seq, addr, fetcher := b.seq, b.address.Value(), b.env.Fetcher
	b.loading = true
	b.err = nil
	b.render()

	fetch := func() tea.Msg {
		page, err := fetcher.Fetch(context.Background(), addr)
		return pageMsg{seq: seq, page: page, err: err}
	}
	return tea.Batch(fetch, b.spin.Tick)
}

func (b *browserApp) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageMsg:
		if msg.seq != b.seq {
			return nil
		}
		b.loading = false
		b.page, b.err = msg.page, msg.err
		if msg.err == nil {
			b.address.SetValue(msg.page.URL)
		}
		b.render()
		b.vp.GotoTop()
		return nil

	case spinner.TickMsg:
		if !b.loading {
			return nil
		}
		var cmd tea.Cmd
		b.spin, cmd = b.spin.Update(msg)
		return cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		b.vp, cmd = b.vp.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return b.navigate()
		case "ctrl+r":
			return b.navigate()
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			b.vp, cmd = b.vp.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		b.address, cmd = b.address.Update(msg)
		return cmd
	}
	return nil
}

func (b *browserApp) render() {
	s := b.env.Styles
	width := max(b.width-1, 10)
	switch {
	case b.err != nil:
		b.vp.SetContent(s.Error.Width(width).Render("Could not load page: " + b.err.Error()))
	case b.page.URL == "":
		b.vp.SetContent(s.Muted.Render("Type an address and press enter."))
	default:
		title := b.page.Title
		if title == "" {
			title = b.page.URL
		}
		body := lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(b.page.Text))
		b.vp.SetContent(s.Title.Render(title) + "\n\n" + body)
	}
}

func (b *browserApp) View() string {
	s := b.env.Styles
	status := s.Muted.Render("enter go · ctrl+r reload · ↑/↓ scroll")
	if b.loading {
		status = b.spin.View() + s.Muted.Render(" Loading...")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		b.address.View(),
		s.RenderDivider(b.width),
		b.vp.View(),
		status,
	)
}
