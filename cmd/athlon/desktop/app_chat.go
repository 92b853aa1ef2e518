package desktop

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"athlonos/internal/agent"
	"athlonos/internal/logging"
	"athlonos/internal/render"
)

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

// chatReplyMsg carries the outcome of one agent turn.
type chatReplyMsg struct {
	turnID string
	msg    agent.ChatMessage
	ok     bool
}

// copyExpiredMsg repaints the code panel once "Copied!" times out.
type copyExpiredMsg struct{}

// segmentRef locates one segment of one message.
type segmentRef struct {
	message int
	segment int
}

// chatApp is the agent chat window.
type chatApp struct {
	env *Env

	input   textinput.Model
	vp      viewport.Model
	spin    spinner.Model
	picker  filepicker.Model
	picking bool

	renderer      *glamour.TermRenderer
	rendererWidth int

	copied  render.CopyFeedback
	copyRef segmentRef
	rawHTML map[segmentRef]bool
	status  string

	width, height int
	focused       bool
}

func newChatApp(env *Env) App {
	s := env.Styles

	ti := textinput.New()
	ti.Placeholder = "Message Athlon Agent..."
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.PromptStyle = s.Prompt

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	c := &chatApp{
		env:     env,
		input:   ti,
		vp:      viewport.New(0, 0),
		spin:    sp,
		picker:  newPicker(),
		copyRef: segmentRef{message: -1},
		rawHTML: make(map[segmentRef]bool),
	}
	return c
}

func newPicker() filepicker.Model {
	fp := filepicker.New()
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	return fp
}

func (c *chatApp) Init() tea.Cmd { return nil }

func (c *chatApp) Focus() tea.Cmd {
	c.focused = true
	return c.input.Focus()
}

func (c *chatApp) Blur() {
	c.focused = false
	c.input.Blur()
}

func (c *chatApp) SetSize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.input.Width = max(width-4, 1)
	c.vp.Width = width
	c.vp.Height = max(height-3, 1)
	c.picker.Height = max(height-3, 1)
	c.refresh()
}

func (c *chatApp) agent() *agent.Orchestrator { return c.env.Agent }

func (c *chatApp) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case chatReplyMsg:
		if !msg.ok {
			logging.DesktopDebug("chat: turn %s produced nothing to show", msg.turnID)
		}
		c.refresh()
		c.vp.GotoBottom()
		return nil

	case copyExpiredMsg:
		c.refresh()
		return nil

	case spinner.TickMsg:
		if !c.agent().Loading() {
			return nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		c.refresh()
		return cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		c.vp, cmd = c.vp.Update(msg)
		return cmd

	case tea.KeyMsg:
		if c.picking {
			return c.updatePicker(msg)
		}
		return c.handleKey(msg)
	}

	// Directory listings for the picker arrive as private messages.
	if c.picking {
		var cmd tea.Cmd
		c.picker, cmd = c.picker.Update(msg)
		return cmd
	}
	return nil
}

func (c *chatApp) updatePicker(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		c.picking = false
		c.status = ""
		return nil
	}
	var cmd tea.Cmd
	c.picker, cmd = c.picker.Update(msg)
	if ok, path := c.picker.DidSelectFile(msg); ok {
		c.agent().SetAttachment(agent.Attachment{Name: filepath.Base(path), Path: path})
		c.picking = false
		c.picker = newPicker()
		c.status = ""
		return nil
	}
	if ok, path := c.picker.DidSelectDisabledFile(msg); ok {
		c.status = fmt.Sprintf("%s cannot be attached", filepath.Base(path))
	}
	return cmd
}

func (c *chatApp) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return c.send()
	case "ctrl+l":
		c.agent().Clear()
		c.rawHTML = make(map[segmentRef]bool)
		c.copyRef = segmentRef{message: -1}
		c.status = ""
		c.refresh()
		return nil
	case "ctrl+a":
		c.picking = true
		c.status = "Pick a file to attach (esc to cancel)"
		return c.picker.Init()
	case "esc":
		c.agent().ClearAttachment()
		c.status = ""
		return nil
	case "ctrl+y":
		return c.copyNewestCode()
	case "ctrl+t":
		c.toggleNewestHTML()
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		c.vp, cmd = c.vp.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// send starts a turn unless one is already in flight.
func (c *chatApp) send() tea.Cmd {
	orch := c.agent()
	if orch.Loading() {
		return nil
	}
	turn, err := orch.Prepare(c.input.Value())
	if err != nil {
		return nil
	}
	c.input.Reset()
	c.status = ""
	c.refresh()
	c.vp.GotoBottom()

	run := func() tea.Msg {
		msg, ok := orch.Run(context.Background(), turn)
		return chatReplyMsg{turnID: turn.ID, msg: msg, ok: ok}
	}
	return tea.Batch(run, c.spin.Tick)
}

func (c *chatApp) options() render.Options {
	opts := render.DefaultOptions()
	if cfg := c.env.Config; cfg != nil && cfg.Desktop.AssetOrigin != "" {
		opts.AssetOrigin = cfg.Desktop.AssetOrigin
	}
	return opts
}

// newest finds the latest segment of kind k in a model message.
func (c *chatApp) newest(k render.Kind) (segmentRef, render.Segment, bool) {
	msgs := c.agent().Messages()
	opts := c.options()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != agent.RoleModel || msgs[i].IsError {
			continue
		}
		segs := render.Split(msgs[i].Text, opts)
		for j := len(segs) - 1; j >= 0; j-- {
			if segs[j].Kind == k {
				return segmentRef{message: i, segment: j}, segs[j], true
			}
		}
	}
	return segmentRef{}, render.Segment{}, false
}

func (c *chatApp) copyNewestCode() tea.Cmd {
	ref, seg, ok := c.newest(render.KindCode)
	if !ok {
		return nil
	}
	if err := clipboardWriteAll(seg.Code); err != nil {
		c.status = "Copy failed: " + err.Error()
		return nil
	}
	c.copied.Mark(c.env.now())
	c.copyRef = ref
	c.refresh()
	return tea.Tick(render.CopyFeedbackDuration, func(time.Time) tea.Msg { return copyExpiredMsg{} })
}

func (c *chatApp) toggleNewestHTML() {
	ref, _, ok := c.newest(render.KindHTML)
	if !ok {
		return
	}
	c.rawHTML[ref] = !c.rawHTML[ref]
	c.refresh()
}

func (c *chatApp) markdown(width int) *glamour.TermRenderer {
	if c.renderer != nil && c.rendererWidth == width {
		return c.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(c.env.Styles.Theme.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logging.RenderDebug("glamour renderer unavailable: %v", err)
		return nil
	}
	c.renderer, c.rendererWidth = r, width
	return r
}

// refresh rebuilds the transcript shown in the viewport.
func (c *chatApp) refresh() {
	if c.width <= 0 {
		return
	}
	s := c.env.Styles
	msgs := c.agent().Messages()
	blocks := make([]string, 0, len(msgs)+1)
	for i, m := range msgs {
		blocks = append(blocks, c.renderMessage(i, m))
	}
	if c.agent().Loading() {
		blocks = append(blocks, c.spin.View()+s.Muted.Render(" Athlon Agent is thinking..."))
	}
	c.vp.SetContent(strings.Join(blocks, "\n\n"))
}

func (c *chatApp) renderMessage(i int, m agent.ChatMessage) string {
	s := c.env.Styles
	width := max(c.width-2, 10)
	if m.Role == agent.RoleUser {
		return s.UserMessage.Render("You") + "\n" + lipgloss.NewStyle().Width(width).Render(m.Text)
	}
	header := s.AgentResponse.Render("Athlon Agent")
	if m.IsError {
		return header + "\n" + s.Error.Width(width).Render(m.Text)
	}

	var parts []string
	for j, seg := range render.Split(m.Text, c.options()) {
		ref := segmentRef{message: i, segment: j}
		parts = append(parts, c.renderSegment(ref, seg, width))
	}
	return header + "\n" + strings.Join(parts, "\n")
}

func (c *chatApp) renderSegment(ref segmentRef, seg render.Segment, width int) string {
	s := c.env.Styles
	switch seg.Kind {
	case render.KindCode:
		label := "Copy"
		if ref == c.copyRef {
			label = c.copied.Label(c.env.now())
		}
		lang := seg.Language
		if lang == "" {
			lang = "code"
		}
		head := s.CodeHeader.Render(fmt.Sprintf(" %s  [%s]", lang, label))
		body := s.CodeBlock.Render(seg.Code)
		if r := c.markdown(width); r != nil {
			if out, err := r.Render("```" + seg.Language + "\n" + seg.Code + "\n```"); err == nil {
				body = strings.Trim(out, "\n")
			}
		}
		return head + "\n" + body

	case render.KindHTML:
		if c.rawHTML[ref] {
			return s.CodeHeader.Render(" html  [raw]") + "\n" + s.CodeBlock.Render(seg.Code)
		}
		return s.CodeHeader.Render(" html  [preview]") + "\n" +
			lipgloss.NewStyle().Width(width).Render(render.PreviewText(seg.Code))

	case render.KindImage:
		alt := seg.Alt
		if alt == "" {
			alt = "image"
		}
		return s.Info.Render("[image: "+alt+"]") + " " + s.Muted.Render(seg.URL)

	default:
		var b strings.Builder
		for _, sp := range seg.Spans {
			if sp.Bold {
				b.WriteString(s.Bold.Render(sp.Text))
			} else {
				b.WriteString(sp.Text)
			}
		}
		return lipgloss.NewStyle().Width(width).Render(strings.Trim(b.String(), "\n"))
	}
}

func (c *chatApp) View() string {
	s := c.env.Styles
	if c.picking {
		return s.Title.Render("Attach a file") + "\n" + c.picker.View() + "\n" + s.Muted.Render(c.status)
	}

	footer := s.Warning.Render(c.status)
	if a, ok := c.agent().Attachment(); ok {
		footer = s.Badge.Render("📎 "+a.Name) + s.Muted.Render("  esc to remove")
	} else if c.status == "" {
		footer = s.Muted.Render("enter send · ctrl+a attach · ctrl+y copy code · ctrl+t html · ctrl+l clear")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		c.vp.View(),
		s.RenderDivider(c.width),
		c.input.View(),
		footer,
	)
}
