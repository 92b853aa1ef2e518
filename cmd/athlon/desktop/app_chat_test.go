package desktop

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athlonos/internal/agent"
)

func newTestChat(t *testing.T) (*chatApp, *fixture) {
	t.Helper()
	f := newFixture(t)
	c := newChatApp(f.env).(*chatApp)
	c.SetSize(70, 80)
	c.Focus()
	return c, f
}

// converse sends text and delivers the reply the way the program would.
func converse(t *testing.T, c *chatApp, text string) chatReplyMsg {
	t.Helper()
	typeText(c, text)
	cmds := batchCmds(t, c.Update(keyType(tea.KeyEnter)))
	require.Len(t, cmds, 2, "turn and spinner")
	reply, ok := cmds[0]().(chatReplyMsg)
	require.True(t, ok)
	c.Update(reply)
	return reply
}

func TestChatShowsGreeting(t *testing.T) {
	c, f := newTestChat(t)
	msgs := f.env.Agent.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, agent.InitialGreeting, msgs[0].Text)
	assert.Contains(t, plain(c.View()), "Hello! I am Athlon Agent.")
}

func TestChatSendAndReply(t *testing.T) {
	c, f := newTestChat(t)
	f.completer.reply = "Sure, **here** it is."

	reply := converse(t, c, "hello agent")

	assert.True(t, reply.ok)
	assert.Empty(t, c.input.Value(), "input clears on send")
	msgs := f.env.Agent.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello agent", msgs[1].Text)
	assert.Equal(t, "Sure, **here** it is.", msgs[2].Text)

	view := plain(c.View())
	assert.Contains(t, view, "hello agent")
	assert.Contains(t, view, "Sure, here it is.")
	assert.NotContains(t, view, "**")
	assert.False(t, f.env.Agent.Loading())
}

func TestChatIgnoresEmptyInput(t *testing.T) {
	c, f := newTestChat(t)
	assert.Nil(t, c.Update(keyType(tea.KeyEnter)))
	assert.Len(t, f.env.Agent.Messages(), 1)
}

func TestChatIgnoresEnterWhileLoading(t *testing.T) {
	c, f := newTestChat(t)
	typeText(c, "first")
	cmds := batchCmds(t, c.Update(keyType(tea.KeyEnter)))
	require.True(t, f.env.Agent.Loading())

	typeText(c, "second")
	assert.Nil(t, c.Update(keyType(tea.KeyEnter)))
	assert.Equal(t, "second", c.input.Value())

	c.Update(cmds[0]())
	assert.False(t, f.env.Agent.Loading())
	assert.Len(t, f.env.Agent.Messages(), 3)
	assert.Contains(t, plain(c.View()), "Hello there.")
}

func TestChatShowsErrors(t *testing.T) {
	c, f := newTestChat(t)
	f.completer.err = errors.New("connection refused")

	converse(t, c, "ping")

	msgs := f.env.Agent.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[2].IsError)
	assert.Contains(t, plain(c.View()), "Error: connection refused")
}

func TestChatClear(t *testing.T) {
	c, f := newTestChat(t)
	converse(t, c, "hi")
	require.Len(t, f.env.Agent.Messages(), 3)

	c.Update(keyType(tea.KeyCtrlL))

	msgs := f.env.Agent.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, agent.ClearedGreeting, msgs[0].Text)
	assert.Contains(t, plain(c.View()), agent.ClearedGreeting)
}

func TestChatCopyNewestCode(t *testing.T) {
	var copied []string
	old := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	defer func() { clipboardWriteAll = old }()

	c, f := newTestChat(t)
	f.completer.reply = "Old:\n```go\nfmt.Println(1)\n```"
	converse(t, c, "one")
	f.completer.reply = "New:\n```python\nprint(2)\n```\nand more text"
	converse(t, c, "two")

	assert.Contains(t, plain(c.View()), "python  [Copy]")

	cmd := c.Update(keyType(tea.KeyCtrlY))
	require.NotNil(t, cmd, "expiry tick scheduled")
	assert.Equal(t, []string{"print(2)"}, copied)
	view := plain(c.View())
	assert.Contains(t, view, "python  [Copied!]")
	assert.Contains(t, view, "go  [Copy]")

	f.clock.Advance(2 * time.Second)
	c.Update(copyExpiredMsg{})
	assert.Contains(t, plain(c.View()), "python  [Copy]")
}

func TestChatCopyFailure(t *testing.T) {
	old := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	defer func() { clipboardWriteAll = old }()

	c, f := newTestChat(t)
	f.completer.reply = "```sh\nls\n```"
	converse(t, c, "list")

	assert.Nil(t, c.Update(keyType(tea.KeyCtrlY)))
	assert.Contains(t, plain(c.View()), "Copy failed: no clipboard")
}

func TestChatCopyWithoutCode(t *testing.T) {
	called := false
	old := clipboardWriteAll
	clipboardWriteAll = func(string) error { called = true; return nil }
	defer func() { clipboardWriteAll = old }()

	c, _ := newTestChat(t)
	assert.Nil(t, c.Update(keyType(tea.KeyCtrlY)))
	assert.False(t, called)
}

func TestChatHTMLToggle(t *testing.T) {
	c, f := newTestChat(t)
	f.completer.reply = "Page:\n```html\n<html><body><h1>Welcome</h1><script>alert(1)</script></body></html>\n```"
	converse(t, c, "make a page")

	view := plain(c.View())
	assert.Contains(t, view, "html  [preview]")
	assert.Contains(t, view, "Welcome")
	assert.NotContains(t, view, "alert(1)")

	c.Update(keyType(tea.KeyCtrlT))
	view = plain(c.View())
	assert.Contains(t, view, "html  [raw]")
	assert.Contains(t, view, "<h1>Welcome</h1>")

	c.Update(keyType(tea.KeyCtrlT))
	assert.Contains(t, plain(c.View()), "html  [preview]")
}

func TestChatRendersImages(t *testing.T) {
	c, f := newTestChat(t)
	f.completer.reply = "Chart: ![sales plot](/static/plot.png)"
	converse(t, c, "plot it")

	assert.Contains(t, plain(c.View()), "[image: sales plot] http://localhost:8000/static/plot.png")
}

func TestChatAttachmentBadge(t *testing.T) {
	c, f := newTestChat(t)
	f.env.Agent.SetAttachment(agent.Attachment{Name: "data.csv", Path: "/tmp/data.csv"})
	assert.Contains(t, plain(c.View()), "data.csv")

	c.Update(keyType(tea.KeyEsc))
	_, ok := f.env.Agent.Attachment()
	assert.False(t, ok)
}

func TestChatFilePickerOpensAndCancels(t *testing.T) {
	c, _ := newTestChat(t)
	cmd := c.Update(keyType(tea.KeyCtrlA))
	assert.NotNil(t, cmd, "picker reads the directory")
	assert.True(t, c.picking)
	assert.Contains(t, plain(c.View()), "Attach a file")

	c.Update(keyType(tea.KeyEsc))
	assert.False(t, c.picking)
}
