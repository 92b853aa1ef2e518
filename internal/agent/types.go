// Package agent orchestrates the Athlon Agent chat: it owns the visible
// conversation, routes each send to the cloud, direct or interpreter
// transport, and turns every failure into an error-flagged reply.
package agent

import (
	"errors"
	"time"

	"athlonos/internal/config"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of the visible conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Text    string `json:"text"`
	IsError bool   `json:"is_error,omitempty"`
}

// Attachment is a pending local file for the next send.
type Attachment struct {
	Name string
	Path string
}

// Transports and local modes.
const (
	TransportCloud = "cloud"
	TransportLocal = "local"

	ModeDirect      = "direct"
	ModeInterpreter = "interpreter"
)

// Config selects and configures the transport for a send.
type Config struct {
	Transport     string
	Mode          string
	Model         string
	APIBaseURL    string
	APIKey        string
	BackendURL    string
	CloudModel    string
	CloudAPIKey   string
	MaxToolRounds int
	Timeout       time.Duration
}

// ConfigFrom extracts the agent settings from the application config.
func ConfigFrom(c *config.Config) Config {
	a := c.Agent
	return Config{
		Transport:     a.Transport,
		Mode:          a.Mode,
		Model:         a.Model,
		APIBaseURL:    a.APIBaseURL,
		APIKey:        a.APIKey,
		BackendURL:    a.BackendURL,
		CloudModel:    a.CloudModel,
		CloudAPIKey:   a.CloudAPIKey,
		MaxToolRounds: a.MaxToolRounds,
		Timeout:       c.GetAgentTimeout(),
	}
}

// label names the route for metrics and logs.
func (c Config) label() (transport, mode string) {
	if c.Transport == TransportCloud {
		return TransportCloud, "-"
	}
	return TransportLocal, c.Mode
}

var (
	// ErrEmptyInput is returned by Prepare for blank input with nothing
	// attached.
	ErrEmptyInput = errors.New("empty message")
)

const (
	// InitialGreeting opens a fresh desktop session.
	InitialGreeting = "Hello! I am Athlon Agent. Connect me to vLLM, Ollama or cloud models."
	// ClearedGreeting replaces the history after Clear.
	ClearedGreeting = "Hello! I am Athlon Agent. Ready to assist."

	localSystemPrefix = "You are Athlon Agent, running locally. "
)

// SystemInstruction is sent to every model the agent talks to.
const SystemInstruction = `
You are Athlon Agent, an intelligent AI agent integrated into a desktop operating system.

CORE BEHAVIORS:
1. **Markdown is Mandatory**: Always format your response using Markdown.
   - Use ` + "```language code ```" + ` blocks for ALL code snippets.
   - Use **bold** for emphasis.
   - Use lists for steps.
2. **File Handling**:
   - You have access to the user's simulated file system via tools (listFiles, readFile).
   - The user may also attach files directly to the chat. If a user provides file content in the prompt, analyze it thoroughly.
3. **Coding Capability**:
   - When asked to write code, provide the full code in a copyable block.
   - If analyzing a provided file, reference specific lines or sections.
4. **Tone**: Concise, professional, and helpful.
`
