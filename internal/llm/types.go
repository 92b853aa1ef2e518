// Package llm holds the chat agent's transport clients: a genai-backed cloud
// session with local tool execution, an OpenAI-compatible direct client, and
// the interpreter backend's upload and chat endpoints.
package llm

import (
	"errors"
	"fmt"
)

// Wire roles for OpenAI-style message lists.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in an OpenAI-style messages array.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var (
	// ErrUnparsableResponse means a completion body matched no known shape.
	ErrUnparsableResponse = errors.New("could not parse response from local model")
	// ErrUploadFailed is returned for non-2xx upload responses.
	ErrUploadFailed = errors.New("file upload failed")
	// ErrMissingAPIKey is returned when the cloud transport has no key.
	ErrMissingAPIKey = errors.New("cloud API key not configured (set GEMINI_API_KEY or API_KEY)")
	// ErrToolLoop is returned when the model keeps calling tools.
	ErrToolLoop = errors.New("tool-calling loop did not converge")
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Service string
	Code    int
	Status  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Service, e.Status)
}

// ToolParam describes one string parameter of a tool.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

// ToolDefinition describes a function the cloud model may call.
type ToolDefinition struct {
	Name        string
	Description string
	Params      []ToolParam
}

// ToolExecutor runs tool calls locally. Results, including failures, are
// returned in-band as text for the model to read.
type ToolExecutor interface {
	Definitions() []ToolDefinition
	Execute(name string, args map[string]any) string
}
