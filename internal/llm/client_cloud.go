package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"athlonos/internal/logging"
)

// DefaultCloudModel is used when the config leaves the model empty.
const DefaultCloudModel = "gemini-2.5-flash"

// CloudConfig configures the cloud transport.
type CloudConfig struct {
	APIKey            string
	Model             string
	SystemInstruction string
	MaxToolRounds     int
}

// Generator is the slice of the genai Models service the cloud session
// needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// CloudProvider creates cloud chat sessions that share one genai client.
type CloudProvider struct {
	gen    Generator
	cfg    CloudConfig
	tools  ToolExecutor
	config *genai.GenerateContentConfig
}

// NewCloudProvider connects to the Gemini API.
func NewCloudProvider(ctx context.Context, cfg CloudConfig, tools ToolExecutor) (*CloudProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewCloudProviderWithGenerator(client.Models, cfg, tools), nil
}

// NewCloudProviderWithGenerator builds a provider over an existing
// generator.
func NewCloudProviderWithGenerator(gen Generator, cfg CloudConfig, tools ToolExecutor) *CloudProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultCloudModel
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 5
	}
	p := &CloudProvider{gen: gen, cfg: cfg, tools: tools}
	p.config = &genai.GenerateContentConfig{}
	if cfg.SystemInstruction != "" {
		p.config.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if tools != nil {
		if decls := functionDeclarations(tools.Definitions()); len(decls) > 0 {
			p.config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		}
	}
	return p
}

func functionDeclarations(defs []ToolDefinition) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, d := range defs {
		fd := &genai.FunctionDeclaration{Name: d.Name, Description: d.Description}
		if len(d.Params) > 0 {
			schema := &genai.Schema{
				Type:       genai.TypeObject,
				Properties: make(map[string]*genai.Schema, len(d.Params)),
			}
			for _, p := range d.Params {
				schema.Properties[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
				if p.Required {
					schema.Required = append(schema.Required, p.Name)
				}
			}
			fd.Parameters = schema
		}
		decls = append(decls, fd)
	}
	return decls
}

// NewSession starts an empty conversation.
func (p *CloudProvider) NewSession() *CloudSession {
	return &CloudSession{p: p, id: uuid.NewString()}
}

// CloudSession is one server-side conversation. History only grows on
// successful turns.
type CloudSession struct {
	p       *CloudProvider
	id      string
	mu      sync.Mutex
	history []*genai.Content
}

// ID identifies the session in logs.
func (s *CloudSession) ID() string { return s.id }

// Turns returns how many contents the session has committed.
func (s *CloudSession) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Send adds a user message and runs the tool-calling loop until the model
// replies with text.
func (s *CloudSession) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := time.Now()
	contents := append(append([]*genai.Content(nil), s.history...), genai.NewContentFromText(text, genai.RoleUser))

	for round := 0; ; round++ {
		logging.LLMDebug("[Cloud] session=%s round=%d contents=%d", s.id, round, len(contents))
		resp, err := s.p.gen.GenerateContent(ctx, s.p.cfg.Model, contents, s.p.config)
		if err != nil {
			logging.LLMError("[Cloud] session=%s generate failed: %v", s.id, err)
			return "", fmt.Errorf("cloud request failed: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			s.history = contents
			return "", nil
		}
		reply := resp.Candidates[0].Content
		if reply.Role == "" {
			reply.Role = string(genai.RoleModel)
		}
		contents = append(contents, reply)

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			s.history = contents
			logging.LLM("[Cloud] session=%s completed in %v after %d tool rounds", s.id, time.Since(startTime), round)
			return resp.Text(), nil
		}
		if round >= s.p.cfg.MaxToolRounds {
			return "", fmt.Errorf("%w after %d rounds", ErrToolLoop, round)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			result := "Error: Unknown tool."
			if s.p.tools != nil {
				result = s.p.tools.Execute(call.Name, call.Args)
			}
			logging.LLMDebug("[Cloud] tool %s -> %d bytes", call.Name, len(result))
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, map[string]any{"result": result}))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}
}
