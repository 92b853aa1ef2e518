package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"athlonos/internal/logging"
)

const completionsPath = "/chat/completions"

// DirectConfig configures an OpenAI-compatible endpoint (vLLM, Ollama,
// llama.cpp server, ...).
type DirectConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DirectClient talks to an OpenAI-compatible chat completions endpoint.
type DirectClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewDirectClient creates a client for cfg.
func NewDirectClient(cfg DirectConfig) *DirectClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &DirectClient{
		endpoint:   CompletionsEndpoint(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CompletionsEndpoint accepts either a base URL or a full completions URL.
func CompletionsEndpoint(base string) string {
	if strings.HasSuffix(base, completionsPath) {
		return base
	}
	return strings.TrimSuffix(base, "/") + completionsPath
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Complete posts messages and returns the reply text.
func (c *DirectClient) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.LLMDebug("[Direct] Complete: endpoint=%s model=%s messages=%d", c.endpoint, model, len(messages))

	jsonData, err := json.Marshal(completionRequest{Model: model, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", connectionFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LLMError("[Direct] Complete: request failed: %v", err)
		return "", connectionFailed(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", connectionFailed(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.LLMError("[Direct] Complete: status %d: %s", resp.StatusCode, string(body))
		return "", connectionFailed(&StatusError{Service: "Local LLM", Code: resp.StatusCode, Status: resp.Status})
	}

	content, err := ParseCompletion(body)
	if err != nil {
		logging.LLMError("[Direct] Complete: unparsable body: %s", string(body))
		return "", err
	}
	logging.LLM("[Direct] Complete: completed in %v response_len=%d", time.Since(startTime), len(content))
	return content, nil
}

func connectionFailed(err error) error {
	return fmt.Errorf("connection failed: %w; check the URL and that the server is reachable", err)
}

type completionMessage struct {
	Content *string `json:"content"`
}

type completionBody struct {
	Choices []struct {
		Message *completionMessage `json:"message"`
	} `json:"choices"`
	Message *completionMessage `json:"message"`
}

// ParseCompletion extracts the reply from an OpenAI-style body
// (choices[0].message.content) or a legacy one (message.content).
func ParseCompletion(body []byte) (string, error) {
	var parsed completionBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	if len(parsed.Choices) > 0 && parsed.Choices[0].Message != nil && parsed.Choices[0].Message.Content != nil {
		return *parsed.Choices[0].Message.Content, nil
	}
	if parsed.Message != nil && parsed.Message.Content != nil {
		return *parsed.Message.Content, nil
	}
	return "", ErrUnparsableResponse
}
