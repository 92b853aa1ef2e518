package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"athlonos/internal/logging"
)

// BackendConfig configures the code-interpreter backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BackendClient talks to the interpreter backend's /upload and /chat.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendClient creates a client for cfg.
func NewBackendClient(cfg BackendConfig) *BackendClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &BackendClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// UploadResult is the backend's record of a stored attachment.
type UploadResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// Upload sends the file at path as multipart field "file".
func (c *BackendClient) Upload(ctx context.Context, path string) (UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()
	return c.UploadReader(ctx, filepath.Base(path), f)
}

// UploadReader sends r under the given file name.
func (c *BackendClient) UploadReader(ctx context.Context, name string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	timer := logging.StartTimer(logging.CategoryLLM, "upload "+name)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LLMError("[Backend] Upload: %v", err)
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	timer.Stop()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadResult{}, fmt.Errorf("%w: %s", ErrUploadFailed, resp.Status)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, fmt.Errorf("%w: bad response: %v", ErrUploadFailed, err)
	}
	logging.LLM("[Backend] Upload: stored %s as %s", name, result.Filename)
	return result, nil
}

// BackendChatRequest is the /chat request body.
type BackendChatRequest struct {
	Messages   []Message `json:"messages"`
	Model      string    `json:"model,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	LLMAPIBase string    `json:"llm_api_base,omitempty"`
	LLMAPIKey  string    `json:"llm_api_key,omitempty"`
}

type backendChatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat posts the conversation and returns the backend's reply content.
func (c *BackendClient) Chat(ctx context.Context, chatReq BackendChatRequest) (string, error) {
	content, err := c.chat(ctx, chatReq)
	if err != nil {
		logging.LLMError("[Backend] Chat: %v", err)
		return "", fmt.Errorf("failed to communicate with backend: %w", err)
	}
	return content, nil
}

func (c *BackendClient) chat(ctx context.Context, chatReq BackendChatRequest) (string, error) {
	jsonData, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	logging.LLMDebug("[Backend] Chat: messages=%d model=%s filename=%q", len(chatReq.Messages), chatReq.Model, chatReq.Filename)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Service: "backend", Code: resp.StatusCode, Status: statusText(resp)}
	}

	var out backendChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return out.Content, nil
}

// statusText strips the numeric code from resp.Status.
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
