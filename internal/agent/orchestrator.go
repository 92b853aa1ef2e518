package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"athlonos/internal/llm"
	"athlonos/internal/logging"
	"athlonos/internal/metrics"
)

// CloudSession is a server-side conversation with tool calling.
type CloudSession interface {
	Send(ctx context.Context, text string) (string, error)
}

// Completer is the direct OpenAI-compatible transport.
type Completer interface {
	Complete(ctx context.Context, model string, messages []llm.Message) (string, error)
}

// Backend is the interpreter transport.
type Backend interface {
	Upload(ctx context.Context, path string) (llm.UploadResult, error)
	Chat(ctx context.Context, req llm.BackendChatRequest) (string, error)
}

// Transport constructors, swapped out in tests.
type (
	CloudFactory   func(ctx context.Context, cfg Config, tools llm.ToolExecutor) (CloudSession, error)
	DirectFactory  func(cfg Config) Completer
	BackendFactory func(cfg Config) Backend
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCloudFactory overrides how cloud sessions are created.
func WithCloudFactory(f CloudFactory) Option {
	return func(o *Orchestrator) { o.newCloud = f }
}

// WithDirectFactory overrides the direct transport.
func WithDirectFactory(f DirectFactory) Option {
	return func(o *Orchestrator) { o.newDirect = f }
}

// WithBackendFactory overrides the interpreter transport.
func WithBackendFactory(f BackendFactory) Option {
	return func(o *Orchestrator) { o.newBackend = f }
}

// Orchestrator owns the chat history and dispatches sends.
//
// Prepare runs on the caller's goroutine and appends the user message
// right away; Run does the network work and may be called from any
// goroutine. Runs are serialized.
type Orchestrator struct {
	mu         sync.Mutex
	cfg        Config
	tools      *Toolbox
	messages   []ChatMessage
	attachment *Attachment
	uploaded   string // backend filename of the last upload
	cloud      CloudSession
	epoch      uint64
	loading    int

	sem        *semaphore.Weighted
	newCloud   CloudFactory
	newDirect  DirectFactory
	newBackend BackendFactory
}

// New creates an orchestrator showing the initial greeting.
func New(cfg Config, tools *Toolbox, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		tools:      tools,
		messages:   []ChatMessage{{Role: RoleModel, Text: InitialGreeting}},
		sem:        semaphore.NewWeighted(1),
		newCloud:   defaultCloud,
		newDirect:  defaultDirect,
		newBackend: defaultBackend,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func defaultCloud(ctx context.Context, cfg Config, tools llm.ToolExecutor) (CloudSession, error) {
	p, err := llm.NewCloudProvider(ctx, llm.CloudConfig{
		APIKey:            cfg.CloudAPIKey,
		Model:             cfg.CloudModel,
		SystemInstruction: SystemInstruction,
		MaxToolRounds:     cfg.MaxToolRounds,
	}, tools)
	if err != nil {
		return nil, err
	}
	return p.NewSession(), nil
}

func defaultDirect(cfg Config) Completer {
	return llm.NewDirectClient(llm.DirectConfig{BaseURL: cfg.APIBaseURL, APIKey: cfg.APIKey, Timeout: cfg.Timeout})
}

func defaultBackend(cfg Config) Backend {
	return llm.NewBackendClient(llm.BackendConfig{BaseURL: cfg.BackendURL, Timeout: cfg.Timeout})
}

// Config returns the active configuration.
func (o *Orchestrator) Config() Config {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cfg
}

// Configure replaces the configuration. A changed cloud model or key
// discards the cloud session.
func (o *Orchestrator) Configure(cfg Config) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !sameCloudSettings(cfg, o.cfg) {
		o.cloud = nil
	}
	o.cfg = cfg
	transport, mode := cfg.label()
	logging.Agent("configured transport=%s mode=%s model=%s", transport, mode, cfg.Model)
}

// SetAttachment stages a file for the next send.
func (o *Orchestrator) SetAttachment(a Attachment) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attachment = &a
}

// Attachment returns the staged file, if any.
func (o *Orchestrator) Attachment() (Attachment, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attachment == nil {
		return Attachment{}, false
	}
	return *o.attachment, true
}

// ClearAttachment drops the staged file.
func (o *Orchestrator) ClearAttachment() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attachment = nil
}

// Messages returns a copy of the conversation.
func (o *Orchestrator) Messages() []ChatMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]ChatMessage(nil), o.messages...)
}

// Loading reports whether any turn is in flight.
func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading > 0
}

// Clear resets the conversation. Replies to turns prepared earlier are
// discarded when they land.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.epoch++
	o.messages = []ChatMessage{{Role: RoleModel, Text: ClearedGreeting}}
	o.attachment = nil
	o.uploaded = ""
	o.cloud = nil
	logging.Agent("conversation cleared (epoch %d)", o.epoch)
}

// Turn is a prepared send awaiting Run.
type Turn struct {
	ID         string
	Input      string
	Attachment *Attachment

	epoch   uint64
	cfg     Config
	history []ChatMessage
	started time.Time
}

// Prepare appends the user message, takes the staged attachment and
// marks the orchestrator loading.
func (o *Orchestrator) Prepare(input string) (*Turn, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if strings.TrimSpace(input) == "" && o.attachment == nil {
		return nil, ErrEmptyInput
	}

	display := input
	if o.attachment != nil {
		display = fmt.Sprintf("[Uploaded %s] %s", o.attachment.Name, input)
	}
	o.messages = append(o.messages, ChatMessage{Role: RoleUser, Text: display})

	t := &Turn{
		ID:         uuid.NewString(),
		Input:      input,
		Attachment: o.attachment,
		epoch:      o.epoch,
		cfg:        o.cfg,
		history:    append([]ChatMessage(nil), o.messages...),
		started:    time.Now(),
	}
	o.attachment = nil
	o.loading++
	return t, nil
}

// Run performs the network half of a turn and returns the message it
// appended. ok is false when nothing was appended: an empty reply, or a
// turn overtaken by Clear.
func (o *Orchestrator) Run(ctx context.Context, t *Turn) (msg ChatMessage, ok bool) {
	defer o.finish()

	log := logging.WithRequestID(logging.CategoryAgent, t.ID)
	transport, mode := t.cfg.label()

	if err := o.sem.Acquire(ctx, 1); err != nil {
		return o.fail(t, err)
	}
	defer o.sem.Release(1)

	if !o.current(t) {
		log.Info("turn dropped before send: conversation was cleared")
		return ChatMessage{}, false
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	log.Info("send transport=%s mode=%s attachment=%v", transport, mode, t.Attachment != nil)
	reply, err := o.route(ctx, t)
	metrics.RecordChatTurn(transport, mode, err == nil, time.Since(t.started))
	if err != nil {
		log.Error("send failed: %v", err)
		return o.fail(t, err)
	}
	log.Info("reply received in %v (%d chars)", time.Since(t.started), len(reply))

	if reply == "" {
		return ChatMessage{}, false
	}
	msg = ChatMessage{Role: RoleModel, Text: reply}
	return msg, o.appendIfCurrent(t, msg)
}

// Send prepares and runs a turn on the calling goroutine.
func (o *Orchestrator) Send(ctx context.Context, input string) (ChatMessage, error) {
	t, err := o.Prepare(input)
	if err != nil {
		return ChatMessage{}, err
	}
	msg, _ := o.Run(ctx, t)
	return msg, nil
}

func (o *Orchestrator) route(ctx context.Context, t *Turn) (string, error) {
	switch {
	case t.cfg.Transport == TransportCloud:
		return o.sendCloud(ctx, t)
	case t.cfg.Mode == ModeDirect:
		return o.sendDirect(ctx, t)
	default:
		return o.sendInterpreter(ctx, t)
	}
}

func (o *Orchestrator) sendCloud(ctx context.Context, t *Turn) (string, error) {
	o.mu.Lock()
	session := o.cloud
	o.mu.Unlock()

	if session == nil {
		var tools llm.ToolExecutor
		if o.tools != nil {
			tools = o.tools
		}
		s, err := o.newCloud(ctx, t.cfg, tools)
		if err != nil {
			return "", err
		}
		session = s
		// Keep the session only if neither Clear nor Configure ran meanwhile.
		o.mu.Lock()
		if o.epoch == t.epoch && sameCloudSettings(o.cfg, t.cfg) {
			o.cloud = session
		}
		o.mu.Unlock()
	}

	text := t.Input
	if t.Attachment != nil {
		text += fmt.Sprintf("\n[User attached file: %s]", t.Attachment.Name)
	}
	return session.Send(ctx, text)
}

// sameCloudSettings reports whether a and b would build the same cloud session.
func sameCloudSettings(a, b Config) bool {
	return a.CloudModel == b.CloudModel && a.CloudAPIKey == b.CloudAPIKey && a.MaxToolRounds == b.MaxToolRounds
}

func (o *Orchestrator) sendDirect(ctx context.Context, t *Turn) (string, error) {
	messages := make([]llm.Message, 0, len(t.history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: localSystemPrefix + SystemInstruction})
	messages = append(messages, wireMessages(t.history)...)
	return o.newDirect(t.cfg).Complete(ctx, t.cfg.Model, messages)
}

func (o *Orchestrator) sendInterpreter(ctx context.Context, t *Turn) (string, error) {
	backend := o.newBackend(t.cfg)

	o.mu.Lock()
	filename := o.uploaded
	o.mu.Unlock()

	if t.Attachment != nil {
		o.appendIfCurrent(t, ChatMessage{Role: RoleModel, Text: fmt.Sprintf("Uploading %s to analysis backend...", t.Attachment.Name)})
		res, err := backend.Upload(ctx, t.Attachment.Path)
		metrics.RecordUpload(err == nil)
		if err != nil {
			return "", err
		}
		filename = res.Filename
		o.mu.Lock()
		if o.epoch == t.epoch {
			o.uploaded = filename
		}
		o.mu.Unlock()
		logging.Agent("uploaded %s as %s", t.Attachment.Name, filename)
	}

	return backend.Chat(ctx, llm.BackendChatRequest{
		Messages:   wireMessages(t.history),
		Model:      t.cfg.Model,
		Filename:   filename,
		LLMAPIBase: t.cfg.APIBaseURL,
		LLMAPIKey:  t.cfg.APIKey,
	})
}

// wireMessages maps the visible history onto OpenAI roles.
func wireMessages(history []ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == RoleModel {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}

func (o *Orchestrator) fail(t *Turn, err error) (ChatMessage, bool) {
	msg := ChatMessage{Role: RoleModel, Text: "Error: " + err.Error(), IsError: true}
	return msg, o.appendIfCurrent(t, msg)
}

func (o *Orchestrator) current(t *Turn) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.epoch == t.epoch
}

func (o *Orchestrator) appendIfCurrent(t *Turn, msg ChatMessage) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.epoch != t.epoch {
		return false
	}
	o.messages = append(o.messages, msg)
	return true
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.loading > 0 {
		o.loading--
	}
}
