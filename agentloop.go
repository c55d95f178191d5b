// Package agentloop provides a high-level façade over the conversation
// orchestrator and its services (tool registry, dispatcher, sessions,
// artifacts) enabling quick construction of tool-augmented chat backends.
// Most applications interact with this package by:
//  1. Creating an AgentLoop via New() with a model gateway
//  2. Registering one or more tools
//  3. Streaming chat turns (Chat) or collecting them synchronously (ChatSync)
//
// The façade delegates orchestration to agent.Agent while keeping setup
// ergonomics concise. Defaults are safe for local development; servers
// typically supply a structured logger and tune the truncation caps.
package agentloop

import (
	"context"
	"time"

	"github.com/moleculab/agentloop/agent"
	"github.com/moleculab/agentloop/artifact"
	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/logging"
	"github.com/moleculab/agentloop/model"
	"github.com/moleculab/agentloop/session"
	"github.com/moleculab/agentloop/tool"
)

// ResetCommand is the sentinel message that clears a session's history
// instead of starting a turn.
const ResetCommand = agent.ResetCommand

// Options configures the AgentLoop instance.
type Options struct {
	// System holds the system instructions for every completion.
	System string
	// MaxRounds bounds the per-turn model-call/tool loop.
	MaxRounds int
	// MaxTokens caps model output per completion.
	MaxTokens int64
	// PreviewLimit caps tool result text streamed to consumers.
	PreviewLimit int
	// ModelLimit caps tool result text re-injected into model context.
	ModelLimit int
	// ToolTimeout bounds one tool handler execution (0 disables).
	ToolTimeout time.Duration
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// AgentLoop aggregates the orchestrator and its supporting services.
type AgentLoop struct {
	registry *tool.Registry
	agent    *agent.Agent
	sessions *session.InMemoryStore
}

// New creates an AgentLoop around the given completion gateway.
func New(gateway model.Gateway, optFns ...func(o *Options)) *AgentLoop {
	opts := Options{
		MaxRounds:    agent.DefaultMaxRounds,
		MaxTokens:    4096,
		PreviewLimit: tool.DefaultPreviewLimit,
		ModelLimit:   tool.DefaultModelLimit,
		ToolTimeout:  tool.DefaultTimeout,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := tool.NewRegistry()
	dispatcher := tool.NewDispatcher(registry, func(o *tool.DispatcherOptions) {
		o.PreviewLimit = opts.PreviewLimit
		o.ModelLimit = opts.ModelLimit
		o.Timeout = opts.ToolTimeout
		o.Logger = opts.Logger
	})
	a := agent.New(gateway, registry, dispatcher, func(o *agent.Options) {
		o.MaxRounds = opts.MaxRounds
		o.System = opts.System
		o.MaxTokens = opts.MaxTokens
		o.Logger = opts.Logger
	})

	return &AgentLoop{registry: registry, agent: a, sessions: session.NewInMemoryStore()}
}

// RegisterTool adds a tool to the underlying registry.
func (l *AgentLoop) RegisterTool(t tool.Tool) error { return l.registry.Register(t) }

// Artifacts returns the store of extracted binary artifacts.
func (l *AgentLoop) Artifacts() *artifact.Store { return l.agent.Artifacts() }

// Chat streams one turn for the session registered under sessionID,
// creating the session lazily.
func (l *AgentLoop) Chat(ctx context.Context, sessionID, message string) <-chan core.StreamEvent {
	sess := l.sessions.GetOrCreate(sessionID)
	return l.agent.Chat(ctx, sess, message)
}

// ChatSync drains the stream of one turn and returns the collected events.
func (l *AgentLoop) ChatSync(ctx context.Context, sessionID, message string) []core.StreamEvent {
	var events []core.StreamEvent
	for ev := range l.Chat(ctx, sessionID, message) {
		events = append(events, ev)
	}
	return events
}

// EndSession destroys the session and purges its artifacts.
func (l *AgentLoop) EndSession(sessionID string) {
	l.sessions.Delete(sessionID)
	l.agent.Artifacts().Purge(sessionID)
}
