package agent

import (
	"context"
	"strings"

	"github.com/moleculab/agentloop/artifact"
	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/logging"
	"github.com/moleculab/agentloop/model"
	"github.com/moleculab/agentloop/tool"
)

// ResetCommand is the sentinel user input that clears session history
// without producing a model call.
const ResetCommand = "__reset__"

// DefaultMaxRounds bounds the model-call/tool-execution loop per user
// message. A safety valve against infinite tool-calling loops, not an error
// state.
const DefaultMaxRounds = 10

// Options configure an Agent.
type Options struct {
	// MaxRounds is the fixed per-turn round budget.
	MaxRounds int
	// System holds the system instructions sent with every completion.
	System string
	// MaxTokens caps model output per completion.
	MaxTokens int64
	// BufferSize sets the event channel buffering.
	BufferSize int
	// Artifacts receives every extracted artifact, keyed by session, so
	// consumers can refetch them after the stream passed. Defaults to a
	// fresh in-memory store.
	Artifacts *artifact.Store
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Agent drives multi-round conversations for any number of sessions. The
// gateway and dispatcher it holds are stateless and shared; all
// conversational state lives in the Session passed to Chat. Safe for
// concurrent use across sessions.
type Agent struct {
	gateway    model.Gateway
	registry   *tool.Registry
	dispatcher *tool.Dispatcher
	opts       Options
}

// New constructs an Agent with optional overrides.
func New(gateway model.Gateway, registry *tool.Registry, dispatcher *tool.Dispatcher, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxRounds:  DefaultMaxRounds,
		MaxTokens:  4096,
		BufferSize: 64,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Artifacts == nil {
		opts.Artifacts = artifact.NewStore()
	}
	return &Agent{gateway: gateway, registry: registry, dispatcher: dispatcher, opts: opts}
}

// Artifacts returns the store holding extracted artifacts.
func (a *Agent) Artifacts() *artifact.Store { return a.opts.Artifacts }

// Chat runs one user message through the bounded round loop, returning the
// event stream for this turn. The channel is closed after the terminal End
// event. Cancelling ctx abandons the round: already dispatched tool handlers
// run to completion in the background and their results are discarded.
func (a *Agent) Chat(ctx context.Context, sess *core.Session, userMessage string) <-chan core.StreamEvent {
	events := make(chan core.StreamEvent, a.opts.BufferSize)
	go func() {
		defer close(events)
		a.run(ctx, sess, userMessage, events)
	}()
	return events
}

func (a *Agent) run(ctx context.Context, sess *core.Session, userMessage string, events chan<- core.StreamEvent) {
	emit := func(ev core.StreamEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	// Best-effort terminal event for abandoned rounds; the consumer is
	// usually gone but the buffered channel may still accept it.
	abandon := func() {
		select {
		case events <- core.End{Reason: core.EndError}:
		default:
		}
	}

	if userMessage == ResetCommand {
		sess.Reset()
		a.opts.Artifacts.Purge(sess.ID)
		a.opts.Logger.Info("session.reset", "session_id", sess.ID)
		emit(core.ResetAck{})
		emit(core.End{Reason: core.EndReset})
		return
	}

	if err := sess.BeginTurn(); err != nil {
		emit(core.ErrorEvent{Message: err.Error()})
		emit(core.End{Reason: core.EndError})
		return
	}
	defer sess.EndTurn()

	// The session keeps only user text and final assistant text; the
	// working copy additionally carries the per-round tool traffic the wire
	// contract needs. A concurrent Reset therefore cannot corrupt a round
	// in flight.
	sess.Append(core.NewUserMessage(userMessage))
	working := sess.Messages()
	manifest := a.registry.Manifest()

	var accumulated []string

	for round := 0; round < a.opts.MaxRounds; round++ {
		resp, err := a.gateway.Complete(ctx, model.Request{
			System:    a.opts.System,
			Messages:  working,
			Tools:     manifest,
			MaxTokens: a.opts.MaxTokens,
		})
		if err != nil {
			a.opts.Logger.Error("chat.gateway_failed", "session_id", sess.ID, "round", round, "error", err.Error())
			emit(core.ErrorEvent{Message: err.Error()})
			emit(core.End{Reason: core.EndError})
			return
		}

		roundText, outcomes, err := a.processBlocks(ctx, sess.ID, resp.Blocks, emit)
		if err != nil {
			emit(core.ErrorEvent{Message: err.Error()})
			emit(core.End{Reason: core.EndError})
			return
		}
		if ctx.Err() != nil {
			abandon()
			return
		}

		working = append(working, core.Message{Role: core.RoleAssistant, Blocks: resp.Blocks})
		accumulated = append(accumulated, roundText...)

		if len(outcomes) == 0 || resp.StopReason == model.StopEndTurn {
			sess.Append(core.NewAssistantMessage(strings.Join(roundText, "\n")))
			emit(core.End{Reason: core.EndTurnComplete})
			return
		}

		// One user-role message carrying every outcome of the round, so no
		// tool request crosses a round boundary unmatched.
		working = append(working, core.Message{Role: core.RoleUser, Blocks: outcomes})
	}

	a.opts.Logger.Warn("chat.round_budget_exhausted", "session_id", sess.ID, "rounds", a.opts.MaxRounds)
	if len(accumulated) > 0 {
		sess.Append(core.NewAssistantMessage(strings.Join(accumulated, "\n")))
	}
	emit(core.End{Reason: core.EndRoundBudget})
}

// processBlocks walks a model response in order, emitting text deltas and
// two-phase tool invocations, and collects one outcome per tool request.
// Sibling tool calls execute sequentially; the protocol assumes no ordering
// dependency between them, only that all outcomes are gathered before the
// next completion.
func (a *Agent) processBlocks(
	ctx context.Context,
	sessionID string,
	blocks []core.ContentBlock,
	emit func(core.StreamEvent) bool,
) ([]string, []core.ContentBlock, error) {
	var roundText []string
	var outcomes []core.ContentBlock

	for _, b := range blocks {
		switch blk := b.(type) {
		case core.TextBlock:
			roundText = append(roundText, blk.Text)
			if !emit(core.TextDelta{Text: blk.Text}) {
				return roundText, outcomes, nil
			}
		case core.ToolRequestBlock:
			// First phase: the consumer sees the call before it completes.
			if !emit(core.ToolInvocation{Name: blk.Name, Arguments: blk.Arguments}) {
				return roundText, outcomes, nil
			}

			res := a.dispatcher.Execute(ctx, blk.Name, blk.Arguments)
			if ctx.Err() != nil {
				// Round abandoned; discard the result.
				return roundText, outcomes, nil
			}

			for _, art := range res.Artifacts {
				a.opts.Artifacts.Save(sessionID, art)
				var ev core.StreamEvent
				switch art.Kind {
				case core.ArtifactAudio:
					ev = core.AudioArtifact{B64: art.B64, Caption: art.Caption}
				default:
					ev = core.ImageArtifact{B64: art.B64, Caption: art.Caption}
				}
				if !emit(ev) {
					return roundText, outcomes, nil
				}
			}

			// Second phase: same invocation, now carrying the preview.
			if !emit(core.ToolInvocation{Name: blk.Name, Arguments: blk.Arguments, Result: res.Preview}) {
				return roundText, outcomes, nil
			}

			outcomes = append(outcomes, core.ToolOutcomeBlock{
				RequestID: blk.ID,
				Text:      res.ModelText,
				Truncated: res.Truncated,
			})
		default:
			return roundText, outcomes, &model.ProtocolError{Reason: "unexpected content block in model response"}
		}
	}
	return roundText, outcomes, nil
}
