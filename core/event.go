package core

// StreamEvent is one element of the ordered outward event stream produced by
// a chat turn. Concrete event types implement the unexported isStreamEvent
// marker enabling a closed set. Events are consumed exactly once by the
// transport layer and are not persisted.
type StreamEvent interface{ isStreamEvent() }

// TextDelta carries an incremental piece of assistant text.
type TextDelta struct {
	Text string
}

// isStreamEvent implements the StreamEvent interface for TextDelta.
func (TextDelta) isStreamEvent() {}

// ToolInvocation reports a tool call. It is emitted twice per call: first
// with an empty Result as soon as the model requests the tool (so a live
// consumer can show it running), then again with the truncated preview once
// execution finished.
type ToolInvocation struct {
	Name      string
	Arguments map[string]any
	Result    string
}

// isStreamEvent implements the StreamEvent interface for ToolInvocation.
func (ToolInvocation) isStreamEvent() {}

// ImageArtifact is a base64 encoded image extracted from a tool result.
type ImageArtifact struct {
	B64     string
	Caption string
}

// isStreamEvent implements the StreamEvent interface for ImageArtifact.
func (ImageArtifact) isStreamEvent() {}

// AudioArtifact is a base64 encoded audio clip extracted from a tool result.
type AudioArtifact struct {
	B64     string
	Caption string
}

// isStreamEvent implements the StreamEvent interface for AudioArtifact.
func (AudioArtifact) isStreamEvent() {}

// ErrorEvent reports a fatal gateway or protocol failure. Tool-level
// failures never surface here; they stay in-band as narrated text.
type ErrorEvent struct {
	Message string
}

// isStreamEvent implements the StreamEvent interface for ErrorEvent.
func (ErrorEvent) isStreamEvent() {}

// ResetAck acknowledges a history reset. No model call happens on reset.
type ResetAck struct{}

// isStreamEvent implements the StreamEvent interface for ResetAck.
func (ResetAck) isStreamEvent() {}

// EndReason distinguishes how a chat turn terminated.
type EndReason string

const (
	// EndTurnComplete means the model finished naturally with no pending
	// tool requests.
	EndTurnComplete EndReason = "turn_complete"
	// EndRoundBudget means the round budget ran out before the model
	// signalled completion; whatever text accumulated was surfaced.
	EndRoundBudget EndReason = "round_budget"
	// EndError means the turn was cut short by a fatal gateway error.
	EndError EndReason = "error"
	// EndReset terminates the short acknowledgment stream of a reset.
	EndReset EndReason = "reset"
)

// End terminates the stream. Exactly one End is emitted per chat turn, on
// every exit path.
type End struct {
	Reason EndReason
}

// isStreamEvent implements the StreamEvent interface for End.
func (End) isStreamEvent() {}
