package model

import (
	"context"

	"github.com/moleculab/agentloop/core"
)

// ToolDefinition declaratively exposes one callable tool to the model. The
// manifest presented per completion is an ordered slice of these.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"` // JSON Schema (minimal subset)
}

// StopReason indicates why the model stopped producing content.
type StopReason string

const (
	// StopEndTurn means the model finished its turn naturally.
	StopEndTurn StopReason = "end_turn"
	// StopToolUse means the model stopped to await tool outcomes.
	StopToolUse StopReason = "tool_use"
	// StopMaxTokens means the model hit its output token limit.
	StopMaxTokens StopReason = "max_tokens"
)

// Request captures one completion round trip: accumulated history, system
// instructions and the tool manifest.
type Request struct {
	System    string
	Messages  []core.Message
	Tools     []ToolDefinition
	MaxTokens int64
}

// Response is the normalized completion result. Blocks contains only
// TextBlock and ToolRequestBlock values in model order; ToolOutcomeBlock is
// never produced by a gateway.
type Response struct {
	Blocks     []core.ContentBlock
	StopReason StopReason
}

// ToolRequests returns the tool request blocks of the response in order.
func (r *Response) ToolRequests() []core.ToolRequestBlock {
	var reqs []core.ToolRequestBlock
	for _, b := range r.Blocks {
		if tr, ok := b.(core.ToolRequestBlock); ok {
			reqs = append(reqs, tr)
		}
	}
	return reqs
}

// Gateway is the single boundary to a completion provider. Implementations
// perform one network round trip per Complete call, never mutate session
// state, and normalize provider errors into the package error taxonomy
// (AuthError, ProtocolError, RequestError); transient failures are retried
// internally with bounded backoff before surfacing.
type Gateway interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
