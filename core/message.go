package core

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a Message on the completion wire.
type Role string

const (
	// RoleUser marks messages authored by the user, including the synthetic
	// user message that carries tool outcomes back to the model.
	RoleUser Role = "user"
	// RoleAssistant marks messages produced by the model.
	RoleAssistant Role = "assistant"
)

// ContentBlock is a polymorphic segment of a Message. Concrete block types
// implement the unexported isBlock marker enabling a closed set.
type ContentBlock interface{ isBlock() }

// TextBlock is a plain text segment.
type TextBlock struct {
	Text string
}

// isBlock implements the ContentBlock interface for TextBlock.
func (TextBlock) isBlock() {}

// ToolRequestBlock is a model-issued request to execute a named tool. The ID
// correlates the request with the ToolOutcomeBlock answering it.
type ToolRequestBlock struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// isBlock implements the ContentBlock interface for ToolRequestBlock.
func (ToolRequestBlock) isBlock() {}

// ToolOutcomeBlock carries the textual result of a tool execution back to the
// model. RequestID matches the originating ToolRequestBlock; Truncated
// reports whether Text was cut to fit the model-facing cap. The model never
// produces this block type itself.
type ToolOutcomeBlock struct {
	RequestID string
	Text      string
	Truncated bool
}

// isBlock implements the ContentBlock interface for ToolOutcomeBlock.
func (ToolOutcomeBlock) isBlock() {}

// Message holds a role plus ordered content blocks. Messages are append-only
// once added to a Session; order is both the audit trail and the prompt.
type Message struct {
	Role   Role
	Blocks []ContentBlock
}

// NewUserMessage builds a single text block user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Blocks: []ContentBlock{TextBlock{Text: text}}}
}

// NewAssistantMessage builds a single text block assistant message.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Blocks: []ContentBlock{TextBlock{Text: text}}}
}

// ToolRequests returns the tool request blocks of the message preserving
// their original order.
func (m Message) ToolRequests() []ToolRequestBlock {
	var reqs []ToolRequestBlock
	for _, b := range m.Blocks {
		if tr, ok := b.(ToolRequestBlock); ok {
			reqs = append(reqs, tr)
		}
	}
	return reqs
}

// ToolOutcomes returns the tool outcome blocks of the message preserving
// their original order.
func (m Message) ToolOutcomes() []ToolOutcomeBlock {
	var outs []ToolOutcomeBlock
	for _, b := range m.Blocks {
		if to, ok := b.(ToolOutcomeBlock); ok {
			outs = append(outs, to)
		}
	}
	return outs
}

// Text concatenates the text blocks of the message joined by newlines.
func (m Message) Text() string {
	var parts []string
	for _, b := range m.Blocks {
		if tb, ok := b.(TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// NewID generates a unique identifier for sessions, artifacts and fallback
// tool request ids.
func NewID() string { return uuid.NewString() }
