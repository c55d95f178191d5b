// Package tool implements the tool-calling subsystem: the Tool capability
// interface, the ordered process-wide Registry backing the model manifest,
// and the Dispatcher that executes requested calls with failure isolation,
// truncation and artifact extraction.
package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/moleculab/agentloop/model"
)

// Tool is a named, schema-described side-effecting capability the model can
// invoke. Implementations should be safe for concurrent use; a handler
// receives already decoded arguments and returns a single string result,
// conventionally JSON when it wants to carry artifact payloads.
type Tool interface {
	// Name returns the unique registry key (snake_case recommended).
	Name() string

	// Description is shown to the model so it can decide when to call.
	Description() string

	// InputSchema returns a minimal JSON-Schema shaped argument contract.
	InputSchema() map[string]any

	// Invoke executes the tool. Errors are reported to the model as text by
	// the Dispatcher, never propagated as a crash.
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// DuplicateToolError reports a Register call reusing an existing name.
type DuplicateToolError struct {
	Name string
}

// Error implements the error interface for DuplicateToolError.
func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// Registry is the static name-to-tool mapping built once at startup. The
// manifest preserves registration order so the position a model may use as a
// tie-break heuristic stays stable across calls. Reads are safe for
// unsynchronized concurrent use after startup.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool, failing with DuplicateToolError on name reuse.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return &DuplicateToolError{Name: name}
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for static startup wiring; it panics on
// duplicates.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Manifest builds the tool definitions presented to the model, in
// registration order.
func (r *Registry) Manifest() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return out
}
