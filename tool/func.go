package tool

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/moleculab/agentloop/internal/util"
)

// Func adapts a plain Go function into a Tool. Arguments are validated
// against the declared schema before invocation; a Func holds no mutable
// state after construction and is safe for concurrent use.
type Func struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, args map[string]any) (string, error)
}

// NewFunc constructs a Func from an explicit schema and handler.
//
// Example:
//
//	lookup := tool.NewFunc(
//	  "lookup",
//	  "Look up a record by id",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "id": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"id"},
//	  },
//	  func(ctx context.Context, args map[string]any) (string, error) {
//	    return fetch(args["id"].(string))
//	  },
//	)
func NewFunc(
	name, description string,
	schema map[string]any,
	fn func(ctx context.Context, args map[string]any) (string, error),
) *Func {
	return &Func{name: name, description: description, schema: schema, fn: fn}
}

// SchemaFor derives the input schema for a struct argument type using struct
// tags (json, jsonschema_description). Convenience for tools whose argument
// container is a plain struct.
func SchemaFor[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	delete(out, "$schema")
	return out
}

// Name returns the unique tool name used in the manifest and for dispatch.
func (t *Func) Name() string { return t.name }

// Description returns the natural language description exposed to the model.
func (t *Func) Description() string { return t.description }

// InputSchema returns the declared argument contract.
func (t *Func) InputSchema() map[string]any { return t.schema }

// Invoke validates args against the schema then runs the wrapped function.
func (t *Func) Invoke(ctx context.Context, args map[string]any) (string, error) {
	if err := util.ValidateArguments(args, t.schema); err != nil {
		return "", err
	}
	return t.fn(ctx, args)
}
