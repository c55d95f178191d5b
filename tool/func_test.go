package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/agentloop/internal/util"
)

type lookupArgs struct {
	ID    string `json:"id" jsonschema_description:"Record identifier"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Optional row cap"`
}

func TestSchemaFor(t *testing.T) {
	schema := SchemaFor[lookupArgs]()

	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$schema")

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "id")
	assert.Contains(t, props, "limit")

	req, ok := schema["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, req, "id")
	assert.NotContains(t, req, "limit")
}

func TestFunc_InvokeValidatesArguments(t *testing.T) {
	lookup := NewFunc(
		"lookup",
		"Look up a record by id.",
		SchemaFor[lookupArgs](),
		func(_ context.Context, args map[string]any) (string, error) {
			return "42", nil
		},
	)

	out, err := lookup.Invoke(context.Background(), map[string]any{"id": "X"})
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	_, err = lookup.Invoke(context.Background(), map[string]any{})
	require.Error(t, err)
	var ve *util.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)

	_, err = lookup.Invoke(context.Background(), map[string]any{"id": 7})
	assert.Error(t, err)
}

func TestFunc_Accessors(t *testing.T) {
	f := newEchoTool("echo")
	assert.Equal(t, "echo", f.Name())
	assert.NotEmpty(t, f.Description())
	assert.Equal(t, "object", f.InputSchema()["type"])
}
