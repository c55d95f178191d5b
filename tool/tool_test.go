package tool

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoTool(name string) *Func {
	return NewFunc(
		name,
		fmt.Sprintf("Echoes input for %s.", name),
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"text": map[string]any{"type": "string"}},
			"required":   []string{"text"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		},
	)
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newEchoTool("echo")))

	got, ok := r.Lookup("echo")
	assert.True(t, ok)
	assert.Equal(t, "echo", got.Name())

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newEchoTool("echo")))

	err := r.Register(newEchoTool("echo"))
	require.Error(t, err)
	var dup *DuplicateToolError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "echo", dup.Name)
}

func TestRegistry_ManifestPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newEchoTool("c"), newEchoTool("a"), newEchoTool("b"))

	manifest := r.Manifest()
	require.Len(t, manifest, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{manifest[0].Name, manifest[1].Name, manifest[2].Name})
	assert.Equal(t, []string{"c", "a", "b"}, r.Names())

	// Schemas are carried through verbatim.
	assert.Equal(t, "object", manifest[0].InputSchema["type"])
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newEchoTool("echo"))
	assert.Panics(t, func() { r.MustRegister(newEchoTool("echo")) })
}
