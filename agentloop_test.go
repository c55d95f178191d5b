package agentloop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/model"
	"github.com/moleculab/agentloop/tool"
)

func TestChatSync_EndToEnd(t *testing.T) {
	gw := model.NewScriptedGateway(
		model.Response{
			Blocks: []core.ContentBlock{
				core.ToolRequestBlock{ID: "tu1", Name: "echo", Arguments: map[string]any{"text": "hi"}},
			},
			StopReason: model.StopToolUse,
		},
		model.TextResponse("It said hi."),
	)
	loop := New(gw)
	require.NoError(t, loop.RegisterTool(tool.NewFunc(
		"echo", "Echoes input.",
		map[string]any{"type": "object"},
		func(_ context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		},
	)))

	events := loop.ChatSync(context.Background(), "s1", "say hi")

	require.NotEmpty(t, events)
	assert.Equal(t, core.End{Reason: core.EndTurnComplete}, events[len(events)-1])

	var ends int
	for _, ev := range events {
		if _, ok := ev.(core.End); ok {
			ends++
		}
	}
	assert.Equal(t, 1, ends)
}

func TestChat_SessionsAreIsolated(t *testing.T) {
	gw := model.NewScriptedGateway(
		model.TextResponse("reply one"),
		model.TextResponse("reply two"),
	)
	loop := New(gw)

	loop.ChatSync(context.Background(), "a", "first")
	loop.ChatSync(context.Background(), "b", "second")

	reqs := gw.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, reqs[0].Messages, 1)
	assert.Len(t, reqs[1].Messages, 1, "second session must not see the first session's history")
}

func TestChat_HistoryCarriesAcrossTurns(t *testing.T) {
	gw := model.NewScriptedGateway(
		model.TextResponse("reply one"),
		model.TextResponse("reply two"),
	)
	loop := New(gw)

	loop.ChatSync(context.Background(), "s1", "first")
	loop.ChatSync(context.Background(), "s1", "second")

	reqs := gw.Requests()
	require.Len(t, reqs, 2)
	require.Len(t, reqs[1].Messages, 3)
	assert.Equal(t, "first", reqs[1].Messages[0].Text())
	assert.Equal(t, "reply one", reqs[1].Messages[1].Text())
	assert.Equal(t, "second", reqs[1].Messages[2].Text())
}

func TestChat_ResetCommand(t *testing.T) {
	gw := model.NewScriptedGateway(
		model.TextResponse("reply one"),
		model.TextResponse("fresh start"),
	)
	loop := New(gw)

	loop.ChatSync(context.Background(), "s1", "first")
	events := loop.ChatSync(context.Background(), "s1", ResetCommand)

	require.Len(t, events, 2)
	assert.Equal(t, core.ResetAck{}, events[0])
	assert.Equal(t, core.End{Reason: core.EndReset}, events[1])

	loop.ChatSync(context.Background(), "s1", "again")
	last := gw.Requests()[len(gw.Requests())-1]
	assert.Len(t, last.Messages, 1, "reset must clear prior history")
}

func TestEndSession(t *testing.T) {
	gw := model.NewScriptedGateway(model.TextResponse("hello"))
	loop := New(gw)

	loop.ChatSync(context.Background(), "s1", "hi")
	loop.Artifacts().Save("s1", core.Artifact{Kind: core.ArtifactImage, B64: "x"})

	loop.EndSession("s1")
	assert.Empty(t, loop.Artifacts().List("s1"))

	// A new turn under the same id starts from scratch.
	gw2 := model.NewScriptedGateway(model.TextResponse("hello"))
	loop2 := New(gw2)
	loop2.ChatSync(context.Background(), "s1", "hi")
	require.Len(t, gw2.Requests(), 1)
	assert.Len(t, gw2.Requests()[0].Messages, 1)
}
