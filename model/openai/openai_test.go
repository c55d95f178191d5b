package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/model"
)

func TestBuildMessages(t *testing.T) {
	req := model.Request{
		System: "Be terse.",
		Messages: []core.Message{
			core.NewUserMessage("look up X"),
			{
				Role: core.RoleAssistant,
				Blocks: []core.ContentBlock{
					core.TextBlock{Text: "Let me check."},
					core.ToolRequestBlock{ID: "call_1", Name: "lookup", Arguments: map[string]any{"id": "X"}},
				},
			},
			{
				Role:   core.RoleUser,
				Blocks: []core.ContentBlock{core.ToolOutcomeBlock{RequestID: "call_1", Text: "42"}},
			},
		},
	}

	out := buildMessages(req)
	require.Len(t, out, 4)

	assert.NotNil(t, out[0].OfSystem)
	assert.NotNil(t, out[1].OfUser)

	assistant := out[2].OfAssistant
	require.NotNil(t, assistant)
	require.Len(t, assistant.ToolCalls, 1)
	assert.Equal(t, "call_1", assistant.ToolCalls[0].ID)
	assert.Equal(t, "lookup", assistant.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"id":"X"}`, assistant.ToolCalls[0].Function.Arguments)

	toolMsg := out[3].OfTool
	require.NotNil(t, toolMsg)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)
}

func TestBuildAssistantMessage_TextOnly(t *testing.T) {
	out := buildAssistantMessage(core.NewAssistantMessage("plain reply"))
	require.NotNil(t, out.OfAssistant)
	assert.Empty(t, out.OfAssistant.ToolCalls)
}

func TestNormalize(t *testing.T) {
	choice := openai.ChatCompletionChoice{
		FinishReason: "tool_calls",
		Message: openai.ChatCompletionMessage{
			Content: "Checking.",
			ToolCalls: []openai.ChatCompletionMessageToolCall{{
				ID: "call_1",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      "lookup",
					Arguments: `{"id":"X"}`,
				},
			}},
		},
	}

	resp, err := normalize(choice)
	require.NoError(t, err)
	assert.Equal(t, model.StopToolUse, resp.StopReason)
	require.Len(t, resp.Blocks, 2)

	reqs := resp.ToolRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "call_1", reqs[0].ID)
	assert.Equal(t, map[string]any{"id": "X"}, reqs[0].Arguments)
}

func TestNormalize_UnparsableArguments(t *testing.T) {
	choice := openai.ChatCompletionChoice{
		Message: openai.ChatCompletionMessage{
			ToolCalls: []openai.ChatCompletionMessageToolCall{{
				ID: "call_1",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      "lookup",
					Arguments: `{"id":`,
				},
			}},
		},
	}

	_, err := normalize(choice)
	var protoErr *model.ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestStopReasonMapping(t *testing.T) {
	assert.Equal(t, model.StopToolUse, stopReason("tool_calls"))
	assert.Equal(t, model.StopMaxTokens, stopReason("length"))
	assert.Equal(t, model.StopEndTurn, stopReason("stop"))
}
