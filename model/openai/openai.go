// Package openai implements model.Gateway on the OpenAI Chat Completions API
// (with function/tool calling) using the official client.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"

	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/logging"
	"github.com/moleculab/agentloop/model"
)

// Options configures the OpenAI gateway adapter.
type Options struct {
	Model       string
	Temperature float64
	MaxRetries  int
	Logger      logging.Logger
}

// Gateway wraps the OpenAI Chat Completions API behind model.Gateway.
type Gateway struct {
	client *openai.Client
	opts   Options
}

// NewGateway creates an OpenAI gateway using the official client (API key
// from the environment).
func NewGateway(optFns ...func(o *Options)) *Gateway {
	client := openai.NewClient()
	return NewGatewayFromClient(&client, optFns...)
}

// NewGatewayFromClient creates a gateway from an existing client.
func NewGatewayFromClient(client *openai.Client, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.7,
		MaxRetries:  3,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{client: client, opts: opts}
}

// Complete implements model.Gateway.
func (g *Gateway) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	params := g.buildParams(req)

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(g.opts.MaxRetries)),
		ctx,
	)
	resp, err := backoff.RetryWithData(func() (*openai.ChatCompletion, error) {
		r, err := g.client.Chat.Completions.New(ctx, params)
		if err == nil {
			return r, nil
		}
		cErr := classify(err)
		g.logError(cErr)
		if !model.IsRetryable(cErr) {
			return nil, backoff.Permanent(cErr)
		}
		return nil, cErr
	}, bo)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &model.ProtocolError{Reason: "no choices returned"}
	}
	return normalize(resp.Choices[0])
}

// buildParams assembles the chat completion request including tool
// definitions and the system prompt.
func (g *Gateway) buildParams(req model.Request) openai.ChatCompletionNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               g.opts.Model,
		Temperature:         openai.Float(g.opts.Temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, t := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  t.InputSchema,
			},
		}
	}
	params.Tools = tools
	return params
}

// buildMessages converts the normalized history into chat messages. Tool
// outcome blocks become role=tool messages directly after the assistant
// message carrying the matching calls.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		if m.Role == core.RoleAssistant {
			messages = append(messages, buildAssistantMessage(m))
			continue
		}
		for _, b := range m.Blocks {
			switch blk := b.(type) {
			case core.TextBlock:
				if blk.Text != "" {
					messages = append(messages, openai.UserMessage(blk.Text))
				}
			case core.ToolOutcomeBlock:
				messages = append(messages, openai.ToolMessage(blk.Text, blk.RequestID))
			}
		}
	}
	return messages
}

func buildAssistantMessage(m core.Message) openai.ChatCompletionMessageParamUnion {
	var toolCalls []openai.ChatCompletionMessageToolCallParam
	for _, req := range m.ToolRequests() {
		args, err := json.Marshal(req.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
			ID:   req.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      req.Name,
				Arguments: string(args),
			},
		})
	}
	text := m.Text()
	if len(toolCalls) == 0 {
		return openai.AssistantMessage(text)
	}
	assistant := openai.ChatCompletionAssistantMessageParam{
		Role:      "assistant",
		ToolCalls: toolCalls,
	}
	if text != "" {
		assistant.Content.OfString = openai.String(text)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

// normalize converts the chosen completion into the provider-neutral
// response.
func normalize(choice openai.ChatCompletionChoice) (*model.Response, error) {
	var blocks []core.ContentBlock
	if choice.Message.Content != "" {
		blocks = append(blocks, core.TextBlock{Text: choice.Message.Content})
	}
	for _, tc := range choice.Message.ToolCalls {
		if tc.Function.Name == "" {
			return nil, &model.ProtocolError{Reason: "tool call without function name"}
		}
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, &model.ProtocolError{Reason: fmt.Sprintf("unparsable tool arguments for %s: %v", tc.Function.Name, err)}
			}
		}
		id := tc.ID
		if id == "" {
			id = core.NewID()
		}
		blocks = append(blocks, core.ToolRequestBlock{ID: id, Name: tc.Function.Name, Arguments: args})
	}
	return &model.Response{Blocks: blocks, StopReason: stopReason(choice.FinishReason)}, nil
}

func stopReason(finish string) model.StopReason {
	switch finish {
	case "tool_calls":
		return model.StopToolUse
	case "length":
		return model.StopMaxTokens
	default:
		return model.StopEndTurn
	}
}

// classify maps SDK errors onto the package taxonomy.
func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401, 403:
			return &model.AuthError{Status: apierr.StatusCode, Body: apierr.Error()}
		default:
			return &model.RequestError{Status: apierr.StatusCode, Body: apierr.Error()}
		}
	}
	return fmt.Errorf("openai api error: %w", err)
}

func (g *Gateway) logError(err error) {
	var reqErr *model.RequestError
	if errors.As(err, &reqErr) {
		g.opts.Logger.Error("openai api error", "status", reqErr.Status, "body", reqErr.Body)
		return
	}
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		g.opts.Logger.Error("openai api error", "status", authErr.Status, "body", authErr.Body)
		return
	}
	g.opts.Logger.Error("openai api error", "error", err.Error())
}
