// Package anthropic implements model.Gateway on the Anthropic Messages API
// using the official client.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/cenkalti/backoff/v4"

	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/logging"
	"github.com/moleculab/agentloop/model"
)

// Options configures the Anthropic gateway adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	APIKey      string
	MaxRetries  int // bounded retry for rate limits / 5xx, never auth failures
	Logger      logging.Logger
}

// Gateway wraps the Anthropic Messages API behind model.Gateway.
type Gateway struct {
	client *anthropic.Client
	opts   Options
}

// NewGateway creates an Anthropic gateway using the official client. The API
// key falls back to the SDK's environment lookup when unset.
func NewGateway(optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		Temperature: 0.7,
		MaxRetries:  3,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Gateway{client: &client, opts: opts}
}

// NewGatewayFromClient creates a gateway from an existing client.
func NewGatewayFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		Temperature: 0.7,
		MaxRetries:  3,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{client: client, opts: opts}
}

// Complete implements model.Gateway. One network round trip plus a small
// bounded retry for transient failures; the response is normalized into
// text and tool-request blocks.
func (g *Gateway) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	params := g.buildParams(req)

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(g.opts.MaxRetries)),
		ctx,
	)
	start := time.Now()
	msg, err := backoff.RetryWithData(func() (*anthropic.Message, error) {
		m, err := g.client.Messages.New(ctx, params)
		if err == nil {
			return m, nil
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
	g.opts.Logger.Debug("anthropic.complete", "model", string(g.opts.Model), "duration_ms", time.Since(start).Milliseconds(), "stop_reason", string(msg.StopReason))

	return normalize(msg)
}

// buildParams assembles the Messages API request from the normalized one.
func (g *Gateway) buildParams(req model.Request) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:       g.opts.Model,
		Messages:    buildMessages(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(g.opts.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}
	return params
}

// buildMessages converts core messages to Anthropic message params. Tool
// outcome blocks become tool_result blocks inside their carrying user
// message, preserving the request/outcome pairing on the wire.
func buildMessages(messages []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		var content []anthropic.ContentBlockParamUnion
		for _, b := range m.Blocks {
			switch blk := b.(type) {
			case core.TextBlock:
				if blk.Text != "" {
					content = append(content, anthropic.NewTextBlock(blk.Text))
				}
			case core.ToolRequestBlock:
				content = append(content, anthropic.NewToolUseBlock(blk.ID, blk.Arguments, blk.Name))
			case core.ToolOutcomeBlock:
				content = append(content, anthropic.NewToolResultBlock(blk.RequestID, blk.Text, false))
			}
		}
		if len(content) == 0 {
			continue
		}
		if m.Role == core.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(content...))
		} else {
			out = append(out, anthropic.NewUserMessage(content...))
		}
	}
	return out
}

// buildTools converts the manifest into Anthropic tool params.
func buildTools(tools []model.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}
		if props, ok := t.InputSchema["properties"]; ok {
			schema.Properties = props
		}
		switch req := t.InputSchema["required"].(type) {
		case []string:
			schema.Required = req
		case []any:
			for _, r := range req {
				if s, ok := r.(string); ok {
					schema.Required = append(schema.Required, s)
				}
			}
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: schema,
		}})
	}
	return out
}

// normalize converts an Anthropic message into the provider-neutral response.
func normalize(msg *anthropic.Message) (*model.Response, error) {
	var blocks []core.ContentBlock
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text != "" {
				blocks = append(blocks, core.TextBlock{Text: v.Text})
			}
		case anthropic.ToolUseBlock:
			if v.Name == "" {
				return nil, &model.ProtocolError{Reason: "tool_use block without name"}
			}
			args := map[string]any{}
			if raw := v.JSON.Input.Raw(); raw != "" && raw != "null" {
				if err := json.Unmarshal([]byte(raw), &args); err != nil {
					return nil, &model.ProtocolError{Reason: fmt.Sprintf("unparsable tool_use input for %s: %v", v.Name, err)}
				}
			}
			id := v.ID
			if id == "" {
				id = core.NewID()
			}
			blocks = append(blocks, core.ToolRequestBlock{ID: id, Name: v.Name, Arguments: args})
		}
	}

	return &model.Response{Blocks: blocks, StopReason: stopReason(msg.StopReason)}, nil
}

func stopReason(reason anthropic.StopReason) model.StopReason {
	switch reason {
	case anthropic.StopReasonToolUse:
		return model.StopToolUse
	case anthropic.StopReasonMaxTokens:
		return model.StopMaxTokens
	default:
		return model.StopEndTurn
	}
}

// classify maps SDK errors onto the package taxonomy.
func classify(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401, 403:
			return &model.AuthError{Status: apierr.StatusCode, Body: apierr.Error()}
		default:
			return &model.RequestError{Status: apierr.StatusCode, Body: apierr.Error()}
		}
	}
	return fmt.Errorf("anthropic api error: %w", err)
}

func (g *Gateway) logError(err error) {
	var reqErr *model.RequestError
	if errors.As(err, &reqErr) {
		g.opts.Logger.Error("anthropic api error", "status", reqErr.Status, "body", reqErr.Body)
		return
	}
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		g.opts.Logger.Error("anthropic api error", "status", authErr.Status, "body", authErr.Body)
		return
	}
	g.opts.Logger.Error("anthropic api error", "error", err.Error())
}
