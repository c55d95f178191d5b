package model

import (
	"context"
	"sync"

	"github.com/moleculab/agentloop/core"
)

// ScriptedGateway replays a fixed sequence of responses and records every
// request it receives. It is the deterministic stand-in used by tests and
// offline demos.
type ScriptedGateway struct {
	mu        sync.Mutex
	responses []Response
	errs      []error
	calls     int
	requests  []Request

	// Repeat replays the final scripted response forever once the script is
	// exhausted. Useful for round-budget scenarios where the model never
	// stops requesting tools.
	Repeat bool
}

// NewScriptedGateway creates a gateway that answers Complete calls with the
// given responses in order.
func NewScriptedGateway(responses ...Response) *ScriptedGateway {
	return &ScriptedGateway{responses: responses}
}

// TextResponse is a convenience for a pure text end-of-turn response.
func TextResponse(text string) Response {
	return Response{
		Blocks:     []core.ContentBlock{core.TextBlock{Text: text}},
		StopReason: StopEndTurn,
	}
}

// FailWith schedules err for the call following the scripted responses.
func (g *ScriptedGateway) FailWith(err error) *ScriptedGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs = append(g.errs, err)
	return g
}

// Complete implements Gateway.
func (g *ScriptedGateway) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	idx := g.calls
	g.calls++

	if idx < len(g.responses) {
		resp := g.responses[idx]
		return &resp, nil
	}
	if n := idx - len(g.responses); n < len(g.errs) {
		return nil, g.errs[n]
	}
	if g.Repeat && len(g.responses) > 0 {
		resp := g.responses[len(g.responses)-1]
		return &resp, nil
	}
	return nil, &ProtocolError{Reason: "scripted gateway exhausted"}
}

// Calls reports how many Complete calls were made.
func (g *ScriptedGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Requests returns a copy of the recorded requests in call order.
func (g *ScriptedGateway) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Request, len(g.requests))
	copy(out, g.requests)
	return out
}
