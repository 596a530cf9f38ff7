/*
stub implements a deterministic generator which returns scripted responses.
It requires no API key or network access, and records every request it
receives so tests can inspect them.
*/
package stub

import (
	"context"
	"sync"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client replies to each request with the next step in its script, or
// with the result of a responder function
type Client struct {
	sync.Mutex
	steps     []Step
	responder ResponderFunc
	requests  []schema.Request
}

// Step is one scripted reply: a turn or an error
type Step struct {
	Turn *schema.AssistantTurn
	Err  error
}

// ResponderFunc computes a reply from the request
type ResponderFunc func(context.Context, schema.Request) (*schema.AssistantTurn, error)

var _ tooluse.Provider = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Name = "stub"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a client which replies with each step in order
func New(steps ...Step) *Client {
	return &Client{steps: steps}
}

// NewResponder returns a client which replies by calling fn
func NewResponder(fn ResponderFunc) *Client {
	return &Client{responder: fn}
}

// Reply returns a step which replies with a turn
func Reply(turn *schema.AssistantTurn) Step {
	return Step{Turn: turn}
}

// Fail returns a step which replies with an error
func Fail(err error) Step {
	return Step{Err: err}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return Name
}

// ListModels returns a single model
func (*Client) ListModels(context.Context, ...opt.Opt) ([]schema.Model, error) {
	return []schema.Model{{Name: Name, Description: "Scripted responses", OwnedBy: Name}}, nil
}

// Send records the request and returns the next reply. Returns an error
// wrapping ErrInternalServerError when the script is exhausted.
func (c *Client) Send(ctx context.Context, req schema.Request, opts ...opt.Opt) (*schema.AssistantTurn, error) {
	if _, err := opt.Apply(opts...); err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}
	if err := req.Validate(); err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.Lock()
	c.requests = append(c.requests, clone(req))
	responder := c.responder
	var step Step
	if responder == nil {
		if len(c.steps) == 0 {
			c.Unlock()
			return nil, tooluse.ErrInternalServerError.With("no more scripted responses")
		}
		step, c.steps = c.steps[0], c.steps[1:]
	}
	c.Unlock()

	if responder != nil {
		return responder(ctx, clone(req))
	}
	if step.Err != nil {
		return nil, step.Err
	}
	if step.Turn == nil {
		return nil, tooluse.ErrMalformedResponse.With("empty response")
	}
	if err := step.Turn.Validate(); err != nil {
		return nil, tooluse.ErrMalformedResponse.Wrap(err)
	}
	turn := *step.Turn
	turn.Calls = append([]schema.ToolCall(nil), step.Turn.Calls...)
	return &turn, nil
}

// Requests returns a copy of every request received so far
func (c *Client) Requests() []schema.Request {
	c.Lock()
	defer c.Unlock()
	result := make([]schema.Request, len(c.requests))
	for i, req := range c.requests {
		result[i] = clone(req)
	}
	return result
}

// Remaining returns the number of scripted steps not yet used
func (c *Client) Remaining() int {
	c.Lock()
	defer c.Unlock()
	return len(c.steps)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func clone(req schema.Request) schema.Request {
	history := make([]schema.Turn, len(req.History))
	for i, turn := range req.History {
		history[i] = turn.Clone()
	}
	req.History = history
	req.Tools = append([]schema.ToolDescriptor(nil), req.Tools...)
	return req
}
