/*
retry wraps a generator with bounded exponential backoff and a per-call
timeout. Only errors which wrap ErrTransport are retried; any other error is
returned immediately.
*/
package retry

import (
	"context"
	"errors"
	"time"

	// Packages
	backoff "github.com/cenkalti/backoff/v4"
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Generator retries calls to the wrapped generator
type Generator struct {
	gen         tooluse.Generator
	attempts    uint
	timeout     time.Duration
	initial     time.Duration
	maxInterval time.Duration
	notify      NotifyFunc
}

// NotifyFunc is called before each retry with the attempt which failed,
// the error and the delay before the next attempt
type NotifyFunc func(attempt uint, err error, delay time.Duration)

// Opt configures the retry policy
type Opt func(*Generator) error

var _ tooluse.Generator = (*Generator)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultAttempts    = 3
	DefaultInterval    = 500 * time.Millisecond
	DefaultMaxInterval = 10 * time.Second
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New wraps a generator. With no options a call is attempted up to three
// times with no timeout.
func New(gen tooluse.Generator, opts ...Opt) (*Generator, error) {
	if gen == nil {
		return nil, tooluse.ErrBadParameter.With("generator is nil")
	}
	self := &Generator{
		gen:         gen,
		attempts:    DefaultAttempts,
		initial:     DefaultInterval,
		maxInterval: DefaultMaxInterval,
	}
	for _, opt := range opts {
		if err := opt(self); err != nil {
			return nil, err
		}
	}
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithAttempts sets the total number of attempts, including the first
func WithAttempts(n uint) Opt {
	return func(g *Generator) error {
		if n == 0 {
			return tooluse.ErrBadParameter.With("attempts must be at least one")
		}
		g.attempts = n
		return nil
	}
}

// WithTimeout sets the deadline for each attempt. Zero means no deadline.
func WithTimeout(d time.Duration) Opt {
	return func(g *Generator) error {
		if d < 0 {
			return tooluse.ErrBadParameter.Withf("negative timeout %v", d)
		}
		g.timeout = d
		return nil
	}
}

// WithInterval sets the first delay and the largest delay between attempts
func WithInterval(initial, max time.Duration) Opt {
	return func(g *Generator) error {
		if initial <= 0 || max < initial {
			return tooluse.ErrBadParameter.Withf("invalid interval %v..%v", initial, max)
		}
		g.initial, g.maxInterval = initial, max
		return nil
	}
}

// WithNotify sets a function which is called before each retry
func WithNotify(fn NotifyFunc) Opt {
	return func(g *Generator) error {
		g.notify = fn
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Attempts returns the total number of attempts made for each call
func (g *Generator) Attempts() uint {
	return g.attempts
}

// Send calls the wrapped generator until it succeeds, returns an error which
// is not a transport error, or the attempts are exhausted. In the last case
// the error from the final attempt is returned.
func (g *Generator) Send(ctx context.Context, req schema.Request, opts ...opt.Opt) (*schema.AssistantTurn, error) {
	var attempt uint
	var turn *schema.AssistantTurn

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.initial
	policy.MaxInterval = g.maxInterval
	policy.MaxElapsedTime = 0

	operation := func() error {
		attempt++
		result, err := g.send(ctx, req, opts...)
		switch {
		case err == nil:
			turn = result
			return nil
		case ctx.Err() != nil:
			return backoff.Permanent(ctx.Err())
		case errors.Is(err, tooluse.ErrTransport):
			return err
		default:
			return backoff.Permanent(err)
		}
	}
	notify := func(err error, delay time.Duration) {
		if g.notify != nil {
			g.notify(attempt, err, delay)
		}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.attempts-1)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return turn, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// send makes one attempt. A deadline which expires on this attempt alone
// is a transport error.
func (g *Generator) send(ctx context.Context, req schema.Request, opts ...opt.Opt) (*schema.AssistantTurn, error) {
	if g.timeout <= 0 {
		return g.gen.Send(ctx, req, opts...)
	}
	child, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	turn, err := g.gen.Send(child, req, opts...)
	if err != nil && ctx.Err() == nil && errors.Is(child.Err(), context.DeadlineExceeded) && !errors.Is(err, tooluse.ErrTransport) {
		return nil, tooluse.ErrTransport.Wrap(err)
	}
	return turn, err
}
