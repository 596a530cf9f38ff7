package agent

import (
	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt configures an agent
type Opt func(*Agent) error

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithSystemPrompt sets the system prompt sent with every request
func WithSystemPrompt(system string) Opt {
	return func(a *Agent) error {
		a.system = system
		return nil
	}
}

// WithConfig sets the generation config sent with every request
func WithConfig(config schema.GenerationConfig) Opt {
	return func(a *Agent) error {
		a.config = config
		return nil
	}
}

// WithObserver sets the observer which receives events
func WithObserver(observer Observer) Opt {
	return func(a *Agent) error {
		if observer == nil {
			return tooluse.ErrBadParameter.With("observer is nil")
		}
		a.observer = observer
		return nil
	}
}

// WithTracer sets the tracer used for spans
func WithTracer(tracer trace.Tracer) Opt {
	return func(a *Agent) error {
		if tracer != nil {
			a.tracer = tracer
		}
		return nil
	}
}

// WithMaxIterations limits the number of requests made for one user turn.
// Zero means no limit.
func WithMaxIterations(n uint) Opt {
	return func(a *Agent) error {
		a.maxIterations = n
		return nil
	}
}

// WithOpts sets options passed to the generator on every request
func WithOpts(opts ...opt.Opt) Opt {
	return func(a *Agent) error {
		if _, err := opt.Apply(opts...); err != nil {
			return tooluse.ErrBadParameter.Wrap(err)
		}
		a.opts = append(a.opts, opts...)
		return nil
	}
}
