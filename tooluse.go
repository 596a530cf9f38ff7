// Package tooluse implements a tool-use conversation loop against hosted
// language model services. A Generator sends the conversation history and
// the advertised tools to a remote service and returns either final text or
// a list of tool invocations, which are executed locally and fed back until
// the model produces an answer.
package tooluse

import (
	"context"

	// Packages
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is a connection to a remote model service
type Client interface {
	// Return the provider name
	Name() string

	// Return the models available from the provider
	ListModels(context.Context, ...opt.Opt) ([]schema.Model, error)
}

// Generator produces the next assistant turn for a request. Implementations
// return errors wrapping ErrTransport when the remote call fails and
// ErrMalformedResponse when the response cannot be parsed.
type Generator interface {
	Send(context.Context, schema.Request, ...opt.Opt) (*schema.AssistantTurn, error)
}

// Provider is a client which can also generate turns
type Provider interface {
	Client
	Generator
}
