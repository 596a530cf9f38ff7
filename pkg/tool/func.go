package tool

import (
	"context"
	"encoding/json"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tooluse "github.com/mutablelogic/go-tooluse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Func is a tool backed by a function which takes a typed request. The
// input schema is derived from the request type.
type Func[T any] struct {
	name, description string
	fn                func(context.Context, T) (any, error)
	enum              map[string][]any
}

var _ Tool = (*Func[struct{}])(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFunc returns a tool which decodes its input into T and calls fn
func NewFunc[T any](name, description string, fn func(context.Context, T) (any, error)) *Func[T] {
	return &Func[T]{
		name:        name,
		description: description,
		fn:          fn,
	}
}

// WithEnum restricts a property of the request to a set of values
func (f *Func[T]) WithEnum(property string, values ...any) *Func[T] {
	if f.enum == nil {
		f.enum = make(map[string][]any)
	}
	f.enum[property] = values
	return f
}

///////////////////////////////////////////////////////////////////////////////
// TOOL INTERFACE

func (f *Func[T]) Name() string {
	return f.name
}

func (f *Func[T]) Description() string {
	return f.description
}

func (f *Func[T]) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	for property, values := range f.enum {
		if p, ok := schema.Properties[property]; ok && p != nil {
			p.Enum = values
		} else {
			return nil, tooluse.ErrBadParameter.Withf("no such property: %q", property)
		}
	}
	return schema, nil
}

func (f *Func[T]) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req T
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, tooluse.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	return f.fn(ctx, req)
}
