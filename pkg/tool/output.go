package tool

import (
	"context"
	"encoding/json"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// OutputTool wraps a JSON schema as a tool, so the model produces
// structured output by "calling" it. The arguments of the call are the
// output. It is normally forced with GenerationConfig.ForcedTool.
type OutputTool struct {
	name, description string
	schema            *jsonschema.Schema
}

var _ Tool = (*OutputTool)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewOutputTool creates a tool whose parameter schema is the given JSON schema
func NewOutputTool(name, description string, s *jsonschema.Schema) *OutputTool {
	return &OutputTool{name: name, description: description, schema: s}
}

// OutputFor creates an output tool whose schema is derived from T
func OutputFor[T any](name, description string) (*OutputTool, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	return NewOutputTool(name, description, s), nil
}

///////////////////////////////////////////////////////////////////////////////
// TOOL INTERFACE

func (t *OutputTool) Name() string {
	return t.name
}

func (t *OutputTool) Description() string {
	return t.description
}

func (t *OutputTool) Schema() (*jsonschema.Schema, error) {
	return t.schema, nil
}

// Run returns the input unchanged
func (t *OutputTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	if len(input) == 0 {
		return json.RawMessage("{}"), nil
	}
	return input, nil
}
