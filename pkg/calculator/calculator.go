/*
calculator implements a tool which performs arithmetic on two numbers
*/
package calculator

import (
	"context"
	"encoding/json"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tooluse "github.com/mutablelogic/go-tooluse"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Request struct {
	Operation string  `json:"operation" jsonschema:"The operation to perform"`
	Num1      float64 `json:"num1" jsonschema:"The first number"`
	Num2      float64 `json:"num2" jsonschema:"The second number"`
}

type calculator struct{}

var _ tool.Tool = (*calculator)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Name = "calculator"
)

const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns the calculator tool
func New() tool.Tool {
	return &calculator{}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Calculate applies the operation to two numbers
func Calculate(operation string, num1, num2 float64) (float64, error) {
	switch operation {
	case OpAdd:
		return num1 + num2, nil
	case OpSubtract:
		return num1 - num2, nil
	case OpMultiply:
		return num1 * num2, nil
	case OpDivide:
		if num2 == 0 {
			return 0, tooluse.ErrBadParameter.With("division by zero")
		}
		return num1 / num2, nil
	default:
		return 0, tooluse.ErrBadParameter.Withf("invalid operation %q", operation)
	}
}

///////////////////////////////////////////////////////////////////////////////
// TOOL INTERFACE

func (*calculator) Name() string {
	return Name
}

func (*calculator) Description() string {
	return "Performs a mathematical operation on two numbers"
}

func (*calculator) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[Request](nil)
	if err != nil {
		return nil, err
	}
	if operation, ok := schema.Properties["operation"]; ok && operation != nil {
		operation.Enum = []any{OpAdd, OpSubtract, OpMultiply, OpDivide}
	}
	return schema, nil
}

func (*calculator) Run(_ context.Context, input json.RawMessage) (any, error) {
	var req Request
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, tooluse.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	return Calculate(req.Operation, req.Num1, req.Num2)
}
