package tool

import (
	"context"
	"encoding/json"
	"fmt"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tooluse "github.com/mutablelogic/go-tooluse"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Tool is an interface for a tool with a name, description and JSON schema
type Tool interface {
	// Return the name of the tool
	Name() string

	// Return the description of the tool
	Description() string

	// Return the JSON schema for the tool input
	Schema() (*jsonschema.Schema, error)

	// Run the tool with the given input as JSON (may be nil)
	Run(ctx context.Context, input json.RawMessage) (any, error)
}

// Toolkit is a collection of tools with unique names, kept in the order
// they were registered
type Toolkit struct {
	tools []Tool
	index map[string]int
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewToolkit creates a new toolkit with the given tools.
// Returns an error if any tool has an invalid or duplicate name.
func NewToolkit(tools ...Tool) (*Toolkit, error) {
	tk := &Toolkit{
		index: make(map[string]int),
	}
	if err := tk.Register(tools...); err != nil {
		return nil, err
	}
	return tk, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Tools returns all tools in registration order
func (tk *Toolkit) Tools() []Tool {
	result := make([]Tool, len(tk.tools))
	copy(result, tk.tools)
	return result
}

// Len returns the number of registered tools
func (tk *Toolkit) Len() int {
	return len(tk.tools)
}

// Register adds one or more tools to the toolkit. Returns an error if any
// tool has an invalid or duplicate name, or its schema cannot be generated,
// in which case none of the tools are added.
func (tk *Toolkit) Register(tools ...Tool) error {
	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		if t == nil {
			return tooluse.ErrBadParameter.With("nil tool")
		}
		name := t.Name()
		if !types.IsIdentifier(name) {
			return tooluse.ErrBadParameter.Withf("invalid tool name: %q", name)
		}
		if _, exists := tk.index[name]; exists || seen[name] {
			return tooluse.ErrBadParameter.Withf("duplicate tool name: %q", name)
		}
		if _, err := t.Schema(); err != nil {
			return tooluse.ErrBadParameter.Withf("tool %q: schema generation failed: %v", name, err)
		}
		seen[name] = true
	}
	for _, t := range tools {
		tk.index[t.Name()] = len(tk.tools)
		tk.tools = append(tk.tools, t)
	}
	return nil
}

// Lookup returns a tool by name, or nil if not found
func (tk *Toolkit) Lookup(name string) Tool {
	if i, exists := tk.index[name]; exists {
		return tk.tools[i]
	}
	return nil
}

// Describe returns the descriptors of all tools in registration order, for
// advertising to the model
func (tk *Toolkit) Describe() []schema.ToolDescriptor {
	result := make([]schema.ToolDescriptor, 0, len(tk.tools))
	for _, t := range tk.tools {
		s, _ := t.Schema()
		result = append(result, schema.ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: s,
		})
	}
	return result
}

// Run executes a tool by name with the given input. Returns an error
// wrapping ErrUnknownTool if the tool is not registered, or
// ErrToolExecution if the input does not match the schema or the tool fails.
func (tk *Toolkit) Run(ctx context.Context, name string, input json.RawMessage) (result any, err error) {
	// Lookup the tool
	tool := tk.Lookup(name)
	if tool == nil {
		return nil, tooluse.ErrUnknownTool.Withf("%q", name)
	}

	// Validate input against schema
	if err := validate(tool, input); err != nil {
		return nil, tooluse.ErrToolExecution.Withf("%s: invalid input: %v", name, err)
	}

	// A panicking tool is reported as a failure
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, tooluse.ErrToolExecution.Withf("%s: panic: %v", name, r)
		}
	}()

	// Run the tool with raw JSON
	if result, err := tool.Run(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", tooluse.ErrToolExecution, name, err)
	} else {
		return result, nil
	}
}

// Invoke executes a tool call and always returns a result carrying the
// call's id. Failures are returned as error results.
func (tk *Toolkit) Invoke(ctx context.Context, call schema.ToolCall) schema.ToolResult {
	result, err := tk.Run(ctx, call.Name, call.Input)
	if err != nil {
		return schema.NewToolError(call, err)
	}
	return schema.NewToolResult(call, result)
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (tk *Toolkit) String() string {
	return types.Stringify(tk.Describe())
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func validate(tool Tool, input json.RawMessage) error {
	s, err := tool.Schema()
	if err != nil {
		return err
	} else if s == nil {
		return nil
	}

	// Missing input is validated as an empty object
	value := make(map[string]any)
	if len(input) > 0 && string(input) != "null" {
		if err := json.Unmarshal(input, &value); err != nil {
			return err
		}
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return err
	}
	return resolved.Validate(value)
}
