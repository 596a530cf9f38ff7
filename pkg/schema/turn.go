package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Role identifies the author of a turn
type Role string

// Turn is one entry in the conversation history
type Turn struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
	Usage   *Usage         `json:"usage,omitempty"`
}

// ContentBlock holds exactly one of text, a tool call or a tool result
type ContentBlock struct {
	Text       *string     `json:"text,omitempty"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// ToolCall is a request from the model to invoke a tool
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResult is the outcome of executing a tool call
type ToolResult struct {
	ID      string          `json:"id"`
	Name    string          `json:"name,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
	IsError bool            `json:"is_error,omitempty"`
}

// Usage counts tokens consumed by a request
type Usage struct {
	InputTokens  uint `json:"input_tokens,omitempty"`
	OutputTokens uint `json:"output_tokens,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewUserTurn returns a user turn containing text
func NewUserTurn(text string) Turn {
	return Turn{
		Role:    RoleUser,
		Content: []ContentBlock{NewText(text)},
	}
}

// NewToolTurn returns a turn carrying one or more tool results
func NewToolTurn(results ...ToolResult) Turn {
	turn := Turn{Role: RoleTool, Content: make([]ContentBlock, 0, len(results))}
	for _, result := range results {
		turn.Content = append(turn.Content, ContentBlock{ToolResult: types.Ptr(result)})
	}
	return turn
}

// NewText returns a text content block
func NewText(text string) ContentBlock {
	return ContentBlock{Text: types.Ptr(text)}
}

// NewToolResult encodes a tool return value as a successful result for
// the call. A value which cannot be encoded yields an error result.
func NewToolResult(call ToolCall, value any) ToolResult {
	var data []byte
	switch v := value.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return NewToolError(call, fmt.Errorf("cannot encode result: %w", err))
		}
	}
	if !json.Valid(data) {
		return NewToolError(call, errors.New("cannot encode result: invalid JSON"))
	}
	return ToolResult{
		ID:      call.ID,
		Name:    call.Name,
		Content: json.RawMessage(data),
	}
}

// NewToolError returns an error result for the call
func NewToolError(call ToolCall, err error) ToolResult {
	data, _ := json.Marshal(err.Error())
	return ToolResult{
		ID:      call.ID,
		Name:    call.Name,
		Content: json.RawMessage(data),
		IsError: true,
	}
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t Turn) String() string {
	return types.Stringify(t)
}

func (r ToolResult) String() string {
	return types.Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Text returns the text blocks joined by newlines
func (t Turn) Text() string {
	var parts []string
	for _, block := range t.Content {
		if block.Text != nil && *block.Text != "" {
			parts = append(parts, *block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolCalls returns the tool calls in the order they appear
func (t Turn) ToolCalls() []ToolCall {
	var result []ToolCall
	for _, block := range t.Content {
		if block.ToolCall != nil {
			result = append(result, *block.ToolCall)
		}
	}
	return result
}

// ToolResults returns the tool results in the order they appear
func (t Turn) ToolResults() []ToolResult {
	var result []ToolResult
	for _, block := range t.Content {
		if block.ToolResult != nil {
			result = append(result, *block.ToolResult)
		}
	}
	return result
}

// Validate checks the role and content of the turn
func (t Turn) Validate() error {
	switch t.Role {
	case RoleUser, RoleAssistant, RoleTool:
		// OK
	default:
		return fmt.Errorf("invalid role %q", t.Role)
	}
	if len(t.Content) == 0 {
		return fmt.Errorf("%s turn has no content", t.Role)
	}
	for i, block := range t.Content {
		if n := block.count(); n != 1 {
			return fmt.Errorf("content block %d has %d values, expected one", i, n)
		}
		switch {
		case block.ToolCall != nil:
			if t.Role != RoleAssistant {
				return fmt.Errorf("tool call in %s turn", t.Role)
			}
			if err := block.ToolCall.Validate(); err != nil {
				return err
			}
		case block.ToolResult != nil:
			if t.Role != RoleTool {
				return fmt.Errorf("tool result in %s turn", t.Role)
			}
			if block.ToolResult.ID == "" {
				return errors.New("tool result is missing an id")
			}
			if len(block.ToolResult.Content) > 0 && !json.Valid(block.ToolResult.Content) {
				return fmt.Errorf("tool result %q content is not valid JSON", block.ToolResult.ID)
			}
		case block.Text != nil:
			if t.Role == RoleTool {
				return errors.New("text in tool turn")
			}
		}
	}
	return nil
}

// Validate checks the call has an id, a name and an object as input
func (c ToolCall) Validate() error {
	if c.ID == "" {
		return errors.New("tool call is missing an id")
	}
	if c.Name == "" {
		return fmt.Errorf("tool call %q is missing a name", c.ID)
	}
	if len(c.Input) == 0 {
		return nil
	}
	var input map[string]any
	if err := json.Unmarshal(c.Input, &input); err != nil {
		return fmt.Errorf("tool call %q input is not an object", c.ID)
	}
	return nil
}

// Arguments returns the input as a map, which is empty if there is no input
func (c ToolCall) Arguments() (map[string]any, error) {
	args := make(map[string]any)
	if len(c.Input) == 0 || string(c.Input) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(c.Input, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Clone returns a deep copy of the turn
func (t Turn) Clone() Turn {
	result := Turn{Role: t.Role, Content: make([]ContentBlock, len(t.Content))}
	if t.Usage != nil {
		result.Usage = types.Ptr(*t.Usage)
	}
	for i, block := range t.Content {
		result.Content[i] = block.clone()
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b ContentBlock) count() int {
	n := 0
	if b.Text != nil {
		n++
	}
	if b.ToolCall != nil {
		n++
	}
	if b.ToolResult != nil {
		n++
	}
	return n
}

func (b ContentBlock) clone() ContentBlock {
	var result ContentBlock
	if b.Text != nil {
		result.Text = types.Ptr(*b.Text)
	}
	if b.ToolCall != nil {
		call := *b.ToolCall
		call.Input = slices.Clone(call.Input)
		result.ToolCall = &call
	}
	if b.ToolResult != nil {
		res := *b.ToolResult
		res.Content = slices.Clone(res.Content)
		result.ToolResult = &res
	}
	return result
}
