package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// TurnKind distinguishes a final answer from a request to run tools
type TurnKind uint

// Result is the reason the model stopped generating
type Result uint

// AssistantTurn is a parsed response from the model. When Kind is
// ToolInvocations, Calls holds at least one call and Text holds any
// preamble the model produced alongside them.
type AssistantTurn struct {
	Kind   TurnKind   `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Calls  []ToolCall `json:"calls,omitempty"`
	Result Result     `json:"result"`
	Model  string     `json:"model,omitempty"`
	Usage  Usage      `json:"usage"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	FinalText TurnKind = iota
	ToolInvocations
)

const (
	ResultStop Result = iota
	ResultToolCall
	ResultMaxTokens
	ResultRefusal
	ResultOther
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFinalText returns an assistant turn with a final answer
func NewFinalText(text string) *AssistantTurn {
	return &AssistantTurn{Kind: FinalText, Text: text, Result: ResultStop}
}

// NewToolInvocations returns an assistant turn which requests tool calls
func NewToolInvocations(calls ...ToolCall) *AssistantTurn {
	return &AssistantTurn{Kind: ToolInvocations, Calls: calls, Result: ResultToolCall}
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (a AssistantTurn) String() string {
	return types.Stringify(a)
}

func (k TurnKind) String() string {
	switch k {
	case FinalText:
		return "final_text"
	case ToolInvocations:
		return "tool_invocations"
	default:
		return fmt.Sprintf("kind(%d)", uint(k))
	}
}

func (r Result) String() string {
	switch r {
	case ResultStop:
		return "stop"
	case ResultToolCall:
		return "tool_call"
	case ResultMaxTokens:
		return "max_tokens"
	case ResultRefusal:
		return "refusal"
	default:
		return "other"
	}
}

func (k TurnKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks the kind agrees with the content
func (a AssistantTurn) Validate() error {
	switch a.Kind {
	case FinalText:
		if len(a.Calls) > 0 {
			return errors.New("final text response carries tool calls")
		}
		if a.Text == "" {
			return errors.New("final text response is empty")
		}
	case ToolInvocations:
		if len(a.Calls) == 0 {
			return errors.New("tool invocation response has no tool calls")
		}
		seen := make(map[string]bool, len(a.Calls))
		for _, call := range a.Calls {
			if err := call.Validate(); err != nil {
				return err
			}
			if seen[call.ID] {
				return fmt.Errorf("duplicate tool call id %q", call.ID)
			}
			seen[call.ID] = true
		}
	default:
		return fmt.Errorf("unknown response kind %d", uint(a.Kind))
	}
	return nil
}

// Turn converts the response into the assistant turn which is appended to
// the conversation history
func (a AssistantTurn) Turn() Turn {
	turn := Turn{Role: RoleAssistant}
	if a.Text != "" {
		turn.Content = append(turn.Content, NewText(a.Text))
	}
	for _, call := range a.Calls {
		turn.Content = append(turn.Content, ContentBlock{ToolCall: types.Ptr(call)})
	}
	if a.Usage.InputTokens > 0 || a.Usage.OutputTokens > 0 {
		turn.Usage = types.Ptr(a.Usage)
	}
	return turn
}
