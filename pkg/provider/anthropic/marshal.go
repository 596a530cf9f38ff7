package anthropic

import (
	"encoding/json"
	"strings"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tooluse "github.com/mutablelogic/go-tooluse"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TURNS → ANTHROPIC MESSAGES

// anthropicMessagesFromTurns converts the history to Anthropic messages. Tool
// results are sent in user messages, and adjacent turns with the same
// role are merged, so the messages alternate.
func anthropicMessagesFromTurns(turns []schema.Turn) ([]anthropicMessage, error) {
	messages := make([]anthropicMessage, 0, len(turns))
	for _, turn := range turns {
		role, err := anthropicRole(turn.Role)
		if err != nil {
			return nil, err
		}
		blocks := make([]anthropicContentBlock, 0, len(turn.Content))
		for i := range turn.Content {
			if block := anthropicBlockFromContentBlock(&turn.Content[i]); block != nil {
				blocks = append(blocks, *block)
			}
		}
		if n := len(messages); n > 0 && messages[n-1].Role == role {
			messages[n-1].Content = append(messages[n-1].Content, blocks...)
		} else {
			messages = append(messages, anthropicMessage{Role: role, Content: blocks})
		}
	}
	return messages, nil
}

func anthropicRole(role schema.Role) (string, error) {
	switch role {
	case schema.RoleUser, schema.RoleTool:
		return roleUser, nil
	case schema.RoleAssistant:
		return roleAssistant, nil
	default:
		return "", tooluse.ErrBadParameter.Withf("unsupported role %q", role)
	}
}

// anthropicBlockFromContentBlock converts a content block to an Anthropic content block
func anthropicBlockFromContentBlock(block *schema.ContentBlock) *anthropicContentBlock {
	switch {
	case block.Text != nil:
		return &anthropicContentBlock{
			Type: blockTypeText,
			Text: *block.Text,
		}
	case block.ToolCall != nil:
		input := block.ToolCall.Input
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		return &anthropicContentBlock{
			Type:  blockTypeToolUse,
			ID:    block.ToolCall.ID,
			Name:  block.ToolCall.Name,
			Input: input,
		}
	case block.ToolResult != nil:
		ab := &anthropicContentBlock{
			Type:      blockTypeToolResult,
			ToolUseID: block.ToolResult.ID,
			IsError:   block.ToolResult.IsError,
		}
		// Strings pass through, other JSON values are sent as their text
		if content := block.ToolResult.Content; len(content) > 0 {
			if content[0] == '"' {
				ab.Content = content
			} else {
				data, _ := json.Marshal(string(content))
				ab.Content = data
			}
		}
		return ab
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// DESCRIPTORS → ANTHROPIC TOOLS

func anthropicToolsFromDescriptors(tools []schema.ToolDescriptor) []anthropicTool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]anthropicTool, 0, len(tools))
	for _, t := range tools {
		s := t.InputSchema
		if s == nil {
			s = &jsonschema.Schema{Type: "object"}
		}
		result = append(result, anthropicTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: s,
		})
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// ANTHROPIC RESPONSE → ASSISTANT TURN

// assistantTurnFromResponse parses a response into an assistant turn. The
// turn is a tool invocation when any tool_use block is present.
func assistantTurnFromResponse(response *messagesResponse) (*schema.AssistantTurn, error) {
	if response.StopReason == stopReasonRefusal {
		return nil, tooluse.ErrRefusal
	}
	if response.Role != "" && response.Role != roleAssistant {
		return nil, tooluse.ErrMalformedResponse.Withf("unexpected role %q", response.Role)
	}

	var text []string
	var calls []schema.ToolCall
	for _, block := range response.Content {
		switch block.Type {
		case blockTypeText:
			if block.Text != "" {
				text = append(text, block.Text)
			}
		case blockTypeToolUse:
			input := block.Input
			if len(input) == 0 {
				input = json.RawMessage("{}")
			}
			calls = append(calls, schema.ToolCall{
				ID:    block.ID,
				Name:  block.Name,
				Input: input,
			})
		case blockTypeThinking:
			// Not part of the conversation history
		default:
			return nil, tooluse.ErrMalformedResponse.Withf("unexpected content block type %q", block.Type)
		}
	}

	turn := &schema.AssistantTurn{
		Text:   strings.Join(text, "\n"),
		Calls:  calls,
		Result: resultFromStopReason(response.StopReason),
		Model:  response.Model,
		Usage: schema.Usage{
			InputTokens:  response.Usage.InputTokens,
			OutputTokens: response.Usage.OutputTokens,
		},
	}
	if len(calls) > 0 {
		turn.Kind = schema.ToolInvocations
	} else if response.StopReason == stopReasonToolUse {
		return nil, tooluse.ErrMalformedResponse.With("tool_use stop reason without tool calls")
	} else if turn.Text == "" && turn.Result == schema.ResultMaxTokens {
		return nil, tooluse.ErrMaxTokens
	} else {
		turn.Kind = schema.FinalText
	}
	if err := turn.Validate(); err != nil {
		return nil, tooluse.ErrMalformedResponse.Wrap(err)
	}
	return turn, nil
}

// resultFromStopReason maps Anthropic stop reasons to schema.Result
func resultFromStopReason(reason string) schema.Result {
	switch reason {
	case stopReasonEndTurn, stopReasonStopSequence:
		return schema.ResultStop
	case stopReasonMaxTokens:
		return schema.ResultMaxTokens
	case stopReasonToolUse:
		return schema.ResultToolCall
	case stopReasonRefusal:
		return schema.ResultRefusal
	default:
		return schema.ResultOther
	}
}
