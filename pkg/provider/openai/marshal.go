package openai

import (
	"encoding/json"
	"strings"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	goopenai "github.com/sashabaranov/go-openai"
)

///////////////////////////////////////////////////////////////////////////////
// TURNS → CHAT MESSAGES

// chatMessagesFromTurns converts the system prompt and history. Each tool
// result becomes its own tool message.
func chatMessagesFromTurns(system string, turns []schema.Turn) ([]goopenai.ChatCompletionMessage, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(turns)+1)
	if system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, turn := range turns {
		switch turn.Role {
		case schema.RoleUser:
			messages = append(messages, goopenai.ChatCompletionMessage{
				Role:    goopenai.ChatMessageRoleUser,
				Content: turn.Text(),
			})
		case schema.RoleAssistant:
			message := goopenai.ChatCompletionMessage{
				Role:    goopenai.ChatMessageRoleAssistant,
				Content: turn.Text(),
			}
			for _, call := range turn.ToolCalls() {
				args := string(call.Input)
				if args == "" {
					args = "{}"
				}
				message.ToolCalls = append(message.ToolCalls, goopenai.ToolCall{
					ID:   call.ID,
					Type: goopenai.ToolTypeFunction,
					Function: goopenai.FunctionCall{
						Name:      call.Name,
						Arguments: args,
					},
				})
			}
			messages = append(messages, message)
		case schema.RoleTool:
			for _, result := range turn.ToolResults() {
				messages = append(messages, goopenai.ChatCompletionMessage{
					Role:       goopenai.ChatMessageRoleTool,
					Content:    toolResultContent(result),
					ToolCallID: result.ID,
				})
			}
		default:
			return nil, tooluse.ErrBadParameter.Withf("unsupported role %q", turn.Role)
		}
	}
	return messages, nil
}

// toolResultContent returns strings unquoted and other values as JSON text
func toolResultContent(result schema.ToolResult) string {
	var text string
	if err := json.Unmarshal(result.Content, &text); err == nil {
		return text
	}
	return string(result.Content)
}

///////////////////////////////////////////////////////////////////////////////
// DESCRIPTORS → TOOLS

func chatToolsFromDescriptors(tools []schema.ToolDescriptor) []goopenai.Tool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]goopenai.Tool, 0, len(tools))
	for _, t := range tools {
		var parameters any = map[string]any{"type": "object", "properties": map[string]any{}}
		if t.InputSchema != nil {
			parameters = t.InputSchema
		}
		result = append(result, goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  parameters,
			},
		})
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// RESPONSE → ASSISTANT TURN

func assistantTurnFromResponse(response *goopenai.ChatCompletionResponse) (*schema.AssistantTurn, error) {
	if len(response.Choices) == 0 {
		return nil, tooluse.ErrMalformedResponse.With("no choices in response")
	}
	choice := response.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return nil, tooluse.ErrRefusal
	}
	if choice.Message.Refusal != "" {
		return nil, tooluse.ErrRefusal.With(choice.Message.Refusal)
	}

	turn := &schema.AssistantTurn{
		Text:   strings.TrimSpace(choice.Message.Content),
		Result: resultFromFinishReason(choice.FinishReason),
		Model:  response.Model,
		Usage: schema.Usage{
			InputTokens:  uint(response.Usage.PromptTokens),
			OutputTokens: uint(response.Usage.CompletionTokens),
		},
	}
	for _, call := range choice.Message.ToolCalls {
		args := strings.TrimSpace(call.Function.Arguments)
		if args == "" {
			args = "{}"
		}
		if !json.Valid([]byte(args)) {
			return nil, tooluse.ErrMalformedResponse.Withf("tool call %q arguments are not valid JSON", call.ID)
		}
		turn.Calls = append(turn.Calls, schema.ToolCall{
			ID:    call.ID,
			Name:  call.Function.Name,
			Input: json.RawMessage(args),
		})
	}
	if len(turn.Calls) > 0 {
		turn.Kind = schema.ToolInvocations
	} else if choice.FinishReason == goopenai.FinishReasonToolCalls {
		return nil, tooluse.ErrMalformedResponse.With("tool_calls finish reason without tool calls")
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

func resultFromFinishReason(reason goopenai.FinishReason) schema.Result {
	switch reason {
	case goopenai.FinishReasonStop:
		return schema.ResultStop
	case goopenai.FinishReasonLength:
		return schema.ResultMaxTokens
	case goopenai.FinishReasonToolCalls, goopenai.FinishReasonFunctionCall:
		return schema.ResultToolCall
	case goopenai.FinishReasonContentFilter:
		return schema.ResultRefusal
	default:
		return schema.ResultOther
	}
}
