package anthropic

import (
	"encoding/json"
	"time"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES - Anthropic REST API wire format
//
// Reference: https://docs.anthropic.com/en/api/messages
//            https://docs.anthropic.com/en/api/models
//            https://docs.anthropic.com/en/api/streaming

// messagesRequest is the request body for POST /v1/messages
type messagesRequest struct {
	MaxTokens     uint               `json:"max_tokens"`
	Messages      []anthropicMessage `json:"messages"`
	Metadata      *messagesMetadata  `json:"metadata,omitempty"`
	Model         string             `json:"model"`
	ServiceTier   string             `json:"service_tier,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
	Stream        bool               `json:"stream,omitempty"`
	System        string             `json:"system,omitempty"`
	Temperature   *float64           `json:"temperature,omitempty"`
	ToolChoice    *toolChoice        `json:"tool_choice,omitempty"`
	Tools         []anthropicTool    `json:"tools,omitempty"`
	TopK          *uint              `json:"top_k,omitempty"`
	TopP          *float64           `json:"top_p,omitempty"`
}

type messagesMetadata struct {
	UserId string `json:"user_id,omitempty"`
}

// toolChoice specifies which tool(s) the model may use
type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type anthropicTool struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// messagesResponse is the response body from POST /v1/messages and the
// payload of the message_start event
type messagesResponse struct {
	Id           string                  `json:"id"`
	Model        string                  `json:"model"`
	Type         string                  `json:"type"`
	Role         string                  `json:"role"`
	Content      []anthropicContentBlock `json:"content"`
	StopReason   string                  `json:"stop_reason"`
	StopSequence *string                 `json:"stop_sequence,omitempty"`
	Usage        messagesUsage           `json:"usage"`
}

type messagesUsage struct {
	InputTokens  uint `json:"input_tokens"`
	OutputTokens uint `json:"output_tokens"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

// anthropicContentBlock is a content block. Different block types use
// different subsets of fields.
type anthropicContentBlock struct {
	Type string `json:"type"`

	// text block
	Text string `json:"text,omitempty"`

	// tool_use block
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result block
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// streamEvent is the envelope for all SSE events
type streamEvent struct {
	Type         string                 `json:"type"`
	Index        int                    `json:"index,omitempty"`
	Message      *messagesResponse      `json:"message,omitempty"`
	ContentBlock *anthropicContentBlock `json:"content_block,omitempty"`
	Delta        *streamDelta           `json:"delta,omitempty"`
	Usage        *messagesUsage         `json:"usage,omitempty"`
	Error        *apiError              `json:"error,omitempty"`
}

type streamDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// model is the response for GET /v1/models/{model_id} and each entry in
// the list response
type model struct {
	Id          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

type listModelsResponse struct {
	Data    []model `json:"data"`
	HasMore bool    `json:"has_more"`
	FirstId string  `json:"first_id"`
	LastId  string  `json:"last_id"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultModel     = "claude-3-7-sonnet-20250219"
	defaultMaxTokens = 1000
)

const (
	stopReasonEndTurn      = "end_turn"
	stopReasonMaxTokens    = "max_tokens"
	stopReasonStopSequence = "stop_sequence"
	stopReasonToolUse      = "tool_use"
	stopReasonRefusal      = "refusal"
)

const (
	eventMessageStart      = "message_start"
	eventContentBlockStart = "content_block_start"
	eventContentBlockDelta = "content_block_delta"
	eventContentBlockStop  = "content_block_stop"
	eventMessageDelta      = "message_delta"
	eventMessageStop       = "message_stop"
	eventPing              = "ping"
	eventError             = "error"
)

const (
	blockTypeText       = "text"
	blockTypeToolUse    = "tool_use"
	blockTypeToolResult = "tool_result"
	blockTypeThinking   = "thinking"
)

const (
	deltaTypeText      = "text_delta"
	deltaTypeInputJSON = "input_json_delta"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)
