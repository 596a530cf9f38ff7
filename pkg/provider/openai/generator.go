package openai

import (
	"context"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	goopenai "github.com/sashabaranov/go-openai"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Send builds a chat completion request from the conversation and returns
// the next assistant turn
func (c *Client) Send(ctx context.Context, req schema.Request, opts ...opt.Opt) (*schema.AssistantTurn, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}
	request, err := newChatRequest(req, options)
	if err != nil {
		return nil, err
	}
	response, err := c.client.CreateChatCompletion(ctx, *request)
	if err != nil {
		return nil, classify(err)
	}
	return assistantTurnFromResponse(&response)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func newChatRequest(req schema.Request, options opt.Options) (*goopenai.ChatCompletionRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}
	messages, err := chatMessagesFromTurns(req.System, req.History)
	if err != nil {
		return nil, err
	}

	request := &goopenai.ChatCompletionRequest{
		Model:     req.Config.Model,
		Messages:  messages,
		MaxTokens: int(req.Config.MaxOutputTokens),
		Tools:     chatToolsFromDescriptors(req.Tools),
		Stop:      options.GetStringArray(stopKey),
		User:      options.GetString(userKey),
	}
	if request.Model == "" {
		request.Model = defaultModel
	}
	if req.Config.Temperature != nil {
		request.Temperature = float32(*req.Config.Temperature)
	}
	if options.Has(topPKey) {
		request.TopP = float32(options.GetFloat64(topPKey))
	}
	if name := req.Config.ForcedTool; name != "" {
		request.ToolChoice = goopenai.ToolChoice{
			Type:     goopenai.ToolTypeFunction,
			Function: goopenai.ToolFunction{Name: name},
		}
	}
	return request, nil
}
