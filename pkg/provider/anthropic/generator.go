package anthropic

import (
	"context"
	"io"

	// Packages
	client "github.com/mutablelogic/go-client"
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Send builds a messages request from the conversation and returns the
// next assistant turn. When a stream callback is set, text is delivered as
// it is generated.
func (c *Client) Send(ctx context.Context, req schema.Request, opts ...opt.Opt) (*schema.AssistantTurn, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}

	// Build request
	request, err := newMessagesRequest(req, options)
	if err != nil {
		return nil, err
	}
	streamFn := options.GetStream()
	if streamFn != nil {
		request.Stream = true
	}

	// Create JSON payload
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}

	// Send the request
	var response messagesResponse
	if streamFn != nil {
		err = c.stream(ctx, payload, &response, streamFn)
	} else {
		err = c.DoWithContext(ctx, payload, &response, client.OptPath("messages"))
	}
	if err != nil {
		return nil, classify(err)
	}

	return assistantTurnFromResponse(&response)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// stream accumulates the SSE events of a streaming response into response.
// A stream which ends before message_stop is a transport error.
func (c *Client) stream(ctx context.Context, payload client.Payload, response *messagesResponse, streamFn opt.StreamFn) error {
	var stopped bool
	callback := func(event client.TextStreamEvent) error {
		var ev streamEvent
		if err := event.Json(&ev); err != nil {
			return tooluse.ErrMalformedResponse.Wrap(err)
		}

		switch ev.Type {
		case eventMessageStart:
			if ev.Message != nil {
				*response = *ev.Message
				response.Content = nil
			}
		case eventContentBlockStart:
			for len(response.Content) <= ev.Index {
				response.Content = append(response.Content, anthropicContentBlock{})
			}
			if ev.ContentBlock != nil {
				response.Content[ev.Index] = *ev.ContentBlock
				// The input arrives in input_json_delta events
				if ev.ContentBlock.Type == blockTypeToolUse {
					response.Content[ev.Index].Input = nil
				}
			}
		case eventContentBlockDelta:
			if ev.Delta == nil {
				break
			}
			for len(response.Content) <= ev.Index {
				response.Content = append(response.Content, anthropicContentBlock{})
			}
			block := &response.Content[ev.Index]
			switch ev.Delta.Type {
			case deltaTypeText:
				block.Text += ev.Delta.Text
				streamFn(ev.Delta.Text)
			case deltaTypeInputJSON:
				block.Input = append(block.Input, ev.Delta.PartialJSON...)
			}
		case eventMessageDelta:
			if ev.Delta != nil && ev.Delta.StopReason != "" {
				response.StopReason = ev.Delta.StopReason
			}
			if ev.Usage != nil {
				response.Usage.OutputTokens = ev.Usage.OutputTokens
			}
		case eventMessageStop:
			stopped = true
			return io.EOF
		case eventError:
			return streamError(ev.Error)
		case eventContentBlockStop, eventPing:
			// Ignore
		}
		return nil
	}

	var discard messagesResponse
	if err := c.DoWithContext(ctx, payload, &discard, client.OptPath("messages"), client.OptTextStreamCallback(callback)); err != nil {
		return err
	} else if !stopped {
		return tooluse.ErrTransport.With("stream ended before message_stop")
	}
	return nil
}

// newMessagesRequest builds the request body. It does not depend on any
// state, so the same request always produces the same body.
func newMessagesRequest(req schema.Request, options opt.Options) (*messagesRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}

	// Convert history to Anthropic message format
	messages, err := anthropicMessagesFromTurns(req.History)
	if err != nil {
		return nil, err
	}

	request := &messagesRequest{
		Model:         req.Config.Model,
		MaxTokens:     req.Config.MaxOutputTokens,
		Messages:      messages,
		System:        req.System,
		Temperature:   req.Config.Temperature,
		Tools:         anthropicToolsFromDescriptors(req.Tools),
		ServiceTier:   options.GetString(serviceTierKey),
		StopSequences: options.GetStringArray(stopSequencesKey),
	}
	if request.Model == "" {
		request.Model = defaultModel
	}
	if request.MaxTokens == 0 {
		request.MaxTokens = defaultMaxTokens
	}
	if name := req.Config.ForcedTool; name != "" {
		request.ToolChoice = &toolChoice{Type: "tool", Name: name}
	}
	if user := options.GetString(userIdKey); user != "" {
		request.Metadata = &messagesMetadata{UserId: user}
	}
	if options.Has(topKKey) {
		request.TopK = types.Ptr(options.GetUint(topKKey))
	}
	if options.Has(topPKey) {
		request.TopP = types.Ptr(options.GetFloat64(topPKey))
	}

	return request, nil
}
