package agent

import (
	"context"
	"strings"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	tooluse "github.com/mutablelogic/go-tooluse"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Chat appends the user's text to the conversation and runs the loop until
// the model answers with text. Tool calls are executed one at a time in the
// order the model made them, and each result is appended before the next
// request is sent. A forced tool applies to the first request only, so the
// model is free to answer once the tool has run.
//
// When the generator fails, the error is returned and the conversation keeps
// every turn appended so far, so the next call to Chat can continue it.
func (a *Agent) Chat(ctx context.Context, text string) (response *Response, err error) {
	a.Lock()
	defer a.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil, tooluse.ErrBadParameter.With("empty message")
	}

	// Otel span
	ctx, endSpan := otel.StartSpan(a.tracer, ctx, "Chat",
		attribute.String("conversation", a.conversation.ID),
	)
	defer func() { endSpan(err) }()

	// Whatever happens, the loop waits for the next user turn
	defer a.setState(ctx, StateAwaitingUserInput)
	defer func() {
		if err != nil {
			a.emit(ctx, Event{Type: EventError, Err: err})
		}
	}()

	if err := a.append(ctx, schema.NewUserTurn(text), 0); err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}

	config := a.config
	response = new(Response)
	for iteration := 1; ; iteration++ {
		if a.maxIterations > 0 && uint(iteration) > a.maxIterations {
			return nil, tooluse.ErrMaxIterations.Withf("%d iterations", a.maxIterations)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.setState(ctx, StateAwaitingServiceResponse)

		turn, err := a.send(ctx, config, iteration)
		if err != nil {
			return nil, err
		}
		response.Iterations = iteration
		response.Usage.InputTokens += turn.Usage.InputTokens
		response.Usage.OutputTokens += turn.Usage.OutputTokens

		if err := turn.Validate(); err != nil {
			return nil, tooluse.ErrMalformedResponse.Wrap(err)
		}
		if err := a.append(ctx, turn.Turn(), iteration); err != nil {
			return nil, tooluse.ErrMalformedResponse.Wrap(err)
		}
		a.emit(ctx, Event{Type: EventResponse, Iteration: iteration, Usage: turn.Usage})

		switch turn.Kind {
		case schema.FinalText:
			a.setState(ctx, StateDone)
			response.Text = turn.Text
			response.Result = turn.Result
			return response, nil
		case schema.ToolInvocations:
			a.setState(ctx, StateExecutingTools)
			for _, call := range turn.Calls {
				result := a.invoke(ctx, call, iteration)
				if err := a.append(ctx, schema.NewToolTurn(result), iteration); err != nil {
					return nil, tooluse.ErrInternalServerError.Wrap(err)
				}
				response.ToolCalls = append(response.ToolCalls, ToolCallRecord{
					Call:      call,
					Result:    result,
					Iteration: iteration,
				})
			}
			config.ForcedTool = ""
		default:
			return nil, tooluse.ErrMalformedResponse.Withf("unexpected turn kind %v", turn.Kind)
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// send builds a request from a snapshot of the log and returns the next
// assistant turn
func (a *Agent) send(ctx context.Context, config schema.GenerationConfig, iteration int) (turn *schema.AssistantTurn, err error) {
	ctx, endSpan := otel.StartSpan(a.tracer, ctx, "Send",
		attribute.Int("iteration", iteration),
		attribute.Int("turns", a.conversation.log.Len()),
	)
	defer func() { endSpan(err) }()

	if pending := a.conversation.log.Pending(); len(pending) > 0 {
		return nil, tooluse.ErrInternalServerError.Withf("%d tool calls have no result", len(pending))
	}
	request := schema.Request{
		System:  a.conversation.System,
		History: a.conversation.log.Snapshot(),
		Tools:   a.toolkit.Describe(),
		Config:  config,
	}
	turn, err = a.generator.Send(ctx, request, a.opts...)
	if err != nil {
		return nil, err
	} else if turn == nil {
		return nil, tooluse.ErrMalformedResponse.With("no response")
	}
	return turn, nil
}

// invoke runs one tool call. It never fails: errors become error results.
func (a *Agent) invoke(ctx context.Context, call schema.ToolCall, iteration int) (result schema.ToolResult) {
	ctx, endSpan := otel.StartSpan(a.tracer, ctx, "Tool",
		attribute.String("name", call.Name),
		attribute.String("id", call.ID),
	)
	defer func() {
		if result.IsError {
			endSpan(tooluse.ErrToolExecution.With(string(result.Content)))
		} else {
			endSpan(nil)
		}
	}()

	a.emit(ctx, Event{Type: EventToolCall, Iteration: iteration, Call: &call})
	result = a.toolkit.Invoke(ctx, call)
	a.emit(ctx, Event{Type: EventToolResult, Iteration: iteration, Call: &call, Result: &result})
	return result
}

// append adds a turn to the log and reports it to the observer
func (a *Agent) append(ctx context.Context, turn schema.Turn, iteration int) error {
	if err := a.conversation.log.Append(turn); err != nil {
		return err
	}
	a.emit(ctx, Event{Type: EventTurn, Iteration: iteration, Turn: &turn})
	return nil
}
