package agent

import (
	"context"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// EventType identifies what happened in the conversation loop
type EventType string

// Event is emitted by the agent as the conversation progresses. Only the
// fields which apply to the event type are set.
type Event struct {
	Type         EventType
	Timestamp    time.Time
	Conversation string
	Iteration    int
	State        State
	Turn         *schema.Turn
	Call         *schema.ToolCall
	Result       *schema.ToolResult
	Usage        schema.Usage
	Err          error
}

// Observer receives events from the agent
type Observer interface {
	OnEvent(context.Context, Event)
}

// ObserverFunc adapts a function to an Observer
type ObserverFunc func(context.Context, Event)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	EventState      EventType = "agent.state"
	EventTurn       EventType = "agent.turn"
	EventToolCall   EventType = "agent.tool.call"
	EventToolResult EventType = "agent.tool.result"
	EventResponse   EventType = "agent.response"
	EventError      EventType = "agent.error"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (fn ObserverFunc) OnEvent(ctx context.Context, event Event) {
	if fn != nil {
		fn(ctx, event)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (a *Agent) emit(ctx context.Context, event Event) {
	event.Timestamp = time.Now()
	event.Conversation = a.conversation.ID
	a.observer.OnEvent(ctx, event)
}

func (a *Agent) setState(ctx context.Context, state State) {
	if a.state == state {
		return
	}
	a.state = state
	a.emit(ctx, Event{Type: EventState, State: state})
}
