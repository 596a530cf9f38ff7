// Package ui defines the interface for chat user interfaces.
//
// Implementations of [ChatUI] adapt a terminal to an event-driven chat
// model. The caller receives user input via [ChatUI.Receive] and sends
// responses through the [Context] attached to each event.
package ui

import (
	"context"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

// ChatUI is a source of user events
type ChatUI interface {
	// Receive blocks until the next event is available or the context is
	// cancelled. It returns io.EOF when the user has ended the session.
	Receive(ctx context.Context) (Event, error)

	// Close releases the terminal
	Close() error
}

// Context sends responses back to the user who triggered an event
type Context interface {
	// SendText sends plain text
	SendText(ctx context.Context, text string) error

	// SendMarkdown sends Markdown, rendered for the terminal when possible
	SendMarkdown(ctx context.Context, markdown string) error

	// SendNotice sends a short line attributed to a role other than the
	// assistant, for example a tool call or an error
	SendNotice(ctx context.Context, role, text string) error

	// SetTyping shows or hides the indicator which shows a response is
	// being generated
	SetTyping(ctx context.Context, typing bool) error
}

///////////////////////////////////////////////////////////////////////////////
// EVENT TYPES

// EventType identifies the kind of incoming event
type EventType int

const (
	EventText    EventType = iota // User sent a message
	EventCommand                  // User sent a slash command, for example /reset
)

// Event is input from the user
type Event struct {
	Type    EventType
	Context Context

	// Text is the message, or the full command line for EventCommand
	Text string

	// Command is the command name without the slash, and Args are the
	// words which follow it
	Command string
	Args    []string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Roles used to label lines of output
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleSystem    = "system"
	RoleError     = "error"
)

// DefaultSentinel is the input which ends a session
const DefaultSentinel = "exit"

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ParseEvent returns a command event when text starts with a slash, and a
// text event otherwise
func ParseEvent(ctx Context, text string) Event {
	text = strings.TrimSpace(text)
	evt := Event{Context: ctx, Text: text, Type: EventText}
	if strings.HasPrefix(text, "/") {
		if parts := strings.Fields(text); len(parts) > 0 {
			evt.Type = EventCommand
			evt.Command = strings.TrimPrefix(parts[0], "/")
			evt.Args = parts[1:]
		}
	}
	return evt
}

// IsExit reports whether the input matches the sentinel, ignoring case and
// surrounding whitespace. An empty sentinel never matches.
func IsExit(text, sentinel string) bool {
	sentinel = strings.TrimSpace(sentinel)
	return sentinel != "" && strings.EqualFold(strings.TrimSpace(text), sentinel)
}
