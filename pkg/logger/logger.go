/*
logger creates structured loggers and an observer which logs the events of
a conversation loop
*/
package logger

import (
	"context"
	"io"
	"time"

	// Packages
	log "github.com/charmbracelet/log"
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Observer logs agent events and retries
type Observer struct {
	*log.Logger
}

var _ agent.Observer = (*Observer)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	TimeFormat = "15:04:05"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a logger which writes to w. When debug is true, debug
// messages are included.
func New(w io.Writer, prefix string, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Prefix:          prefix,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// NewObserver returns an observer which writes to the logger
func NewObserver(logger *log.Logger) *Observer {
	return &Observer{logger}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// OnEvent logs an agent event. Tool calls and errors are logged at info and
// warning level, everything else at debug level.
func (o *Observer) OnEvent(_ context.Context, event agent.Event) {
	switch event.Type {
	case agent.EventState:
		o.Debug("state", "conversation", event.Conversation, "state", event.State)
	case agent.EventTurn:
		if event.Turn != nil {
			o.Debug("turn", "conversation", event.Conversation, "iteration", event.Iteration, "role", event.Turn.Role, "blocks", len(event.Turn.Content))
		}
	case agent.EventResponse:
		o.Debug("response", "iteration", event.Iteration, "input_tokens", event.Usage.InputTokens, "output_tokens", event.Usage.OutputTokens)
	case agent.EventToolCall:
		if event.Call != nil {
			o.Info("tool call", "name", event.Call.Name, "id", event.Call.ID, "input", string(event.Call.Input))
		}
	case agent.EventToolResult:
		if event.Result != nil {
			logResult(o.Logger, *event.Result)
		}
	case agent.EventError:
		o.Warn("chat failed", "conversation", event.Conversation, "err", event.Err)
	}
}

// Retry logs a failed attempt before it is retried
func (o *Observer) Retry(attempt uint, err error, delay time.Duration) {
	o.Warn("retrying", "attempt", attempt, "delay", delay, "err", err)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func logResult(logger *log.Logger, result schema.ToolResult) {
	if result.IsError {
		logger.Warn("tool error", "name", result.Name, "id", result.ID, "result", string(result.Content))
	} else {
		logger.Debug("tool result", "name", result.Name, "id", result.ID, "result", string(result.Content))
	}
}
