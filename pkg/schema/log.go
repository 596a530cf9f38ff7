package schema

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Log is an ordered, append-only sequence of turns. It is owned by a single
// conversation and is not safe for concurrent use.
type Log struct {
	turns []Turn
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Append validates the turn and adds a copy of it to the end of the log. A
// turn which fails validation is not appended.
func (l *Log) Append(turn Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}

	// Tool results must answer an outstanding call
	if turn.Role == RoleTool {
		pending := make(map[string]bool)
		for _, call := range l.Pending() {
			pending[call.ID] = true
		}
		for _, result := range turn.ToolResults() {
			if !pending[result.ID] {
				return fmt.Errorf("tool result %q does not answer a pending tool call", result.ID)
			}
			delete(pending, result.ID)
		}
	}

	l.turns = append(l.turns, turn.Clone())
	return nil
}

// Snapshot returns a copy of every turn in order
func (l *Log) Snapshot() []Turn {
	result := make([]Turn, len(l.turns))
	for i, turn := range l.turns {
		result[i] = turn.Clone()
	}
	return result
}

// Len returns the number of turns
func (l *Log) Len() int {
	return len(l.turns)
}

// Last returns a copy of the most recent turn, or nil if the log is empty
func (l *Log) Last() *Turn {
	if len(l.turns) == 0 {
		return nil
	}
	turn := l.turns[len(l.turns)-1].Clone()
	return &turn
}

// Pending returns the tool calls which have not yet received a result, in
// the order they were made
func (l *Log) Pending() []ToolCall {
	answered := make(map[string]bool)
	for _, turn := range l.turns {
		for _, result := range turn.ToolResults() {
			answered[result.ID] = true
		}
	}
	var result []ToolCall
	for _, turn := range l.turns {
		for _, call := range turn.ToolCalls() {
			if !answered[call.ID] {
				result = append(result, call)
			}
		}
	}
	return result
}

// Usage returns the sum of tokens reported for each turn
func (l *Log) Usage() Usage {
	var usage Usage
	for _, turn := range l.turns {
		if turn.Usage != nil {
			usage.InputTokens += turn.Usage.InputTokens
			usage.OutputTokens += turn.Usage.OutputTokens
		}
	}
	return usage
}
