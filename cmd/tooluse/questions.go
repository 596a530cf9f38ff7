package main

import (
	"context"

	// Packages
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
	wikipedia "github.com/mutablelogic/go-tooluse/pkg/wikipedia"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// questions resets the conversation before each question and wraps the
// text in the question prompt
type questions struct {
	ui.ChatUI
	agent *agent.Agent
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (q *questions) Receive(ctx context.Context) (ui.Event, error) {
	evt, err := q.ChatUI.Receive(ctx)
	if err != nil || evt.Type != ui.EventText {
		return evt, err
	}
	q.agent.Reset()
	evt.Text = wikipedia.AskPrompt(evt.Text)
	return evt, nil
}
