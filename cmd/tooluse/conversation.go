package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	tokens "github.com/mutablelogic/go-tooluse/pkg/tokens"
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
	bubbletea "github.com/mutablelogic/go-tooluse/pkg/ui/bubbletea"
	command "github.com/mutablelogic/go-tooluse/pkg/ui/command"
	line "github.com/mutablelogic/go-tooluse/pkg/ui/line"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ConversationCommands struct {
	Chat     ChatCommand     `cmd:"" name:"chat" help:"Chat with a model which can use tools." group:"CONVERSATION"`
	Ask      AskCommand      `cmd:"" name:"ask" help:"Answer a question, looking up Wikipedia when needed." group:"CONVERSATION"`
	Support  SupportCommand  `cmd:"" name:"support" help:"Customer support chatbot over an order database." group:"CONVERSATION"`
	Research ResearchCommand `cmd:"" name:"research" help:"Write a Wikipedia reading list for a topic." group:"CONVERSATION"`
	Extract  ExtractCommand  `cmd:"" name:"extract" help:"Extract structured data from text." group:"CONVERSATION"`
}

// Interface selects the user interface for an interactive session
type Interface struct {
	UI       string `name:"ui" enum:"line,tui" default:"line" help:"User interface (line or tui)"`
	Sentinel string `name:"sentinel" help:"Input which ends the session" optional:""`
}

// session connects an agent to a user interface
type session struct {
	agent   *agent.Agent
	term    ui.ChatUI
	handler *command.Handler

	// When set, only the text in <answer> tags is shown
	answer bool
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// open starts the user interface. In the full-screen interface logging is
// discarded unless debugging, so it does not draw over the screen.
func (i Interface) open(g *Globals, greeting string) (ui.ChatUI, error) {
	sentinel := i.Sentinel
	if sentinel == "" {
		sentinel = g.config.Sentinel
	}
	switch i.UI {
	case "tui":
		if !g.Debug {
			g.logger.SetOutput(io.Discard)
		}
		return bubbletea.New(bubbletea.WithSentinel(sentinel), bubbletea.WithGreeting(greeting))
	default:
		term, err := line.New(os.Stdin, os.Stdout, line.WithSentinel(sentinel))
		if err != nil {
			return nil, err
		}
		if greeting != "" {
			fmt.Fprintln(os.Stdout, greeting)
		}
		if term.Interactive() && sentinel != "" {
			fmt.Fprintf(os.Stdout, "Type %q to quit, or /help for commands\r\n", sentinel)
		}
		return term, nil
	}
}

func newSession(a *agent.Agent, term ui.ChatUI) *session {
	estimator, _ := tokens.New()
	handler := command.New(a, estimator)
	if t, ok := term.(*bubbletea.Terminal); ok {
		handler.OnReset(t.Clear)
	}
	return &session{agent: a, term: term, handler: handler}
}

// run handles events until the user ends the session or the context is
// cancelled. Other errors are shown to the user, except a transport failure
// which survived the retries, which ends the session.
func (s *session) run(ctx context.Context) error {
	for {
		evt, err := s.term.Receive(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		switch evt.Type {
		case ui.EventCommand:
			err = s.handler.Handle(ctx, evt)
		case ui.EventText:
			err = s.reply(ctx, evt)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			evt.Context.SendNotice(ctx, ui.RoleError, err.Error())
			if errors.Is(err, tooluse.ErrTransport) {
				return err
			}
		}
	}
}

// reply sends the text to the agent and shows the tool calls it made and
// the answer
func (s *session) reply(ctx context.Context, evt ui.Event) error {
	evt.Context.SetTyping(ctx, true)
	response, err := s.agent.Chat(ctx, evt.Text)
	evt.Context.SetTyping(ctx, false)
	if err != nil {
		return err
	}
	for _, record := range response.ToolCalls {
		if err := evt.Context.SendNotice(ctx, ui.RoleTool, notice(record)); err != nil {
			return err
		}
	}
	text := response.Text
	if s.answer {
		if answer, ok := agent.ExtractAnswer(text); ok {
			text = answer
		}
	}
	if response.Result == schema.ResultMaxTokens {
		text += "\n\n*(truncated)*"
	}
	return evt.Context.SendMarkdown(ctx, text)
}

// notice describes a tool call and its result on one line
func notice(record agent.ToolCallRecord) string {
	const maxResult = 120
	result := string(record.Result.Content)
	if r := []rune(result); len(r) > maxResult {
		result = string(r[:maxResult-1]) + "…"
	}
	if record.Result.IsError {
		return fmt.Sprintf("%s %s failed: %s", record.Call.Name, record.Call.Input, result)
	}
	return fmt.Sprintf("%s %s = %s", record.Call.Name, record.Call.Input, result)
}
