package main

import (
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	tooluse "github.com/mutablelogic/go-tooluse"
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	wikipedia "github.com/mutablelogic/go-tooluse/pkg/wikipedia"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AskCommand struct {
	Interface
	Question    string `arg:"" help:"Question to answer" optional:""`
	Interactive bool   `name:"interactive" short:"i" help:"Ask questions until the sentinel is entered"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *AskCommand) Run(ctx *Globals) (err error) {
	if cmd.Question == "" && !cmd.Interactive {
		return tooluse.ErrBadParameter.With("a question is required unless --interactive is set")
	}
	toolkit, err := ctx.Toolkit("get_article")
	if err != nil {
		return err
	}
	a, err := ctx.Agent(toolkit, wikipedia.AskSystemPrompt)
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "AskCommand",
		attribute.Bool("interactive", cmd.Interactive),
	)
	defer func() { endSpan(err) }()

	if !cmd.Interactive {
		response, err := a.Chat(parent, wikipedia.AskPrompt(cmd.Question))
		if err != nil {
			return err
		}
		for _, record := range response.ToolCalls {
			ctx.logger.Info("tool", "call", notice(record))
		}
		answer, ok := agent.ExtractAnswer(response.Text)
		if !ok {
			answer = response.Text
		}
		fmt.Println(answer)
		return nil
	}

	term, err := cmd.open(ctx, "What would you like to ask?")
	if err != nil {
		return err
	}
	defer term.Close()

	// Each question is answered in a new conversation
	s := newSession(a, &questions{ChatUI: term, agent: a})
	s.answer = true
	return s.run(parent)
}
