package main

import (
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	tooluse "github.com/mutablelogic/go-tooluse"
	wikipedia "github.com/mutablelogic/go-tooluse/pkg/wikipedia"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ResearchCommand struct {
	Topic    string `arg:"" help:"Research topic"`
	Articles uint   `name:"articles" short:"n" default:"7" help:"Number of articles"`
	File     string `name:"file" help:"Markdown file the reading list is appended to" type:"path" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ResearchCommand) Run(ctx *Globals) (err error) {
	if cmd.Articles == 0 {
		return tooluse.ErrBadParameter.With("--articles must be at least one")
	}
	if cmd.File != "" {
		ctx.config.ResearchFile = cmd.File
	}
	toolkit, err := ctx.Toolkit("wikipedia_helper")
	if err != nil {
		return err
	}
	agent, err := ctx.Agent(toolkit, wikipedia.ResearchSystemPrompt)
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ResearchCommand",
		attribute.String("topic", cmd.Topic),
		attribute.Int("articles", int(cmd.Articles)),
	)
	defer func() { endSpan(err) }()

	response, err := agent.Chat(parent, wikipedia.ResearchPrompt(cmd.Topic, cmd.Articles))
	if err != nil {
		return err
	}
	if len(response.ToolCalls) == 0 {
		ctx.logger.Warn("no reading list was written", "reply", response.Text)
		return nil
	}
	for _, record := range response.ToolCalls {
		if record.Result.IsError {
			return tooluse.ErrToolExecution.With(string(record.Result.Content))
		}
		ctx.logger.Info("tool", "call", notice(record))
	}
	fmt.Printf("Reading list for %q written to %s\n", cmd.Topic, ctx.config.ResearchFile)
	return nil
}
