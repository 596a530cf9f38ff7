package main

import (
	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatCommand struct {
	Interface
	System string   `name:"system" help:"System prompt" optional:""`
	Tool   []string `name:"tool" help:"Tool names to include (may be repeated; empty means all)" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const chatSystemPrompt = "You are a helpful assistant. Use the available tools when they help to answer the user's question."

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ChatCommand) Run(ctx *Globals) (err error) {
	toolkit, err := ctx.Toolkit(cmd.Tool...)
	if err != nil {
		return err
	}
	system := cmd.System
	if system == "" && ctx.config.System == "" {
		system = chatSystemPrompt
	}
	agent, err := ctx.Agent(toolkit, system)
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ChatCommand",
		attribute.String("conversation", agent.Conversation().ID),
		attribute.Int("tools", toolkit.Len()),
	)
	defer func() { endSpan(err) }()

	term, err := cmd.open(ctx, "")
	if err != nil {
		return err
	}
	defer term.Close()

	return newSession(agent, term).run(parent)
}
