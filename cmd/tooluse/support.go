package main

import (
	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	support "github.com/mutablelogic/go-tooluse/pkg/support"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type SupportCommand struct {
	Interface
	Database string `name:"database" help:"Path to the SQLite order database, which is created and seeded when empty" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *SupportCommand) Run(ctx *Globals) (err error) {
	path := cmd.Database
	if path == "" {
		path = ctx.config.Database
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "SupportCommand",
		attribute.String("database", path),
	)
	defer func() { endSpan(err) }()

	store, err := support.Open(parent, path)
	if err != nil {
		return err
	}
	defer store.Close()

	toolkit, err := tool.NewToolkit(support.NewTools(store)...)
	if err != nil {
		return err
	}
	agent, err := ctx.Agent(toolkit, support.SystemPrompt)
	if err != nil {
		return err
	}

	term, err := cmd.open(ctx, support.Greeting)
	if err != nil {
		return err
	}
	defer term.Close()

	return newSession(agent, term).run(parent)
}
