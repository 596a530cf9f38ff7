package main

import (
	"encoding/json"
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	tooluse "github.com/mutablelogic/go-tooluse"
	calculator "github.com/mutablelogic/go-tooluse/pkg/calculator"
	mcp "github.com/mutablelogic/go-tooluse/pkg/mcp"
	stocks "github.com/mutablelogic/go-tooluse/pkg/stocks"
	support "github.com/mutablelogic/go-tooluse/pkg/support"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	table "github.com/mutablelogic/go-tooluse/pkg/ui/table"
	version "github.com/mutablelogic/go-tooluse/pkg/version"
	wikipedia "github.com/mutablelogic/go-tooluse/pkg/wikipedia"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ToolCommands struct {
	Tools ListToolsCommand `cmd:"" name:"tools" help:"List the tools a model can call." group:"TOOLS"`
	MCP   MCPCommand       `cmd:"" name:"mcp" help:"Serve the tools to Model Context Protocol clients on stdio." group:"TOOLS"`
}

type ListToolsCommand struct {
	JSON bool `name:"json" help:"Print descriptors, including input schemas, as JSON"`
}

type MCPCommand struct {
	Tool     []string `name:"tool" help:"Tool names to serve (may be repeated; empty means all)" optional:""`
	Support  bool     `name:"support" help:"Also serve the customer support tools"`
	Database string   `name:"database" help:"Path to the SQLite order database for the support tools" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListToolsCommand) Run(ctx *Globals) error {
	toolkit, err := ctx.Toolkit()
	if err != nil {
		return err
	}
	descriptors := toolkit.Describe()
	if cmd.JSON {
		data, err := json.MarshalIndent(descriptors, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(table.Render(table.Tools(descriptors), table.Width()))
	return nil
}

func (cmd *MCPCommand) Run(ctx *Globals) (err error) {
	toolkit, err := ctx.Toolkit(cmd.Tool...)
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "MCPCommand",
		attribute.Bool("support", cmd.Support),
	)
	defer func() { endSpan(err) }()

	if cmd.Support {
		path := cmd.Database
		if path == "" {
			path = ctx.config.Database
		}
		store, err := support.Open(parent, path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := toolkit.Register(support.NewTools(store)...); err != nil {
			return err
		}
	}

	server, err := mcp.New(ctx.execName, version.Version(), toolkit)
	if err != nil {
		return err
	}
	ctx.logger.Info("serving", "tools", toolkit.Len())
	return server.RunStdio(parent)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Toolkit returns the calculator, stock price and Wikipedia tools. When
// names are given only those tools are included.
func (g *Globals) Toolkit(names ...string) (*tool.Toolkit, error) {
	all := []tool.Tool{
		calculator.New(),
		stocks.New(stocks.DefaultPrice),
	}
	if tools, err := wikipedia.NewTools(g.config.ResearchFile, g.clientOpts()...); err != nil {
		return nil, err
	} else {
		all = append(all, tools...)
	}
	if len(names) == 0 {
		return tool.NewToolkit(all...)
	}

	byName := make(map[string]tool.Tool, len(all))
	for _, t := range all {
		byName[t.Name()] = t
	}
	selected := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		t, exists := byName[name]
		if !exists {
			return nil, tooluse.ErrNotFound.Withf("tool %q", name)
		}
		selected = append(selected, t)
	}
	return tool.NewToolkit(selected...)
}
