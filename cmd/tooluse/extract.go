package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	tooluse "github.com/mutablelogic/go-tooluse"
	extract "github.com/mutablelogic/go-tooluse/pkg/extract"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ExtractCommand struct {
	Task string `arg:"" enum:"sentiment,entities,translate" help:"Task (sentiment, entities or translate)"`
	Text string `arg:"" help:"Text, or - to read standard input"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ExtractCommand) Run(ctx *Globals) (err error) {
	text := cmd.Text
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		text = string(data)
	}
	if text = strings.TrimSpace(text); text == "" {
		return tooluse.ErrBadParameter.With("text is empty")
	}
	generator, err := ctx.Generator()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ExtractCommand",
		attribute.String("task", cmd.Task),
	)
	defer func() { endSpan(err) }()

	result, err := extract.Run(parent, generator, cmd.Task, text, ctx.config.Generation)
	if err != nil {
		return err
	}
	fmt.Println(string(result))
	return nil
}
