package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	tooluse "github.com/mutablelogic/go-tooluse"
	table "github.com/mutablelogic/go-tooluse/pkg/ui/table"
	attribute "go.opentelemetry.io/otel/attribute"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ModelCommands struct {
	Models ListModelsCommand `cmd:"" name:"models" help:"List models from every configured provider." group:"MODELS"`
}

type ListModelsCommand struct {
	Provider string `arg:"" help:"Only list models from this provider" optional:""`
	JSON     bool   `name:"json" help:"Print models as JSON"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListModelsCommand) Run(ctx *Globals) (err error) {
	providers, err := ctx.Providers()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListModelsCommand",
		attribute.String("provider", cmd.Provider),
	)
	defer func() { endSpan(err) }()

	models, err := listModels(parent, providers, cmd.Provider)
	if err != nil {
		return err
	}
	if cmd.JSON {
		data, err := json.MarshalIndent(models, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(table.Render(models, table.Width()))
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// listModels asks each provider for its models at the same time. When name
// is not empty only that provider is asked.
func listModels(ctx context.Context, providers []tooluse.Provider, name string) (table.Models, error) {
	var mu sync.Mutex
	var result table.Models

	g, ctx := errgroup.WithContext(ctx)
	matched := false
	for _, provider := range providers {
		if name != "" && provider.Name() != name {
			continue
		}
		matched = true
		g.Go(func() error {
			models, err := provider.ListModels(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", provider.Name(), err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, model := range models {
				result = append(result, table.ProviderModel{Provider: provider.Name(), Model: model})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if name != "" && !matched {
		return nil, tooluse.ErrNotFound.Withf("provider %q is not configured", name)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Provider != result[j].Provider {
			return result[i].Provider < result[j].Provider
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}
