package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var reAnswer = regexp.MustCompile(`(?s)<answer>(.*?)</answer>`)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ExtractAnswer returns the text between the first pair of <answer> tags,
// with surrounding whitespace removed
func ExtractAnswer(text string) (string, bool) {
	if match := reAnswer.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1]), true
	}
	return "", false
}

// Extract makes a single request which forces the model to call t, and
// returns the input the model provided. The input is checked against the
// tool schema and t is run, so its result is returned as JSON.
func Extract(ctx context.Context, generator tooluse.Generator, system, text string, t tool.Tool, config schema.GenerationConfig, opts ...opt.Opt) (json.RawMessage, error) {
	if generator == nil || t == nil {
		return nil, tooluse.ErrBadParameter.With("generator and tool are required")
	}
	toolkit, err := tool.NewToolkit(t)
	if err != nil {
		return nil, err
	}
	config.ForcedTool = t.Name()

	turn, err := generator.Send(ctx, schema.Request{
		System:  system,
		History: []schema.Turn{schema.NewUserTurn(text)},
		Tools:   toolkit.Describe(),
		Config:  config,
	}, opts...)
	if err != nil {
		return nil, err
	} else if turn == nil || turn.Kind != schema.ToolInvocations {
		return nil, tooluse.ErrMalformedResponse.Withf("expected a call to %q", t.Name())
	}

	for _, call := range turn.Calls {
		if call.Name != t.Name() {
			continue
		}
		result := toolkit.Invoke(ctx, call)
		if result.IsError {
			return nil, tooluse.ErrToolExecution.With(string(result.Content))
		}
		return result.Content, nil
	}
	return nil, tooluse.ErrMalformedResponse.Withf("expected a call to %q", t.Name())
}
