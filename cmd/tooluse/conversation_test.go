package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	calculator "github.com/mutablelogic/go-tooluse/pkg/calculator"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	stub "github.com/mutablelogic/go-tooluse/pkg/provider/stub"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	line "github.com/mutablelogic/go-tooluse/pkg/ui/line"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// failing is a provider whose model listing always fails
type failing struct {
	*stub.Client
}

func (failing) Name() string { return "failing" }

func (failing) ListModels(context.Context, ...opt.Opt) ([]schema.Model, error) {
	return nil, errors.New("unavailable")
}

func newAgent(t *testing.T, generator tooluse.Generator) *agent.Agent {
	tk, err := tool.NewToolkit(calculator.New())
	require.NoError(t, err)
	a, err := agent.New(generator, tk)
	require.NoError(t, err)
	return a
}

func Test_conversation_001(t *testing.T) {
	assert := assert.New(t)
	a := newAgent(t, stub.NewResponder(stub.Offline()))

	var out bytes.Buffer
	term, err := line.New(strings.NewReader("What is 6 x 7?\n/tokens\n/teleport\nexit\n"), &out)
	require.NoError(t, err)
	defer term.Close()

	assert.NoError(newSession(a, term).run(context.Background()))
	assert.Contains(out.String(), "tool: calculator")
	assert.Contains(out.String(), "= 42")
	assert.Contains(out.String(), "assistant:\n42")
	assert.Contains(out.String(), "4 turns")
	assert.Contains(out.String(), "error: ")
	assert.Contains(out.String(), "/teleport")
}

func Test_conversation_002(t *testing.T) {
	assert := assert.New(t)
	gen := stub.New(
		stub.Reply(schema.NewFinalText("Let me think. <answer>Paris</answer>")),
		stub.Fail(tooluse.ErrTransport.With("connection refused")),
		stub.Reply(schema.NewFinalText("<answer>Rome</answer>")),
	)
	a := newAgent(t, gen)

	var out bytes.Buffer
	term, err := line.New(strings.NewReader("capital of France?\nand Spain?\nand Italy?\n"), &out)
	require.NoError(t, err)
	defer term.Close()

	s := newSession(a, &questions{ChatUI: term, agent: a})
	s.answer = true
	assert.ErrorIs(s.run(context.Background()), tooluse.ErrTransport)
	assert.Contains(out.String(), "assistant:\nParis\n")
	assert.NotContains(out.String(), "Let me think")

	// The transport failure is shown and ends the session
	assert.Contains(out.String(), "error: ")
	assert.Contains(out.String(), "connection refused")
	assert.NotContains(out.String(), "Rome")
	assert.Len(gen.Requests(), 2)
	assert.Equal(1, gen.Remaining())
}

func Test_conversation_005(t *testing.T) {
	// A malformed response is shown and the session carries on
	assert := assert.New(t)
	gen := stub.New(
		stub.Fail(tooluse.ErrMalformedResponse.With("garbage")),
		stub.Reply(schema.NewFinalText("still here")),
	)
	a := newAgent(t, gen)

	var out bytes.Buffer
	term, err := line.New(strings.NewReader("hello\nhello again\n"), &out)
	require.NoError(t, err)
	defer term.Close()

	assert.NoError(newSession(a, term).run(context.Background()))
	assert.Contains(out.String(), "garbage")
	assert.Contains(out.String(), "assistant:\nstill here")
}

func Test_conversation_003(t *testing.T) {
	assert := assert.New(t)
	call := schema.ToolCall{ID: "1", Name: "calculator", Input: json.RawMessage(`{"operation":"add","num1":2,"num2":2}`)}
	record := agent.ToolCallRecord{Call: call, Result: schema.NewToolResult(call, 4)}
	assert.Equal(`calculator {"operation":"add","num1":2,"num2":2} = 4`, notice(record))

	record.Result = schema.NewToolError(call, errors.New("boom"))
	assert.Contains(notice(record), "failed")

	record.Result = schema.NewToolResult(call, strings.Repeat("x", 500))
	assert.Less(len([]rune(notice(record))), 250)
}

func Test_conversation_004(t *testing.T) {
	assert := assert.New(t)
	providers := []tooluse.Provider{
		stub.New(),
		failing{stub.New()},
	}

	models, err := listModels(context.Background(), providers, "stub")
	require.NoError(t, err)
	if assert.Len(models, 1) {
		assert.Equal("stub", models[0].Provider)
	}

	_, err = listModels(context.Background(), providers, "")
	assert.ErrorContains(err, "failing")

	_, err = listModels(context.Background(), providers, "anthropic")
	assert.ErrorIs(err, tooluse.ErrNotFound)
}
