package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tooluse "github.com/mutablelogic/go-tooluse"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	assert "github.com/stretchr/testify/assert"
)

type stubTool struct {
	name string
	run  func(context.Context, json.RawMessage) (any, error)
}

func (s *stubTool) Name() string                        { return s.name }
func (s *stubTool) Description() string                 { return "stub" }
func (s *stubTool) Schema() (*jsonschema.Schema, error) { return nil, nil }
func (s *stubTool) Run(ctx context.Context, input json.RawMessage) (any, error) {
	if s.run == nil {
		return nil, nil
	}
	return s.run(ctx, input)
}

type AddRequest struct {
	A float64 `json:"a" jsonschema:"First number"`
	B float64 `json:"b" jsonschema:"Second number"`
}

func adder() tool.Tool {
	return tool.NewFunc("add", "Add two numbers", func(_ context.Context, req AddRequest) (any, error) {
		return req.A + req.B, nil
	})
}

func Test_toolkit_001(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit(&stubTool{name: "zebra"}, &stubTool{name: "apple"}, &stubTool{name: "mango"})
	assert.NoError(err)
	assert.Equal(3, tk.Len())

	// Registration order is preserved
	descriptors := tk.Describe()
	if assert.Len(descriptors, 3) {
		assert.Equal("zebra", descriptors[0].Name)
		assert.Equal("apple", descriptors[1].Name)
		assert.Equal("mango", descriptors[2].Name)
	}
}

func Test_toolkit_002(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit()
	assert.NoError(err)

	assert.ErrorIs(tk.Register(&stubTool{name: "bad name"}), tooluse.ErrBadParameter)
	assert.ErrorIs(tk.Register(&stubTool{name: ""}), tooluse.ErrBadParameter)
	assert.ErrorIs(tk.Register(nil), tooluse.ErrBadParameter)
	assert.NoError(tk.Register(&stubTool{name: "my_tool"}))
	assert.ErrorIs(tk.Register(&stubTool{name: "my_tool"}), tooluse.ErrBadParameter)

	// A failed registration adds nothing
	assert.Error(tk.Register(&stubTool{name: "other"}, &stubTool{name: "other"}))
	assert.Nil(tk.Lookup("other"))
	assert.Equal(1, tk.Len())
}

func Test_toolkit_003(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit(adder())
	assert.NoError(err)

	result := tk.Invoke(context.Background(), schema.ToolCall{ID: "c1", Name: "add", Input: json.RawMessage(`{"a":2,"b":2}`)})
	assert.Equal("c1", result.ID)
	assert.False(result.IsError)
	assert.JSONEq(`4`, string(result.Content))
}

func Test_toolkit_004(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit(adder())
	assert.NoError(err)

	// Unknown tool
	_, err = tk.Run(context.Background(), "weather", nil)
	assert.ErrorIs(err, tooluse.ErrUnknownTool)
	result := tk.Invoke(context.Background(), schema.ToolCall{ID: "c2", Name: "weather"})
	assert.Equal("c2", result.ID)
	assert.True(result.IsError)
	assert.Contains(string(result.Content), "unknown tool")
}

func Test_toolkit_005(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit(adder())
	assert.NoError(err)

	// Input does not match schema
	_, err = tk.Run(context.Background(), "add", json.RawMessage(`{"a":"two","b":2}`))
	assert.ErrorIs(err, tooluse.ErrToolExecution)

	// Missing required property
	_, err = tk.Run(context.Background(), "add", nil)
	assert.ErrorIs(err, tooluse.ErrToolExecution)
}

func Test_toolkit_006(t *testing.T) {
	assert := assert.New(t)
	sentinel := errors.New("boom")
	tk, err := tool.NewToolkit(
		&stubTool{name: "fails", run: func(context.Context, json.RawMessage) (any, error) { return nil, sentinel }},
		&stubTool{name: "panics", run: func(context.Context, json.RawMessage) (any, error) { panic("oops") }},
	)
	assert.NoError(err)

	_, err = tk.Run(context.Background(), "fails", nil)
	assert.ErrorIs(err, tooluse.ErrToolExecution)
	assert.ErrorIs(err, sentinel)

	_, err = tk.Run(context.Background(), "panics", nil)
	assert.ErrorIs(err, tooluse.ErrToolExecution)

	result := tk.Invoke(context.Background(), schema.ToolCall{ID: "p", Name: "panics"})
	assert.True(result.IsError)
	assert.Equal("p", result.ID)
}

func Test_func_001(t *testing.T) {
	assert := assert.New(t)
	type OpRequest struct {
		Op string `json:"op"`
	}
	fn := tool.NewFunc("op", "An operation", func(_ context.Context, req OpRequest) (any, error) {
		return req.Op, nil
	}).WithEnum("op", "add", "subtract")

	s, err := fn.Schema()
	assert.NoError(err)
	if assert.NotNil(s) && assert.Contains(s.Properties, "op") {
		assert.Equal([]any{"add", "subtract"}, s.Properties["op"].Enum)
	}

	tk, err := tool.NewToolkit(fn)
	assert.NoError(err)
	_, err = tk.Run(context.Background(), "op", json.RawMessage(`{"op":"divide"}`))
	assert.ErrorIs(err, tooluse.ErrToolExecution)
	v, err := tk.Run(context.Background(), "op", json.RawMessage(`{"op":"add"}`))
	assert.NoError(err)
	assert.Equal("add", v)

	// Enum on a missing property is a registration error
	bad := tool.NewFunc("bad", "Bad", func(_ context.Context, req OpRequest) (any, error) { return nil, nil }).WithEnum("missing", 1)
	assert.Error(tk.Register(bad))
}

func Test_output_001(t *testing.T) {
	assert := assert.New(t)
	type Sentiment struct {
		Positive float64 `json:"positive_score"`
		Negative float64 `json:"negative_score"`
		Neutral  float64 `json:"neutral_score"`
	}
	out, err := tool.OutputFor[Sentiment]("print_sentiment_scores", "Prints the sentiment scores")
	assert.NoError(err)
	assert.Equal("print_sentiment_scores", out.Name())

	tk, err := tool.NewToolkit(out)
	assert.NoError(err)
	result := tk.Invoke(context.Background(), schema.ToolCall{
		ID: "s", Name: "print_sentiment_scores",
		Input: json.RawMessage(`{"positive_score":0.8,"negative_score":0.1,"neutral_score":0.1}`),
	})
	assert.False(result.IsError)
	assert.JSONEq(`{"positive_score":0.8,"negative_score":0.1,"neutral_score":0.1}`, string(result.Content))
}
