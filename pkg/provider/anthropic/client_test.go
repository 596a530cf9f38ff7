package anthropic_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	// Packages
	client "github.com/mutablelogic/go-client"
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	anthropic "github.com/mutablelogic/go-tooluse/pkg/provider/anthropic"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

var apiKey string

func TestMain(m *testing.M) {
	apiKey = os.Getenv("ANTHROPIC_API_KEY")
	os.Exit(m.Run())
}

type CalculatorRequest struct {
	Operation string  `json:"operation"`
	Num1      float64 `json:"num1"`
	Num2      float64 `json:"num2"`
}

func calculatorDescriptor(t *testing.T) []schema.ToolDescriptor {
	tk, err := tool.NewToolkit(tool.NewFunc("calculator", "A simple calculator", func(context.Context, CalculatorRequest) (any, error) {
		return nil, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	return tk.Describe()
}

// newServer returns a test server which records each request body and
// replies with the given handler
func newServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) (*httptest.Server, *[]map[string]any) {
	var bodies []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		if r.Method == http.MethodPost {
			data, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(data, &body); err != nil {
				t.Error(err)
			}
			bodies = append(bodies, body)
		}
		handler(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &bodies
}

func writeJSON(w http.ResponseWriter, status int, v string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, v)
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_client_001(t *testing.T) {
	assert := assert.New(t)
	c, err := anthropic.New("test-key")
	assert.NoError(err)
	assert.Equal("anthropic", c.Name())
}

func Test_client_002(t *testing.T) {
	assert := assert.New(t)
	server, bodies := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [
				{"type": "text", "text": "Let me calculate that."},
				{"type": "tool_use", "id": "toolu_1", "name": "calculator", "input": {"operation": "add", "num1": 2, "num2": 2}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 20, "output_tokens": 10}
		}`)
	})
	c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
	assert.NoError(err)

	turn, err := c.Send(context.Background(), schema.Request{
		System:  "You are a calculator",
		History: []schema.Turn{schema.NewUserTurn("2+2?")},
		Tools:   calculatorDescriptor(t),
		Config:  schema.GenerationConfig{Model: "claude-test", MaxOutputTokens: 100},
	})
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(schema.ToolInvocations, turn.Kind)
	assert.Equal("Let me calculate that.", turn.Text)
	if assert.Len(turn.Calls, 1) {
		assert.Equal("toolu_1", turn.Calls[0].ID)
		assert.Equal("calculator", turn.Calls[0].Name)
		assert.JSONEq(`{"operation":"add","num1":2,"num2":2}`, string(turn.Calls[0].Input))
	}
	assert.Equal(uint(20), turn.Usage.InputTokens)

	// Check the request body
	if assert.Len(*bodies, 1) {
		body := (*bodies)[0]
		assert.Equal("claude-test", body["model"])
		assert.Equal(float64(100), body["max_tokens"])
		assert.Equal("You are a calculator", body["system"])
		assert.Len(body["tools"], 1)
		assert.Nil(body["tool_choice"])
	}
}

func Test_client_003(t *testing.T) {
	assert := assert.New(t)
	server, bodies := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, `{
			"role": "assistant", "content": [{"type": "text", "text": "4"}],
			"stop_reason": "end_turn", "usage": {"input_tokens": 30, "output_tokens": 1}
		}`)
	})
	c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
	assert.NoError(err)

	call := schema.ToolCall{ID: "toolu_1", Name: "calculator", Input: json.RawMessage(`{"operation":"add","num1":2,"num2":2}`)}
	history := []schema.Turn{
		schema.NewUserTurn("2+2?"),
		schema.NewToolInvocations(call).Turn(),
		schema.NewToolTurn(schema.NewToolResult(call, 4)),
	}
	turn, err := c.Send(context.Background(), schema.Request{History: history, Tools: calculatorDescriptor(t)})
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(schema.FinalText, turn.Kind)
	assert.Equal("4", turn.Text)
	assert.Equal(schema.ResultStop, turn.Result)

	// The tool result is sent in a user message as text
	if assert.Len(*bodies, 1) {
		messages := (*bodies)[0]["messages"].([]any)
		if assert.Len(messages, 3) {
			last := messages[2].(map[string]any)
			assert.Equal("user", last["role"])
			block := last["content"].([]any)[0].(map[string]any)
			assert.Equal("tool_result", block["type"])
			assert.Equal("toolu_1", block["tool_use_id"])
			assert.Equal("4", block["content"])
		}
		// Defaults are applied
		assert.Equal(float64(1000), (*bodies)[0]["max_tokens"])
	}
}

func Test_client_004(t *testing.T) {
	assert := assert.New(t)
	server, bodies := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, `{
			"role": "assistant",
			"content": [{"type": "tool_use", "id": "toolu_2", "name": "calculator", "input": {"operation": "multiply", "num1": 3, "num2": 4}}],
			"stop_reason": "tool_use"
		}`)
	})
	c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
	assert.NoError(err)

	// Forced tool and provider options
	_, err = c.Send(context.Background(), schema.Request{
		History: []schema.Turn{schema.NewUserTurn("3 times 4")},
		Tools:   calculatorDescriptor(t),
		Config:  schema.GenerationConfig{ForcedTool: "calculator", Temperature: new(float64)},
	}, anthropic.WithUser("user-1"), anthropic.WithTopK(5), anthropic.WithStopSequences("STOP"))
	assert.NoError(err)
	if assert.Len(*bodies, 1) {
		body := (*bodies)[0]
		assert.Equal(map[string]any{"type": "tool", "name": "calculator"}, body["tool_choice"])
		assert.Equal(float64(0), body["temperature"])
		assert.Equal(float64(5), body["top_k"])
		assert.Equal([]any{"STOP"}, body["stop_sequences"])
		assert.Equal(map[string]any{"user_id": "user-1"}, body["metadata"])
	}
}

func Test_client_005(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		status int
		err    error
	}{
		{http.StatusTooManyRequests, tooluse.ErrTransport},
		{http.StatusInternalServerError, tooluse.ErrTransport},
		{529, tooluse.ErrTransport},
		{http.StatusBadRequest, tooluse.ErrBadParameter},
	}
	for _, test := range tests {
		server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
			writeJSON(w, test.status, `{"type":"error","error":{"type":"some_error","message":"failed"}}`)
		})
		c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
		assert.NoError(err)
		_, err = c.Send(context.Background(), schema.Request{History: []schema.Turn{schema.NewUserTurn("hi")}})
		assert.ErrorIs(err, test.err, "status %d", test.status)
	}
}

func Test_client_006(t *testing.T) {
	assert := assert.New(t)
	responses := []string{
		// tool_use stop reason without tool calls
		`{"role":"assistant","content":[{"type":"text","text":"hmm"}],"stop_reason":"tool_use"}`,
		// empty content
		`{"role":"assistant","content":[],"stop_reason":"end_turn"}`,
		// tool call without an id
		`{"role":"assistant","content":[{"type":"tool_use","name":"calculator","input":{}}],"stop_reason":"tool_use"}`,
		// unknown block
		`{"role":"assistant","content":[{"type":"hologram"}],"stop_reason":"end_turn"}`,
	}
	for _, response := range responses {
		server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
			writeJSON(w, http.StatusOK, response)
		})
		c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
		assert.NoError(err)
		_, err = c.Send(context.Background(), schema.Request{History: []schema.Turn{schema.NewUserTurn("hi")}})
		assert.ErrorIs(err, tooluse.ErrMalformedResponse, response)
	}
}

func Test_client_007(t *testing.T) {
	assert := assert.New(t)
	server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, `{"role":"assistant","content":[],"stop_reason":"refusal"}`)
	})
	c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
	assert.NoError(err)
	_, err = c.Send(context.Background(), schema.Request{History: []schema.Turn{schema.NewUserTurn("hi")}})
	assert.ErrorIs(err, tooluse.ErrRefusal)
}

func Test_client_008(t *testing.T) {
	assert := assert.New(t)
	server, bodies := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		events := []string{
			`{"type":"message_start","message":{"id":"msg_1","role":"assistant","model":"claude-test","content":[],"usage":{"input_tokens":5,"output_tokens":0}}}`,
			`{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`,
			`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}`,
			`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" world"}}`,
			`{"type":"content_block_stop","index":0}`,
			`{"type":"content_block_start","index":1,"content_block":{"type":"tool_use","id":"toolu_9","name":"calculator","input":{}}}`,
			`{"type":"content_block_delta","index":1,"delta":{"type":"input_json_delta","partial_json":"{\"operation\":\"add\","}}`,
			`{"type":"content_block_delta","index":1,"delta":{"type":"input_json_delta","partial_json":"\"num1\":1,\"num2\":2}"}}`,
			`{"type":"content_block_stop","index":1}`,
			`{"type":"message_delta","delta":{"stop_reason":"tool_use"},"usage":{"output_tokens":12}}`,
			`{"type":"message_stop"}`,
		}
		for _, event := range events {
			var ev struct {
				Type string `json:"type"`
			}
			_ = json.Unmarshal([]byte(event), &ev)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, event)
		}
	})
	c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
	assert.NoError(err)

	var streamed strings.Builder
	turn, err := c.Send(context.Background(), schema.Request{
		History: []schema.Turn{schema.NewUserTurn("1+2")},
		Tools:   calculatorDescriptor(t),
	}, opt.WithStream(func(text string) { streamed.WriteString(text) }))
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal("Hello world", streamed.String())
	assert.Equal(schema.ToolInvocations, turn.Kind)
	assert.Equal("Hello world", turn.Text)
	if assert.Len(turn.Calls, 1) {
		assert.JSONEq(`{"operation":"add","num1":1,"num2":2}`, string(turn.Calls[0].Input))
	}
	assert.Equal(uint(5), turn.Usage.InputTokens)
	assert.Equal(uint(12), turn.Usage.OutputTokens)
	if assert.Len(*bodies, 1) {
		assert.Equal(true, (*bodies)[0]["stream"])
	}
}

func Test_client_009(t *testing.T) {
	assert := assert.New(t)
	server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, `{"data":[{"id":"claude-b","display_name":"B"},{"id":"claude-a","display_name":"A"}],"has_more":false}`)
	})
	c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
	assert.NoError(err)
	models, err := c.ListModels(context.Background())
	assert.NoError(err)
	if assert.Len(models, 2) {
		assert.Equal("claude-a", models[0].Name)
		assert.Equal("anthropic", models[0].OwnedBy)
	}
}

func Test_client_010(t *testing.T) {
	if apiKey == "" {
		t.Skip("ANTHROPIC_API_KEY not set, skipping")
	}
	assert := assert.New(t)
	c, err := anthropic.New(apiKey)
	assert.NoError(err)
	turn, err := c.Send(context.Background(), schema.Request{
		History: []schema.Turn{schema.NewUserTurn("What is 2+2? Use the calculator.")},
		Tools:   calculatorDescriptor(t),
	})
	assert.NoError(err)
	if turn != nil {
		t.Log(turn)
	}
}

func Test_client_011(t *testing.T) {
	// A stream cut short is retryable, not an answer
	assert := assert.New(t)
	server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\",\"role\":\"assistant\",\"content\":[],\"usage\":{\"input_tokens\":5}}}\n\n")
		fmt.Fprint(w, "event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"The answer is\"}}\n\n")
	})
	c, err := anthropic.New("test-key", client.OptEndpoint(server.URL))
	assert.NoError(err)

	var streamed strings.Builder
	turn, err := c.Send(context.Background(), schema.Request{
		History: []schema.Turn{schema.NewUserTurn("2+2")},
	}, opt.WithStream(func(text string) { streamed.WriteString(text) }))
	assert.ErrorIs(err, tooluse.ErrTransport)
	assert.Nil(turn)
	assert.Equal("The answer is", streamed.String())
}
