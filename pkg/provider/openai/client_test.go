package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	openai "github.com/mutablelogic/go-tooluse/pkg/provider/openai"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func newServer(t *testing.T, status int, response string) (*openai.Client, *[]map[string]any) {
	var bodies []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if r.URL.Path != "/v1/chat/completions" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			var body map[string]any
			data, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(data, &body); err != nil {
				t.Error(err)
			}
			bodies = append(bodies, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, response)
	}))
	t.Cleanup(server.Close)

	c, err := openai.New("test-key", openai.OptBaseURL(server.URL), openai.OptHTTPClient(server.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return c, &bodies
}

func Test_openai_001(t *testing.T) {
	assert := assert.New(t)
	c, err := openai.New("test-key")
	assert.NoError(err)
	assert.Equal("openai", c.Name())

	_, err = openai.New("test-key", openai.OptBaseURL(""))
	assert.ErrorIs(err, tooluse.ErrBadParameter)
}

func Test_openai_002(t *testing.T) {
	assert := assert.New(t)
	c, bodies := newServer(t, http.StatusOK, `{
		"id": "chatcmpl-1", "model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "tool_calls", "message": {
			"role": "assistant", "content": "",
			"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "calculator", "arguments": "{\"operation\":\"add\",\"num1\":2,\"num2\":2}"}}]
		}}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19}
	}`)

	turn, err := c.Send(context.Background(), schema.Request{
		System:  "be brief",
		History: []schema.Turn{schema.NewUserTurn("2+2?")},
		Tools:   []schema.ToolDescriptor{{Name: "calculator", Description: "calc"}},
		Config:  schema.GenerationConfig{Model: "gpt-test", ForcedTool: "calculator"},
	}, openai.WithUser("u1"))
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(schema.ToolInvocations, turn.Kind)
	if assert.Len(turn.Calls, 1) {
		assert.Equal("call_1", turn.Calls[0].ID)
		assert.JSONEq(`{"operation":"add","num1":2,"num2":2}`, string(turn.Calls[0].Input))
	}
	assert.Equal(uint(12), turn.Usage.InputTokens)

	if assert.Len(*bodies, 1) {
		body := (*bodies)[0]
		assert.Equal("gpt-test", body["model"])
		assert.Equal("u1", body["user"])
		messages := body["messages"].([]any)
		if assert.Len(messages, 2) {
			assert.Equal("system", messages[0].(map[string]any)["role"])
		}
		choice := body["tool_choice"].(map[string]any)
		assert.Equal("function", choice["type"])
		assert.Equal("calculator", choice["function"].(map[string]any)["name"])
	}
}

func Test_openai_003(t *testing.T) {
	assert := assert.New(t)
	c, bodies := newServer(t, http.StatusOK, `{
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "4"}}]
	}`)

	call := schema.ToolCall{ID: "call_1", Name: "calculator", Input: json.RawMessage(`{"operation":"add","num1":2,"num2":2}`)}
	turn, err := c.Send(context.Background(), schema.Request{History: []schema.Turn{
		schema.NewUserTurn("2+2?"),
		schema.NewToolInvocations(call).Turn(),
		schema.NewToolTurn(schema.NewToolResult(call, 4)),
	}})
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(schema.FinalText, turn.Kind)
	assert.Equal("4", turn.Text)

	if assert.Len(*bodies, 1) {
		messages := (*bodies)[0]["messages"].([]any)
		if assert.Len(messages, 3) {
			last := messages[2].(map[string]any)
			assert.Equal("tool", last["role"])
			assert.Equal("call_1", last["tool_call_id"])
			assert.Equal("4", last["content"])
		}
	}
}

func Test_openai_004(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		status   int
		response string
		err      error
	}{
		{http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`, tooluse.ErrTransport},
		{http.StatusServiceUnavailable, `{"error":{"message":"unavailable"}}`, tooluse.ErrTransport},
		{http.StatusBadRequest, `{"error":{"message":"bad"}}`, tooluse.ErrBadParameter},
		{http.StatusOK, `{"choices":[]}`, tooluse.ErrMalformedResponse},
		{http.StatusOK, `{"choices":[{"finish_reason":"tool_calls","message":{"role":"assistant","content":""}}]}`, tooluse.ErrMalformedResponse},
		{http.StatusOK, `{"choices":[{"finish_reason":"stop","message":{"role":"assistant","tool_calls":[{"id":"x","type":"function","function":{"name":"f","arguments":"{not json"}}]}}]}`, tooluse.ErrMalformedResponse},
		{http.StatusOK, `{"choices":[{"finish_reason":"content_filter","message":{"role":"assistant","content":""}}]}`, tooluse.ErrRefusal},
	}
	for _, test := range tests {
		c, _ := newServer(t, test.status, test.response)
		_, err := c.Send(context.Background(), schema.Request{History: []schema.Turn{schema.NewUserTurn("hi")}})
		assert.ErrorIs(err, test.err, test.response)
	}
}

func Test_openai_005(t *testing.T) {
	assert := assert.New(t)
	c, _ := newServer(t, http.StatusOK, `{"object":"list","data":[{"id":"gpt-b","owned_by":"openai","created":1700000000},{"id":"gpt-a","owned_by":"openai"}]}`)
	models, err := c.ListModels(context.Background())
	assert.NoError(err)
	if assert.Len(models, 2) {
		assert.Equal("gpt-a", models[0].Name)
		assert.Equal("gpt-b", models[1].Name)
		assert.False(models[1].Created.IsZero())
	}
}
