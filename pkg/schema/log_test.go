package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	assert "github.com/stretchr/testify/assert"
)

func calculatorCall(id string) schema.ToolCall {
	return schema.ToolCall{ID: id, Name: "calculator", Input: json.RawMessage(`{"operation":"add","num1":2,"num2":2}`)}
}

func Test_log_001(t *testing.T) {
	assert := assert.New(t)
	var log schema.Log
	assert.Equal(0, log.Len())
	assert.Nil(log.Last())

	assert.NoError(log.Append(schema.NewUserTurn("2+2?")))
	assert.NoError(log.Append(schema.NewToolInvocations(calculatorCall("c1")).Turn()))
	assert.Len(log.Pending(), 1)

	assert.NoError(log.Append(schema.NewToolTurn(schema.NewToolResult(calculatorCall("c1"), 4))))
	assert.Empty(log.Pending())

	assert.NoError(log.Append(schema.NewFinalText("4").Turn()))
	assert.Equal(4, log.Len())
	assert.Equal("4", log.Last().Text())
}

func Test_log_002(t *testing.T) {
	assert := assert.New(t)
	var log schema.Log

	// Invalid turn is not appended
	assert.Error(log.Append(schema.Turn{Role: schema.RoleAssistant}))
	assert.Equal(0, log.Len())

	// Result with no matching call is not appended
	assert.NoError(log.Append(schema.NewUserTurn("hello")))
	assert.Error(log.Append(schema.NewToolTurn(schema.NewToolResult(calculatorCall("nope"), 4))))
	assert.Equal(1, log.Len())
}

func Test_log_003(t *testing.T) {
	assert := assert.New(t)
	var log schema.Log
	assert.NoError(log.Append(schema.NewUserTurn("hello")))

	// Mutating the snapshot does not change the log
	snapshot := log.Snapshot()
	*snapshot[0].Content[0].Text = "changed"
	assert.Equal("hello", log.Snapshot()[0].Text())

	// Mutating the appended turn does not change the log
	turn := schema.NewUserTurn("again")
	assert.NoError(log.Append(turn))
	*turn.Content[0].Text = "changed"
	assert.Equal("again", log.Last().Text())
}

func Test_log_004(t *testing.T) {
	assert := assert.New(t)
	var log schema.Log
	assert.NoError(log.Append(schema.NewUserTurn("two things")))
	assert.NoError(log.Append(schema.NewToolInvocations(calculatorCall("a"), calculatorCall("b")).Turn()))

	pending := log.Pending()
	if assert.Len(pending, 2) {
		assert.Equal("a", pending[0].ID)
		assert.Equal("b", pending[1].ID)
	}
	assert.NoError(log.Append(schema.NewToolTurn(schema.NewToolResult(pending[0], 4))))
	pending = log.Pending()
	if assert.Len(pending, 1) {
		assert.Equal("b", pending[0].ID)
	}
}

func Test_log_005(t *testing.T) {
	assert := assert.New(t)
	var log schema.Log
	assert.NoError(log.Append(schema.NewUserTurn("hi")))
	turn := schema.NewFinalText("hello")
	turn.Usage = schema.Usage{InputTokens: 10, OutputTokens: 3}
	assert.NoError(log.Append(turn.Turn()))
	assert.Equal(schema.Usage{InputTokens: 10, OutputTokens: 3}, log.Usage())
}

func Test_config_001(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(schema.GenerationConfig{}.Validate())
	assert.NoError(schema.GenerationConfig{Temperature: types.Ptr(0.5)}.Validate())
	assert.Error(schema.GenerationConfig{Temperature: types.Ptr(1.5)}.Validate())
	assert.Error(schema.GenerationConfig{Temperature: types.Ptr(-0.1)}.Validate())
}

func Test_config_002(t *testing.T) {
	assert := assert.New(t)
	a := schema.GenerationConfig{Model: "a"}
	b := schema.GenerationConfig{Model: "b", MaxOutputTokens: 100, Temperature: types.Ptr(0.2)}
	merged := a.Merge(b)
	assert.Equal("a", merged.Model)
	assert.Equal(uint(100), merged.MaxOutputTokens)
	assert.Equal(0.2, *merged.Temperature)
}

func Test_request_001(t *testing.T) {
	assert := assert.New(t)
	req := schema.Request{
		History: []schema.Turn{schema.NewUserTurn("hi")},
		Tools:   []schema.ToolDescriptor{{Name: "calculator"}},
	}
	assert.NoError(req.Validate())

	req.Config.ForcedTool = "translate"
	assert.Error(req.Validate())

	req.Config.ForcedTool = "calculator"
	assert.NoError(req.Validate())

	assert.Error(schema.Request{}.Validate())
}

func Test_assistant_001(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(schema.NewFinalText("4").Validate())
	assert.Error(schema.NewFinalText("").Validate())
	assert.Error(schema.NewToolInvocations().Validate())
	assert.Error(schema.NewToolInvocations(calculatorCall("a"), calculatorCall("a")).Validate())
	assert.Error(schema.NewToolInvocations(schema.ToolCall{Name: "x"}).Validate())

	turn := schema.NewToolInvocations(calculatorCall("a"))
	turn.Text = "Let me calculate"
	assistant := turn.Turn()
	assert.Equal(schema.RoleAssistant, assistant.Role)
	assert.Len(assistant.Content, 2)
	assert.Equal("Let me calculate", assistant.Text())
	assert.Len(assistant.ToolCalls(), 1)
}
