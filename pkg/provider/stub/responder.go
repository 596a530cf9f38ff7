package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const calculatorTool = "calculator"

var reArithmetic = regexp.MustCompile(`^\s*(?:what\s+is\s+)?(-?\d+(?:\.\d+)?)\s*([-+*/x])\s*(-?\d+(?:\.\d+)?)\s*\??\s*$`)

var operations = map[string]string{
	"+": "add",
	"-": "subtract",
	"*": "multiply",
	"x": "multiply",
	"/": "divide",
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Offline returns a responder for use without a network. Simple arithmetic
// is passed to a "calculator" tool when one is advertised, tool results
// are repeated back as the answer, and anything else is echoed. Replies
// depend only on the request.
func Offline() ResponderFunc {
	return func(_ context.Context, req schema.Request) (*schema.AssistantTurn, error) {
		last := req.History[len(req.History)-1]
		switch last.Role {
		case schema.RoleTool:
			var parts []string
			for _, result := range last.ToolResults() {
				parts = append(parts, resultText(result))
			}
			return schema.NewFinalText(strings.Join(parts, "\n")), nil
		default:
			text := last.Text()
			if call, ok := arithmetic(text, len(req.History), req.Tools); ok {
				return schema.NewToolInvocations(call), nil
			}
			return schema.NewFinalText(text), nil
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func arithmetic(text string, n int, tools []schema.ToolDescriptor) (schema.ToolCall, bool) {
	found := false
	for _, t := range tools {
		if t.Name == calculatorTool {
			found = true
			break
		}
	}
	if !found {
		return schema.ToolCall{}, false
	}
	parts := reArithmetic.FindStringSubmatch(strings.ToLower(text))
	if parts == nil {
		return schema.ToolCall{}, false
	}
	num1, err1 := strconv.ParseFloat(parts[1], 64)
	num2, err2 := strconv.ParseFloat(parts[3], 64)
	if err1 != nil || err2 != nil {
		return schema.ToolCall{}, false
	}
	input, err := json.Marshal(map[string]any{
		"operation": operations[parts[2]],
		"num1":      num1,
		"num2":      num2,
	})
	if err != nil {
		return schema.ToolCall{}, false
	}
	return schema.ToolCall{
		ID:    fmt.Sprintf("stub_%d", n),
		Name:  calculatorTool,
		Input: input,
	}, true
}

func resultText(result schema.ToolResult) string {
	var text string
	if err := json.Unmarshal(result.Content, &text); err == nil {
		return text
	}
	return string(result.Content)
}
