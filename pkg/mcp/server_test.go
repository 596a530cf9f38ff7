package mcp_test

import (
	"context"
	"testing"

	// Packages
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	tooluse "github.com/mutablelogic/go-tooluse"
	calculator "github.com/mutablelogic/go-tooluse/pkg/calculator"
	mcp "github.com/mutablelogic/go-tooluse/pkg/mcp"
	stocks "github.com/mutablelogic/go-tooluse/pkg/stocks"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func connect(t *testing.T) *sdk.ClientSession {
	tk, err := tool.NewToolkit(calculator.New(), stocks.New(stocks.DefaultPrice))
	require.NoError(t, err)
	server, err := mcp.New("tooluse", "test", tk)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	serverTransport, clientTransport := sdk.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func text(result *sdk.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if content, ok := result.Content[0].(*sdk.TextContent); ok {
		return content.Text
	}
	return ""
}

func Test_mcp_001(t *testing.T) {
	assert := assert.New(t)
	_, err := mcp.New("tooluse", "test", nil)
	assert.ErrorIs(err, tooluse.ErrBadParameter)

	session := connect(t)
	tools, err := session.ListTools(context.Background(), &sdk.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, d := range tools.Tools {
		names = append(names, d.Name)
	}
	assert.ElementsMatch([]string{"calculator", "get_stock_price"}, names)
}

func Test_mcp_002(t *testing.T) {
	assert := assert.New(t)
	session := connect(t)

	result, err := session.CallTool(context.Background(), &sdk.CallToolParams{
		Name:      "calculator",
		Arguments: map[string]any{"operation": "multiply", "num1": 6, "num2": 7},
	})
	require.NoError(t, err)
	assert.False(result.IsError)
	assert.Equal("42", text(result))

	result, err = session.CallTool(context.Background(), &sdk.CallToolParams{
		Name:      "calculator",
		Arguments: map[string]any{"operation": "divide", "num1": 1, "num2": 0},
	})
	require.NoError(t, err)
	assert.True(result.IsError)
	assert.Contains(text(result), "division by zero")
}
