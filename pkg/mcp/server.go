/*
mcp exposes the tools in a toolkit to Model Context Protocol clients
*/
package mcp

import (
	"context"
	"encoding/json"

	// Packages
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	tooluse "github.com/mutablelogic/go-tooluse"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Server serves the tools of a toolkit
type Server struct {
	*sdk.Server
	toolkit *tool.Toolkit
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a server with the given name and version, and registers every
// tool in the toolkit
func New(name, version string, toolkit *tool.Toolkit) (*Server, error) {
	if toolkit == nil {
		return nil, tooluse.ErrBadParameter.With("toolkit is nil")
	}
	self := &Server{
		Server:  sdk.NewServer(&sdk.Implementation{Name: name, Version: version}, nil),
		toolkit: toolkit,
	}
	for _, t := range toolkit.Tools() {
		schema, err := t.Schema()
		if err != nil {
			return nil, tooluse.ErrBadParameter.Withf("%s: %v", t.Name(), err)
		}
		var input any = map[string]any{"type": "object"}
		if schema != nil {
			input = schema
		}
		self.AddTool(&sdk.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: input,
		}, self.handler(t.Name()))
	}
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RunStdio serves requests on standard input and output until the context
// is done or the client disconnects
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &sdk.StdioTransport{})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// handler runs the named tool. Tool failures are returned as error results
// so the client can show them to the model.
func (s *Server) handler(name string) sdk.ToolHandler {
	return func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		var input json.RawMessage
		if req != nil && req.Params != nil {
			input = req.Params.Arguments
		}
		result, err := s.toolkit.Run(ctx, name, input)
		if err != nil {
			return &sdk.CallToolResult{
				Content: []sdk.Content{&sdk.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}
		text, err := textFor(result)
		if err != nil {
			return nil, err
		}
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: text}},
		}, nil
	}
}

func textFor(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
