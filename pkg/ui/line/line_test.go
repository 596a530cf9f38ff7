package line_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	// Packages
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
	line "github.com/mutablelogic/go-tooluse/pkg/ui/line"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_line_001(t *testing.T) {
	assert := assert.New(t)
	var out bytes.Buffer
	term, err := line.New(strings.NewReader("hello\n\n/tools all\nEXIT\nignored\n"), &out)
	require.NoError(t, err)
	defer term.Close()
	assert.False(term.Interactive())

	ctx := context.Background()
	evt, err := term.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(ui.EventText, evt.Type)
	assert.Equal("hello", evt.Text)

	evt, err = term.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(ui.EventCommand, evt.Type)
	assert.Equal("tools", evt.Command)
	assert.Equal([]string{"all"}, evt.Args)

	// Sentinel ends the session
	_, err = term.Receive(ctx)
	assert.ErrorIs(err, io.EOF)
}

func Test_line_002(t *testing.T) {
	assert := assert.New(t)
	var out bytes.Buffer
	term, err := line.New(strings.NewReader("what is 2+2?"), &out, line.WithSentinel(""))
	require.NoError(t, err)
	defer term.Close()

	// Final line without a newline
	evt, err := term.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal("what is 2+2?", evt.Text)

	require.NoError(t, evt.Context.SendMarkdown(context.Background(), "The answer is **4**"))
	require.NoError(t, evt.Context.SendNotice(context.Background(), ui.RoleTool, "calculator"))
	require.NoError(t, evt.Context.SendText(context.Background(), "done"))
	require.NoError(t, evt.Context.SetTyping(context.Background(), true))
	assert.Contains(out.String(), "assistant:")
	assert.Contains(out.String(), "The answer is **4**")
	assert.Contains(out.String(), "tool: calculator")
	assert.Contains(out.String(), "done\n")
	assert.NotContains(out.String(), "thinking")

	_, err = term.Receive(context.Background())
	assert.ErrorIs(err, io.EOF)
}

func Test_line_003(t *testing.T) {
	assert := assert.New(t)
	r, w := io.Pipe()
	defer w.Close()
	term, err := line.New(r, io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = term.Receive(ctx)
	assert.ErrorIs(err, context.Canceled)

	assert.NoError(term.Close())
	assert.NoError(term.Close())
	_, err = term.Receive(context.Background())
	assert.ErrorIs(err, io.EOF)
}

func Test_line_004(t *testing.T) {
	assert := assert.New(t)
	term, err := line.New(strings.NewReader(""), io.Discard)
	require.NoError(t, err)
	defer term.Close()

	// End of input is returned every time
	_, err = term.Receive(context.Background())
	assert.ErrorIs(err, io.EOF)
	_, err = term.Receive(context.Background())
	assert.ErrorIs(err, io.EOF)
}
