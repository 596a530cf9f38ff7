// Package command handles slash commands typed into a chat session, such
// as /reset and /tools. The same handler serves every ui.ChatUI.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	tokens "github.com/mutablelogic/go-tooluse/pkg/tokens"
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
	table "github.com/mutablelogic/go-tooluse/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Handler runs commands against an agent
type Handler struct {
	agent     *agent.Agent
	estimator *tokens.Estimator
	commands  map[string]command
	onReset   func()
}

type command struct {
	help string
	fn   func(context.Context, ui.Event) error
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a handler for the agent. The estimator may be nil, in which
// case token estimates count characters.
func New(a *agent.Agent, estimator *tokens.Estimator) *Handler {
	h := &Handler{agent: a, estimator: estimator}
	h.commands = map[string]command{
		"reset":  {"Start a new conversation", h.reset},
		"tools":  {"List the tools the model can call", h.tools},
		"tokens": {"Show token usage for the conversation", h.tokens},
		"help":   {"List commands", h.help},
	}
	return h
}

// OnReset sets a function called after the conversation is reset, so the
// interface can clear its transcript
func (h *Handler) OnReset(fn func()) *Handler {
	h.onReset = fn
	return h
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Handle runs the command in the event. Returns ErrNotFound for an unknown
// command.
func (h *Handler) Handle(ctx context.Context, evt ui.Event) error {
	if evt.Type != ui.EventCommand {
		return tooluse.ErrBadParameter.With("not a command")
	}
	cmd, exists := h.commands[strings.ToLower(evt.Command)]
	if !exists {
		return tooluse.ErrNotFound.Withf("unknown command /%s (try /help)", evt.Command)
	}
	return cmd.fn(ctx, evt)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (h *Handler) reset(ctx context.Context, evt ui.Event) error {
	h.agent.Reset()
	if h.onReset != nil {
		h.onReset()
	}
	return evt.Context.SendNotice(ctx, ui.RoleSystem, "Started conversation "+h.agent.Conversation().ID)
}

func (h *Handler) tools(ctx context.Context, evt ui.Event) error {
	tools := h.agent.Toolkit().Describe()
	if len(tools) == 0 {
		return evt.Context.SendNotice(ctx, ui.RoleSystem, "No tools")
	}
	return evt.Context.SendMarkdown(ctx, table.Markdown(table.Tools(tools)))
}

func (h *Handler) tokens(ctx context.Context, evt ui.Event) error {
	conversation := h.agent.Conversation()
	usage := conversation.Usage()
	estimate := h.estimator.Turns(conversation.Turns()...)
	if conversation.System != "" {
		estimate += h.estimator.Count(conversation.System)
	}
	method := "cl100k_base"
	if h.estimator.Fallback() {
		method = "characters"
	}
	return evt.Context.SendNotice(ctx, ui.RoleSystem, fmt.Sprintf(
		"%d turns, %d input and %d output tokens used, history is about %d tokens (%s)",
		conversation.Len(), usage.InputTokens, usage.OutputTokens, estimate, method,
	))
}

func (h *Handler) help(ctx context.Context, evt ui.Event) error {
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "* `/%s` %s\n", name, h.commands[name].help)
	}
	return evt.Context.SendMarkdown(ctx, b.String())
}
