/*
agent implements the tool-use conversation loop. An Agent owns one
conversation: each call to Chat appends the user's text, sends the history
to a generator, runs any tools the model asks for, and repeats until the
model answers with text.
*/
package agent

import (
	"sync"

	// Packages
	uuid "github.com/google/uuid"
	tooluse "github.com/mutablelogic/go-tooluse"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	otel "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Agent drives a conversation between a user, a generator and a toolkit.
// Calls to Chat are serialized.
type Agent struct {
	sync.Mutex
	generator     tooluse.Generator
	toolkit       *tool.Toolkit
	system        string
	config        schema.GenerationConfig
	observer      Observer
	tracer        trace.Tracer
	maxIterations uint
	opts          []opt.Opt
	state         State
	conversation  *Conversation
}

// Conversation is the identifier, system prompt and message log for one
// conversation. It is never persisted.
type Conversation struct {
	ID     string
	System string
	log    schema.Log
}

// Response is the outcome of one user turn
type Response struct {
	Text       string           `json:"text"`
	Result     schema.Result    `json:"result"`
	Iterations int              `json:"iterations"`
	ToolCalls  []ToolCallRecord `json:"tool_calls,omitempty"`
	Usage      schema.Usage     `json:"usage"`
}

// ToolCallRecord is a tool call, its result and the iteration it was made in
type ToolCallRecord struct {
	Call      schema.ToolCall   `json:"call"`
	Result    schema.ToolResult `json:"result"`
	Iteration int               `json:"iteration"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	tracerName = "github.com/mutablelogic/go-tooluse/pkg/agent"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates an agent which sends requests to the generator and runs tools
// from the toolkit. A nil toolkit advertises no tools.
func New(generator tooluse.Generator, toolkit *tool.Toolkit, opts ...Opt) (*Agent, error) {
	if generator == nil {
		return nil, tooluse.ErrBadParameter.With("generator is nil")
	}
	if toolkit == nil {
		if tk, err := tool.NewToolkit(); err != nil {
			return nil, err
		} else {
			toolkit = tk
		}
	}

	self := &Agent{
		generator: generator,
		toolkit:   toolkit,
		observer:  ObserverFunc(nil),
		tracer:    otel.Tracer(tracerName),
		state:     StateAwaitingUserInput,
	}
	for _, opt := range opts {
		if err := opt(self); err != nil {
			return nil, err
		}
	}
	if err := self.config.Validate(); err != nil {
		return nil, tooluse.ErrBadParameter.Wrap(err)
	}
	if self.config.ForcedTool != "" && toolkit.Lookup(self.config.ForcedTool) == nil {
		return nil, tooluse.ErrBadParameter.Withf("forced tool %q is not registered", self.config.ForcedTool)
	}
	self.conversation = newConversation(self.system)
	return self, nil
}

func newConversation(system string) *Conversation {
	return &Conversation{
		ID:     uuid.NewString(),
		System: system,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Toolkit returns the tools advertised to the model
func (a *Agent) Toolkit() *tool.Toolkit {
	return a.toolkit
}

// Config returns the generation config sent with each request
func (a *Agent) Config() schema.GenerationConfig {
	return a.config
}

// State returns the current state of the conversation loop
func (a *Agent) State() State {
	a.Lock()
	defer a.Unlock()
	return a.state
}

// Conversation returns a copy of the current conversation
func (a *Agent) Conversation() Conversation {
	a.Lock()
	defer a.Unlock()
	result := Conversation{
		ID:     a.conversation.ID,
		System: a.conversation.System,
	}
	for _, turn := range a.conversation.log.Snapshot() {
		// Turns have already been validated
		_ = result.log.Append(turn)
	}
	return result
}

// Reset discards the conversation and starts a new one with a new identifier
func (a *Agent) Reset() {
	a.Lock()
	defer a.Unlock()
	a.conversation = newConversation(a.system)
	a.state = StateAwaitingUserInput
}

// Turns returns a copy of the turns in the conversation
func (c Conversation) Turns() []schema.Turn {
	return c.log.Snapshot()
}

// Len returns the number of turns in the conversation
func (c Conversation) Len() int {
	return c.log.Len()
}

// Usage returns the tokens used by the conversation so far
func (c Conversation) Usage() schema.Usage {
	return c.log.Usage()
}
