// Package bubbletea implements ui.ChatUI as a full-screen terminal
// application, with a scrolling transcript, an input line, a spinner while
// a reply is pending, and Markdown rendered by glamour.
package bubbletea

import (
	"context"
	"io"
	"sync"

	// Packages
	tea "github.com/charmbracelet/bubbletea"
	termenv "github.com/muesli/termenv"
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Terminal runs the chat application until it is closed or the user quits
type Terminal struct {
	sync.Mutex
	program *tea.Program
	events  chan ui.Event
	done    chan struct{}
	err     error
}

// Opt sets an option for the terminal
type Opt func(*options) error

type options struct {
	sentinel string
	greeting string
	style    string
	input    io.Reader
	output   io.Writer
}

// programContext forwards replies to the running program
type programContext struct {
	program *tea.Program
}

var _ ui.ChatUI = (*Terminal)(nil)
var _ ui.Context = (*programContext)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New starts the application in the alternate screen
func New(opts ...Opt) (*Terminal, error) {
	o := options{sentinel: ui.DefaultSentinel}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	// Query the background colour before the program owns stdin
	if o.style == "" {
		o.style = "dark"
		if !termenv.HasDarkBackground() {
			o.style = "light"
		}
	}

	self := &Terminal{
		events: make(chan ui.Event),
		done:   make(chan struct{}),
	}
	m := newModel(self.events, self.done, o.sentinel, o.style)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if o.input != nil {
		programOpts = append(programOpts, tea.WithInput(o.input))
	}
	if o.output != nil {
		programOpts = append(programOpts, tea.WithOutput(o.output))
	}
	self.program = tea.NewProgram(m, programOpts...)
	m.ctx = &programContext{self.program}
	if o.greeting != "" {
		m.append(ui.RoleAssistant, o.greeting, true)
	}

	go func() {
		defer close(self.done)
		if _, err := self.program.Run(); err != nil {
			self.Lock()
			self.err = err
			self.Unlock()
		}
	}()

	return self, nil
}

// WithSentinel sets the input which ends the session
func WithSentinel(v string) Opt {
	return func(o *options) error {
		o.sentinel = v
		return nil
	}
}

// WithGreeting sets a message shown before the first prompt
func WithGreeting(v string) Opt {
	return func(o *options) error {
		o.greeting = v
		return nil
	}
}

// WithIO replaces standard input and output
func WithIO(r io.Reader, w io.Writer) Opt {
	return func(o *options) error {
		o.input, o.output = r, w
		return nil
	}
}

// Close quits the application and waits for it to restore the terminal
func (t *Terminal) Close() error {
	t.program.Quit()
	<-t.done
	t.Lock()
	defer t.Unlock()
	return t.err
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Receive blocks until the user enters a line. Returns io.EOF when the user
// quits.
func (t *Terminal) Receive(ctx context.Context) (ui.Event, error) {
	select {
	case <-ctx.Done():
		return ui.Event{}, ctx.Err()
	case evt := <-t.events:
		return evt, nil
	case <-t.done:
		t.Lock()
		defer t.Unlock()
		if t.err != nil {
			return ui.Event{}, t.err
		}
		return ui.Event{}, io.EOF
	}
}

// Clear empties the transcript
func (t *Terminal) Clear() {
	t.program.Send(clearMsg{})
}

func (c *programContext) SendText(_ context.Context, text string) error {
	c.program.Send(appendMsg{role: ui.RoleSystem, text: text})
	return nil
}

func (c *programContext) SendMarkdown(_ context.Context, markdown string) error {
	c.program.Send(appendMsg{role: ui.RoleAssistant, text: markdown, markdown: true})
	return nil
}

func (c *programContext) SendNotice(_ context.Context, role, text string) error {
	c.program.Send(appendMsg{role: role, text: text})
	return nil
}

func (c *programContext) SetTyping(_ context.Context, typing bool) error {
	c.program.Send(typingMsg(typing))
	return nil
}
