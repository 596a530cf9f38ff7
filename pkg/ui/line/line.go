// Package line implements ui.ChatUI as a line-oriented prompt. When both
// input and output are a terminal, lines are edited with golang.org/x/term
// and Markdown is rendered with glamour. Otherwise input is read a line at
// a time and output is plain text, which suits pipes and tests.
package line

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	lipgloss "github.com/charmbracelet/lipgloss"
	termenv "github.com/muesli/termenv"
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Terminal reads one event per line of input
type Terminal struct {
	sync.Mutex
	w        io.Writer
	tty      bool
	sentinel string
	prompt   string
	renderer *glamour.TermRenderer
	restore  func()
	lines    chan result
	done     chan struct{}
	once     sync.Once
	err      error
}

// Opt sets an option for the terminal
type Opt func(*Terminal) error

type result struct {
	line string
	err  error
}

type lineReader interface {
	ReadLine() (string, error)
}

type bufReader struct {
	r *bufio.Reader
}

type lineContext struct {
	*Terminal
}

var _ ui.ChatUI = (*Terminal)(nil)
var _ ui.Context = (*lineContext)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultPrompt = "> "
	defaultWidth  = 80
)

var (
	labelStyle = map[string]lipgloss.Style{
		ui.RoleUser:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ui.RoleAssistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		ui.RoleSystem:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		ui.RoleError:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		ui.RoleTool:      lipgloss.NewStyle().Faint(true),
	}
	dimStyle = lipgloss.NewStyle().Faint(true)
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a terminal reading from r and writing to w. Close must be
// called to restore the terminal state.
func New(r io.Reader, w io.Writer, opts ...Opt) (*Terminal, error) {
	self := &Terminal{
		w:        w,
		sentinel: ui.DefaultSentinel,
		prompt:   defaultPrompt,
		lines:    make(chan result),
		done:     make(chan struct{}),
		restore:  func() {},
	}
	for _, opt := range opts {
		if err := opt(self); err != nil {
			return nil, err
		}
	}

	var reader lineReader
	if in, out, ok := terminals(r, w); ok {
		state, err := term.MakeRaw(int(in.Fd()))
		if err != nil {
			return nil, err
		}
		self.restore = func() { term.Restore(int(in.Fd()), state) }
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, out}, self.prompt)
		reader, self.w, self.tty = t, t, true
		self.renderer = renderer(int(out.Fd()))
	} else {
		reader = bufReader{bufio.NewReader(r)}
	}

	go self.read(reader)
	return self, nil
}

// WithSentinel sets the input which ends the session. An empty value
// disables it, leaving end of input as the only way out.
func WithSentinel(v string) Opt {
	return func(t *Terminal) error {
		t.sentinel = strings.TrimSpace(v)
		return nil
	}
}

// WithPrompt sets the prompt shown on a TTY
func WithPrompt(v string) Opt {
	return func(t *Terminal) error {
		t.prompt = v
		return nil
	}
}

// Close stops reading input and restores the terminal
func (t *Terminal) Close() error {
	t.once.Do(func() {
		close(t.done)
		t.restore()
	})
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Receive returns the next non-empty line as an event. Returns io.EOF when
// input ends or the sentinel is entered.
func (t *Terminal) Receive(ctx context.Context) (ui.Event, error) {
	if t.err != nil {
		return ui.Event{}, t.err
	}
	for {
		select {
		case <-ctx.Done():
			return ui.Event{}, ctx.Err()
		case <-t.done:
			return ui.Event{}, io.EOF
		case r := <-t.lines:
			if r.err != nil {
				t.err = r.err
				return ui.Event{}, r.err
			}
			text := strings.TrimSpace(r.line)
			if text == "" {
				continue
			}
			if ui.IsExit(text, t.sentinel) {
				return ui.Event{}, io.EOF
			}
			return ui.ParseEvent(&lineContext{t}, text), nil
		}
	}
}

// Interactive reports whether the terminal is attached to a TTY
func (t *Terminal) Interactive() bool {
	return t.tty
}

func (c *lineContext) SendText(_ context.Context, text string) error {
	return c.write(strings.TrimRight(text, "\n") + "\n")
}

func (c *lineContext) SendMarkdown(_ context.Context, markdown string) error {
	body := markdown
	if c.renderer != nil {
		if out, err := c.renderer.Render(markdown); err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	return c.write(label(ui.RoleAssistant) + "\n" + strings.TrimRight(body, "\n") + "\n\n")
}

func (c *lineContext) SendNotice(_ context.Context, role, text string) error {
	return c.write(label(role) + " " + strings.TrimRight(text, "\n") + "\n")
}

// SetTyping shows a status line on a TTY, and does nothing otherwise
func (c *lineContext) SetTyping(_ context.Context, typing bool) error {
	if !c.tty {
		return nil
	}
	if typing {
		return c.write(dimStyle.Render("thinking..."))
	}
	return c.write("\r\x1b[K")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (t *Terminal) read(r lineReader) {
	for {
		line, err := r.ReadLine()
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) {
				err = fmt.Errorf("read: %w", err)
			}
			select {
			case t.lines <- result{err: err}:
			case <-t.done:
			}
			return
		}
		select {
		case t.lines <- result{line: line}:
		case <-t.done:
			return
		}
	}
}

func (t *Terminal) write(s string) error {
	t.Lock()
	defer t.Unlock()
	_, err := io.WriteString(t.w, s)
	return err
}

// ReadLine returns a line without its terminator. A final line without a
// terminator is returned before io.EOF.
func (b bufReader) ReadLine() (string, error) {
	line, err := b.r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line != "" {
		return line, nil
	}
	return line, err
}

func terminals(r io.Reader, w io.Writer) (*os.File, *os.File, bool) {
	in, ok := r.(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return nil, nil, false
	}
	out, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(out.Fd())) {
		return nil, nil, false
	}
	return in, out, true
}

func renderer(fd int) *glamour.TermRenderer {
	width := defaultWidth
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}
	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(width-4))
	if err != nil {
		return nil
	}
	return r
}

func label(role string) string {
	if style, ok := labelStyle[role]; ok {
		return style.Render(role + ":")
	}
	return role + ":"
}
