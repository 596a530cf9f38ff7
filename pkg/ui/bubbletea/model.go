package bubbletea

import (
	"fmt"
	"strings"

	// Packages
	spinner "github.com/charmbracelet/bubbles/spinner"
	textinput "github.com/charmbracelet/bubbles/textinput"
	viewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	glamour "github.com/charmbracelet/glamour"
	lipgloss "github.com/charmbracelet/lipgloss"
	wordwrap "github.com/muesli/reflow/wordwrap"
	ui "github.com/mutablelogic/go-tooluse/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type model struct {
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	ctx      ui.Context
	events   chan<- ui.Event
	done     <-chan struct{}
	entries  []entry
	sentinel string
	style    string
	width    int
	height   int
	typing   bool
	ready    bool
	quitting bool
}

// entry is one message in the transcript. The raw text is kept so it can
// be rendered again when the window is resized.
type entry struct {
	role     string
	raw      string
	text     string
	markdown bool
}

type appendMsg struct {
	role     string
	text     string
	markdown bool
}

type typingMsg bool

type clearMsg struct{}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	footerHeight = 2
	labelMargin  = 14
	minWrap      = 20
)

var (
	roleStyle = map[string]lipgloss.Style{
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

func newModel(events chan<- ui.Event, done <-chan struct{}, sentinel, style string) *model {
	input := textinput.New()
	input.Placeholder = "Type a message, or " + sentinel + " to quit"
	input.CharLimit = 0
	input.Focus()
	return &model{
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		events:   events,
		done:     done,
		sentinel: sentinel,
		style:    style,
	}
}

///////////////////////////////////////////////////////////////////////////////
// BUBBLETEA MODEL

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case appendMsg:
		m.append(msg.role, msg.text, msg.markdown)
		m.typing = false
		m.refresh()
		return m, nil
	case typingMsg:
		m.typing = bool(msg)
		return m, nil
	case clearMsg:
		m.entries = nil
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	// Only navigation keys scroll the transcript
	if key, ok := msg.(tea.KeyMsg); !ok || isNavigation(key) {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Starting..."
	}
	status := dimStyle.Render("esc to quit")
	if m.typing {
		status = dimStyle.Render(m.spinner.View() + " thinking...")
	}
	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), m.input.View(), status)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// submit clears the input line and passes it to the receiver. The event is
// delivered from a command so the program does not block on the receiver.
func (m *model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if text == "" {
		return nil
	}
	if ui.IsExit(text, m.sentinel) {
		m.quitting = true
		return tea.Quit
	}
	m.append(ui.RoleUser, text, false)
	m.refresh()

	evt := ui.ParseEvent(m.ctx, text)
	events, done := m.events, m.done
	return func() tea.Msg {
		select {
		case events <- evt:
		case <-done:
		}
		return nil
	}
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	if !m.ready {
		m.viewport = viewport.New(width, height-footerHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height - footerHeight
	}
	m.input.Width = width - 4

	if r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(m.wrapWidth()),
	); err == nil {
		m.renderer = r
	}
	for i := range m.entries {
		m.entries[i].text = m.render(m.entries[i].raw, m.entries[i].markdown)
	}
	m.refresh()
}

func (m *model) append(role, text string, markdown bool) {
	m.entries = append(m.entries, entry{
		role:     role,
		raw:      text,
		text:     m.render(text, markdown),
		markdown: markdown,
	})
}

func (m *model) render(text string, markdown bool) string {
	if markdown && m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return indent(wordwrap.String(text, m.wrapWidth()))
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(label(e.role))
		b.WriteString("\n")
		b.WriteString(e.text)
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *model) wrapWidth() int {
	return max(m.width-labelMargin, minWrap)
}

func isNavigation(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		return true
	}
	return false
}

// indent matches the left margin glamour gives rendered Markdown
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" && !strings.HasPrefix(line, "  ") {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}

func label(role string) string {
	if style, ok := roleStyle[role]; ok {
		return style.Render(role + ":")
	}
	return role + ":"
}
