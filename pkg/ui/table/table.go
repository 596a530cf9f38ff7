// Package table renders listings of tools and models, either as a bordered
// terminal table drawn by lipgloss or as a Markdown table for glamour.
package table

import (
	"fmt"
	"os"
	"strings"
	"time"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Data is a source of rows
type Data interface {
	// Header returns the column labels
	Header() []string

	// Len returns the number of rows
	Len() int

	// Row returns the cell values for row i, or nil to skip it. A value
	// wrapped in Bold is highlighted.
	Row(i int) []any
}

// Bold highlights a cell value
type Bold struct{ Value any }

// Tools lists tool descriptors
type Tools []schema.ToolDescriptor

// Models lists models together with their provider
type Models []ProviderModel

// ProviderModel is a model and the provider which serves it
type ProviderModel struct {
	Provider string
	schema.Model
}

var _ Data = Tools(nil)
var _ Data = Models(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	descriptionWidth = 60
	empty            = "-"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	borderStyle = lipgloss.NewStyle().Faint(true)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Render draws the table. When width is positive and the table is wider,
// cells are wrapped to fit.
func Render(data Data, width int) string {
	t := lgtable.New().
		Headers(data.Header()...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for i := range data.Len() {
		if row := data.Row(i); row != nil {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = cell(v, true)
			}
			t.Row(cells...)
		}
	}

	result := t.Render()
	if width > 0 && lipgloss.Width(result) > width {
		result = t.Width(width).Render()
	}
	return result
}

// Width returns the width of standard output, or zero when it is not a
// terminal
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w
	}
	return 0
}

// Markdown returns the table in Markdown
func Markdown(data Data) string {
	header := data.Header()
	if len(header) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n|")
	b.WriteString(strings.Repeat("---|", len(header)))
	for i := range data.Len() {
		row := data.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, len(header))
		for j := range header {
			cells[j] = empty
			if j < len(row) {
				cells[j] = strings.ReplaceAll(cell(row[j], false), "|", "\\|")
			}
		}
		b.WriteString("\n| " + strings.Join(cells, " | ") + " |")
	}
	return b.String()
}

// Truncate shortens s to n runes on a single line
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n && n > 0 {
		return string(r[:n-1]) + "…"
	}
	return s
}

func (t Tools) Header() []string { return []string{"Name", "Description"} }
func (t Tools) Len() int         { return len(t) }
func (t Tools) Row(i int) []any {
	return []any{Bold{t[i].Name}, Truncate(t[i].Description, descriptionWidth)}
}

func (m Models) Header() []string { return []string{"Provider", "Model", "Description", "Created"} }
func (m Models) Len() int         { return len(m) }
func (m Models) Row(i int) []any {
	return []any{m[i].Provider, Bold{m[i].Name}, Truncate(m[i].Description, descriptionWidth), m[i].Created}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// cell formats a value. Zero values are shown as a dash.
func cell(v any, styled bool) string {
	var s string
	switch v := v.(type) {
	case nil:
		return empty
	case Bold:
		inner := cell(v.Value, false)
		switch {
		case inner == empty:
			return empty
		case styled:
			return boldStyle.Render(inner)
		default:
			return "**" + inner + "**"
		}
	case time.Time:
		if v.IsZero() {
			return empty
		}
		s = v.Format("2006-01-02")
	case int:
		if v == 0 {
			return empty
		}
		s = fmt.Sprint(v)
	case uint:
		if v == 0 {
			return empty
		}
		s = fmt.Sprint(v)
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return empty
	}
	return s
}
