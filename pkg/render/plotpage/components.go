package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const maxGridColumns = 4

// Grid lays out components in equal columns.
type Grid struct {
	Columns int
	Items   []Renderable
}

// NewGrid creates a grid with 1 to 4 columns.
func NewGrid(columns int, items ...Renderable) *Grid {
	return &Grid{Columns: min(max(columns, 1), maxGridColumns), Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	items := make([]template.HTML, 0, len(g.Items))

	for i, item := range g.Items {
		if item == nil {
			continue
		}

		var buf bytes.Buffer

		err := item.Render(&buf)
		if err != nil {
			return fmt.Errorf("rendering grid item %d: %w", i, err)
		}

		//nolint:gosec // items are rendered through html/template.
		items = append(items, template.HTML(buf.String()))
	}

	return write(w, "grid.html", gridData{Columns: g.Columns, Items: items})
}

// Stat displays a single labelled number.
type Stat struct {
	Label string
	Value string
	Note  string
}

// NewStat creates a stat display.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// WithNote adds a muted line under the value.
func (s *Stat) WithNote(note string) *Stat {
	s.Note = note

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	return write(w, "stat.html", statData(*s))
}

// Alert renders a warning banner.
type Alert struct {
	Title   string
	Message string
}

// NewAlert creates an alert.
func NewAlert(title, message string) *Alert {
	return &Alert{Title: title, Message: message}
}

// Render writes the alert HTML.
func (a *Alert) Render(w io.Writer) error {
	return write(w, "alert.html", alertData(*a))
}

// Cell is a table cell, rendered as a link when Href is set.
type Cell struct {
	Text string
	Href string
}

// Table renders an HTML table. Cell text is escaped.
type Table struct {
	Headers []string
	Rows    [][]Cell
	Striped bool
}

// NewTable creates a striped table.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow adds a row of cells.
func (t *Table) AddRow(cells ...Cell) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	return write(w, "table.html", tableData(*t))
}

// Stack renders components one after another.
type Stack []Renderable

// Render writes every component in order.
func (s Stack) Render(w io.Writer) error {
	for i, r := range s {
		if r == nil {
			continue
		}

		html, err := renderFragment(r)
		if err != nil {
			return fmt.Errorf("rendering stack item %d: %w", i, err)
		}

		_, err = io.WriteString(w, string(html))
		if err != nil {
			return fmt.Errorf("writing stack item %d: %w", i, err)
		}
	}

	return nil
}

func write(w io.Writer, name string, data any) error {
	html, err := renderTemplate(name, data)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
