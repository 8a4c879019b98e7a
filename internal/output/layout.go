package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// heading writes title underlined with rule. Bold when colored.
func heading(w io.Writer, title string, rule byte, colored bool, attrs ...color.Attribute) {
	if colored {
		color.New(append([]color.Attribute{color.Bold}, attrs...)...).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat(string(rule), len(title)))
}

// Table is a titled grid. Data, when set, replaces the grid in JSON and TOON
// output.
type Table struct {
	Title   string     `json:"-"`
	Headers []string   `json:"-"`
	Rows    [][]string `json:"-"`
	Footer  []string   `json:"-"`
	Data    any        `json:"data,omitempty"`
}

// NewTable creates a table.
func NewTable(title string, headers []string, rows [][]string, footer []string, data any) *Table {
	return &Table{Title: title, Headers: headers, Rows: rows, Footer: footer, Data: data}
}

// RenderData returns Data, or the rows keyed by header.
func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}
	rows := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]string, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(row) {
				m[h] = row[j]
			}
		}
		rows[i] = m
	}
	return rows
}

// RenderText draws the table without borders or column separators.
func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		heading(w, t.Title, '=', colored)
		fmt.Fprintln(w)
	}

	left := tw.CellAlignment{Global: tw.AlignLeft}
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  left,
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row:    tw.CellConfig{Alignment: left},
			Footer: tw.CellConfig{Alignment: left},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders:  tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{Separators: tw.Separators{BetweenColumns: tw.Off}},
		}),
	)

	table.Header(t.Headers)
	for _, row := range t.Rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if len(t.Footer) > 0 {
		cells := make([]any, len(t.Footer))
		for i, f := range t.Footer {
			cells[i] = f
		}
		table.Footer(cells...)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderMarkdown writes a pipe table. Pipes inside cells are escaped.
func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}

	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	markdownRow(w, t.Headers)
	markdownRow(w, seps)
	for _, row := range t.Rows {
		markdownRow(w, row)
	}
	if len(t.Footer) > 0 {
		markdownRow(w, t.Footer)
	}

	_, err := fmt.Fprintln(w)
	return err
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func markdownRow(w io.Writer, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = cellEscaper.Replace(c)
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | "))
}

// Section is a titled block of prose with nested subsections.
type Section struct {
	Title    string    `json:"title,omitempty"`
	Content  string    `json:"content,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	Data     any       `json:"data,omitempty"`
}

func (s *Section) RenderData() any {
	if s.Data != nil {
		return s.Data
	}
	return s
}

func (s *Section) RenderText(w io.Writer, colored bool) error {
	s.text(w, colored, 0)
	return nil
}

func (s *Section) text(w io.Writer, colored bool, depth int) {
	if s.Title != "" {
		rule := byte('=')
		if depth > 0 {
			rule = '-'
		}
		heading(w, s.Title, rule, colored)
	}
	if s.Content != "" {
		fmt.Fprintln(w, s.Content)
	}
	for i := range s.Sections {
		fmt.Fprintln(w)
		s.Sections[i].text(w, colored, depth+1)
	}
}

func (s *Section) RenderMarkdown(w io.Writer) error {
	s.markdown(w, 2)
	return nil
}

func (s *Section) markdown(w io.Writer, level int) {
	if s.Title != "" {
		fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), s.Title)
	}
	if s.Content != "" {
		fmt.Fprintf(w, "%s\n\n", s.Content)
	}
	for i := range s.Sections {
		s.Sections[i].markdown(w, level+1)
	}
}

// Report is a titled sequence of sections and tables. Data replaces the
// sections in JSON and TOON output. SARIF, when set, is the report's SARIF
// rendering.
type Report struct {
	Title    string       `json:"title,omitempty"`
	Sections []Renderable `json:"-"`
	Data     any          `json:"data,omitempty"`
	SARIF    *SARIFLog    `json:"-"`
}

func (r *Report) RenderData() any {
	if r.Data != nil {
		return r.Data
	}
	parts := make([]any, len(r.Sections))
	for i, s := range r.Sections {
		parts[i] = s.RenderData()
	}
	return map[string]any{"title": r.Title, "sections": parts}
}

func (r *Report) RenderSARIF() (*SARIFLog, bool) {
	return r.SARIF, r.SARIF != nil
}

func (r *Report) RenderText(w io.Writer, colored bool) error {
	if r.Title != "" {
		heading(w, r.Title, '=', colored, color.FgCyan)
		fmt.Fprintln(w)
	}
	for i, s := range r.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := s.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) RenderMarkdown(w io.Writer) error {
	if r.Title != "" {
		fmt.Fprintf(w, "# %s\n\n", r.Title)
	}
	for _, s := range r.Sections {
		if err := s.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}
