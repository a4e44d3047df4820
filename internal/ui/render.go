package ui

import (
	"strings"

	"ignorebtc/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

// RenderOptions controls how a view is laid out in the terminal.
type RenderOptions struct {
	// Width is the visible width of the detail table. Negative means
	// unbounded.
	Width int
	// Offset is the first visible column of the detail table.
	Offset int
	// Cursor indexes Report.Links; negative highlights nothing.
	Cursor int
}

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))

	noticeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("2"))

	headerCellStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle       = lipgloss.NewStyle().Padding(0, 1)
	labelStyle      = cellStyle.Bold(true)
	linkStyle       = cellStyle.Underline(true).Foreground(lipgloss.Color("4"))
	cursorStyle     = linkStyle.Reverse(true)
	noteStyle       = lipgloss.NewStyle().Faint(true)
	borderStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render lays out v as text. Nothing renders as an empty string.
func Render(v view.View, opts RenderOptions) string {
	switch v := v.(type) {
	case view.Notice:
		return noticeStyle.Render(v.Text)
	case view.Report:
		detail := clip(renderDetail(v, opts.Cursor), opts.Width, opts.Offset)
		return strings.Join([]string{
			headingStyle.Render(v.Heading),
			renderSummary(v.Summary),
			detail,
		}, "\n\n")
	default:
		return ""
	}
}

// DetailWidth is the full width of the rendered detail table.
func DetailWidth(r view.Report) int {
	return lipgloss.Width(renderDetail(r, -1))
}

func renderSummary(s view.Summary) string {
	headers := make([]string, 0, len(s.Headers))
	var notes []string
	for _, h := range s.Headers {
		title := h.Title
		if h.Note != "" {
			marker := strings.Repeat("*", len(notes)+1)
			title += " " + marker
			notes = append(notes, marker+" "+h.Note)
		}
		headers = append(headers, title)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Row(s.Values...)

	out := t.Render()
	for _, n := range notes {
		out += "\n" + noteStyle.Render(n)
	}
	return out
}

func renderDetail(r view.Report, cursor int) string {
	highlighted := view.LinkRef{Row: -1, Column: -1}
	if links := r.Links(); cursor >= 0 && cursor < len(links) {
		highlighted = links[cursor]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return labelStyle
			}
			if row < 0 || row >= len(r.Detail.Rows) {
				return cellStyle
			}
			c := r.Detail.Rows[row].Cells[col-1]
			switch {
			case row == highlighted.Row && col-1 == highlighted.Column:
				return cursorStyle
			case c.Link != "":
				return linkStyle
			default:
				return cellStyle
			}
		})

	for _, row := range r.Detail.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.Label)
		for _, c := range row.Cells {
			text := c.Text
			if c.Note != "" {
				text += "\n" + noteStyle.Render(c.Note)
			}
			cells = append(cells, text)
		}
		t.Row(cells...)
	}
	return t.Render()
}

// clip cuts every line to the window [offset, offset+width).
func clip(s string, width, offset int) string {
	if width < 0 {
		return s
	}
	if offset < 0 {
		offset = 0
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = ansi.Cut(line, offset, offset+width)
	}
	return strings.Join(lines, "\n")
}
