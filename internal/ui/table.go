package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	tableCellMaxWidth = 50
	tableCellEllipsis = "..."
	tableColumnGap    = 2
)

var cellNewlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as left-aligned columns. Widths are
// measured on visible cells, so escape codes do not shift alignment. The
// last column is never padded.
func FormatTable(headers []string, rows [][]string) string {
	lines := make([][]string, 0, len(rows)+1)
	lines = append(lines, normalizeRow(headers))
	for _, row := range rows {
		lines = append(lines, normalizeRow(row))
	}

	widths := make([]int, len(headers))
	for _, line := range lines {
		for i, cell := range line {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var builder strings.Builder
	for _, line := range lines {
		for i, cell := range line {
			builder.WriteString(cell)
			if i == len(line)-1 {
				break
			}
			width := 0
			if i < len(widths) {
				width = widths[i]
			}
			builder.WriteString(strings.Repeat(" ", max(width-lipgloss.Width(cell), 0)+tableColumnGap))
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}

// FormatKeyValues renders label/value pairs with aligned values.
func FormatKeyValues(pairs [][2]string) string {
	rows := make([][]string, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, []string{pair[0] + ":", pair[1]})
	}
	if len(rows) == 0 {
		return ""
	}
	return FormatTable(rows[0], rows[1:])
}

// TruncateTableCell limits cell width, keeping escape codes intact.
func TruncateTableCell(value string) string {
	value = cellNewlines.Replace(value)
	if lipgloss.Width(value) <= tableCellMaxWidth {
		return value
	}
	return ansi.Truncate(value, tableCellMaxWidth, tableCellEllipsis)
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = cellNewlines.Replace(cell)
	}
	return out
}
