package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/amonks/flowstate/internal/ui"
	"github.com/amonks/flowstate/todo"
)

func formatTodoTable(todos []todo.Todo, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PRI", "DONE", "AGE", "TITLE"}, len(todos))

	if prefixLengths == nil {
		prefixLengths = todo.NewIDIndex(todos).PrefixLengths()
	}

	for _, t := range todos {
		prefixLen := ui.PrefixLength(prefixLengths, t.ID)
		builder.AddRow([]string{
			highlight(t.ID, prefixLen),
			string(t.Priority),
			doneMark(t.Completed),
			ui.FormatTimeAgeShort(t.CreatedAt, now),
			ui.TruncateTableCell(t.Title),
		})
	}

	return builder.String()
}

func doneMark(completed bool) string {
	if completed {
		return "x"
	}
	return " "
}

const todoDetailLineWidth = 80

func formatTodoDetail(t todo.Todo, highlight func(string) string) string {
	status := "active"
	if t.Completed {
		status = "completed"
	}

	var builder strings.Builder
	builder.WriteString(ui.FormatKeyValues([][2]string{
		{"ID", highlight(t.ID)},
		{"Priority", string(t.Priority) + " (rank " + strconv.Itoa(todo.PriorityRank(t.Priority)) + ")"},
		{"Status", status},
		{"Created", t.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Updated", t.UpdatedAt.Format("2006-01-02 15:04:05")},
	}))
	builder.WriteString("\nTitle:\n")
	builder.WriteString(renderMarkdownOrDash(t.Title, todoDetailLineWidth, 2))
	builder.WriteString("\n")
	return builder.String()
}

func formatTodoStats(stats todo.Stats) string {
	var builder strings.Builder
	builder.WriteString(statsHeader("Todos"))
	builder.WriteString("\n")
	builder.WriteString(ui.FormatKeyValues([][2]string{
		{"Total", strconv.Itoa(stats.Total)},
		{"Active", strconv.Itoa(stats.Active)},
		{"Completed", strconv.Itoa(stats.Completed)},
		{"High priority", strconv.Itoa(stats.HighPriority)},
	}))
	return builder.String()
}
