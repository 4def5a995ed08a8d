package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	"github.com/amonks/flowstate/todo"
)

// TodoData is rendered into the file the editor opens.
type TodoData struct {
	ID        string
	Title     string
	Priority  string
	Completed bool
}

// DataFromTodo creates TodoData from an existing todo.
func DataFromTodo(t todo.Todo) TodoData {
	return TodoData{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  string(t.Priority),
		Completed: t.Completed,
	}
}

var todoTemplate = template.Must(template.New("todo").Parse(`# todo {{ .ID }}
title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # high, medium, low
completed = {{ .Completed }}
`))

// RenderTodoTOML renders the todo data as TOML for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTodo is the result of decoding the edited file.
type ParsedTodo struct {
	Title     string `toml:"title"`
	Priority  string `toml:"priority"`
	Completed bool   `toml:"completed"`
}

// ParseTodoTOML decodes the edited file. The title is left for the store
// to validate; an unknown priority is rejected here.
func ParseTodoTOML(content string) (*ParsedTodo, error) {
	var parsed ParsedTodo
	if _, err := toml.Decode(content, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if _, err := todo.ParsePriority(parsed.Priority); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// EditTodo opens the editor on existing and returns the parsed result.
func EditTodo(existing todo.Todo) (*ParsedTodo, error) {
	content, err := RenderTodoTOML(DataFromTodo(existing))
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "flow-todo-*.toml")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return ParseTodoTOML(string(edited))
}

// Patch returns the changes between existing and the parsed result.
func (p *ParsedTodo) Patch(existing todo.Todo) todo.Patch {
	var patch todo.Patch
	if title := strings.TrimSpace(p.Title); title != existing.Title {
		patch.Title = &p.Title
	}
	if priority, err := todo.ParsePriority(p.Priority); err == nil && priority != existing.Priority {
		patch.Priority = &priority
	}
	if p.Completed != existing.Completed {
		patch.Completed = &p.Completed
	}
	return patch
}

// Empty reports whether the edit changed nothing.
func (p *ParsedTodo) Empty(existing todo.Todo) bool {
	patch := p.Patch(existing)
	return patch.Title == nil && patch.Priority == nil && patch.Completed == nil
}
