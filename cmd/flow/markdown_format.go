package main

import (
	"strings"

	"github.com/amonks/flowstate/internal/markdown"
)

func renderMarkdownOrDash(value string, width, indent int) string {
	if width < 1 {
		width = 1
	}
	formatted := string(markdown.SafeRender(width, indent, []byte(value)))
	if strings.TrimSpace(formatted) == "" {
		return strings.Repeat(" ", max(indent, 0)) + "-"
	}
	return formatted
}
