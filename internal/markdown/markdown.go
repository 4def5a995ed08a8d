// Package markdown renders record text for the terminal with glamour.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/indent"

	internalstrings "github.com/amonks/flowstate/internal/strings"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// SafeRender is Render, falling back to the plain input if the renderer panics.
func SafeRender(width, indentWidth int, input []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			out = finish(clean(string(input)), indentWidth)
		}
	}()
	return Render(width, indentWidth, input)
}

// Render formats markdown text wrapped to width, with every line indented by
// indentWidth spaces. Blank input renders as nil.
func Render(width, indentWidth int, input []byte) []byte {
	value := clean(string(input))
	if value == "" {
		return nil
	}
	indentWidth = max(indentWidth, 0)

	rendered := value
	if r := markdownRenderer(max(width-indentWidth, 1)); r != nil {
		if formatted, err := r.Render(value); err == nil {
			rendered = formatted
		}
	}
	return finish(internalstrings.TrimTrailingNewlines(rendered), indentWidth)
}

func clean(value string) string {
	value = internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(value))
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return value
}

func finish(value string, indentWidth int) []byte {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if indentWidth <= 0 {
		return []byte(value)
	}
	return []byte(indent.String(value, uint(indentWidth)))
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}
