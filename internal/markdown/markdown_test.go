package markdown

import (
	"strings"
	"testing"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20

	rendererMu.Lock()
	prev, hadPrev := renderers[renderWidth]
	renderers[renderWidth] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[renderWidth] = prev
		} else {
			delete(renderers, renderWidth)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(renderWidth, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRender_FormatsMarkdown(t *testing.T) {
	out := string(Render(40, 2, []byte("# Ada\n\n- go\n- sql\n")))

	if !strings.Contains(out, "Ada") {
		t.Fatalf("expected heading text, got %q", out)
	}
	if !strings.Contains(out, "- go") || !strings.Contains(out, "- sql") {
		t.Fatalf("expected list items, got %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "  ") {
			t.Fatalf("expected every line indented, got %q", line)
		}
	}
}

func TestRender_Blank(t *testing.T) {
	if out := Render(40, 0, []byte(" \n\n")); out != nil {
		t.Fatalf("expected nil for blank input, got %q", out)
	}
}
