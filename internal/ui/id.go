package ui

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/amonks/flowstate/internal/ids"
)

const (
	ansiBold  = "\x1b[1m"
	ansiCyan  = "\x1b[36m"
	ansiReset = "\x1b[0m"
)

// HighlightID returns an ID with its unique prefix highlighted when stdout
// is a terminal.
func HighlightID(id string, prefixLen int) string {
	return highlightID(id, prefixLen, ansiEnabled(os.Stdout))
}

func highlightID(id string, prefixLen int, enabled bool) string {
	if id == "" {
		return id
	}

	if prefixLen <= 0 || prefixLen > len(id) {
		return id
	}

	if !enabled {
		return id
	}

	prefix := id[:prefixLen]
	suffix := id[prefixLen:]
	return ansiBold + ansiCyan + prefix + ansiReset + suffix
}

// ansiEnabled reports whether w is a terminal that accepts escape codes.
func ansiEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// UniqueIDPrefixLengths returns the shortest unique prefix length for each ID.
func UniqueIDPrefixLengths(idList []string) map[string]int {
	return ids.UniquePrefixLengths(idList)
}

// PrefixLength looks up id in lengths, ignoring case. Missing IDs report 0.
func PrefixLength(lengths map[string]int, id string) int {
	if lengths == nil || id == "" {
		return 0
	}
	return lengths[strings.ToLower(id)]
}
