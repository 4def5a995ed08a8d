package entity

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Op names a store operation in log entries.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpToggle Op = "toggle"
)

// Logger captures structured store log entries.
type Logger interface {
	Mutation(MutationLog)
	Persistence(PersistenceLog)
}

// MutationLog describes one mutation attempt. Err is set when the mutation
// was rejected (validation, not found, configuration) and nothing changed.
type MutationLog struct {
	Kind    string
	Op      Op
	ID      string
	Version uint64
	Err     error
}

// PersistenceLog describes one load or save.
type PersistenceLog struct {
	Kind     string
	Op       string
	Records  int
	Duration time.Duration
	Failures int
	Err      error
}

type noopLogger struct{}

func (noopLogger) Mutation(MutationLog)       {}
func (noopLogger) Persistence(PersistenceLog) {}

type multiLogger []Logger

// MultiLogger fans entries out to every non-nil logger.
func MultiLogger(loggers ...Logger) Logger {
	var out multiLogger
	for _, logger := range loggers {
		if logger != nil {
			out = append(out, logger)
		}
	}
	if len(out) == 0 {
		return noopLogger{}
	}
	return out
}

func (loggers multiLogger) Mutation(entry MutationLog) {
	for _, logger := range loggers {
		logger.Mutation(entry)
	}
}

func (loggers multiLogger) Persistence(entry PersistenceLog) {
	for _, logger := range loggers {
		logger.Persistence(entry)
	}
}

const consoleIndent = 4

// ConsoleLogger writes formatted log output.
type ConsoleLogger struct {
	mu          sync.Mutex
	writer      io.Writer
	headerStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewConsoleLogger builds a styled logger for interactive output.
func NewConsoleLogger(writer io.Writer) *ConsoleLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleLogger{
		writer:      writer,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Mutation logs a mutation entry.
func (logger *ConsoleLogger) Mutation(entry MutationLog) {
	if logger == nil {
		return
	}
	header := logger.headerStyle.Render(fmt.Sprintf("%s %s", entry.Kind, entry.Op))
	if entry.Err != nil {
		logger.writeBlock(header, logger.errorStyle.Render("rejected: "+entry.Err.Error()))
		return
	}
	logger.writeBlock(header, fmt.Sprintf("id %s, version %d", entry.ID, entry.Version))
}

// Persistence logs a load or save entry.
func (logger *ConsoleLogger) Persistence(entry PersistenceLog) {
	if logger == nil {
		return
	}
	header := logger.headerStyle.Render(fmt.Sprintf("%s %s", entry.Kind, entry.Op))
	if entry.Err != nil {
		logger.writeBlock(header, logger.errorStyle.Render(fmt.Sprintf("failed (%d consecutive): %v", entry.Failures, entry.Err)))
		return
	}
	logger.writeBlock(header, fmt.Sprintf("%d records in %s", entry.Records, entry.Duration.Round(time.Microsecond)))
}

func (logger *ConsoleLogger) writeBlock(header string, lines ...string) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	fmt.Fprintln(logger.writer, header)
	indent := strings.Repeat(" ", consoleIndent)
	for _, line := range lines {
		fmt.Fprintln(logger.writer, indent+line)
	}
}
