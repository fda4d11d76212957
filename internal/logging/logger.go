// Package logging writes leveled diagnostics to stderr, away from the report body.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Logger is the only logging surface the rest of the module sees.
type Logger interface {
	Log(level, message string, err error)
}

// LogEntry is one JSON log line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}

var levelStyles = map[string]lipgloss.Style{
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// TextLogger prints "LEVEL message: err" lines. Colors are dropped by lipgloss
// when the writer is not a terminal.
type TextLogger struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewTextLogger(writer io.Writer) *TextLogger {
	if writer == nil {
		writer = os.Stderr
	}
	return &TextLogger{writer: writer}
}

func (l *TextLogger) Log(level, message string, err error) {
	style, ok := levelStyles[level]
	if !ok {
		style = lipgloss.NewStyle()
	}

	line := fmt.Sprintf("%s %s", style.Render(fmt.Sprintf("%-5s", level)), message)
	if err != nil {
		line += errStyle.Render(": " + err.Error())
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer, line)
}

// JSONLogger prints one LogEntry per line.
type JSONLogger struct {
	mu     sync.Mutex
	writer io.Writer
	now    func() time.Time
}

func NewJSONLogger(writer io.Writer) *JSONLogger {
	if writer == nil {
		writer = os.Stderr
	}
	return &JSONLogger{writer: writer, now: time.Now}
}

func (l *JSONLogger) Log(level, message string, err error) {
	entry := LogEntry{
		Timestamp: l.now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, mErr := json.Marshal(entry)
	if mErr != nil {
		fmt.Fprintf(os.Stderr, "failed to encode log entry: %v\n", mErr)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer, string(data))
}

// Discard drops everything; used for --quiet.
type Discard struct{}

func (Discard) Log(string, string, error) {}

// New picks a logger by format name.
func New(writer io.Writer, format string) (Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return NewTextLogger(writer), nil
	case FormatJSON:
		return NewJSONLogger(writer), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}
