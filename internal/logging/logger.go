// Package logging provides the leveled, field-based logger used across wordsim.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config string into a Level. Unknown values map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// Logger is the logging interface components depend on.
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
	WithPrefix(prefix string) Logger
}

// StandardLogger writes through the standard log package.
type StandardLogger struct {
	prefix string
	level  Level
	out    *log.Logger
}

// New creates a StandardLogger writing to stderr.
func New(prefix string, level Level) *StandardLogger {
	return NewWithWriter(os.Stderr, prefix, level)
}

// NewWithWriter creates a StandardLogger writing to w.
func NewWithWriter(w io.Writer, prefix string, level Level) *StandardLogger {
	return &StandardLogger{
		prefix: prefix,
		level:  level,
		out:    log.New(w, "", log.LstdFlags),
	}
}

func (l *StandardLogger) Debug(msg string, fields Fields) { l.log(LevelDebug, msg, fields) }
func (l *StandardLogger) Info(msg string, fields Fields)  { l.log(LevelInfo, msg, fields) }
func (l *StandardLogger) Warn(msg string, fields Fields)  { l.log(LevelWarn, msg, fields) }
func (l *StandardLogger) Error(msg string, fields Fields) { l.log(LevelError, msg, fields) }

// WithPrefix returns a logger sharing the output and level with a new prefix.
func (l *StandardLogger) WithPrefix(prefix string) Logger {
	return &StandardLogger{prefix: prefix, level: l.level, out: l.out}
}

func (l *StandardLogger) log(level Level, msg string, fields Fields) {
	if level < l.level {
		return
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("]")
	if l.prefix != "" {
		b.WriteString(" [")
		b.WriteString(l.prefix)
		b.WriteString("]")
	}
	b.WriteString(" ")
	b.WriteString(msg)
	b.WriteString(formatFields(fields))
	l.out.Println(b.String())
}

func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, Fields)      {}
func (Nop) Info(string, Fields)       {}
func (Nop) Warn(string, Fields)       {}
func (Nop) Error(string, Fields)      {}
func (n Nop) WithPrefix(string) Logger { return n }
