// Package logger provides a simple logging interface for farmq components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Level controls which messages a writer logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// writerLogger implements Logger over an io.Writer with a minimum level.
// Diagnostics go to stderr in practice so they never mix with table output.
type writerLogger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix string
}

// New creates a logger writing to out, discarding messages below level.
// The prefix is prepended to all log messages (e.g., "[sched]").
func New(out io.Writer, level Level, prefix string) Logger {
	return &writerLogger{out: out, level: level, prefix: prefix}
}

// NewStderr creates a logger writing to stderr at the given level.
// FARMQ_DEBUG in the environment forces the level down to debug.
func NewStderr(level Level, prefix string) Logger {
	if os.Getenv("FARMQ_DEBUG") != "" && level > LevelDebug {
		level = LevelDebug
	}
	return New(os.Stderr, level, prefix)
}

func (l *writerLogger) log(level Level, tag, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prefix != "" {
		fmt.Fprintf(l.out, "%s ", l.prefix)
	}
	if tag != "" {
		fmt.Fprintf(l.out, "%s: ", tag)
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *writerLogger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, "", format, args...)
}

func (l *writerLogger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, "", format, args...)
}

func (l *writerLogger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, "WARN", format, args...)
}

func (l *writerLogger) Error(format string, args ...interface{}) {
	l.log(LevelError, "ERROR", format, args...)
}

// noopLogger implements Logger but discards all messages.
// Useful for testing or when logging is not desired.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// Exported for use in test assertions.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}
