// Package logger provides leveled logging for the court case fetcher.
// A Logger is constructed once at start-up and handed to the components that
// log; there is no package-level logger.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Level is a logging severity.
type Level int

// Levels, least severe first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level's tag.
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
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel accepts debug, info, warn/warning and error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// sink is shared by a logger and everything derived from it with With.
type sink struct {
	mu         sync.Mutex
	out        io.Writer
	level      Level
	timestamps bool
	now        func() time.Time
}

// Logger writes "[LEVEL] message" lines at or above its level.
type Logger struct {
	sink      *sink
	component string
}

// Option configures a Logger.
type Option func(*sink)

// WithTimestamps prefixes every line with an RFC 3339 timestamp.
func WithTimestamps() Option {
	return func(s *sink) { s.timestamps = true }
}

// New creates a logger writing to w.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	s := &sink{out: w, level: level, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return &Logger{sink: s}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, LevelError+1)
}

// With returns a logger that tags lines with component.
// Level changes on either logger affect both.
func (l *Logger) With(component string) *Logger {
	return &Logger{sink: l.sink, component: component}
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return level >= l.sink.level
}

// Debug logs a message useful when tracing the pipeline.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a recoverable problem.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs a failure.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Section prints a section header when debug logging is enabled.
func (l *Logger) Section(name string) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level <= LevelDebug {
		fmt.Fprintf(s.out, "\n=== %s ===\n", name)
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if level < s.level {
		return
	}

	var b strings.Builder
	if s.timestamps {
		b.WriteString(s.now().Format(time.RFC3339))
		b.WriteByte(' ')
	}
	b.WriteString("[" + level.String() + "] ")
	if l.component != "" {
		b.WriteString(l.component + ": ")
	}
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')

	io.WriteString(s.out, b.String()) //nolint:errcheck
}
