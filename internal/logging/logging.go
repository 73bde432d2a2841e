package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the minimum severity a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string onto a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a leveled key/value logger that writes to the console.
type Logger struct {
	*log.Logger
	level Level
}

// NewLogger creates a new Logger writing to stdout at info level.
func NewLogger() *Logger {
	return New(os.Stdout, LevelInfo)
}

// New creates a Logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.emit(LevelDebug, "DEBUG", msg, args)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.emit(LevelInfo, "INFO", msg, args)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, args ...any) {
	l.emit(LevelWarn, "WARN", msg, args)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.emit(LevelError, "ERROR", msg, args)
}

func (l *Logger) emit(level Level, tag, msg string, args []any) {
	if level < l.level {
		return
	}
	var b strings.Builder
	b.WriteString(tag)
	b.WriteString(": ")
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		b.WriteByte(' ')
		if i+1 >= len(args) {
			fmt.Fprintf(&b, "!BADKEY=%v", args[i])
			break
		}
		fmt.Fprintf(&b, "%v=%s", args[i], formatValue(args[i+1]))
	}
	l.Print(b.String())
}

func formatValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\n\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
