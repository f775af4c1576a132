package utils

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger provides leveled, timestamped logging throughout the application.
// Messages use a "[component] ..." prefix by convention.
type Logger struct {
	base *charmlog.Logger
}

// NewLogger creates an info-level Logger writing to stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stderr, "info")
}

// NewLoggerTo creates a Logger writing to w at the given level. Unknown
// levels fall back to info.
func NewLoggerTo(w io.Writer, level string) *Logger {
	base := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           parseLevel(level),
	})
	return &Logger{base: base}
}

// NewDiscardLogger returns a Logger that drops everything. Used in tests.
func NewDiscardLogger() *Logger {
	return NewLoggerTo(io.Discard, "error")
}

// SetLevel changes the minimum level that is written.
func (l *Logger) SetLevel(level string) {
	l.base.SetLevel(parseLevel(level))
}

func (l *Logger) Info(format string, args ...any) {
	l.base.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.base.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.base.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.base.Debugf(format, args...)
}

func parseLevel(level string) charmlog.Level {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return charmlog.InfoLevel
	}
	return lvl
}
