// Package logger provides the structured logger used by the scpi command and
// the batch runner. The scpi library itself never logs.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	console "github.com/phsym/console-slog"
)

// Logger defines the logging calls used across the command layer.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// With creates a child logger and adds structured context to it.
	With(keysAndValues ...any) Logger
	Level() slog.Level
	SetLevel(level slog.Level)
}

// Format selects the handler used to render records.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseFormat accepts "console" or "json", case-insensitively.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(s)) {
	case FormatConsole:
		return FormatConsole, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return "", false
	}
}

type slogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

var _ Logger = (*slogLogger)(nil)

// New returns a Logger writing to w at the given level.
func New(w io.Writer, format Format, level slog.Level) Logger {
	lv := &slog.LevelVar{}
	lv.Set(level)

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lv,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					a.Key = "ts"
				}
				return a
			},
		})
	} else {
		handler = console.NewHandler(w, &console.HandlerOptions{Level: lv})
	}

	return &slogLogger{logger: slog.New(handler), level: lv}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return New(io.Discard, FormatJSON, slog.LevelError+4)
}

func (l *slogLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *slogLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *slogLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *slogLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *slogLogger) With(keysAndValues ...any) Logger {
	return &slogLogger{logger: l.logger.With(keysAndValues...), level: l.level}
}

func (l *slogLogger) Level() slog.Level {
	return l.level.Level()
}

func (l *slogLogger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

var defLogger = New(os.Stderr, FormatConsole, slog.LevelWarn)

// Default returns the process-wide logger.
func Default() Logger {
	return defLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l Logger) {
	defLogger = l
}
