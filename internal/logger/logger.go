// Package logger wraps zerolog with the level and format vocabulary used
// by the finder CLI and configuration.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarn    = "warn"
	LevelWarning = "warning"
	LevelError   = "error"

	// ContextKeyRunID carries the catalog run id through a build.
	ContextKeyRunID contextKey = "runID"
)

// Levels lists the accepted level names.
var Levels = []string{LevelDebug, LevelInfo, LevelWarn, LevelWarning, LevelError}

// Formats lists the accepted output formats.
var Formats = []string{FormatConsole, FormatJSON}

type Logger struct {
	zerolog.Logger
}

// New logs to stderr so command output on stdout stays machine-readable.
func New(level, format string) Logger {
	return NewWithWriter(level, format, os.Stderr)
}

func NewWithWriter(level, format string, w io.Writer) Logger {
	var logger zerolog.Logger
	if strings.ToLower(format) == FormatJSON {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	logger = logger.Level(ParseLevel(level)).With().Timestamp().Logger()

	return Logger{Logger: logger}
}

// ParseLevel maps a level name to a zerolog level; unknown names give info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn, LevelWarning:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether level is one of Levels.
func ValidLevel(level string) bool {
	l := strings.ToLower(level)
	for _, v := range Levels {
		if v == l {
			return true
		}
	}
	return false
}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	f := strings.ToLower(format)
	return f == FormatConsole || f == FormatJSON
}

// WithContext returns a logger annotated with the run id and the active
// span, when present.
func (l Logger) WithContext(ctx context.Context) zerolog.Logger {
	logger := l.Logger

	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok && runID != "" {
		logger = logger.With().Str("run_id", runID).Logger()
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}
