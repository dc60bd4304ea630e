// Package logging provides leveled, structured logging for tokdump.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLogLevel parses a string into a LogLevel.
// Unknown names map to LogLevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// ValidLogLevel reports whether s names a known level.
func ValidLogLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level LogLevel
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is attached to every entry as the "logger" field.
	Prefix string
	// JSON selects JSON lines instead of console formatting.
	JSON bool
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "tokdump",
	}
}

// Logger provides structured logging.
// Derived loggers (WithField, WithComponent) share the output.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: "2006-01-02T15:04:05.000",
		}
	}

	ctx := zerolog.New(out).Level(cfg.Level.zerolog()).With().Timestamp()
	if cfg.Prefix != "" {
		ctx = ctx.Str("logger", cfg.Prefix)
	}
	return &Logger{zl: ctx.Logger()}
}

// NullLogger is a logger that discards all output.
var NullLogger = &Logger{zl: zerolog.Nop()}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(l.zl.Debug(), msg, args)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(l.zl.Info(), msg, args)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(l.zl.Warn(), msg, args)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(l.zl.Error(), msg, args)
}

// Err logs err at error level with msg.
func (l *Logger) Err(err error, msg string) {
	l.zl.Err(err).Msg(msg)
}

func (l *Logger) log(e *zerolog.Event, msg string, args []any) {
	if len(args) > 0 {
		e.Msgf(msg, args...)
		return
	}
	e.Msg(msg)
}
