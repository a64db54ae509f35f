// Package logger provides structured logging for the extractor
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with extractor-specific helpers
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // none, error, warn, information (info), debug
	Pretty     bool   // console output for interactive runs
	Output     io.Writer
	WithCaller bool
}

// ParseLevel maps a configured level name to a zerolog level.
// Unknown names fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "none", "off", "disabled":
		return zerolog.Disabled
	case "error":
		return zerolog.ErrorLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "debug":
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// New creates a new structured logger
func New(cfg Config) *Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(output).With().Timestamp().Str("service", "filing_extract").Logger()
	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}
	return &Logger{zlog: zlog}
}

// Init creates a logger and installs it as the global zerolog logger, which
// the core packages log through.
func Init(cfg Config) *Logger {
	l := New(cfg)
	log.Logger = l.zlog
	return l
}

// Zerolog returns the underlying zerolog logger
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// WithRunID tags every entry with the batch run id
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("run_id", id).Logger()}
}

// WithFiling returns a logger for one submission file
func (l *Logger) WithFiling(fileName string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("file", fileName).Logger()}
}

// DbLogger returns a logger for database operations
func (l *Logger) DbLogger(operation string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "database").
			Str("operation", operation).
			Logger(),
	}
}

// Info starts an info level entry
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Debug starts a debug level entry
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn starts a warning entry
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Error starts an error entry
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// LogDbOperation logs database operation with structured fields
func (l *Logger) LogDbOperation(operation string, duration time.Duration, rows int, err error) {
	db := l.DbLogger(operation).zlog
	event := db.Debug()
	if err != nil {
		event = db.Error().Err(err)
	}
	event.Dur("duration_ms", duration).
		Int("rows", rows).
		Msg("database operation completed")
}
