// Package logging provides zerolog-based structured logging for the CLI.
// A logger is attached to the command context at startup; packages retrieve
// it with FromContext and tag their events with ComponentLogger.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Unparseable
	// values fall back to info.
	Level string
	// Format is "console" or "json". Console is the default.
	Format string
	// File, when non-empty, receives a copy of all log output in
	// addition to stderr.
	File string
}

const formatJSON = "json"

// New builds a logger from cfg. Console output goes to stderr; when
// cfg.File is set the file is opened in append mode and logs are
// duplicated there. The returned close function releases the file
// handle (it is a no-op when no file is in use).
func New(cfg Config) (zerolog.Logger, func() error, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var console io.Writer
	if cfg.Format == formatJSON {
		console = os.Stderr
	} else {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	closeFn := func() error { return nil }

	if cfg.File != "" {
		logFile, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if openErr != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("opening log file: %w", openErr)
		}
		writers = append(writers, logFile)
		closeFn = logFile.Close
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return logger, closeFn, nil
}

// ComponentLogger returns a child logger tagged with a component field.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger attached to ctx, or a disabled logger
// when none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx for retrieval via FromContext.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}
