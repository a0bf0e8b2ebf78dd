// Package logging provides structured logging for swebatch built on
// zerolog. It owns logger construction, component tagging, and the
// trace-ID plumbing carried through command contexts.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output formats supported by New.
const (
	// FormatConsole renders human-readable output on stderr.
	FormatConsole = "console"

	// FormatJSON renders one JSON event per line on stderr.
	FormatJSON = "json"
)

// logFilePerm is the permission used when creating log files.
const logFilePerm = 0o600

// Config describes how the application logger should be constructed.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Unparseable
	// values fall back to info.
	Level string

	// Format selects console or JSON output. Defaults to console.
	Format string

	// File, when non-empty, additionally appends events to this path.
	File string
}

// New builds a zerolog logger from cfg. The returned closer releases
// the log file handle when file output is enabled and is a no-op
// otherwise.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	switch cfg.Format {
	case FormatJSON:
		writers = append(writers, os.Stderr)
	default:
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	closeFn := func() error { return nil }

	if cfg.File != "" {
		logFile, fileErr := os.OpenFile(
			cfg.File,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			logFilePerm,
		)
		if fileErr != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", cfg.File, fileErr)
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

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
