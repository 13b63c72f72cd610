// Package logging builds the process logger: a console writer for
// interactive use, a file writer when one is configured.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/plasmalab/limsctl/internal/config"
)

const logFilePermission = 0o644

// New builds a logger from the log configuration. The returned closer
// releases the log file and is a no-op for console logging.
func New(cfg config.Log) (zerolog.Logger, func(), error) {
	noop := func() {}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Path != "" {
		file, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermission)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		logger := zerolog.New(zerolog.SyncWriter(file)).Level(level).With().Timestamp().Logger()
		return logger, func() { _ = file.Close() }, nil
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    cfg.NoColor,
		TimeFormat: time.Kitchen,
	}
	logger := zerolog.New(console).Level(level).With().Timestamp().Logger()
	return logger, noop, nil
}

// Component tags a child logger with the subsystem it serves.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
