// Package logging builds the zerolog loggers handed to every component.
// Logs go to stderr so they never interleave with the report on stdout.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config contains logger configuration.
type Config struct {
	// Level sets the logging level (trace, debug, info, warn, error).
	Level string
	// Pretty enables human-readable console output.
	Pretty bool
	// Output sets the output writer (defaults to os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Pretty: true,
		Output: os.Stderr,
	}
}

// New creates a new zerolog logger with the given configuration.
// An unknown level falls back to warn.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewWithComponent creates a logger with a component field for structured logging.
func NewWithComponent(cfg Config, component string) zerolog.Logger {
	return New(cfg).With().Str("component", component).Logger()
}
