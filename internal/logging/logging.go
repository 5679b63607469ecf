// Package logging builds the zerolog loggers used across ecstour.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level and format of a logger.
type Options struct {
	Level  string
	Pretty bool
	Out    io.Writer
}

// New creates a logger writing to opts.Out (stdout when nil). Unknown levels
// fall back to info.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	writer := out
	if opts.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
