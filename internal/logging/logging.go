// Package logging builds the zerolog logger shared by the CLI and the MCP server.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at level. Unknown levels fall back to
// info. In stdio mode stdout carries the MCP protocol, so logs are JSON on
// stderr and are dropped entirely unless debug is enabled.
func New(level string, stdio bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, stdio)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, stdio bool) zerolog.Logger {
	lvl := ParseLevel(level)

	if stdio {
		if lvl > zerolog.DebugLevel {
			return zerolog.Nop()
		}
		return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}

// ParseLevel maps debug, info, warn and error to zerolog levels.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
