// Package logging builds the zerolog logger shared by the server and the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// FormatFor returns the console format in development and JSON elsewhere.
func FormatFor(appEnv string) Format {
	switch strings.ToLower(appEnv) {
	case "", "dev", "development", "local":
		return FormatConsole
	default:
		return FormatJSON
	}
}

// New returns a logger writing to w (stderr when nil). Unknown level names
// fall back to info.
func New(w io.Writer, format Format, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "vtag").Logger()
}
