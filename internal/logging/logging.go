package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Package logging configures the structured JSON logger shared by every component.
// Each line is one JSON object with "ts" rendered in the application timezone.

// New returns a JSON logger writing to w. Timestamps are rendered in loc using RFC3339Nano.
func New(w io.Writer, loc *time.Location, level string) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Default returns a stdout logger at info level in UTC.
func Default() zerolog.Logger {
	return New(os.Stdout, time.UTC, "info")
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
