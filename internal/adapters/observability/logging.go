package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the service name.
// APP_ENV=dev (or development) uses a human-friendly console writer.
// An unknown or empty level falls back to info.
func NewLogger(env, level string) zerolog.Logger {
	return NewLoggerTo(os.Stdout, env, level)
}

// NewLoggerTo is NewLogger writing to w; CLIs use it to keep stdout for results.
func NewLoggerTo(w io.Writer, env, level string) zerolog.Logger {
	out := w
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "stay_finder").Logger()
}
