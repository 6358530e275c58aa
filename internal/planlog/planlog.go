// Package planlog provides mimir-go's structured-logging helpers,
// built on zerolog: loggers are plain values handed to whoever logs
// rather than a global, with zerolog.Nop() as the silent default. No
// other package of this module imports planlog.
package planlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Nop is a logger that discards every event, the default a caller
// gets by leaving a *zerolog.Logger field unset.
func Nop() zerolog.Logger { return zerolog.Nop() }

// New returns a console-formatted logger writing to w at the given
// level, for callers (CLIs, test harnesses) that do want output.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// Default returns a human-readable logger writing to stderr at info
// level, for command-line programs.
func Default() zerolog.Logger {
	return New(os.Stderr, zerolog.InfoLevel)
}

// GroundingFields returns a sub-logger tagged with grounding-phase
// context, so log lines from the grounder can be filtered without the
// grounder itself needing to know about a logging sink.
func GroundingFields(base zerolog.Logger, domain, problem string) zerolog.Logger {
	return base.With().Str("component", "grounding").Str("domain", domain).Str("problem", problem).Logger()
}

// SearchFields returns a sub-logger tagged with search-phase context.
func SearchFields(base zerolog.Logger, heuristic string) zerolog.Logger {
	return base.With().Str("component", "search").Str("heuristic", heuristic).Logger()
}
