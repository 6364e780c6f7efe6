package vfs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a logger instance with the given level and output,
// tagged so its lines can be told apart from the host application's own
// logging when both share a writer.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("lib", "govfs").
		Logger()
}

// LogLevelFromString parses a case-insensitive level name, as accepted by
// the vfsctl --log-level flag.
func LogLevelFromString(levelStr string) (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(levelStr))
}

// DefaultLogger returns this module's out-of-the-box logger: warn level,
// stderr output. Used to seed the package-internal default and available to
// callers that want to fall back to it explicitly after a failed
// LogLevelFromString.
func DefaultLogger() zerolog.Logger {
	return NewLogger(os.Stderr, zerolog.WarnLevel)
}

// log is the package-internal default logger used for routing decisions and
// degraded-path diagnostics. It never logs above Debug from a successful
// call; SetLogger lets a host application (typically cmd/vfsctl) redirect it.
var log = DefaultLogger()

// SetLogger replaces the package-internal logger, e.g. to raise verbosity or
// redirect output. Safe to call once at process startup; it is not
// synchronized against concurrent facade calls, matching the "configure
// once, then use" convention of the rest of the ambient stack.
func SetLogger(l zerolog.Logger) {
	log = l
}
