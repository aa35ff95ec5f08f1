package contract

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger for diagnostics written to w.
// Verbose enables debug events; otherwise only warnings and above are emitted.
func NewLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !verbose}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
