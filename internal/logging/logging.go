package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns the console logger used by every command. Without verbose
// only errors get through, so warnings about skipped or upscaled assets
// stay silent unless -v is given.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).
		Level(level).
		With().
		Str("component", "favicongen").
		Logger()
}

// Logger aliases zerolog.Logger so packages can accept one without
// importing zerolog themselves.
type Logger = zerolog.Logger

// Nop returns a logger that discards everything.
func Nop() Logger { return zerolog.Nop() }
