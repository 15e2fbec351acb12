package drift

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is the package logger. Warnings are the pipeline's only failure
// surface (nothing on the frame path returns an error or panics), so the
// default sink is stderr at warn level.
var logger = zerolog.New(os.Stderr).With().Timestamp().Str("lib", "drift").Logger().Level(zerolog.WarnLevel)

// SetLogger replaces the package logger. Hosts that want registry warnings
// and controller lifecycle events in their own log stream call this once at
// startup.
func SetLogger(l zerolog.Logger) {
	logger = l
}
