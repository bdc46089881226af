// Package zlog wires the process-wide zerolog logger the way cmd/gatewayd wants it:
// a human-readable console writer during development, unix-time timestamps so log
// lines stay diffable across runs.
package zlog

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Call once at process startup.
func Init(level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
