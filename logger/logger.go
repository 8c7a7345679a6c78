// Package logger configures the process-wide zerolog output and hands
// out per-component subloggers.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	level := zerolog.InfoLevel
	if _, debug := os.LookupEnv("DEBUG"); debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// New returns a sublogger tagged with the component name, so log lines
// can be traced back to the tool, agent, or client that wrote them.
func New(component string) zerolog.Logger {
	if component == "" {
		component = "service"
	}
	return log.With().
		Str("component", component).
		Logger()
}
