package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// sampleEvery keeps one in N events when sampling is on, enough to follow
// the confirmation poll loop's cadence without flooding output.
const sampleEvery = 5

// New builds the process logger from the runtime configuration. logFormat
// selects raw JSON or a human-readable console writer; logLevel maps
// directly onto zerolog levels. Components derive their own child loggers
// from the returned one.
func New(logLevel int, logFormat string, logSampler bool) zerolog.Logger {
	var out io.Writer = os.Stdout
	if logFormat == "console" {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	log := zerolog.New(out).
		Level(zerolog.Level(logLevel)).
		With().
		Timestamp().
		Logger()

	if logSampler {
		log = log.Sample(&zerolog.BasicSampler{N: sampleEvery})
	}
	return log
}
