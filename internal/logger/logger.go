package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Development gets a human console writer at
// debug level; everything else emits JSON at info.
func New(environment string) zerolog.Logger {
	var logger zerolog.Logger
	if environment == "development" {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(writer).Level(zerolog.DebugLevel)
	} else {
		logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel)
	}
	return logger.With().
		Timestamp().
		Str("service", "hms-analytics").
		Logger()
}
