package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the zerolog logger with the specified level and output format.
// Unknown levels fall back to info.
func InitLogger(level string, human bool) {
	InitLoggerTo(os.Stderr, level, human)
}

// InitLoggerTo is InitLogger writing to out.
func InitLoggerTo(out io.Writer, level string, human bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano             // always initialize base logger with timestamp.
	base := zerolog.New(out).With().Timestamp().Logger() // initialize base logger.
	if human {
		log.Logger = base.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339Nano,
		}) // select output format.
	} else {
		log.Logger = base // use JSON logger.
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// LogCacheLookup logs the outcome of a fingerprint lookup with structured fields.
func LogCacheLookup(runID, fingerprint string, hit bool, discovered int) {
	event := "cache_miss"
	if hit {
		event = "cache_hit"
	}

	log.Debug().
		Str("event", event).
		Str("run_id", runID).
		Str("fingerprint", fingerprint).
		Int("discovered", discovered).
		Msg("plugin configuration lookup")
}

// LogPluginActivated logs an activated plugin with structured fields.
func LogPluginActivated(runID, name, entryPoint string) {
	log.Info().
		Str("event", "plugin_activated").
		Str("run_id", runID).
		Str("plugin", name).
		Str("entry_point", entryPoint).
		Msg("plugin activated")
}

// LogInitialized logs the end of a loader run with structured fields.
func LogInitialized(runID string, discovered, activated int, hit bool, took time.Duration) {
	log.Info().
		Str("event", "plugins_initialized").
		Str("run_id", runID).
		Int("discovered", discovered).
		Int("activated", activated).
		Bool("cache_hit", hit).
		Dur("duration", took).
		Msg("plugins initialized")
}
