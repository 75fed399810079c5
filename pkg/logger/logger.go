// Package logger configures the process-wide zerolog logger. Packages log
// through the zerolog global; Setup is called once at startup.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Pretty switches to the human-readable console writer for local runs;
	// the default is JSON lines.
	Pretty bool
}

// Setup installs the global logger. Unknown levels fall back to info rather
// than failing startup.
func Setup(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(os.Stdout)
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	log.Logger = logger.With().Timestamp().Caller().Logger()
}
