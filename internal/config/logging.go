package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger on stdout and installs it as the
// global zerolog logger.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	logger := NewLoggerTo(os.Stdout, cfg)
	log.Logger = logger
	return logger
}

// NewLoggerTo builds a logger writing to out. Unknown levels fall back to info.
func NewLoggerTo(out io.Writer, cfg LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "eventhub").Logger()
}
