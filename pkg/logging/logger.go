// Package logging holds the zerolog setup shared by the bibmerge library and
// command line tool.
//
// Library code logs through the logger carried by its context and falls back
// to the process default. The CLI replaces the default once flags are parsed:
//
//	logging.SetDefault(logging.NewLoggerFromConfig(&logging.Config{Level: "debug"}))
//	logging.FromContext(logging.WithFile(ctx, "refs/a.bib")).Debug().Msg("Parsed file")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables read for the default logger before any flags apply.
const (
	EnvLevel  = "BIBMERGE_LOG_LEVEL"
	EnvFormat = "BIBMERGE_LOG_FORMAT"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	SetDefault(NewLoggerFromConfig(configFromEnv()))
}

// configFromEnv describes the default logger. DEBUG is honoured when no
// level is set.
func configFromEnv() *Config {
	cfg := DefaultConfig()
	if level := os.Getenv(EnvLevel); level != "" {
		cfg.Level = level
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if format := os.Getenv(EnvFormat); format != "" {
		cfg.Format = format
	}
	return cfg
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return current.Load()
}

// SetDefault replaces the process-wide logger and zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	current.Store(&logger)
	log.Logger = logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
