// Package applog centralizes zerolog construction so every binary logs the
// same shape of record.
//
// Grounded in adred-codev-ws_poc/ws/internal/shared/monitoring/logger.go and
// go-server-3/internal/logging/logging.go, both of which wrap a single
// constructor switching between a pretty console writer (dev) and raw JSON
// (prod) based on an env-sourced level/format pair.
package applog

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger for component (e.g. "gateway-3", "handler-0").
//
// format "pretty" uses zerolog.ConsoleWriter (colored, human-readable);
// anything else emits newline-delimited JSON to stdout, suitable for
// container log collection.
func New(component, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writer zerolog.ConsoleWriter
	logger := zerolog.New(os.Stdout)

	if strings.EqualFold(format, "pretty") {
		writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
		logger = zerolog.New(writer)
	}

	return logger.
		Level(lvl).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}
