// Package logger provides the process-wide zerolog logger.
package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	once          sync.Once
)

// Init initializes the default logger. It writes human-readable output to
// stderr when attached to a terminal and JSON otherwise, and is safe to call
// more than once.
func Init(level string) {
	once.Do(func() {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil || level == "" {
			lvl = zerolog.InfoLevel
		}

		var w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		defaultLogger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	})
}

// Get returns the initialized default logger, initializing it at info level
// if Init has not been called yet.
func Get() zerolog.Logger {
	Init("")
	return defaultLogger
}

// With returns a logger with a component field attached.
func With(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}
