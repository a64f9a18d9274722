// Package logger provides structured logging using zerolog
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

// Config controls the global logger
type Config struct {
	Level   string `yaml:"level"`
	Debug   bool   `yaml:"debug"`
	Output  string `yaml:"output"`  // stderr (default) or stdout
	Console bool   `yaml:"console"` // human-readable output instead of JSON
}

func init() {
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init replaces the global logger. Output defaults to stderr so the
// topology document can go to stdout.
func Init(config Config) error {
	return InitWriter(config, nil)
}

// InitWriter is Init with an explicit writer; a nil writer uses config.Output
func InitWriter(config Config, w io.Writer) error {
	output := w
	if output == nil {
		output = os.Stderr
		if config.Output == "stdout" {
			output = os.Stdout
		}
	}
	if config.Console {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return err
		}
	}

	globalLogger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = globalLogger

	return nil
}

// GetLogger returns the global logger
func GetLogger() zerolog.Logger {
	return globalLogger
}

// WithComponent returns a child logger tagged with a component name
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// Nop returns a logger that discards everything, for tests and library use
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
