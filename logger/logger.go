// Package logger configures the global zerolog logger from the common preset.
// LOG_LEVEL selects the minimum level and NODE_ENV=development switches to a
// human-readable console writer.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a LOG_LEVEL value to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch name {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, errors.Errorf("unknown log level %q", name)
	}
}

// Configure sets the global level and installs a logger writing to stderr.
func Configure(s preset.CommonSettings) error {
	return ConfigureOutput(s, os.Stderr)
}

// ConfigureOutput is Configure with an explicit destination.
func ConfigureOutput(s preset.CommonSettings, w io.Writer) error {
	level, err := ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = New(s, w)
	return nil
}

// New returns a logger for s without touching global state.
func New(s preset.CommonSettings, w io.Writer) zerolog.Logger {
	if s.IsDevelopment() {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	l := zerolog.New(w).With().Timestamp().Str("env", s.Environment).Logger()
	if level, err := ParseLevel(s.LogLevel); err == nil {
		l = l.Level(level)
	}
	return l
}
