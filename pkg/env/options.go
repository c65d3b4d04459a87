package env

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Option customises Validate.
type Option func(*options)

type options struct {
	logErrors    bool
	throwOnError bool
	useDefaults  bool
	logger       *zerolog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		logErrors:    true,
		throwOnError: true,
		useDefaults:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) log() *zerolog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return &log.Logger
}

// LogErrors controls whether diagnostics are logged on failure. Enabled by default.
func LogErrors(enabled bool) Option {
	return func(o *options) { o.logErrors = enabled }
}

// ThrowOnError controls whether a failed validation is returned as a
// *ValidationError. When disabled, Validate returns a failed Result instead.
// Enabled by default.
func ThrowOnError(enabled bool) Option {
	return func(o *options) { o.throwOnError = enabled }
}

// UseDefaults controls whether declared defaults replace absent variables.
// Enabled by default.
func UseDefaults(enabled bool) Option {
	return func(o *options) { o.useDefaults = enabled }
}

// WithLogger sends diagnostics to l instead of the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}
