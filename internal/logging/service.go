package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceLogger returns the global logger tagged with a service name.
func ServiceLogger(service string) zerolog.Logger {
	return log.With().Str("service", service).Logger()
}

// WithSource tags a logger with the capture source it is working on.
func WithSource(base zerolog.Logger, source string) zerolog.Logger {
	return base.With().Str("source", source).Logger()
}
