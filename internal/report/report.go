// Package report provides the process-wide error sink. Components never log
// failures directly; they hand them to a Reporter which logs via zerolog and
// optionally surfaces a transient user notification.
package report

import (
	"github.com/rs/zerolog"
)

// Notifier surfaces a short transient notice to the user. Implementations
// must not block; a dropped notice is acceptable.
type Notifier interface {
	Notify(message string)
}

// Reporter is the shared failure sink.
type Reporter struct {
	Logger   zerolog.Logger
	Notifier Notifier
}

// New returns a Reporter writing to the given logger with no notifier.
func New(logger zerolog.Logger) *Reporter {
	return &Reporter{Logger: logger}
}

// Discard returns a Reporter that swallows everything. Useful default for
// callers that did not wire one.
func Discard() *Reporter {
	return &Reporter{Logger: zerolog.Nop()}
}

// Error records a failure with a short operation name for context.
func (r *Reporter) Error(op string, err error) {
	if r == nil || err == nil {
		return
	}
	r.Logger.Error().Str("op", op).Err(err).Msg("operation failed")
}

// Warn records a recoverable condition.
func (r *Reporter) Warn(op string, err error) {
	if r == nil || err == nil {
		return
	}
	r.Logger.Warn().Str("op", op).Err(err).Msg("continuing after failure")
}

// Surface records a failure and, when a notifier is wired, shows the given
// message to the user.
func (r *Reporter) Surface(op string, err error, message string) {
	if r == nil {
		return
	}
	r.Error(op, err)
	if r.Notifier != nil && message != "" {
		r.Notifier.Notify(message)
	}
}
