package session

import (
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/jcore/compiler"
	"github.com/deepnoodle-ai/jcore/options"
)

// Option describes a function used to configure a Session.
type Option func(*Session)

// WithOptions sets the diagnostic and code generation options.
func WithOptions(opts options.Options) Option {
	return func(s *Session) {
		s.opts = opts
	}
}

// WithLogger sets the logger. Entries carry the session ID and, where one
// applies, the unit and method names. Sessions log nothing by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithObserver attaches an emission observer to every method the session
// emits, in addition to the debug table synthesizer.
func WithObserver(f compiler.ObserverFactory) Option {
	return func(s *Session) {
		s.observe = f
	}
}

// WithID sets the session ID instead of generating a random one.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		s.id = id
	}
}
