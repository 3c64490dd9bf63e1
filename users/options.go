package users

import (
	"time"

	"github.com/botwright/teleflow/flow"
)

type settings struct {
	start  string
	prefix string
	ttl    time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{
		start:  flow.StateStart,
		prefix: "teleflow:user:",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option adjusts store construction defaults.
type Option func(*settings)

// WithStartState overrides the state assigned to records created on first contact.
func WithStartState(state string) Option {
	return func(s *settings) {
		if state != "" {
			s.start = state
		}
	}
}

// WithKeyPrefix overrides the Redis key prefix. Other backends ignore it.
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL sets the Redis record expiry so idle conversations restart from the
// start state. Zero keeps records forever. Other backends ignore it.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}
