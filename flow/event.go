package flow

import "context"

// Kind classifies an inbound event by the transport feature that produced it.
type Kind string

const (
	KindText     Kind = "text"
	KindCommand  Kind = "command"
	KindPhoto    Kind = "photo"
	KindLocation Kind = "location"
	KindCallback Kind = "callback"

	// KindPass marks the synthetic event the dispatcher fabricates between
	// pass-through hops. It carries only the user id.
	KindPass Kind = "pass"
)

// Event is a transport-agnostic inbound user event. Text holds the message
// text or caption for text, command and photo events; Data holds the
// event-specific payload: a callback payload, a photo file id, or a location
// encoded by the transport binding.
type Event struct {
	Kind   Kind
	Sender Profile
	Text   string
	Data   string
}

// Signal returns the raw string the trigger resolver matches patterns
// against: the message text for text and command events, the callback
// payload for callback events, and a reserved sentinel for the rest.
func (e *Event) Signal() string {
	switch e.Kind {
	case KindPhoto:
		return TriggerPhoto
	case KindLocation:
		return TriggerLocation
	case KindCallback:
		return e.Data
	case KindPass:
		return TriggerPassThrough
	}
	return e.Text
}

// Replier is the outbound capability a transport binding lends to a dispatch
// so transition callbacks can answer the user. The what and opts values are
// passed through to the binding untouched.
type Replier interface {
	Send(ctx context.Context, userID int64, what any, opts ...any) error
}

// ReplierFunc adapts a function to the Replier interface.
type ReplierFunc func(ctx context.Context, userID int64, what any, opts ...any) error

// Send calls f.
func (f ReplierFunc) Send(ctx context.Context, userID int64, what any, opts ...any) error {
	return f(ctx, userID, what, opts...)
}
