package flow

import "context"

// Action is a side-effecting callback run while a transition fires or a
// state is entered or left. A non-nil error aborts the dispatch before the
// new state is persisted.
type Action func(*Context) error

// Guard is a predicate consulted before a transition fires. Guards must not
// mutate the user record.
type Guard func(*Context) bool

// Context is the working set of one dispatch chain, handed to every guard
// and action. It is created by the dispatcher, lives for the duration of the
// chain including pass-through hops, and must not be retained afterwards.
type Context struct {
	// Event is the inbound event being dispatched. During pass-through hops
	// it is replaced by a synthetic KindPass event.
	Event *Event

	// User is the persisted record bound to this chain. Callbacks may adjust
	// its profile fields; State is owned by the engine.
	User *User

	ctx context.Context
	rep Replier
	hop int
}

// Context returns the context.Context the dispatch was started with.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Hop returns the zero-based position of the current firing within the
// dispatch chain. The initial inbound event is hop 0.
func (c *Context) Hop() int { return c.hop }

// Send answers the user through the replier bound to this dispatch. The
// reply capability survives pass-through hops.
func (c *Context) Send(what any, opts ...any) error {
	if c.rep == nil {
		return ErrNoReplier
	}
	return c.rep.Send(c.Context(), c.User.ID, what, opts...)
}
