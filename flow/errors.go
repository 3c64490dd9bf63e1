package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoReplier is returned by Context.Send when the dispatch was started
// without a reply capability.
var ErrNoReplier = errors.New("flow: no replier bound to dispatch")

// AmbiguousTriggerError indicates that an inbound signal matched two or more
// trigger patterns outgoing from the same state. Overlapping patterns are a
// chart authoring defect, so the dispatch is aborted instead of picking one
// of the candidates silently.
type AmbiguousTriggerError struct {
	State   string
	Signal  string
	Matches []string
}

func (e *AmbiguousTriggerError) Error() string {
	return fmt.Sprintf("signal %q from state %q matches more than one trigger pattern: %s",
		e.Signal, e.State, strings.Join(e.Matches, ", "))
}

// UnknownStateError indicates a reference to a state that was never declared,
// either by a transition at compile time or by a persisted user record whose
// state no longer exists in the chart.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("state %q is not declared", e.State)
}

// ConflictingTransitionError indicates two transitions registered with the
// same trigger pattern from the same source state. Such transitions can never
// be told apart at dispatch time, so compilation rejects them.
type ConflictingTransitionError struct {
	Source  string
	Trigger string
}

func (e *ConflictingTransitionError) Error() string {
	return fmt.Sprintf("trigger %q from state %q is declared more than once", e.Trigger, e.Source)
}

// ChainDepthError indicates a pass-through chain that did not settle within
// the dispatcher's hop budget. A chart whose pass-through transitions form a
// cycle, or whose guards never let the chain advance, produces this error.
type ChainDepthError struct {
	UserID int64
	State  string
	Hops   int
}

func (e *ChainDepthError) Error() string {
	return fmt.Sprintf("pass-through chain for user %d exceeded %d hops at state %q",
		e.UserID, e.Hops, e.State)
}
