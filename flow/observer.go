package flow

import "time"

// Observer receives dispatch outcomes. Implementations typically feed metrics
// sinks; the dispatcher calls them synchronously, so they must be cheap.
type Observer interface {
	// DispatchHandled reports one completed Dispatch call.
	DispatchHandled(status string, hops int, took time.Duration)
	// TransitionFired reports a transition that switched state.
	TransitionFired(source, trigger, dest string)
}

type nopObserver struct{}

func (nopObserver) DispatchHandled(string, int, time.Duration) {}
func (nopObserver) TransitionFired(string, string, string)     {}
