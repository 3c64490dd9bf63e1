// Package flow implements a declarative finite-state dispatch engine for
// conversational bots. A bot is described as a set of named states and
// pattern-triggered transitions between them; the engine maps every inbound
// user event onto the user's persisted state, resolves exactly one transition
// to fire, runs its callbacks, and writes the resulting state back through a
// pluggable Store.
//
// Definitions are collected in a Registry and compiled once into an immutable
// Chart:
//
//	r := flow.NewRegistry()
//	r.AddState("start")
//	r.AddState("await_photo", flow.OnEnter(askForPhoto))
//	r.AddState("done")
//	r.AddTransition("hello", "start", "await_photo")
//	r.AddTransition(flow.TriggerPhoto, "await_photo", "done")
//	chart, err := r.Compile()
//
// A Dispatcher then drives the chart for every inbound event:
//
//	d := flow.NewDispatcher(chart, store)
//	err := d.Dispatch(ctx, ev, replier)
//
// Trigger strings are patterns, matched against the start of the raw signal,
// so a single transition can cover a family of callback payloads such as
// "vote:[0-9]+". When no pattern matches, the engine falls back to the
// reserved free-text trigger; when several match, the dispatch fails with an
// AmbiguousTriggerError because overlapping patterns are an authoring mistake.
//
// States may expose the reserved pass-through trigger to chain into a
// follow-up transition automatically, without waiting for new user input.
// Chains are bounded; see ChainDepthError.
package flow
