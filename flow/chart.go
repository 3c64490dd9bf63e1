package flow

import "regexp"

type compiledState struct {
	name    string
	onEnter []Action
	onExit  []Action
}

// Transition is a compiled transition. Trigger is the pattern exactly as it
// was declared; it doubles as the transition's name when the machine fires.
type Transition struct {
	Trigger string
	Source  string
	Dest    string

	pattern    *regexp.Regexp
	conditions []Guard
	unless     []Guard
	before     []Action
	after      []Action
	prepare    []Action
}

// Chart is an immutable compiled state chart: the full set of states and
// transitions plus a per-source trigger index. A chart is safe for
// concurrent use by any number of dispatches.
type Chart struct {
	states   map[string]*compiledState
	order    []string
	outgoing map[string][]*Transition
	index    map[string]map[string]*Transition
}

// States returns the declared state names in registration order.
func (ch *Chart) States() []string {
	return append([]string(nil), ch.order...)
}

// HasState reports whether the state was declared.
func (ch *Chart) HasState(name string) bool {
	_, ok := ch.states[name]
	return ok
}

// Triggers returns the trigger patterns outgoing from the state in
// registration order.
func (ch *Chart) Triggers(state string) []string {
	outs := ch.outgoing[state]
	if len(outs) == 0 {
		return nil
	}
	triggers := make([]string, len(outs))
	for i, t := range outs {
		triggers[i] = t.Trigger
	}
	return triggers
}

// HasTrigger reports whether the state declares an outgoing transition for
// exactly this trigger. The comparison is literal, not a pattern match.
func (ch *Chart) HasTrigger(state, trigger string) bool {
	_, ok := ch.index[state][trigger]
	return ok
}

// transition returns the compiled transition for a literal (source, trigger)
// pair, or nil when the pair was never declared.
func (ch *Chart) transition(source, trigger string) *Transition {
	return ch.index[source][trigger]
}

// Resolve matches the raw inbound signal against every trigger pattern
// outgoing from the state. Patterns are anchored at the start of the signal.
// No match resolves to TriggerFreeText; a single match resolves to that
// pattern; several matches fail with an AmbiguousTriggerError. An undeclared
// state fails with an UnknownStateError.
func (ch *Chart) Resolve(state, signal string) (string, error) {
	if _, ok := ch.states[state]; !ok {
		return "", &UnknownStateError{State: state}
	}

	var matches []string
	for _, t := range ch.outgoing[state] {
		if t.pattern.MatchString(signal) {
			matches = append(matches, t.Trigger)
		}
	}

	switch len(matches) {
	case 0:
		return TriggerFreeText, nil
	case 1:
		return matches[0], nil
	}
	return "", &AmbiguousTriggerError{State: state, Signal: signal, Matches: matches}
}
