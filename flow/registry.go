package flow

import (
	"fmt"
	"regexp"
)

type stateDef struct {
	name    string
	onEnter []Action
	onExit  []Action
}

type transitionDef struct {
	trigger    string
	source     string
	dest       string
	conditions []Guard
	unless     []Guard
	before     []Action
	after      []Action
	prepare    []Action
}

// Registry accumulates state and transition declarations before a chart is
// compiled. Declarations are append-only and unvalidated: a transition may
// name states that are only added later. Registration is not safe for
// concurrent use; build the chart first, then serve.
type Registry struct {
	states      []stateDef
	transitions []transitionDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// StateOption configures a state declaration.
type StateOption func(*stateDef)

// OnEnter appends actions run after a transition into the state completes.
func OnEnter(actions ...Action) StateOption {
	return func(s *stateDef) { s.onEnter = append(s.onEnter, actions...) }
}

// OnExit appends actions run before a transition out of the state switches
// state.
func OnExit(actions ...Action) StateOption {
	return func(s *stateDef) { s.onExit = append(s.onExit, actions...) }
}

// TransitionOption configures a transition declaration.
type TransitionOption func(*transitionDef)

// Conditions appends guards that must all hold for the transition to fire.
func Conditions(guards ...Guard) TransitionOption {
	return func(t *transitionDef) { t.conditions = append(t.conditions, guards...) }
}

// Unless appends guards that must all fail for the transition to fire.
func Unless(guards ...Guard) TransitionOption {
	return func(t *transitionDef) { t.unless = append(t.unless, guards...) }
}

// Before appends actions run after the source state's exit actions and
// before the state switches.
func Before(actions ...Action) TransitionOption {
	return func(t *transitionDef) { t.before = append(t.before, actions...) }
}

// After appends actions run right after the state switches, before the
// destination's entry actions.
func After(actions ...Action) TransitionOption {
	return func(t *transitionDef) { t.after = append(t.after, actions...) }
}

// Prepare appends actions run before the transition's guards are evaluated.
func Prepare(actions ...Action) TransitionOption {
	return func(t *transitionDef) { t.prepare = append(t.prepare, actions...) }
}

// AddState declares a state.
func (r *Registry) AddState(name string, opts ...StateOption) {
	s := stateDef{name: name}
	for _, opt := range opts {
		opt(&s)
	}
	r.states = append(r.states, s)
}

// AddTransition declares a transition. The trigger is a pattern matched
// against the start of the inbound signal, so "vote:[0-9]+" routes every
// payload of that shape through one transition.
func (r *Registry) AddTransition(trigger, source, dest string, opts ...TransitionOption) {
	t := transitionDef{trigger: trigger, source: source, dest: dest}
	for _, opt := range opts {
		opt(&t)
	}
	r.transitions = append(r.transitions, t)
}

// Compile validates the accumulated declarations and produces an immutable
// Chart. It rejects duplicate state names, transitions whose source or
// destination was never declared, unparsable trigger patterns, and duplicate
// (source, trigger) pairs. The registry stays usable afterwards; compiling
// again after further declarations yields a new independent chart.
func (r *Registry) Compile() (*Chart, error) {
	ch := &Chart{
		states:   make(map[string]*compiledState, len(r.states)),
		order:    make([]string, 0, len(r.states)),
		outgoing: make(map[string][]*Transition),
		index:    make(map[string]map[string]*Transition),
	}

	for _, s := range r.states {
		if _, dup := ch.states[s.name]; dup {
			return nil, fmt.Errorf("compile: state %q declared more than once", s.name)
		}
		ch.states[s.name] = &compiledState{
			name:    s.name,
			onEnter: append([]Action(nil), s.onEnter...),
			onExit:  append([]Action(nil), s.onExit...),
		}
		ch.order = append(ch.order, s.name)
	}

	for _, t := range r.transitions {
		if _, ok := ch.states[t.source]; !ok {
			return nil, fmt.Errorf("compile: transition %q -> %q: %w", t.trigger, t.dest, &UnknownStateError{State: t.source})
		}
		if _, ok := ch.states[t.dest]; !ok {
			return nil, fmt.Errorf("compile: transition %q from %q: %w", t.trigger, t.source, &UnknownStateError{State: t.dest})
		}
		if _, dup := ch.index[t.source][t.trigger]; dup {
			return nil, &ConflictingTransitionError{Source: t.source, Trigger: t.trigger}
		}
		pattern, err := regexp.Compile("^(?:" + t.trigger + ")")
		if err != nil {
			return nil, fmt.Errorf("compile: trigger pattern %q from %q: %w", t.trigger, t.source, err)
		}
		ct := &Transition{
			Trigger:    t.trigger,
			Source:     t.source,
			Dest:       t.dest,
			pattern:    pattern,
			conditions: append([]Guard(nil), t.conditions...),
			unless:     append([]Guard(nil), t.unless...),
			before:     append([]Action(nil), t.before...),
			after:      append([]Action(nil), t.after...),
			prepare:    append([]Action(nil), t.prepare...),
		}
		ch.outgoing[t.source] = append(ch.outgoing[t.source], ct)
		if ch.index[t.source] == nil {
			ch.index[t.source] = make(map[string]*Transition)
		}
		ch.index[t.source][t.trigger] = ct
	}

	return ch, nil
}
