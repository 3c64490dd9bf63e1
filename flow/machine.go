package flow

// Machine evaluates a chart's transition table against an explicit state
// value. It holds no per-conversation state of its own: the current state
// lives in the user record carried by the dispatch context, so one machine
// serves any number of concurrent dispatches.
type Machine struct {
	chart *Chart
}

// NewMachine returns a machine evaluating the given chart.
func NewMachine(chart *Chart) *Machine {
	return &Machine{chart: chart}
}

// Fire attempts the transition declared for (dc.User.State, trigger). When
// no such transition exists, or its guards reject it, Fire reports
// fired=false with a nil error and leaves the state untouched.
//
// A firing runs in a fixed order: prepare actions, then guards, then the
// source state's exit actions, the transition's before actions, the state
// switch, the after actions, and finally the destination's entry actions.
// The first action error aborts the firing and is returned as is; the state
// value in the user record may already hold the destination by then, and it
// is the caller's choice not to persist it.
func (m *Machine) Fire(dc *Context, trigger string) (bool, error) {
	t := m.chart.transition(dc.User.State, trigger)
	if t == nil {
		return false, nil
	}

	for _, a := range t.prepare {
		if err := a(dc); err != nil {
			return false, err
		}
	}
	for _, g := range t.conditions {
		if !g(dc) {
			return false, nil
		}
	}
	for _, g := range t.unless {
		if g(dc) {
			return false, nil
		}
	}

	src := m.chart.states[t.Source]
	dst := m.chart.states[t.Dest]

	for _, a := range src.onExit {
		if err := a(dc); err != nil {
			return false, err
		}
	}
	for _, a := range t.before {
		if err := a(dc); err != nil {
			return false, err
		}
	}

	dc.User.State = t.Dest

	for _, a := range t.after {
		if err := a(dc); err != nil {
			return true, err
		}
	}
	for _, a := range dst.onEnter {
		if err := a(dc); err != nil {
			return true, err
		}
	}
	return true, nil
}
