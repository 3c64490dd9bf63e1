package flow_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/botwright/teleflow/flow"
)

func buildChart(t *testing.T, build func(r *flow.Registry)) *flow.Chart {
	t.Helper()
	r := flow.NewRegistry()
	build(r)
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return chart
}

func TestResolveSingleMatch(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("start")
		r.AddState("next")
		r.AddTransition("hello", "start", "next")
		r.AddTransition("bye", "start", "next")
	})

	trigger, err := chart.Resolve("start", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trigger != "hello" {
		t.Errorf("expected hello, got %q", trigger)
	}
}

func TestResolveMatchesSignalPrefix(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("start")
		r.AddState("next")
		r.AddTransition("hello", "start", "next")
	})

	// Patterns are anchored at the start of the signal but do not have to
	// consume all of it.
	trigger, err := chart.Resolve("start", "hello there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trigger != "hello" {
		t.Errorf("expected hello, got %q", trigger)
	}

	if trigger, _ = chart.Resolve("start", "say hello"); trigger != flow.TriggerFreeText {
		t.Errorf("mid-signal match should not count, got %q", trigger)
	}
}

func TestResolvePatternFamily(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("poll")
		r.AddState("counted")
		r.AddTransition("vote:[0-9]+", "poll", "counted")
	})

	trigger, err := chart.Resolve("poll", "vote:42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trigger != "vote:[0-9]+" {
		t.Errorf("expected the declared pattern, got %q", trigger)
	}
}

func TestResolveNoMatchFallsBackToFreeText(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("start")
		r.AddState("next")
		r.AddTransition("hello", "start", "next")
	})

	trigger, err := chart.Resolve("start", "good morning")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trigger != flow.TriggerFreeText {
		t.Errorf("expected free-text fallback, got %q", trigger)
	}
}

func TestResolveAmbiguousMatchFails(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("start")
		r.AddState("a")
		r.AddState("b")
		r.AddTransition("hel", "start", "a")
		r.AddTransition("hello", "start", "b")
	})

	_, err := chart.Resolve("start", "hello")
	var ambiguous *flow.AmbiguousTriggerError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousTriggerError, got %v", err)
	}
	if ambiguous.Signal != "hello" || ambiguous.State != "start" {
		t.Errorf("unexpected error details: %+v", ambiguous)
	}
	if !reflect.DeepEqual(ambiguous.Matches, []string{"hel", "hello"}) {
		t.Errorf("expected both patterns reported, got %v", ambiguous.Matches)
	}
}

func TestResolveUnknownState(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("start")
	})

	_, err := chart.Resolve("gone", "hello")
	var unknown *flow.UnknownStateError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownStateError, got %v", err)
	}
}

func TestResolveStateWithoutTransitions(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("terminal")
	})

	trigger, err := chart.Resolve("terminal", "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trigger != flow.TriggerFreeText {
		t.Errorf("expected free-text fallback, got %q", trigger)
	}
}

func TestResolveSentinelSignal(t *testing.T) {
	chart := buildChart(t, func(r *flow.Registry) {
		r.AddState("a")
		r.AddState("b")
		r.AddTransition(flow.TriggerPassThrough, "a", "b")
	})

	trigger, err := chart.Resolve("a", flow.TriggerPassThrough)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trigger != flow.TriggerPassThrough {
		t.Errorf("expected pass-through trigger, got %q", trigger)
	}
}
