package flow_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/botwright/teleflow/flow"
)

func record(log *[]string, step string) flow.Action {
	return func(*flow.Context) error {
		*log = append(*log, step)
		return nil
	}
}

func TestFireRunsCallbacksInOrder(t *testing.T) {
	var steps []string
	var stateDuringBefore, stateDuringAfter string

	r := flow.NewRegistry()
	r.AddState("a",
		flow.OnExit(record(&steps, "exit_a")),
	)
	r.AddState("b",
		flow.OnEnter(record(&steps, "enter_b")),
	)
	r.AddTransition("go", "a", "b",
		flow.Prepare(record(&steps, "prepare")),
		flow.Conditions(func(*flow.Context) bool {
			steps = append(steps, "condition")
			return true
		}),
		flow.Unless(func(*flow.Context) bool {
			steps = append(steps, "unless")
			return false
		}),
		flow.Before(record(&steps, "before"), func(dc *flow.Context) error {
			stateDuringBefore = dc.User.State
			return nil
		}),
		flow.After(record(&steps, "after"), func(dc *flow.Context) error {
			stateDuringAfter = dc.User.State
			return nil
		}),
	)

	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	user := &flow.User{ID: 1, State: "a"}
	dc := &flow.Context{User: user}

	fired, err := flow.NewMachine(chart).Fire(dc, "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected transition to fire")
	}

	want := []string{"prepare", "condition", "unless", "exit_a", "before", "after", "enter_b"}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("unexpected callback order:\n got %v\nwant %v", steps, want)
	}
	if stateDuringBefore != "a" {
		t.Errorf("before callbacks must still see the source state, got %q", stateDuringBefore)
	}
	if stateDuringAfter != "b" {
		t.Errorf("after callbacks must see the destination state, got %q", stateDuringAfter)
	}
	if user.State != "b" {
		t.Errorf("expected state b, got %q", user.State)
	}
}

func TestFireWithoutTransitionIsAbsorbed(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("a")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	user := &flow.User{ID: 1, State: "a"}
	fired, err := flow.NewMachine(chart).Fire(&flow.Context{User: user}, flow.TriggerFreeText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired {
		t.Error("nothing should fire without a declared transition")
	}
	if user.State != "a" {
		t.Errorf("state must stay untouched, got %q", user.State)
	}
}

func TestFireFailedConditionBlocksTransition(t *testing.T) {
	var exits int
	r := flow.NewRegistry()
	r.AddState("a", flow.OnExit(func(*flow.Context) error {
		exits++
		return nil
	}))
	r.AddState("b")
	r.AddTransition("go", "a", "b",
		flow.Conditions(func(*flow.Context) bool { return false }),
	)
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	user := &flow.User{ID: 1, State: "a"}
	fired, err := flow.NewMachine(chart).Fire(&flow.Context{User: user}, "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired {
		t.Error("failed condition must block the transition")
	}
	if exits != 0 {
		t.Error("exit actions must not run when guards reject the transition")
	}
	if user.State != "a" {
		t.Errorf("state must stay untouched, got %q", user.State)
	}
}

func TestFireUnlessGuardBlocksTransition(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("a")
	r.AddState("b")
	r.AddTransition("go", "a", "b",
		flow.Unless(func(*flow.Context) bool { return true }),
	)
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	user := &flow.User{ID: 1, State: "a"}
	fired, err := flow.NewMachine(chart).Fire(&flow.Context{User: user}, "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired {
		t.Error("holding unless guard must block the transition")
	}
}

func TestFireBeforeErrorKeepsSourceState(t *testing.T) {
	boom := errors.New("boom")
	r := flow.NewRegistry()
	r.AddState("a")
	r.AddState("b")
	r.AddTransition("go", "a", "b",
		flow.Before(func(*flow.Context) error { return boom }),
	)
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	user := &flow.User{ID: 1, State: "a"}
	fired, err := flow.NewMachine(chart).Fire(&flow.Context{User: user}, "go")
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if fired {
		t.Error("a transition aborted before the switch did not fire")
	}
	if user.State != "a" {
		t.Errorf("state must stay at the source, got %q", user.State)
	}
}

func TestFireEnterErrorReportsFired(t *testing.T) {
	boom := errors.New("boom")
	r := flow.NewRegistry()
	r.AddState("a")
	r.AddState("b", flow.OnEnter(func(*flow.Context) error { return boom }))
	r.AddTransition("go", "a", "b")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	user := &flow.User{ID: 1, State: "a"}
	fired, err := flow.NewMachine(chart).Fire(&flow.Context{User: user}, "go")
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if !fired {
		t.Error("the switch already happened, fire must report it")
	}
	if user.State != "b" {
		t.Errorf("expected destination state, got %q", user.State)
	}
}
