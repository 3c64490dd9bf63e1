package flow_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/botwright/teleflow/flow"
)

func TestCompileBuildsChart(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("await_photo")
	r.AddState("done")
	r.AddTransition("hello", "start", "await_photo")
	r.AddTransition(flow.TriggerPhoto, "await_photo", "done")

	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := chart.States(); !reflect.DeepEqual(got, []string{"start", "await_photo", "done"}) {
		t.Errorf("unexpected state order: %v", got)
	}
	if got := chart.Triggers("start"); !reflect.DeepEqual(got, []string{"hello"}) {
		t.Errorf("unexpected triggers for start: %v", got)
	}
	if !chart.HasTrigger("await_photo", flow.TriggerPhoto) {
		t.Error("expected photo trigger on await_photo")
	}
	if chart.HasTrigger("done", flow.TriggerPhoto) {
		t.Error("did not expect photo trigger on done")
	}
}

func TestCompileRejectsDuplicateState(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("start")

	if _, err := r.Compile(); err == nil {
		t.Fatal("expected error for duplicate state")
	}
}

func TestCompileRejectsUnknownSource(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddTransition("hello", "missing", "start")

	_, err := r.Compile()
	if err == nil {
		t.Fatal("expected error for unknown source state")
	}
	var unknown *flow.UnknownStateError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownStateError, got %v", err)
	}
	if unknown.State != "missing" {
		t.Errorf("expected missing state name, got %q", unknown.State)
	}
}

func TestCompileRejectsUnknownDest(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddTransition("hello", "start", "missing")

	_, err := r.Compile()
	var unknown *flow.UnknownStateError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownStateError, got %v", err)
	}
	if unknown.State != "missing" {
		t.Errorf("expected missing state name, got %q", unknown.State)
	}
}

func TestCompileRejectsConflictingTransitions(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("a")
	r.AddState("b")
	r.AddTransition("go", "start", "a")
	r.AddTransition("go", "start", "b")

	_, err := r.Compile()
	var conflict *flow.ConflictingTransitionError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictingTransitionError, got %v", err)
	}
	if conflict.Source != "start" || conflict.Trigger != "go" {
		t.Errorf("unexpected conflict details: %+v", conflict)
	}
}

func TestCompileRejectsBadPattern(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("a")
	r.AddTransition("vote:[0-9", "start", "a")

	if _, err := r.Compile(); err == nil {
		t.Fatal("expected error for unparsable trigger pattern")
	}
}

func TestCompileTwiceYieldsIndependentCharts(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	first, err := r.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.AddState("later")
	second, err := r.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.HasState("later") {
		t.Error("first chart should not see states declared after compilation")
	}
	if !second.HasState("later") {
		t.Error("second chart should see the new state")
	}
}

func TestDeclarationOrderDoesNotMatter(t *testing.T) {
	r := flow.NewRegistry()
	r.AddTransition("hello", "start", "done")
	r.AddState("start")
	r.AddState("done")

	if _, err := r.Compile(); err != nil {
		t.Fatalf("transition declared before its states should compile, got %v", err)
	}
}
