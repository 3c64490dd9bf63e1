package flow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/botwright/teleflow/flow"
)

// fakeStore is an in-memory Store recording every save for assertions.
type fakeStore struct {
	mu      sync.Mutex
	start   string
	users   map[int64]*flow.User
	saves   []string
	loadErr error
	saveErr error
}

func newFakeStore(start string) *fakeStore {
	return &fakeStore{start: start, users: make(map[int64]*flow.User)}
}

func (s *fakeStore) Load(_ context.Context, p flow.Profile) (*flow.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if u, ok := s.users[p.ID]; ok {
		cp := *u
		return &cp, nil
	}
	u := &flow.User{
		ID:        p.ID,
		State:     s.start,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Name:      p.Name,
		Username:  p.Username,
		CreatedAt: time.Now().Unix(),
	}
	s.users[p.ID] = u
	cp := *u
	return &cp, nil
}

func (s *fakeStore) Save(_ context.Context, u *flow.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *u
	s.users[u.ID] = &cp
	s.saves = append(s.saves, u.State)
	return nil
}

func (s *fakeStore) state(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u.State
	}
	return ""
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

type fakeReplier struct {
	mu   sync.Mutex
	sent []string
}

func (r *fakeReplier) Send(_ context.Context, _ int64, what any, _ ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, fmt.Sprint(what))
	return nil
}

func textEvent(id int64, text string) flow.Event {
	return flow.Event{Kind: flow.KindText, Sender: flow.Profile{ID: id}, Text: text}
}

func photoEvent(id int64) flow.Event {
	return flow.Event{Kind: flow.KindPhoto, Sender: flow.Profile{ID: id}, Data: "file-1"}
}

func TestDispatchPhotoScenario(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("await_photo")
	r.AddState("done")
	r.AddTransition("hello", "start", "await_photo")
	r.AddTransition(flow.TriggerPhoto, "await_photo", "done")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	d := flow.NewDispatcher(chart, store, flow.WithStartState("start"))

	if err := d.Dispatch(context.Background(), textEvent(7, "hello"), nil); err != nil {
		t.Fatalf("text dispatch: %v", err)
	}
	if got := store.state(7); got != "await_photo" {
		t.Fatalf("expected await_photo after hello, got %q", got)
	}

	if err := d.Dispatch(context.Background(), photoEvent(7), nil); err != nil {
		t.Fatalf("photo dispatch: %v", err)
	}
	if got := store.state(7); got != "done" {
		t.Fatalf("expected done after photo, got %q", got)
	}
}

func TestDispatchPassThroughChain(t *testing.T) {
	var visited []string
	visit := func(name string) flow.Action {
		return func(*flow.Context) error {
			visited = append(visited, name)
			return nil
		}
	}

	r := flow.NewRegistry()
	r.AddState("entry")
	r.AddState("a", flow.OnEnter(visit("a")))
	r.AddState("b", flow.OnEnter(visit("b")))
	r.AddState("c", flow.OnEnter(visit("c")))
	r.AddTransition("hello", "entry", "a")
	r.AddTransition(flow.TriggerPassThrough, "a", "b")
	r.AddTransition(flow.TriggerPassThrough, "b", "c")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("entry")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(1, "hello"), nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if got := store.state(1); got != "c" {
		t.Fatalf("expected the chain to settle at c, got %q", got)
	}
	if want := []string{"a", "b", "c"}; fmt.Sprint(visited) != fmt.Sprint(want) {
		t.Errorf("expected every hop to run entry actions, got %v", visited)
	}
	if got := store.saveCount(); got != 3 {
		t.Errorf("expected a save per hop, got %d", got)
	}
}

func TestDispatchAmbiguousSignalAborts(t *testing.T) {
	var fired int
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("a")
	r.AddState("b")
	r.AddTransition("hel", "start", "a", flow.Before(func(*flow.Context) error {
		fired++
		return nil
	}))
	r.AddTransition("hello", "start", "b")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	d := flow.NewDispatcher(chart, store)

	err = d.Dispatch(context.Background(), textEvent(1, "hello"), nil)
	var ambiguous *flow.AmbiguousTriggerError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousTriggerError, got %v", err)
	}
	if fired != 0 {
		t.Error("no callbacks may run on an ambiguous dispatch")
	}
	if got := store.saveCount(); got != 0 {
		t.Errorf("an ambiguous dispatch must not persist, got %d saves", got)
	}
	if got := store.state(1); got != "start" {
		t.Errorf("state must stay untouched, got %q", got)
	}
}

func TestDispatchFreeTextFallback(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("chatting")
	r.AddTransition(flow.TriggerFreeText, "start", "chatting")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(1, "whatever you like"), nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := store.state(1); got != "chatting" {
		t.Fatalf("expected free-text transition to fire, got %q", got)
	}
}

func TestDispatchUnmatchedEventIsAbsorbed(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("next")
	r.AddTransition("hello", "start", "next")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), photoEvent(1), nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := store.state(1); got != "start" {
		t.Errorf("unexpected state change: %q", got)
	}
	// The unchanged state is still written back once.
	if got := store.saveCount(); got != 1 {
		t.Errorf("expected exactly one save, got %d", got)
	}
}

func TestDispatchChainDepthBound(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("loop")
	r.AddTransition(flow.TriggerPassThrough, "loop", "loop")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("loop")
	d := flow.NewDispatcher(chart, store, flow.WithMaxChainHops(4))

	err = d.Dispatch(context.Background(), textEvent(1, "hi"), nil)
	var depth *flow.ChainDepthError
	if !errors.As(err, &depth) {
		t.Fatalf("expected ChainDepthError, got %v", err)
	}
	if depth.Hops != 4 {
		t.Errorf("expected the configured bound, got %d", depth.Hops)
	}
	if depth.State != "loop" {
		t.Errorf("expected the stuck state, got %q", depth.State)
	}
}

func TestDispatchAssignsStartStateToBlankRecords(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState(flow.StateStart)
	r.AddState("greeted")
	r.AddTransition(flow.TriggerFreeText, flow.StateStart, "greeted")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	// A store that hands out records with an empty state field.
	store := newFakeStore("")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(1, "hi"), nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := store.state(1); got != "greeted" {
		t.Fatalf("expected the start sentinel to be assumed, got %q", got)
	}
}

func TestDispatchLoadErrorPropagates(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	store.loadErr = errors.New("connection refused")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(1, "hi"), nil); !errors.Is(err, store.loadErr) {
		t.Fatalf("expected the store error, got %v", err)
	}
}

func TestDispatchSaveErrorPropagates(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	store.saveErr = errors.New("connection reset")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(1, "hi"), nil); !errors.Is(err, store.saveErr) {
		t.Fatalf("expected the store error, got %v", err)
	}
}

func TestDispatchActionErrorSkipsPersist(t *testing.T) {
	boom := errors.New("boom")
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("next")
	r.AddTransition("hello", "start", "next", flow.Before(func(*flow.Context) error {
		return boom
	}))
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(1, "hello"), nil); !errors.Is(err, boom) {
		t.Fatalf("expected the action error, got %v", err)
	}
	if got := store.saveCount(); got != 0 {
		t.Errorf("a failed dispatch must not persist, got %d saves", got)
	}
	if got := store.state(1); got != "start" {
		t.Errorf("state must stay untouched, got %q", got)
	}
}

func TestDispatchRepliesThroughChain(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("entry")
	r.AddState("a", flow.OnEnter(func(dc *flow.Context) error {
		return dc.Send("entering a")
	}))
	r.AddState("b", flow.OnEnter(func(dc *flow.Context) error {
		return dc.Send("entering b")
	}))
	r.AddTransition("hello", "entry", "a")
	r.AddTransition(flow.TriggerPassThrough, "a", "b")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("entry")
	d := flow.NewDispatcher(chart, store)
	rep := &fakeReplier{}

	if err := d.Dispatch(context.Background(), textEvent(1, "hello"), rep); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if want := []string{"entering a", "entering b"}; fmt.Sprint(rep.sent) != fmt.Sprint(want) {
		t.Errorf("reply capability must survive pass-through hops, got %v", rep.sent)
	}
}

func TestDispatchSendWithoutReplier(t *testing.T) {
	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("next")
	r.AddTransition("hello", "start", "next", flow.After(func(dc *flow.Context) error {
		return dc.Send("hi")
	}))
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(1, "hello"), nil); !errors.Is(err, flow.ErrNoReplier) {
		t.Fatalf("expected ErrNoReplier, got %v", err)
	}
}

func TestDispatchPassHopsSeeSyntheticEvent(t *testing.T) {
	type hopView struct {
		hop  int
		kind flow.Kind
		text string
	}
	var views []hopView
	observe := func(dc *flow.Context) error {
		views = append(views, hopView{hop: dc.Hop(), kind: dc.Event.Kind, text: dc.Event.Text})
		return nil
	}

	r := flow.NewRegistry()
	r.AddState("entry")
	r.AddState("a", flow.OnEnter(observe))
	r.AddState("b", flow.OnEnter(observe))
	r.AddTransition("hello", "entry", "a")
	r.AddTransition(flow.TriggerPassThrough, "a", "b")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("entry")
	d := flow.NewDispatcher(chart, store)

	if err := d.Dispatch(context.Background(), textEvent(9, "hello"), nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(views) != 2 {
		t.Fatalf("expected two observed hops, got %d", len(views))
	}
	if views[0].hop != 0 || views[0].kind != flow.KindText || views[0].text != "hello" {
		t.Errorf("hop 0 must see the inbound event, got %+v", views[0])
	}
	if views[1].hop != 1 || views[1].kind != flow.KindPass || views[1].text != "" {
		t.Errorf("pass hops must see a synthetic event, got %+v", views[1])
	}
}

func TestDispatchSerializesPerUser(t *testing.T) {
	var inFlight, peak int64

	r := flow.NewRegistry()
	r.AddState("start")
	r.AddState("s")
	r.AddTransition("ping", "start", "s", flow.Before(func(*flow.Context) error {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return nil
	}))
	r.AddTransition("ping", "s", "start")
	chart, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	store := newFakeStore("start")
	d := flow.NewDispatcher(chart, store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), textEvent(5, "ping"), nil)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&peak); got != 1 {
		t.Errorf("dispatches for one user must not overlap, peak concurrency %d", got)
	}
}
