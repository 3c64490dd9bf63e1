package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/botwright/teleflow/core/logger"
)

// DefaultMaxChainHops bounds how many transitions a single inbound event may
// fire through pass-through chaining before the dispatch is aborted.
const DefaultMaxChainHops = 16

// Dispatcher drives a compiled chart for inbound events: it loads the user
// record, resolves and fires the applicable transition, persists the result,
// and follows pass-through transitions until the chain settles. Dispatches
// for the same user are serialized for the whole chain; different users
// proceed concurrently.
type Dispatcher struct {
	chart   *Chart
	machine *Machine
	store   Store
	start   string
	maxHops int
	obs     Observer

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMaxChainHops overrides DefaultMaxChainHops.
func WithMaxChainHops(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxHops = n
		}
	}
}

// WithStartState overrides the state assigned to records whose state field
// is empty. Defaults to StateStart.
func WithStartState(name string) DispatcherOption {
	return func(d *Dispatcher) {
		if name != "" {
			d.start = name
		}
	}
}

// WithObserver installs an Observer for dispatch outcomes.
func WithObserver(obs Observer) DispatcherOption {
	return func(d *Dispatcher) {
		if obs != nil {
			d.obs = obs
		}
	}
}

// NewDispatcher returns a dispatcher for the chart backed by the store.
func NewDispatcher(chart *Chart, store Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		chart:   chart,
		machine: NewMachine(chart),
		store:   store,
		start:   StateStart,
		maxHops: DefaultMaxChainHops,
		obs:     nopObserver{},
		locks:   make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Chart returns the compiled chart the dispatcher serves.
func (d *Dispatcher) Chart() *Chart { return d.chart }

func (d *Dispatcher) userLock(userID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[userID] = l
	}
	return l
}

// Dispatch handles one inbound event end to end. The replier may be nil for
// charts whose callbacks never answer the user. Errors from guards and
// actions, from the store, and chart authoring defects (ambiguous triggers,
// undeclared states, runaway pass-through chains) abort the dispatch and are
// returned to the caller; no reply is produced for them here.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event, rep Replier) error {
	start := time.Now()
	userID := ev.Sender.ID

	lock := d.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := d.store.Load(ctx, ev.Sender)
	if err != nil {
		d.logSummary(ctx, userID, "", 0, start, err)
		return fmt.Errorf("load user %d: %w", userID, err)
	}
	if user.State == "" {
		user.State = d.start
	}

	dc := &Context{ctx: ctx, Event: &ev, User: user, rep: rep}
	signal := ev.Signal()

	hops := 0
	for {
		if hops >= d.maxHops {
			err := &ChainDepthError{UserID: userID, State: user.State, Hops: hops}
			d.logSummary(ctx, userID, user.State, hops, start, err)
			return err
		}
		dc.hop = hops

		from := user.State
		trigger, err := d.chart.Resolve(from, signal)
		if err != nil {
			d.logSummary(ctx, userID, from, hops, start, err)
			return err
		}

		fired, err := d.machine.Fire(dc, trigger)
		if err != nil {
			d.logSummary(ctx, userID, user.State, hops, start, err)
			return fmt.Errorf("fire %q from %q: %w", trigger, from, err)
		}
		if fired {
			d.obs.TransitionFired(from, trigger, user.State)
		}

		if err := d.store.Save(ctx, user); err != nil {
			d.logSummary(ctx, userID, user.State, hops, start, err)
			return fmt.Errorf("save user %d: %w", userID, err)
		}

		logger.Debug(ctx, "flow", "dispatch.hop",
			slog.Int64("user_id", userID),
			slog.Int("hop", hops),
			slog.String("trigger", trigger),
			slog.String("state_from", from),
			slog.String("state_to", user.State),
			slog.Bool("fired", fired),
		)

		hops++
		if !d.chart.HasTrigger(user.State, TriggerPassThrough) {
			break
		}
		signal = TriggerPassThrough
		pass := Event{Kind: KindPass, Sender: Profile{ID: userID}}
		dc.Event = &pass
	}

	d.logSummary(ctx, userID, user.State, hops, start, nil)
	return nil
}

func (d *Dispatcher) logSummary(ctx context.Context, userID int64, state string, hops int, start time.Time, err error) {
	took := time.Since(start)
	status := "ok"
	level := slog.LevelInfo
	if err != nil {
		status = "fail"
		level = slog.LevelError
	}
	d.obs.DispatchHandled(status, hops, took)
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.Int64("user_id", userID),
		slog.String("state", state),
		slog.Int("hops", hops),
		slog.Int64("duration_ms", logger.RoundMS(took).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	logger.Event(ctx, "flow", level, "dispatch.handled", attrs...)
}
