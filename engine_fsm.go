package countdown

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/qmuntal/stateless"
)

// State is an engine lifecycle state.
type State string

// Engine states.
const (
	// StateIdle means no run is in progress: the engine was never started,
	// was aborted or has finished.
	StateIdle State = "idle"
	// StateCounting means a run is in progress.
	StateCounting State = "counting"
)

func (s State) String() string { return string(s) }

// FSM triggers.
const (
	evtStart = "start"
	evtAbort = "abort"
	evtEnd   = "end"
	evtReset = "reset"
)

func (eng *Engine) initFSM(start State) {
	fsm := stateless.NewStateMachine(start)
	fsm.SetTriggerParameters(evtReset, reflect.TypeOf(Config{}))

	fsm.Configure(StateIdle).
		Permit(evtStart, StateCounting).
		PermitReentry(evtReset).
		OnEntryFrom(evtAbort, eng.actAborted).
		OnEntryFrom(evtEnd, eng.actEnded).
		OnEntryFrom(evtReset, eng.actReset).
		Ignore(evtAbort).
		Ignore(evtEnd)

	fsm.Configure(StateCounting).
		Permit(evtAbort, StateIdle).
		Permit(evtEnd, StateIdle).
		Permit(evtReset, StateIdle).
		OnEntryFrom(evtStart, eng.actStarted).
		Ignore(evtStart)

	fsm.OnTransitioned(func(ctx context.Context, tx stateless.Transition) {
		from, _ := tx.Source.(State)
		to, _ := tx.Destination.(State)
		if from == to {
			return
		}
		for fn := range eng.onStateChanged.All() {
			fn(ctx, from, to)
		}
	})

	eng.fsm = fsm
}

// fire fires an FSM trigger that is expected to be valid in the current
// state. Errors here mean a broken transition table.
func (eng *Engine) fire(ctx context.Context, evt string, args ...any) {
	if err := eng.fsm.FireCtx(ctx, evt, args...); err != nil {
		panic(fmt.Errorf("fire %q in state %q: %w", evt, eng.fsm.MustState(), err))
	}
}

func (eng *Engine) actStarted(ctx context.Context, _ ...any) error {
	eng.mu.Lock()
	eng.endTime = eng.clock.Now().Add(eng.remaining)
	endTime := eng.endTime
	rem := eng.remaining
	emit := eng.cfg.EmitEvents
	eng.mu.Unlock()

	eng.log.DebugContext(ctx, "countdown started",
		"remaining", rem,
		"end_time", endTime,
	)

	if emit {
		for fn := range eng.onStart.All() {
			fn(ctx, eng)
		}
	}

	if eng.vis.Visibility().Visible() {
		eng.continuance(ctx)
	}
	return nil
}

func (eng *Engine) actAborted(ctx context.Context, _ ...any) error {
	eng.pause()

	eng.mu.Lock()
	rem := eng.remaining
	emit := eng.cfg.EmitEvents
	eng.mu.Unlock()

	eng.log.DebugContext(ctx, "countdown aborted", "remaining", rem)

	if emit {
		for fn := range eng.onAbort.All() {
			fn(ctx, eng)
		}
	}
	return nil
}

func (eng *Engine) actEnded(ctx context.Context, _ ...any) error {
	eng.pause()

	eng.mu.Lock()
	eng.remaining = 0
	emit := eng.cfg.EmitEvents
	eng.mu.Unlock()

	eng.log.DebugContext(ctx, "countdown ended")

	if emit {
		for fn := range eng.onEnd.All() {
			fn(ctx, eng)
		}
	}
	return nil
}

func (eng *Engine) actReset(ctx context.Context, args ...any) error {
	cfg := args[0].(Config) //nolint:forcetypeassert

	eng.pause()

	eng.mu.Lock()
	eng.cfg = cfg
	eng.remaining = cfg.Duration
	eng.endTime = time.Time{}
	eng.mu.Unlock()

	eng.log.DebugContext(ctx, "countdown reconfigured", "config", cfg)
	return nil
}
