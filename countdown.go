package countdown

//go:generate errtrace -w .

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/tickworks/countdown/internal/types"
)

// Engine is a countdown timer driven by frame callbacks.
//
// The engine decrements its remaining time in logical steps of
// [Config.Interval] rather than measuring elapsed wall time: a late frame
// still counts as exactly one step. Drift is corrected only when the host
// surface returns from hidden to visible, which resynchronizes the
// remainder against the end time. All notification handlers are invoked
// synchronously on the goroutine that produced the event.
type Engine struct {
	id     string
	clock  Clock
	frames FrameScheduler
	vis    VisibilityProvider
	log    *slog.Logger

	fsm *stateless.StateMachine
	ctx context.Context

	mu        sync.Mutex
	cfg       Config
	remaining time.Duration
	endTime   time.Time
	pending   FrameHandle
	schedGen  uint64

	unsubVis func()

	onStart        types.CallbackManager[LifecycleHandler]
	onAbort        types.CallbackManager[LifecycleHandler]
	onEnd          types.CallbackManager[LifecycleHandler]
	onProgress     types.CallbackManager[ProgressHandler]
	onStateChanged types.CallbackManager[StateChangedHandler]

	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates an [Engine] with the given config.
// With [Config.AutoStart] set, the run starts before New returns.
func New(ctx context.Context, cfg Config, opts *Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	eng := newEngine(ctx, opts.id(), cfg, cfg.Duration, opts)

	if cfg.AutoStart {
		if err := eng.Start(ctx); err != nil {
			_ = eng.Close()
			return nil, errtrace.Wrap(err)
		}
	}
	return eng, nil
}

func newEngine(ctx context.Context, id string, cfg Config, remaining time.Duration, opts *Options) *Engine {
	if ctx == nil {
		ctx = context.Background()
	}

	eng := &Engine{
		id:        id,
		clock:     opts.clock(),
		frames:    opts.frames(),
		vis:       opts.visibility(),
		ctx:       ctx,
		cfg:       cfg,
		remaining: remaining,
	}
	eng.log = opts.log().With("engine", eng)
	eng.initFSM(StateIdle)
	eng.unsubVis = eng.vis.OnVisibilityChange(eng.onVisibilityChange)
	return eng
}

// ID returns the engine identifier.
func (eng *Engine) ID() string { return eng.id }

// State returns the current engine state.
func (eng *Engine) State() State {
	st, _ := eng.fsm.MustState().(State)
	return st
}

// Counting reports whether a run is in progress.
func (eng *Engine) Counting() bool { return eng.State() == StateCounting }

// Config returns the active config.
func (eng *Engine) Config() Config {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.cfg
}

// Remaining returns the remaining time of the run.
func (eng *Engine) Remaining() time.Duration {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.remaining
}

// EndTime returns the instant the current run is due to finish.
// It is zero before the first start and after a reconfiguration.
func (eng *Engine) EndTime() time.Time {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.endTime
}

// Breakdown returns an immutable decomposition of the remaining time.
func (eng *Engine) Breakdown() Breakdown {
	return MakeBreakdown(eng.Remaining())
}

// Start begins or resumes the run from the current remaining time.
// Starting a counting engine is a no-op.
func (eng *Engine) Start(ctx context.Context) error {
	if eng.closed.Load() {
		return errtrace.Wrap(ErrEngineClosed)
	}
	return errtrace.Wrap(eng.fsm.FireCtx(ctx, evtStart))
}

// Abort stops the run keeping the remaining time, so a later [Engine.Start]
// resumes from where the run was interrupted. Aborting an idle engine is
// a no-op.
func (eng *Engine) Abort(ctx context.Context) error {
	if eng.closed.Load() {
		return errtrace.Wrap(ErrEngineClosed)
	}
	return errtrace.Wrap(eng.fsm.FireCtx(ctx, evtAbort))
}

// End finishes the run and zeroes the remaining time.
// Ending an idle engine is a no-op.
func (eng *Engine) End(ctx context.Context) error {
	if eng.closed.Load() {
		return errtrace.Wrap(ErrEngineClosed)
	}
	return errtrace.Wrap(eng.fsm.FireCtx(ctx, evtEnd))
}

// Reconfigure replaces the config and resets the remaining time to the new
// duration. A counting run is dropped without an abort notification.
// With [Config.AutoStart] set, the new run starts before Reconfigure returns.
func (eng *Engine) Reconfigure(ctx context.Context, cfg Config) error {
	if eng.closed.Load() {
		return errtrace.Wrap(ErrEngineClosed)
	}
	if err := cfg.Validate(); err != nil {
		return errtrace.Wrap(err)
	}
	if err := eng.fsm.FireCtx(ctx, evtReset, cfg); err != nil {
		return errtrace.Wrap(err)
	}
	if cfg.AutoStart {
		return errtrace.Wrap(eng.fsm.FireCtx(ctx, evtStart))
	}
	return nil
}

// Resync recomputes the remaining time of a counting run against the
// clock and returns it. The frozen remainder of an idle engine is
// returned unchanged.
func (eng *Engine) Resync() time.Duration {
	if eng.State() != StateCounting {
		return eng.Remaining()
	}

	eng.mu.Lock()
	defer eng.mu.Unlock()
	rem := eng.endTime.Sub(eng.clock.Now())
	if rem < 0 {
		rem = 0
	}
	eng.remaining = rem
	return rem
}

// Close releases the engine: the pending schedule is cancelled and the
// visibility subscription removed. A closed engine rejects all operations
// with [ErrEngineClosed]. Close is idempotent.
func (eng *Engine) Close() error {
	eng.closeOnce.Do(func() {
		eng.closed.Store(true)
		if eng.unsubVis != nil {
			eng.unsubVis()
		}
		eng.pause()
		eng.log.Debug("countdown engine closed")
	})
	return nil
}

// OnStart registers fn to be called when a run starts.
// The returned function removes the registration.
func (eng *Engine) OnStart(fn LifecycleHandler) (remove func()) { return eng.onStart.Add(fn) }

// OnAbort registers fn to be called when a run is aborted.
func (eng *Engine) OnAbort(fn LifecycleHandler) (remove func()) { return eng.onAbort.Add(fn) }

// OnEnd registers fn to be called when a run ends.
func (eng *Engine) OnEnd(fn LifecycleHandler) (remove func()) { return eng.onEnd.Add(fn) }

// OnProgress registers fn to be called after every counted step.
func (eng *Engine) OnProgress(fn ProgressHandler) (remove func()) { return eng.onProgress.Add(fn) }

// OnStateChanged registers fn to be called on every state transition.
func (eng *Engine) OnStateChanged(fn StateChangedHandler) (remove func()) {
	return eng.onStateChanged.Add(fn)
}

// pause cancels the pending schedule, if any, and invalidates in-flight
// frame callbacks. Idempotent.
func (eng *Engine) pause() {
	eng.mu.Lock()
	h := eng.pending
	eng.pending = 0
	eng.schedGen++
	eng.mu.Unlock()

	if h != 0 {
		eng.frames.CancelFrame(h)
	}
}

// continuance schedules the next countdown step, or ends the run when the
// remainder cannot cover another step. The step delay is the configured
// interval capped by the remaining time.
func (eng *Engine) continuance(ctx context.Context) {
	if eng.State() != StateCounting {
		return
	}

	eng.mu.Lock()
	if eng.closed.Load() {
		eng.mu.Unlock()
		return
	}

	delay := min(eng.remaining, eng.cfg.Interval)
	if delay <= 0 {
		eng.mu.Unlock()
		eng.fire(ctx, evtEnd)
		return
	}

	eng.schedGen++
	gen := eng.schedGen

	// Frame-step accumulator. A step fires once the observed frame range
	// covers the delay, allowing half a frame gap of slack so a step is
	// never a whole frame late.
	var init, prev time.Time
	var step FrameCallback
	step = func(ts time.Time) {
		eng.mu.Lock()
		if gen != eng.schedGen {
			eng.mu.Unlock()
			return
		}
		if init.IsZero() {
			init, prev = ts, ts
		}
		rng := ts.Sub(init)
		fired := rng >= delay || rng+ts.Sub(prev)/2 >= delay
		if fired {
			eng.pending = 0
		} else {
			eng.pending = eng.frames.ScheduleFrame(step)
		}
		prev = ts
		eng.mu.Unlock()

		if fired {
			eng.progress(ctx)
		}
	}

	eng.pending = eng.frames.ScheduleFrame(step)
	eng.mu.Unlock()
}

// progress applies one logical step: the remainder shrinks by one interval
// regardless of how late the step fired.
func (eng *Engine) progress(ctx context.Context) {
	if eng.State() != StateCounting {
		return
	}

	eng.mu.Lock()
	eng.remaining = max(eng.remaining-eng.cfg.Interval, 0)
	rem := eng.remaining
	emit := eng.cfg.EmitEvents && rem > 0
	eng.mu.Unlock()

	eng.log.DebugContext(ctx, "countdown step", "remaining", rem)

	if emit {
		b := MakeBreakdown(rem)
		for fn := range eng.onProgress.All() {
			fn(ctx, eng, b)
		}
	}

	eng.continuance(ctx)
}

// onVisibilityChange pauses the schedule while the surface is hidden and
// resynchronizes a counting run when it becomes visible again.
func (eng *Engine) onVisibilityChange(vis Visibility) {
	if eng.closed.Load() {
		return
	}

	if !vis.Visible() {
		eng.pause()
		return
	}

	if eng.State() != StateCounting {
		return
	}
	rem := eng.Resync()
	eng.log.Debug("countdown resynced", "remaining", rem, "visibility", vis)
	eng.continuance(eng.ctx)
}

func (eng *Engine) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", eng.id),
		slog.String("ptr", fmt.Sprintf("%p", eng)),
	)
}
