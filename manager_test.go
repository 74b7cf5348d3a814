package countdown_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tickworks/countdown"
)

// managerHarness drives a manager whose engines share one manual clock
// and one manual frame scheduler.
type managerHarness struct {
	clock  *countdown.ManualClock
	frames *countdown.ManualFrameScheduler
	mgr    *countdown.Manager
}

func newManagerHarness(tb testing.TB, opts *countdown.ManagerOptions) *managerHarness {
	tb.Helper()

	h := &managerHarness{
		clock:  countdown.NewManualClock(testEpoch),
		frames: &countdown.ManualFrameScheduler{},
		mgr:    countdown.NewManager(opts),
	}
	tb.Cleanup(func() { _ = h.mgr.Close(context.Background()) })
	return h
}

func (h *managerHarness) newEngine(tb testing.TB, id string, cfg countdown.Config) *countdown.Engine {
	tb.Helper()

	eng, err := h.mgr.NewEngine(tb.Context(), cfg, &countdown.Options{
		ID:     id,
		Clock:  h.clock,
		Frames: h.frames,
	})
	if err != nil {
		tb.Fatalf("mgr.NewEngine(%q) error = %v, want nil", id, err)
	}
	return eng
}

func (h *managerHarness) tick(d time.Duration) {
	h.frames.Fire(h.clock.Now())
	h.frames.Fire(h.clock.Advance(d))
}

func TestManager_NewEngine(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)

	eng := h.newEngine(t, "t1", countdown.Config{
		Duration:   3 * time.Second,
		Interval:   time.Second,
		EmitEvents: true,
	})

	if got := eng.ID(); got != "t1" {
		t.Fatalf("eng.ID() = %q, want %q", got, "t1")
	}
	// Without auto start the engine is registered idle.
	if got := eng.State(); got != countdown.StateIdle {
		t.Fatalf("eng.State() = %v, want %v", got, countdown.StateIdle)
	}
	if got := h.mgr.Len(); got != 1 {
		t.Fatalf("mgr.Len() = %v, want 1", got)
	}

	got, err := h.mgr.LoadEngine("t1")
	if err != nil {
		t.Fatalf("mgr.LoadEngine(\"t1\") error = %v, want nil", err)
	}
	if got != eng {
		t.Fatalf("mgr.LoadEngine(\"t1\") = %p, want %p", got, eng)
	}
}

func TestManager_NewEngine_AutoStartObservable(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)

	// Creation callbacks must see the engine before the run starts.
	var events []string
	h.mgr.OnNewEngine(func(_ context.Context, eng *countdown.Engine) {
		events = append(events, "created:"+eng.ID())
		eng.OnStart(func(context.Context, *countdown.Engine) {
			events = append(events, "started:"+eng.ID())
		})
	})

	eng := h.newEngine(t, "t1", countdown.Config{
		Duration:   2 * time.Second,
		Interval:   time.Second,
		AutoStart:  true,
		EmitEvents: true,
	})

	if !eng.Counting() {
		t.Fatalf("eng.Counting() = false, want true")
	}
	want := []string{"created:t1", "started:t1"}
	if diff := cmp.Diff(events, want); diff != "" {
		t.Fatalf("events mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestManager_NewEngine_DuplicateID(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)
	cfg := countdown.Config{Duration: 3 * time.Second, Interval: time.Second}

	eng := h.newEngine(t, "t1", cfg)

	_, err := h.mgr.NewEngine(t.Context(), cfg, &countdown.Options{
		ID:     "t1",
		Clock:  h.clock,
		Frames: h.frames,
	})
	if !errors.Is(err, countdown.ErrEngineExists) {
		t.Fatalf("mgr.NewEngine(\"t1\") error = %v, want %v", err, countdown.ErrEngineExists)
	}
	if got := h.mgr.Len(); got != 1 {
		t.Fatalf("mgr.Len() = %v, want 1", got)
	}

	// The first registration stays in place.
	got, err := h.mgr.LoadEngine("t1")
	if err != nil {
		t.Fatalf("mgr.LoadEngine(\"t1\") error = %v, want nil", err)
	}
	if got != eng {
		t.Fatalf("mgr.LoadEngine(\"t1\") = %p, want %p", got, eng)
	}
}

func TestManager_NewEngine_InvalidConfig(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)

	_, err := h.mgr.NewEngine(t.Context(), countdown.Config{Duration: -time.Second}, nil)
	if !errors.Is(err, countdown.ErrInvalidConfiguration) {
		t.Fatalf("mgr.NewEngine() error = %v, want %v", err, countdown.ErrInvalidConfiguration)
	}
	if got := h.mgr.Len(); got != 0 {
		t.Fatalf("mgr.Len() = %v, want 0", got)
	}
}

func TestManager_RemoveEngine(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)
	ctx := t.Context()

	eng := h.newEngine(t, "t1", countdown.Config{Duration: 3 * time.Second, Interval: time.Second})

	if err := h.mgr.RemoveEngine(ctx, "t1"); err != nil {
		t.Fatalf("mgr.RemoveEngine(\"t1\") error = %v, want nil", err)
	}
	if got := h.mgr.Len(); got != 0 {
		t.Fatalf("mgr.Len() = %v, want 0", got)
	}
	if _, err := h.mgr.LoadEngine("t1"); !errors.Is(err, countdown.ErrEngineNotFound) {
		t.Fatalf("mgr.LoadEngine(\"t1\") error = %v, want %v", err, countdown.ErrEngineNotFound)
	}
	err := h.mgr.RemoveEngine(ctx, "t1")
	if !errors.Is(err, countdown.ErrEngineNotFound) {
		t.Fatalf("second mgr.RemoveEngine(\"t1\") error = %v, want %v", err, countdown.ErrEngineNotFound)
	}

	// A removed engine is closed.
	if err := eng.Start(ctx); !errors.Is(err, countdown.ErrEngineClosed) {
		t.Fatalf("eng.Start() error = %v, want %v", err, countdown.ErrEngineClosed)
	}
}

func TestManager_Engines(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)
	cfg := countdown.Config{Duration: time.Second, Interval: time.Second}

	for _, id := range []string{"t1", "t2", "t3"} {
		h.newEngine(t, id, cfg)
	}

	var ids []string
	for eng := range h.mgr.Engines() {
		ids = append(ids, eng.ID())
	}
	slices.Sort(ids)
	if diff := cmp.Diff(ids, []string{"t1", "t2", "t3"}); diff != "" {
		t.Fatalf("engine IDs mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestManager_FinishedRuns(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)
	ctx := t.Context()

	// First run counts down to zero.
	cfg1 := countdown.Config{Duration: time.Second, Interval: time.Second, EmitEvents: true}
	eng1 := h.newEngine(t, "e1", cfg1)
	if err := eng1.Start(ctx); err != nil {
		t.Fatalf("eng1.Start() error = %v, want nil", err)
	}
	h.tick(time.Second)

	// Second run is aborted one step in.
	cfg2 := countdown.Config{Duration: 3 * time.Second, Interval: time.Second, EmitEvents: true}
	eng2 := h.newEngine(t, "e2", cfg2)
	if err := eng2.Start(ctx); err != nil {
		t.Fatalf("eng2.Start() error = %v, want nil", err)
	}
	h.tick(time.Second)
	if err := eng2.Abort(ctx); err != nil {
		t.Fatalf("eng2.Abort() error = %v, want nil", err)
	}

	got := h.mgr.FinishedRuns()
	want := []countdown.FinishedRun{
		{
			ID:        "e1",
			Outcome:   countdown.OutcomeCompleted,
			Config:    cfg1,
			Remaining: 0,
			EndedAt:   testEpoch.Add(time.Second),
		},
		{
			ID:        "e2",
			Outcome:   countdown.OutcomeAborted,
			Config:    cfg2,
			Remaining: 2 * time.Second,
			EndedAt:   testEpoch.Add(2 * time.Second),
		},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("mgr.FinishedRuns() mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestManager_FinishedRuns_Capped(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, &countdown.ManagerOptions{HistorySize: 2})
	ctx := t.Context()

	// Zero duration runs finish on start.
	cfg := countdown.Config{Interval: time.Second, EmitEvents: true}
	for _, id := range []string{"e1", "e2", "e3"} {
		eng := h.newEngine(t, id, cfg)
		if err := eng.Start(ctx); err != nil {
			t.Fatalf("eng.Start() error = %v, want nil", err)
		}
	}

	runs := h.mgr.FinishedRuns()
	var ids []string
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	// The oldest run is evicted, the rest stay in finish order.
	if diff := cmp.Diff(ids, []string{"e2", "e3"}); diff != "" {
		t.Fatalf("finished run IDs mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestManager_FinishedRuns_HistoryDisabled(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, &countdown.ManagerOptions{HistorySize: -1})
	ctx := t.Context()

	eng := h.newEngine(t, "e1", countdown.Config{Interval: time.Second, EmitEvents: true})
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("eng.Start() error = %v, want nil", err)
	}

	if got := h.mgr.FinishedRuns(); len(got) != 0 {
		t.Fatalf("mgr.FinishedRuns() = %v, want none", got)
	}
}

func TestManager_OnNewEngine_Unbind(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)
	cfg := countdown.Config{Duration: time.Second, Interval: time.Second}

	calls := 0
	unbind := h.mgr.OnNewEngine(func(context.Context, *countdown.Engine) { calls++ })

	h.newEngine(t, "t1", cfg)
	if calls != 1 {
		t.Fatalf("creation callback calls = %v, want 1", calls)
	}

	unbind()
	h.newEngine(t, "t2", cfg)
	if calls != 1 {
		t.Fatalf("creation callback calls after unbind = %v, want 1", calls)
	}
}

func TestManager_Stats(t *testing.T) {
	t.Parallel()

	var rcdr countdown.StatsRecorder
	h := newManagerHarness(t, &countdown.ManagerOptions{Stats: &rcdr})
	ctx := t.Context()

	// Auto started zero duration run finishes before NewEngine returns.
	h.newEngine(t, "e1", countdown.Config{Interval: time.Second, AutoStart: true, EmitEvents: true})

	eng2 := h.newEngine(t, "e2", countdown.Config{
		Duration:   3 * time.Second,
		Interval:   time.Second,
		AutoStart:  true,
		EmitEvents: true,
	})
	if err := eng2.Abort(ctx); err != nil {
		t.Fatalf("eng2.Abort() error = %v, want nil", err)
	}

	want := countdown.EngineStats{
		StartsTotal: 2,
		AbortsTotal: 1,
		EndsTotal:   1,
	}
	if diff := cmp.Diff(rcdr.Report().Engines, want); diff != "" {
		t.Fatalf("report.Engines mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestManager_CustomFactory(t *testing.T) {
	t.Parallel()

	var made []string
	factory := countdown.EngineFactoryFunc(func(ctx context.Context, cfg countdown.Config, opts *countdown.Options) (*countdown.Engine, error) {
		made = append(made, opts.ID)
		return countdown.New(ctx, cfg, opts)
	})

	h := newManagerHarness(t, &countdown.ManagerOptions{EngineFactory: factory})
	h.newEngine(t, "t1", countdown.Config{Duration: time.Second, Interval: time.Second})

	if diff := cmp.Diff(made, []string{"t1"}); diff != "" {
		t.Fatalf("factory calls mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestManager_FactoryError(t *testing.T) {
	t.Parallel()

	wantErr := countdown.Error("factory boom")
	factory := countdown.EngineFactoryFunc(func(context.Context, countdown.Config, *countdown.Options) (*countdown.Engine, error) {
		return nil, wantErr
	})

	h := newManagerHarness(t, &countdown.ManagerOptions{EngineFactory: factory})

	_, err := h.mgr.NewEngine(t.Context(), countdown.Config{Interval: time.Second}, nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("mgr.NewEngine() error = %v, want %v", err, wantErr)
	}
	if got := h.mgr.Len(); got != 0 {
		t.Fatalf("mgr.Len() = %v, want 0", got)
	}
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	h := newManagerHarness(t, nil)
	ctx := t.Context()

	eng1 := h.newEngine(t, "t1", countdown.Config{
		Duration:   3 * time.Second,
		Interval:   time.Second,
		AutoStart:  true,
		EmitEvents: true,
	})
	h.newEngine(t, "t2", countdown.Config{Duration: time.Second, Interval: time.Second})

	if err := h.mgr.Close(ctx); err != nil {
		t.Fatalf("first mgr.Close() error = %v, want nil", err)
	}
	if err := h.mgr.Close(ctx); err != nil {
		t.Fatalf("second mgr.Close() error = %v, want nil", err)
	}

	if got := h.mgr.Len(); got != 0 {
		t.Fatalf("mgr.Len() after close = %v, want 0", got)
	}
	if _, err := h.mgr.NewEngine(ctx, countdown.DefaultConfig(), nil); !errors.Is(err, countdown.ErrManagerClosed) {
		t.Fatalf("mgr.NewEngine() after close error = %v, want %v", err, countdown.ErrManagerClosed)
	}

	// Registered engines are closed with the manager.
	if err := eng1.Start(ctx); !errors.Is(err, countdown.ErrEngineClosed) {
		t.Fatalf("eng1.Start() error = %v, want %v", err, countdown.ErrEngineClosed)
	}
}
