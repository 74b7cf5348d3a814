package journal

import (
	"context"

	"github.com/tickworks/countdown"
)

func handleRun(j Journal, kind Kind) countdown.LifecycleHandler {
	return func(_ context.Context, eng *countdown.Engine) {
		snap := eng.Snapshot()
		j.Record(Event{
			Time:      snap.Time,
			EngineID:  snap.ID,
			Kind:      kind,
			Remaining: snap.Remaining,
		})
	}
}

func handleProgress(j Journal) countdown.ProgressHandler {
	return func(_ context.Context, eng *countdown.Engine, b countdown.Breakdown) {
		snap := eng.Snapshot()
		j.Record(Event{
			Time:      snap.Time,
			EngineID:  snap.ID,
			Kind:      KindProgress,
			Remaining: b.Remaining(),
			Progress: &ProgressDetail{
				Days:         b.Days,
				Hours:        b.Hours,
				Minutes:      b.Minutes,
				Seconds:      b.Seconds,
				Milliseconds: b.Milliseconds,
			},
		})
	}
}

func handleStateChanged(j Journal, eng *countdown.Engine) countdown.StateChangedHandler {
	return func(_ context.Context, from, to countdown.State) {
		snap := eng.Snapshot()
		j.Record(Event{
			Time:      snap.Time,
			EngineID:  snap.ID,
			Kind:      KindStateChange,
			Remaining: snap.Remaining,
			StateChange: &StateChangeDetail{
				From: from.String(),
				To:   to.String(),
			},
		})
	}
}

// Bind attaches j to eng and returns a function that detaches it.
// Run entries follow run notifications and are absent when those are
// disabled, state change entries follow transitions and are always
// journaled.
func Bind(j Journal, eng *countdown.Engine) (unbind func()) {
	unbinds := []func(){
		eng.OnStart(handleRun(j, KindStart)),
		eng.OnProgress(handleProgress(j)),
		eng.OnAbort(handleRun(j, KindAbort)),
		eng.OnEnd(handleRun(j, KindEnd)),
		eng.OnStateChanged(handleStateChanged(j, eng)),
	}
	return func() {
		for _, fn := range unbinds {
			fn()
		}
	}
}
