package history

import (
	"context"
	"sync"

	"github.com/tickworks/countdown"
)

// BindEngine archives every run of eng that leaves the counting state
// and returns a function that detaches the watcher. Archive failures
// never propagate into engine dispatch.
func BindEngine(s *Store, eng *countdown.Engine) (unbind func()) {
	return eng.OnStateChanged(func(_ context.Context, from, _ countdown.State) {
		if from != countdown.StateCounting {
			return
		}
		snap := eng.Snapshot()
		outcome := countdown.OutcomeAborted
		if snap.Remaining == 0 {
			outcome = countdown.OutcomeCompleted
		}
		_ = s.Append(countdown.FinishedRun{
			ID:        snap.ID,
			Outcome:   outcome,
			Config:    snap.Config,
			Remaining: snap.Remaining,
			EndedAt:   snap.Time,
		})
	})
}

// BindManager archives the runs of every engine mgr creates after the
// bind, and returns a function that detaches all watchers.
func BindManager(s *Store, mgr *countdown.Manager) (unbind func()) {
	var (
		mu       sync.Mutex
		detached bool
		unbinds  []func()
	)
	remove := mgr.OnNewEngine(func(_ context.Context, eng *countdown.Engine) {
		detach := BindEngine(s, eng)
		mu.Lock()
		defer mu.Unlock()
		if detached {
			detach()
			return
		}
		unbinds = append(unbinds, detach)
	})
	return func() {
		remove()
		mu.Lock()
		defer mu.Unlock()
		detached = true
		for _, fn := range unbinds {
			fn()
		}
		unbinds = nil
	}
}
