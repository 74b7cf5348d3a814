package countdown

import (
	"context"
	"time"

	"braces.dev/errtrace"
	"github.com/google/uuid"
)

// Snapshot is a point-in-time view of an engine, suitable for logging,
// persistence and transfer between processes.
type Snapshot struct {
	Time      time.Time     `json:"time"`
	ID        string        `json:"id"`
	State     State         `json:"state"`
	Config    Config        `json:"config"`
	Remaining time.Duration `json:"remaining"`
	EndTime   time.Time     `json:"end_time,omitzero"`
	Breakdown Breakdown     `json:"breakdown"`
}

// Snapshot captures the current engine state.
func (eng *Engine) Snapshot() Snapshot {
	eng.mu.Lock()
	cfg := eng.cfg
	rem := eng.remaining
	end := eng.endTime
	eng.mu.Unlock()

	return Snapshot{
		Time:      eng.clock.Now(),
		ID:        eng.id,
		State:     eng.State(),
		Config:    cfg,
		Remaining: rem,
		EndTime:   end,
		Breakdown: MakeBreakdown(rem),
	}
}

// Restore creates an engine from a snapshot. The remaining time is taken
// from the snapshot rather than the config, and a snapshot taken while
// counting resumes immediately with the end time recomputed from the
// restore instant. [Config.AutoStart] has no effect here.
func Restore(ctx context.Context, snap Snapshot, opts *Options) (*Engine, error) {
	if err := snap.Config.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if snap.Remaining < 0 {
		return nil, errtrace.Wrap(NewInvalidArgumentError("remaining must not be negative, got %v", snap.Remaining))
	}

	id := snap.ID
	if opts != nil && opts.ID != "" {
		id = opts.ID
	}
	if id == "" {
		id = uuid.NewString()
	}

	eng := newEngine(ctx, id, snap.Config, snap.Remaining, opts)

	if snap.State == StateCounting {
		if err := eng.Start(ctx); err != nil {
			_ = eng.Close()
			return nil, errtrace.Wrap(err)
		}
	}
	return eng, nil
}
