package countdown

import "context"

// LifecycleHandler is notified when a run starts, aborts or ends.
type LifecycleHandler func(ctx context.Context, eng *Engine)

// ProgressHandler is notified after every counted step with a breakdown
// of the remaining time. Steps that zero the remainder are not reported,
// the run end is observable via [Engine.OnEnd] instead.
type ProgressHandler func(ctx context.Context, eng *Engine, b Breakdown)

// StateChangedHandler is notified on every engine state transition.
// Unlike run notifications it is delivered even when [Config.EmitEvents]
// is off.
type StateChangedHandler func(ctx context.Context, from, to State)
