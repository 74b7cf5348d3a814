package countdown

import (
	"context"
	"sync/atomic"
	"time"
)

type StatsReport struct {
	Time    time.Time   `json:"time"`
	Engines EngineStats `json:"engines"`
}

type EngineStats struct {
	// Counting is a number of engines currently counting.
	Counting uint64 `json:"counting"`
	// StartsTotal is a total number of started runs.
	StartsTotal uint64 `json:"starts_total"`
	// AbortsTotal is a total number of aborted or dropped runs.
	AbortsTotal uint64 `json:"aborts_total"`
	// EndsTotal is a total number of runs that counted down to zero.
	EndsTotal uint64 `json:"ends_total"`
	// StepsTotal is a total number of reported countdown steps.
	StepsTotal uint64 `json:"steps_total"`
}

// StatsRecorder records countdown statistics.
type StatsRecorder struct {
	engineStats
}

type engineStats struct {
	counting atomic.Int64

	startsTotal,
	abortsTotal,
	endsTotal,
	stepsTotal atomic.Uint64
}

// Report returns a statistics report over all bound engines.
// Call this function periodically to get updated values.
func (rcdr *StatsRecorder) Report() StatsReport {
	return StatsReport{
		Time: time.Now(),
		Engines: EngineStats{
			Counting:    clampToUint64(rcdr.counting.Load()),
			StartsTotal: rcdr.startsTotal.Load(),
			AbortsTotal: rcdr.abortsTotal.Load(),
			EndsTotal:   rcdr.endsTotal.Load(),
			StepsTotal:  rcdr.stepsTotal.Load(),
		},
	}
}

func clampToUint64(value int64) uint64 {
	if value <= 0 {
		return 0
	}
	return uint64(value)
}

func (rcdr *StatsRecorder) handleStateChanged(eng *Engine) StateChangedHandler {
	return func(_ context.Context, from, to State) {
		switch {
		case to == StateCounting:
			rcdr.counting.Add(1)
			rcdr.startsTotal.Add(1)
		case from == StateCounting:
			rcdr.counting.Add(-1)
			if eng.Remaining() == 0 {
				rcdr.endsTotal.Add(1)
			} else {
				rcdr.abortsTotal.Add(1)
			}
		}
	}
}

func (rcdr *StatsRecorder) handleProgress(context.Context, *Engine, Breakdown) {
	rcdr.stepsTotal.Add(1)
}

// BindStatsRecorder attaches rcdr to eng and returns a function that
// detaches it. Lifecycle counters follow state transitions and are
// recorded even with run notifications disabled, step counts follow
// progress notifications.
func BindStatsRecorder(rcdr *StatsRecorder, eng *Engine) (unbind func()) {
	unbinds := []func(){
		eng.OnStateChanged(rcdr.handleStateChanged(eng)),
		eng.OnProgress(rcdr.handleProgress),
	}
	return func() {
		for _, fn := range unbinds {
			fn()
		}
	}
}
