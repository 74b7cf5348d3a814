package countdown

import (
	"sync"
	"time"
)

// DefaultFramePeriod is the spacing between frames of the ticker scheduler.
const DefaultFramePeriod = 16 * time.Millisecond

// FrameCallback is invoked once with the timestamp of the frame it ran in.
type FrameCallback func(ts time.Time)

// FrameHandle identifies a scheduled callback. The zero handle is never
// issued and is safe to cancel.
type FrameHandle uint64

// FrameScheduler invokes callbacks on a repaint-like cadence.
// An [Engine] schedules at most one callback at a time and cancels it
// when pausing, so implementations must support cheap cancellation.
type FrameScheduler interface {
	// ScheduleFrame registers fn to run once on the next frame.
	ScheduleFrame(fn FrameCallback) FrameHandle
	// CancelFrame drops a pending callback. Unknown handles are ignored.
	CancelFrame(h FrameHandle)
}

// FrameSchedulerOptions configures a [TickerFrameScheduler].
type FrameSchedulerOptions struct {
	// Period is the frame spacing. Defaults to [DefaultFramePeriod].
	Period time.Duration
	// Clock supplies frame timestamps. Defaults to [SystemClock].
	Clock Clock
}

func (o *FrameSchedulerOptions) period() time.Duration {
	if o == nil || o.Period <= 0 {
		return DefaultFramePeriod
	}
	return o.Period
}

func (o *FrameSchedulerOptions) clock() Clock {
	if o == nil || o.Clock == nil {
		return SystemClock()
	}
	return o.Clock
}

// TickerFrameScheduler drives frame callbacks from a [time.Ticker].
// The ticker goroutine starts on demand and exits when no callbacks
// are pending, so an idle scheduler costs nothing.
type TickerFrameScheduler struct {
	period time.Duration
	clock  Clock

	mu      sync.Mutex
	pending map[FrameHandle]FrameCallback
	order   []FrameHandle
	nextID  FrameHandle
	running bool
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewTickerFrameScheduler creates a new [TickerFrameScheduler].
func NewTickerFrameScheduler(opts *FrameSchedulerOptions) *TickerFrameScheduler {
	return &TickerFrameScheduler{
		period: opts.period(),
		clock:  opts.clock(),
		done:   make(chan struct{}),
	}
}

func (s *TickerFrameScheduler) ScheduleFrame(fn FrameCallback) FrameHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || fn == nil {
		return 0
	}

	s.nextID++
	h := s.nextID
	if s.pending == nil {
		s.pending = make(map[FrameHandle]FrameCallback)
	}
	s.pending[h] = fn
	s.order = append(s.order, h)

	if !s.running {
		s.running = true
		s.wg.Add(1)
		go s.loop()
	}
	return h
}

func (s *TickerFrameScheduler) CancelFrame(h FrameHandle) {
	s.mu.Lock()
	delete(s.pending, h)
	s.mu.Unlock()
}

// Close drops all pending callbacks and waits for the ticker goroutine
// to exit. The scheduler cannot be reused afterwards.
func (s *TickerFrameScheduler) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.pending = nil
		s.order = nil
		s.mu.Unlock()
		close(s.done)
	})
	s.wg.Wait()
	return nil
}

func (s *TickerFrameScheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			batch := s.take()
			if batch == nil {
				return
			}
			ts := s.clock.Now()
			for _, fn := range batch {
				fn(ts)
			}
		}
	}
}

// take swaps out the pending batch. A nil result means the scheduler
// has no work and the calling goroutine must exit, any later schedule
// starts a fresh one.
func (s *TickerFrameScheduler) take() []FrameCallback {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		s.running = false
		return nil
	}

	batch := make([]FrameCallback, 0, len(s.pending))
	for _, h := range s.order {
		if fn, ok := s.pending[h]; ok {
			batch = append(batch, fn)
		}
	}
	clear(s.pending)
	s.order = s.order[:0]
	return batch
}

var defaultFrames = sync.OnceValue(func() *TickerFrameScheduler {
	return NewTickerFrameScheduler(nil)
})

// DefaultFrameScheduler returns the process-wide shared [TickerFrameScheduler].
// It is the scheduler engines fall back to when none is set via options.
func DefaultFrameScheduler() FrameScheduler { return defaultFrames() }

// ManualFrameScheduler is a [FrameScheduler] driven by explicit
// [ManualFrameScheduler.Fire] calls. Each Fire delivers exactly one frame:
// callbacks scheduled during a frame run in the next one.
type ManualFrameScheduler struct {
	mu      sync.Mutex
	pending map[FrameHandle]FrameCallback
	order   []FrameHandle
	nextID  FrameHandle
}

func (s *ManualFrameScheduler) ScheduleFrame(fn FrameCallback) FrameHandle {
	if fn == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	h := s.nextID
	if s.pending == nil {
		s.pending = make(map[FrameHandle]FrameCallback)
	}
	s.pending[h] = fn
	s.order = append(s.order, h)
	return h
}

func (s *ManualFrameScheduler) CancelFrame(h FrameHandle) {
	s.mu.Lock()
	delete(s.pending, h)
	s.mu.Unlock()
}

// Pending returns the number of callbacks waiting for the next frame.
func (s *ManualFrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Fire delivers one frame with the given timestamp and returns the number
// of callbacks invoked.
func (s *ManualFrameScheduler) Fire(ts time.Time) int {
	s.mu.Lock()
	batch := make([]FrameCallback, 0, len(s.pending))
	for _, h := range s.order {
		if fn, ok := s.pending[h]; ok {
			batch = append(batch, fn)
		}
	}
	clear(s.pending)
	s.order = s.order[:0]
	s.mu.Unlock()

	for _, fn := range batch {
		fn(ts)
	}
	return len(batch)
}
