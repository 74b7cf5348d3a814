package countdown_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tickworks/countdown"
)

func TestManualFrameScheduler_Fire(t *testing.T) {
	t.Parallel()

	var frames countdown.ManualFrameScheduler
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var got []string
	h1 := frames.ScheduleFrame(func(time.Time) { got = append(got, "a") })
	h2 := frames.ScheduleFrame(func(time.Time) { got = append(got, "b") })
	if h1 == 0 || h2 == 0 || h1 == h2 {
		t.Fatalf("frames.ScheduleFrame() handles = %v, %v, want distinct non-zero", h1, h2)
	}
	if got := frames.Pending(); got != 2 {
		t.Fatalf("frames.Pending() = %v, want 2", got)
	}

	if n := frames.Fire(ts); n != 2 {
		t.Fatalf("frames.Fire() = %v, want 2", n)
	}
	// Callbacks run in schedule order.
	if diff := cmp.Diff(got, []string{"a", "b"}); diff != "" {
		t.Fatalf("callback order mismatch\ndiff (-got +want):\n%v", diff)
	}

	// A frame delivers each callback exactly once.
	if n := frames.Fire(ts); n != 0 {
		t.Fatalf("frames.Fire() on empty scheduler = %v, want 0", n)
	}
}

func TestManualFrameScheduler_CancelFrame(t *testing.T) {
	t.Parallel()

	var frames countdown.ManualFrameScheduler
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var got []string
	h1 := frames.ScheduleFrame(func(time.Time) { got = append(got, "a") })
	frames.ScheduleFrame(func(time.Time) { got = append(got, "b") })

	frames.CancelFrame(h1)
	frames.CancelFrame(0)   // zero handle is never issued
	frames.CancelFrame(999) // unknown handles are ignored

	if n := frames.Fire(ts); n != 1 {
		t.Fatalf("frames.Fire() = %v, want 1", n)
	}
	if diff := cmp.Diff(got, []string{"b"}); diff != "" {
		t.Fatalf("callbacks mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestManualFrameScheduler_NextFrame(t *testing.T) {
	t.Parallel()

	var frames countdown.ManualFrameScheduler
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// A callback scheduled during a frame runs in the next one.
	calls := 0
	var fn countdown.FrameCallback
	fn = func(time.Time) {
		calls++
		if calls < 3 {
			frames.ScheduleFrame(fn)
		}
	}
	frames.ScheduleFrame(fn)

	for i := range 3 {
		if n := frames.Fire(ts); n != 1 {
			t.Fatalf("frames.Fire() on frame %v = %v, want 1", i+1, n)
		}
	}
	if calls != 3 {
		t.Fatalf("callback ran %v times, want 3", calls)
	}
	if got := frames.Pending(); got != 0 {
		t.Fatalf("frames.Pending() = %v, want 0", got)
	}
}

func TestManualFrameScheduler_NilCallback(t *testing.T) {
	t.Parallel()

	var frames countdown.ManualFrameScheduler
	if h := frames.ScheduleFrame(nil); h != 0 {
		t.Fatalf("frames.ScheduleFrame(nil) = %v, want 0", h)
	}
	if got := frames.Pending(); got != 0 {
		t.Fatalf("frames.Pending() = %v, want 0", got)
	}
}

func TestTickerFrameScheduler_ScheduleFrame(t *testing.T) {
	t.Parallel()

	frames := countdown.NewTickerFrameScheduler(&countdown.FrameSchedulerOptions{Period: time.Millisecond})
	defer frames.Close()

	done := make(chan time.Time, 1)
	if h := frames.ScheduleFrame(func(ts time.Time) { done <- ts }); h == 0 {
		t.Fatalf("frames.ScheduleFrame() = 0, want non-zero handle")
	}

	select {
	case ts := <-done:
		if ts.IsZero() {
			t.Fatalf("frame timestamp is zero, want wall clock time")
		}
	case <-time.After(time.Second):
		t.Fatalf("frame callback not invoked within 1s")
	}
}

func TestTickerFrameScheduler_SequentialFrames(t *testing.T) {
	t.Parallel()

	frames := countdown.NewTickerFrameScheduler(&countdown.FrameSchedulerOptions{Period: time.Millisecond})
	defer frames.Close()

	// A callback scheduled during a frame lands on a later tick.
	done := make(chan [2]time.Time, 1)
	frames.ScheduleFrame(func(ts1 time.Time) {
		frames.ScheduleFrame(func(ts2 time.Time) {
			done <- [2]time.Time{ts1, ts2}
		})
	})

	select {
	case ts := <-done:
		if !ts[1].After(ts[0]) {
			t.Fatalf("second frame at %v, want after first frame at %v", ts[1], ts[0])
		}
	case <-time.After(time.Second):
		t.Fatalf("frame callbacks not invoked within 1s")
	}
}

func TestTickerFrameScheduler_CancelFrame(t *testing.T) {
	t.Parallel()

	frames := countdown.NewTickerFrameScheduler(&countdown.FrameSchedulerOptions{Period: 50 * time.Millisecond})
	defer frames.Close()

	fired := make(chan struct{}, 1)
	h := frames.ScheduleFrame(func(time.Time) { fired <- struct{}{} })
	frames.CancelFrame(h)

	select {
	case <-fired:
		t.Fatalf("cancelled frame callback was invoked")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestTickerFrameScheduler_Close(t *testing.T) {
	t.Parallel()

	frames := countdown.NewTickerFrameScheduler(nil)

	if err := frames.Close(); err != nil {
		t.Fatalf("first frames.Close() error = %v, want nil", err)
	}
	if err := frames.Close(); err != nil {
		t.Fatalf("second frames.Close() error = %v, want nil", err)
	}

	if h := frames.ScheduleFrame(func(time.Time) {}); h != 0 {
		t.Fatalf("frames.ScheduleFrame() after close = %v, want 0", h)
	}
}
