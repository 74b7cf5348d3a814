package countdown_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tickworks/countdown"
)

func TestMakeBreakdown(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		d    time.Duration
		want countdown.Breakdown
	}{
		{"zero", 0, countdown.Breakdown{}},
		{"negative", -5 * time.Second, countdown.Breakdown{}},
		{"sub-millisecond", 999 * time.Microsecond, countdown.Breakdown{}},
		{
			"minute and a half",
			90*time.Second + 125*time.Millisecond,
			countdown.Breakdown{
				Minutes:           1,
				Seconds:           30,
				Milliseconds:      125,
				TotalMinutes:      1,
				TotalSeconds:      90,
				TotalMilliseconds: 90125,
			},
		},
		{
			"day rollover",
			26*time.Hour + 3*time.Minute + 4*time.Second + 5*time.Millisecond,
			countdown.Breakdown{
				Days:              1,
				Hours:             2,
				Minutes:           3,
				Seconds:           4,
				Milliseconds:      5,
				TotalDays:         1,
				TotalHours:        26,
				TotalMinutes:      1563,
				TotalSeconds:      93784,
				TotalMilliseconds: 93784005,
			},
		},
		{
			"exact day",
			24 * time.Hour,
			countdown.Breakdown{
				Days:              1,
				TotalDays:         1,
				TotalHours:        24,
				TotalMinutes:      1440,
				TotalSeconds:      86400,
				TotalMilliseconds: 86400000,
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := countdown.MakeBreakdown(c.d)
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("countdown.MakeBreakdown(%v) mismatch\ndiff (-got +want):\n%v", c.d, diff)
			}
		})
	}
}

func TestBreakdown_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "00:00:00.000"},
		{"minute and a half", 90*time.Second + 125*time.Millisecond, "00:01:30.125"},
		{"with days", 26*time.Hour + 3*time.Minute + 4*time.Second + 5*time.Millisecond, "1d 02:03:04.005"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := countdown.MakeBreakdown(c.d).String(); got != c.want {
				t.Errorf("countdown.MakeBreakdown(%v).String() = %q, want %q", c.d, got, c.want)
			}
		})
	}
}

func TestBreakdown_Remaining(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		d    time.Duration
		want time.Duration
	}{
		{"zero", 0, 0},
		{"exact milliseconds", 90*time.Second + 125*time.Millisecond, 90125 * time.Millisecond},
		{"sub-millisecond truncated", 1500 * time.Microsecond, time.Millisecond},
		{"negative clamped", -time.Second, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := countdown.MakeBreakdown(c.d).Remaining(); got != c.want {
				t.Errorf("countdown.MakeBreakdown(%v).Remaining() = %v, want %v", c.d, got, c.want)
			}
		})
	}
}
