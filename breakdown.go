package countdown

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	msPerSecond int64 = 1_000
	msPerMinute int64 = 60 * msPerSecond
	msPerHour   int64 = 60 * msPerMinute
	msPerDay    int64 = 24 * msPerHour
)

// Breakdown is an immutable decomposition of a remaining duration into
// calendar-free display units. Unit fields carry the value within the next
// larger unit, total fields carry the whole remainder expressed in that unit.
// All values are floored, never rounded.
type Breakdown struct {
	Days         int64 `json:"days"`
	Hours        int64 `json:"hours"`
	Minutes      int64 `json:"minutes"`
	Seconds      int64 `json:"seconds"`
	Milliseconds int64 `json:"milliseconds"`

	TotalDays         int64 `json:"total_days"`
	TotalHours        int64 `json:"total_hours"`
	TotalMinutes      int64 `json:"total_minutes"`
	TotalSeconds      int64 `json:"total_seconds"`
	TotalMilliseconds int64 `json:"total_milliseconds"`
}

// MakeBreakdown decomposes d into display units.
// Negative durations are treated as zero.
func MakeBreakdown(d time.Duration) Breakdown {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Breakdown{
		Days:         ms / msPerDay,
		Hours:        ms % msPerDay / msPerHour,
		Minutes:      ms % msPerHour / msPerMinute,
		Seconds:      ms % msPerMinute / msPerSecond,
		Milliseconds: ms % msPerSecond,

		TotalDays:         ms / msPerDay,
		TotalHours:        ms / msPerHour,
		TotalMinutes:      ms / msPerMinute,
		TotalSeconds:      ms / msPerSecond,
		TotalMilliseconds: ms,
	}
}

// Remaining returns the remaining duration the breakdown was made from,
// with millisecond precision.
func (b Breakdown) Remaining() time.Duration {
	return time.Duration(b.TotalMilliseconds) * time.Millisecond
}

func (b Breakdown) String() string {
	if b.Days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d.%03d", b.Days, b.Hours, b.Minutes, b.Seconds, b.Milliseconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", b.Hours, b.Minutes, b.Seconds, b.Milliseconds)
}

func (b Breakdown) LogValue() slog.Value {
	return slog.StringValue(b.String())
}
