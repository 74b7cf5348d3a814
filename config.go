package countdown

import (
	"log/slog"
	"time"

	"braces.dev/errtrace"
)

// Config describes a single countdown run.
//
// The zero value is a valid config: it counts down from zero, which ends
// immediately on start. Use [DefaultConfig] for the conventional defaults.
type Config struct {
	// Duration is the total time to count down. Must not be negative.
	Duration time.Duration `json:"duration"`
	// Interval is the logical step between progress notifications.
	// Must not be negative. A zero interval completes the run
	// immediately on start.
	Interval time.Duration `json:"interval"`
	// AutoStart starts the run as soon as the engine is created.
	AutoStart bool `json:"auto_start"`
	// EmitEvents enables start, progress, abort and end notifications.
	// State change notifications are delivered regardless.
	EmitEvents bool `json:"emit_events"`
}

// DefaultConfig returns the conventional defaults: zero duration,
// one second interval, auto start and notifications enabled.
func DefaultConfig() Config {
	return Config{
		Interval:   time.Second,
		AutoStart:  true,
		EmitEvents: true,
	}
}

// Validate checks that the config is usable.
// Negative values are rejected with [ErrInvalidConfiguration], never clamped.
func (c Config) Validate() error {
	if c.Duration < 0 {
		return errtrace.Wrap(NewInvalidConfigurationError("duration must not be negative, got %v", c.Duration))
	}
	if c.Interval < 0 {
		return errtrace.Wrap(NewInvalidConfigurationError("interval must not be negative, got %v", c.Interval))
	}
	return nil
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("duration", c.Duration),
		slog.Duration("interval", c.Interval),
		slog.Bool("auto_start", c.AutoStart),
		slog.Bool("emit_events", c.EmitEvents),
	)
}
