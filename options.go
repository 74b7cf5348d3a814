package countdown

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/tickworks/countdown/log"
)

// Options configures an [Engine].
// A nil *Options is valid and falls back to defaults for every field.
type Options struct {
	// ID identifies the engine in logs and registries.
	// Defaults to a random UUID.
	ID string
	// Clock supplies the current time. Defaults to [SystemClock].
	Clock Clock
	// Frames schedules countdown steps. Defaults to [DefaultFrameScheduler].
	Frames FrameScheduler
	// Visibility reports surface visibility. Defaults to [AlwaysVisible].
	Visibility VisibilityProvider
	// Logger is the engine logger. Defaults to [log.Default].
	Logger *slog.Logger
}

func (o *Options) id() string {
	if o == nil || o.ID == "" {
		return uuid.NewString()
	}
	return o.ID
}

func (o *Options) clock() Clock {
	if o == nil || o.Clock == nil {
		return SystemClock()
	}
	return o.Clock
}

func (o *Options) frames() FrameScheduler {
	if o == nil || o.Frames == nil {
		return DefaultFrameScheduler()
	}
	return o.Frames
}

func (o *Options) visibility() VisibilityProvider {
	if o == nil || o.Visibility == nil {
		return AlwaysVisible()
	}
	return o.Visibility
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}
