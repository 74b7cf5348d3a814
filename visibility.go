package countdown

import (
	"sync"

	"github.com/tickworks/countdown/internal/types"
)

// Visibility reports whether the surface an engine drives is on screen.
type Visibility string

const (
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

// Visible reports whether v is [VisibilityVisible].
func (v Visibility) Visible() bool { return v == VisibilityVisible }

func (v Visibility) String() string { return string(v) }

// VisibilityHandler is invoked with the new visibility after a change.
type VisibilityHandler func(vis Visibility)

// VisibilityProvider reports surface visibility and notifies about changes.
// An [Engine] pauses its schedule while the surface is hidden and
// resynchronizes against its clock when the surface becomes visible again.
type VisibilityProvider interface {
	Visibility() Visibility
	// OnVisibilityChange registers fn to be called on every visibility change.
	// The returned function removes the registration.
	OnVisibilityChange(fn VisibilityHandler) (remove func())
}

type alwaysVisible struct{}

func (alwaysVisible) Visibility() Visibility { return VisibilityVisible }

func (alwaysVisible) OnVisibilityChange(VisibilityHandler) (remove func()) { return func() {} }

// AlwaysVisible returns a [VisibilityProvider] that is permanently visible
// and never notifies. It is the default for engines driving headless surfaces.
func AlwaysVisible() VisibilityProvider { return alwaysVisible{} }

// SyntheticVisibility is a [VisibilityProvider] driven by explicit [SyntheticVisibility.Set]
// calls. It stands in for a real surface in tests and non-UI hosts.
type SyntheticVisibility struct {
	mu  sync.Mutex
	vis Visibility
	cbs types.CallbackManager[VisibilityHandler]
}

// NewSyntheticVisibility creates a new [SyntheticVisibility] in the given state.
// An empty initial state defaults to [VisibilityVisible].
func NewSyntheticVisibility(initial Visibility) *SyntheticVisibility {
	if initial == "" {
		initial = VisibilityVisible
	}
	return &SyntheticVisibility{vis: initial}
}

func (s *SyntheticVisibility) Visibility() Visibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vis
}

func (s *SyntheticVisibility) OnVisibilityChange(fn VisibilityHandler) (remove func()) {
	return s.cbs.Add(fn)
}

// Set switches the visibility to vis and notifies registered handlers.
// Setting the current state again is a no-op.
func (s *SyntheticVisibility) Set(vis Visibility) {
	s.mu.Lock()
	if vis == s.vis {
		s.mu.Unlock()
		return
	}
	s.vis = vis
	s.mu.Unlock()

	for fn := range s.cbs.All() {
		fn(vis)
	}
}
