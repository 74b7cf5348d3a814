package journal

import (
	"fmt"
	"time"
)

// Kind discriminates journal entries.
type Kind uint8

const (
	// KindStart marks a transition into active counting.
	KindStart Kind = iota
	// KindProgress marks one interval step with time still remaining.
	KindProgress
	// KindAbort marks a stop that preserved the remaining time.
	KindAbort
	// KindEnd marks the remainder reaching zero.
	KindEnd
	// KindStateChange marks a state machine transition.
	KindStateChange
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindProgress:
		return "progress"
	case KindAbort:
		return "abort"
	case KindEnd:
		return "end"
	case KindStateChange:
		return "state_change"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Event is a single journal entry. Integer map keys keep the encoded
// form compact; existing keys must never be renumbered so that old
// journal files stay readable.
type Event struct {
	Time      time.Time     `cbor:"1,keyasint"`
	EngineID  string        `cbor:"2,keyasint"`
	Kind      Kind          `cbor:"3,keyasint"`
	Remaining time.Duration `cbor:"4,keyasint"`

	// Progress is set for KindProgress entries only.
	Progress *ProgressDetail `cbor:"5,keyasint,omitempty"`
	// StateChange is set for KindStateChange entries only.
	StateChange *StateChangeDetail `cbor:"6,keyasint,omitempty"`
}

// ProgressDetail carries the display units of the remainder at the step.
type ProgressDetail struct {
	Days         int64 `cbor:"1,keyasint"`
	Hours        int64 `cbor:"2,keyasint"`
	Minutes      int64 `cbor:"3,keyasint"`
	Seconds      int64 `cbor:"4,keyasint"`
	Milliseconds int64 `cbor:"5,keyasint"`
}

// StateChangeDetail carries the endpoints of a state transition.
type StateChangeDetail struct {
	From string `cbor:"1,keyasint"`
	To   string `cbor:"2,keyasint"`
}
