// Package journal captures the observable countdown event stream in a
// compact machine-readable form.
//
// Unlike operational logging the journal is a complete replayable trace:
// every run notification and state transition of a bound engine becomes
// one CBOR-encoded [Event]. Files produced by [FileJournal] can be read
// back with [Reader] or [ReadFile], also from another process.
package journal

//go:generate errtrace -w .

// Journal records countdown events. Implementations must be safe for
// concurrent use, engines dispatch from the goroutine that produced
// the event.
type Journal interface {
	Record(ev Event)
}

// NoopJournal discards all events. Usable as a zero value.
type NoopJournal struct{}

func (NoopJournal) Record(Event) {}

var _ Journal = NoopJournal{}
