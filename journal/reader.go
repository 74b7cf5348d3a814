package journal

import (
	"errors"
	"io"
	"os"
	"time"

	"braces.dev/errtrace"
	"github.com/fxamacker/cbor/v2"
)

// Filter selects a subset of journal entries. Nil criteria match
// everything.
type Filter struct {
	// EngineID matches entries of a single engine.
	EngineID *string
	// Kind matches entries of a single kind.
	Kind *Kind
	// Since matches entries at or after the given instant.
	Since *time.Time
	// Until matches entries strictly before the given instant.
	Until *time.Time
}

func (f *Filter) matches(ev *Event) bool {
	if f == nil {
		return true
	}
	if f.EngineID != nil && ev.EngineID != *f.EngineID {
		return false
	}
	if f.Kind != nil && ev.Kind != *f.Kind {
		return false
	}
	if f.Since != nil && ev.Time.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !ev.Time.Before(*f.Until) {
		return false
	}
	return true
}

// Reader iterates over the events of a journal file in write order.
type Reader struct {
	file   *os.File
	dec    *cbor.Decoder
	filter *Filter
}

// NewReader opens a journal file for reading.
func NewReader(path string) (*Reader, error) {
	return errtrace.Wrap2(NewFilteredReader(path, nil))
}

// NewFilteredReader opens a journal file and yields only the entries
// matching filter.
func NewFilteredReader(path string, filter *Filter) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Reader{
		file:   file,
		dec:    NewDecoder(file),
		filter: filter,
	}, nil
}

// Next returns the next matching event. It returns [io.EOF] once the
// file is exhausted.
func (r *Reader) Next() (Event, error) {
	for {
		var ev Event
		if err := r.dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, errtrace.Wrap(err)
		}
		if r.filter.matches(&ev) {
			return ev, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return errtrace.Wrap(r.file.Close())
}

// ReadFile decodes every event of a journal file.
func ReadFile(path string) ([]Event, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer r.Close()

	var evs []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return evs, nil
		}
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		evs = append(evs, ev)
	}
}
