package journal

import (
	"os"
	"sync"

	"braces.dev/errtrace"
	"github.com/fxamacker/cbor/v2"
)

// FileJournal appends CBOR-encoded events to a file. Safe for
// concurrent use.
type FileJournal struct {
	mu     sync.Mutex
	file   *os.File
	enc    *cbor.Encoder
	closed bool
}

var _ Journal = (*FileJournal)(nil)

// NewFileJournal opens path for appending, creating it if needed.
// Records from earlier sessions are preserved.
func NewFileJournal(path string) (*FileJournal, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &FileJournal{
		file: file,
		enc:  NewEncoder(file),
	}, nil
}

// Record appends ev to the file. Encode and write failures are
// dropped, recording never propagates errors into engine dispatch.
func (j *FileJournal) Record(ev Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}
	_ = j.enc.Encode(ev)
}

// Close flushes and closes the underlying file. Subsequent calls
// return nil, subsequent records are ignored.
func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return errtrace.Wrap(j.file.Close())
}
