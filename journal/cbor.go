package journal

import (
	"fmt"
	"io"

	"braces.dev/errtrace"
	"github.com/fxamacker/cbor/v2"
)

// Encoding uses canonical CBOR with definite lengths and RFC 3339
// timestamps, so the same event always produces the same bytes and
// files remain inspectable with generic CBOR tooling. Decoding is
// deliberately more permissive than encoding.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("journal: invalid encode options: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("journal: invalid decode options: %v", err))
	}
}

// EncodeEvent renders a single event as canonical CBOR.
func EncodeEvent(ev Event) ([]byte, error) {
	return errtrace.Wrap2(encMode.Marshal(ev))
}

// DecodeEvent parses a single CBOR-encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := decMode.Unmarshal(data, &ev); err != nil {
		return Event{}, errtrace.Wrap(err)
	}
	return ev, nil
}

// NewEncoder returns a streaming event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a streaming event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
