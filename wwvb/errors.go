package wwvb

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMinute reports a Minute that violates a timecode invariant.
	ErrInvalidMinute = errors.New("invalid minute")
	// ErrOutOfEpoch reports a date outside the supported 1970-2069 window.
	ErrOutOfEpoch = errors.New("outside 1970-2069 epoch")
	// ErrMalformedSeries reports a DUT1 series with gaps, unordered dates
	// or out-of-range offsets.
	ErrMalformedSeries = errors.New("malformed DUT1 series")
	// ErrBadFrame reports a complete frame whose fixed bits or field
	// contents do not form a valid minute.
	ErrBadFrame = errors.New("bad frame")
)

// FramingError is returned by the decoder when a marker appears where
// data was expected, or data where a marker was expected. The decoder
// discards the minute in progress and resynchronizes.
type FramingError struct {
	Pos int    // second index within the candidate minute
	Got Symbol // symbol actually received
}

func (e *FramingError) Error() string {
	if e.Got == Mark {
		return fmt.Sprintf("framing error: unexpected marker at second %d", e.Pos)
	}
	return fmt.Sprintf("framing error: expected marker at second %d, got %s", e.Pos, e.Got)
}
