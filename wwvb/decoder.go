package wwvb

// Decoder is a synchronizing state machine for the amplitude channel.
// Feed it one received symbol per second with Update; it locks onto the
// two consecutive markers that straddle a minute boundary, accumulates a
// frame, and emits a decoded Minute. A framing violation discards the
// minute in progress and drops the decoder back to searching.
//
// A Decoder owns its state exclusively. Run one per symbol stream and
// construct a fresh one to restart; there is no reset of a live
// instance.
type Decoder struct {
	state syncState
	frame []Symbol
}

type syncState byte

const (
	stateSearching syncState = iota // nothing trusted yet
	stateOneMark                    // one marker seen
	stateMinuteEdge                 // consecutive markers: next data symbol is second 1
	stateSynchronized               // accumulating a frame
)

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Synchronized reports whether the decoder is currently locked to the
// marker cadence.
func (d *Decoder) Synchronized() bool {
	return d.state == stateMinuteEdge || d.state == stateSynchronized
}

// Update consumes one symbol. It returns (nil, nil) while more input is
// needed, a decoded Minute at the end of a valid frame, or an error: a
// *FramingError when the marker cadence is violated (the decoder
// resynchronizes itself) or an ErrBadFrame error when an aligned frame
// fails field validation (the decoder stays locked).
func (d *Decoder) Update(s Symbol) (*Minute, error) {
	switch d.state {
	case stateSearching:
		if s == Mark {
			d.state = stateOneMark
		}
	case stateOneMark:
		if s == Mark {
			d.state = stateMinuteEdge
		} else {
			d.state = stateSearching
		}
	case stateMinuteEdge:
		if s != Mark {
			// The previous marker was second 0 of a new minute.
			d.frame = append(d.frame[:0], Mark, s)
			d.state = stateSynchronized
		}
	case stateSynchronized:
		return d.accumulate(s)
	}
	return nil, nil
}

func (d *Decoder) accumulate(s Symbol) (*Minute, error) {
	pos := len(d.frame)
	d.frame = append(d.frame, s)

	switch {
	case pos < 59:
		if markSlot(pos) != (s == Mark) {
			return nil, d.desync(pos, s)
		}
		if pos == 58 && d.frameLength() == 59 {
			// Negative leap second: the minute ends without its
			// final marker and the next symbol is second 0 of the
			// next minute.
			return d.complete()
		}
		return nil, nil
	case pos == 59:
		if s != Mark {
			return nil, d.desync(pos, s)
		}
		if d.frameLength() == 61 {
			// Positive leap second: one more marker to come.
			return nil, nil
		}
		return d.complete()
	default: // pos == 60, positive leap framing
		if s != Mark {
			return nil, d.desync(pos, s)
		}
		return d.complete()
	}
}

// frameLength derives the expected frame length from the leap second
// flag and DUT1 sign bits accumulated so far, defaulting to 60 until
// both have been seen.
func (d *Decoder) frameLength() int {
	if len(d.frame) <= leapSecSecond || d.frame[leapSecSecond] != One {
		return 60
	}
	if d.frame[ut1SignSecond] == One {
		return 61
	}
	return 59
}

func (d *Decoder) complete() (*Minute, error) {
	m, err := DecodeAmplitudeFrame(d.frame)
	d.frame = d.frame[:0]
	// The cadence still holds; the next expected symbol is the second-0
	// marker of the following minute.
	d.state = stateOneMark
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *Decoder) desync(pos int, s Symbol) error {
	d.frame = d.frame[:0]
	if s == Mark {
		// The stray marker may be the start of the next cadence.
		d.state = stateOneMark
	} else {
		d.state = stateSearching
	}
	return &FramingError{Pos: pos, Got: s}
}

// markSlot reports whether the given second of a minute always carries a
// marker. Seconds 59 and 60 are handled by the leap framing logic.
func markSlot(pos int) bool {
	return pos < 59 && pos%10 == 9
}
