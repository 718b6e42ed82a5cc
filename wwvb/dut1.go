package wwvb

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

// SeriesEntry is one calendar day of UT1-UTC data, already rounded to
// deciseconds. Zero is always represented as positive.
type SeriesEntry struct {
	Date   time.Time // UTC day
	Offset int       // deciseconds, -10..10
}

// Series is an immutable run of daily DUT1 values with no gaps. It is
// safe to share across any number of concurrent encoders and decoders;
// there is no writer path.
type Series struct {
	start   time.Time
	offsets []int
}

// NewSeries validates a date-ordered run of daily entries: one entry per
// day, no gaps, offsets within one second of zero.
func NewSeries(entries []SeriesEntry) (*Series, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrMalformedSeries)
	}
	start := utcMidnight(entries[0].Date)
	offsets := make([]int, len(entries))
	for i, e := range entries {
		if abs(e.Offset) > 10 {
			return nil, fmt.Errorf("%w: offset %d deciseconds on %s", ErrMalformedSeries, e.Offset, e.Date.Format("2006-01-02"))
		}
		if want := start.AddDate(0, 0, i); !utcMidnight(e.Date).Equal(want) {
			return nil, fmt.Errorf("%w: expected entry for %s, got %s",
				ErrMalformedSeries, want.Format("2006-01-02"), e.Date.Format("2006-01-02"))
		}
		offsets[i] = e.Offset
	}
	return &Series{start: start, offsets: offsets}, nil
}

// Start returns the first covered day.
func (s *Series) Start() time.Time { return s.start }

// End returns the day after the last covered day.
func (s *Series) End() time.Time { return s.start.AddDate(0, 0, len(s.offsets)) }

// Len returns the number of covered days.
func (s *Series) Len() int { return len(s.offsets) }

// Rounded returns the broadcastable DUT1 value for the given day in
// deciseconds. Days outside the covered range are an error, never
// clamped.
func (s *Series) Rounded(date time.Time) (int, error) {
	i := s.index(date)
	if i < 0 {
		return 0, fmt.Errorf("%s not covered by DUT1 series (%s..%s)",
			date.Format("2006-01-02"), s.start.Format("2006-01-02"), s.End().Format("2006-01-02"))
	}
	return s.offsets[i], nil
}

// LeapSecondEvent is a leap second inferred from the series: Date is the
// UTC day whose final minute is lengthened or shortened.
type LeapSecondEvent struct {
	Date      time.Time
	Direction LeapSecond
}

// LeapSeconds infers leap-second events from the series. A leap second
// falls between consecutive days with rounded values X and Y exactly
// when X*Y < 0; zero values never participate. The direction follows
// the sign of X: X positive means a positive leap second, the 61-second
// final minute of that day.
//
// The inference relies on a property of the real data, not enforced
// here: DUT1 moves slowly enough that a zero day separates any two sign
// changes of opposite direction.
func (s *Series) LeapSeconds() []LeapSecondEvent {
	var events []LeapSecondEvent
	for i := 0; i+1 < len(s.offsets); i++ {
		if x, y := s.offsets[i], s.offsets[i+1]; x*y < 0 {
			dir := LeapNegative
			if x > 0 {
				dir = LeapPositive
			}
			events = append(events, LeapSecondEvent{Date: s.start.AddDate(0, 0, i), Direction: dir})
		}
	}
	return events
}

// LeapAt returns the direction of the leap second at the end of the
// given UTC day, or LeapNone. The day after must also be covered for
// the sign-change test; the final covered day reports LeapNone.
func (s *Series) LeapAt(date time.Time) (LeapSecond, error) {
	i := s.index(date)
	if i < 0 {
		return LeapNone, fmt.Errorf("%s not covered by DUT1 series", date.Format("2006-01-02"))
	}
	if i+1 >= len(s.offsets) {
		return LeapNone, nil
	}
	if x, y := s.offsets[i], s.offsets[i+1]; x*y < 0 {
		if x > 0 {
			return LeapPositive, nil
		}
		return LeapNegative, nil
	}
	return LeapNone, nil
}

// Merge overlays an authoritative series (the station-reported values)
// on a broader estimate series. Wherever both cover a day the
// authoritative value wins. The two ranges must overlap or abut, since
// the result may not contain gaps.
func Merge(authoritative, estimate *Series) (*Series, error) {
	first, last := authoritative, estimate
	if estimate.start.Before(first.start) {
		first, last = estimate, authoritative
	}
	if last.start.After(first.End()) {
		return nil, fmt.Errorf("%w: gap between %s and %s",
			ErrMalformedSeries, first.End().Format("2006-01-02"), last.start.Format("2006-01-02"))
	}
	end := authoritative.End()
	if estimate.End().After(end) {
		end = estimate.End()
	}
	start := first.start
	n := daysBetween(start, end)
	offsets := make([]int, n)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		if j := authoritative.index(d); j >= 0 {
			offsets[i] = authoritative.offsets[j]
		} else {
			offsets[i] = estimate.offsets[estimate.index(d)]
		}
	}
	return &Series{start: start, offsets: offsets}, nil
}

func (s *Series) index(date time.Time) int {
	i := daysBetween(s.start, utcMidnight(date))
	if i < 0 || i >= len(s.offsets) {
		return -1
	}
	return i
}

// RoundDUT1 rounds a raw UT1-UTC estimate in seconds to deciseconds.
// Ties round toward positive so that -0.05 s becomes zero, never a
// negative zero.
func RoundDUT1(seconds float64) int {
	return int(math.Floor(seconds*10 + 0.5))
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
