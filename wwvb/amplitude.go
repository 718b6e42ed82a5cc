package wwvb

import "fmt"

// Fixed second-to-field assignment of the WWVB amplitude timecode.
// Markers every tenth second frame the minute; the remaining seconds
// carry BCD digit groups and flag bits. The assignment is reproduced
// position for position from the published station format.
var (
	markSeconds = []int{0, 9, 19, 29, 39, 49}
	zeroSeconds = []int{4, 10, 11, 14, 20, 21, 24, 34, 35, 44, 54}

	minuteSeconds = []int{1, 2, 3, 5, 6, 7, 8}
	hourSeconds   = []int{12, 13, 15, 16, 17, 18}
	daySeconds    = []int{22, 23, 25, 26, 27, 28, 30, 31, 32, 33}
	ut1Seconds    = []int{40, 41, 42, 43}
	yearSeconds   = []int{45, 46, 47, 48, 50, 51, 52, 53}
	dstSeconds    = []int{57, 58}
)

const (
	ut1SignSecond  = 36 // seconds 36..38 carry the redundant sign triple
	leapYearSecond = 55
	leapSecSecond  = 56
)

// EncodeAmplitude produces the amplitude-channel symbol sequence for one
// minute. The sequence is 60 symbols long, 61 across a positive leap
// second and 59 across a negative one.
func EncodeAmplitude(m Minute) []Symbol {
	out := make([]Symbol, m.Length())
	for _, p := range markSeconds {
		out[p] = Mark
	}
	if len(out) > 59 {
		out[59] = Mark
	}
	if len(out) > 60 {
		out[60] = Mark
	}
	for _, p := range zeroSeconds {
		out[p] = Zero
	}
	putBCD(out, m.Min(), minuteSeconds)
	putBCD(out, m.Hour(), hourSeconds)
	putBCD(out, m.Days(), daySeconds)

	positive := m.UT1() >= 0
	out[ut1SignSecond] = symbolForBit(positive)
	out[ut1SignSecond+1] = symbolForBit(!positive)
	out[ut1SignSecond+2] = symbolForBit(positive)
	mag := m.UT1()
	if mag < 0 {
		mag = -mag
	}
	putBCD(out, mag, ut1Seconds)

	putBCD(out, m.Year(), yearSeconds)
	out[leapYearSecond] = symbolForBit(m.IsLeapYear())
	out[leapSecSecond] = symbolForBit(m.LeapSecond() != LeapNone)
	putBCD(out, int(m.DST()), dstSeconds)
	return out
}

// DecodeAmplitudeFrame reconstructs a Minute from one complete frame of
// amplitude symbols, verifying every fixed marker and zero position and
// every field invariant. The frame must already be aligned to the start
// of a minute; the stream Decoder handles alignment.
func DecodeAmplitudeFrame(frame []Symbol) (Minute, error) {
	if len(frame) < 59 || len(frame) > 61 {
		return Minute{}, fmt.Errorf("%w: frame length %d", ErrBadFrame, len(frame))
	}
	for _, p := range markSeconds {
		if frame[p] != Mark {
			return Minute{}, fmt.Errorf("%w: no marker at second %d", ErrBadFrame, p)
		}
	}
	if len(frame) > 59 && frame[59] != Mark {
		return Minute{}, fmt.Errorf("%w: no marker at second 59", ErrBadFrame)
	}
	if len(frame) > 60 && frame[60] != Mark {
		return Minute{}, fmt.Errorf("%w: no marker at second 60", ErrBadFrame)
	}
	for _, p := range zeroSeconds {
		if frame[p] != Zero {
			return Minute{}, fmt.Errorf("%w: nonzero symbol in reserved second %d", ErrBadFrame, p)
		}
	}

	// Redundant DUT1 sign triple: seconds 36 and 38 agree, 37 inverts.
	if frame[ut1SignSecond] == frame[ut1SignSecond+1] ||
		frame[ut1SignSecond] != frame[ut1SignSecond+2] ||
		frame[ut1SignSecond] > One || frame[ut1SignSecond+1] > One {
		return Minute{}, fmt.Errorf("%w: inconsistent DUT1 sign bits", ErrBadFrame)
	}

	min, ok := getBCD(frame, minuteSeconds)
	if !ok || min > 59 {
		return Minute{}, fmt.Errorf("%w: minute field", ErrBadFrame)
	}
	hour, ok := getBCD(frame, hourSeconds)
	if !ok || hour > 23 {
		return Minute{}, fmt.Errorf("%w: hour field", ErrBadFrame)
	}
	days, ok := getBCD(frame, daySeconds)
	if !ok {
		return Minute{}, fmt.Errorf("%w: day-of-year field", ErrBadFrame)
	}
	mag, ok := getBCD(frame, ut1Seconds)
	if !ok || mag > 9 {
		return Minute{}, fmt.Errorf("%w: DUT1 magnitude field", ErrBadFrame)
	}
	positive := frame[ut1SignSecond] == One
	if mag == 0 && !positive {
		return Minute{}, fmt.Errorf("%w: negative zero DUT1", ErrBadFrame)
	}
	ut1 := mag
	if !positive {
		ut1 = -mag
	}
	year, ok := getBCD(frame, yearSeconds)
	if !ok {
		return Minute{}, fmt.Errorf("%w: year field", ErrBadFrame)
	}
	dst, ok := getBCD(frame, dstSeconds)
	if !ok {
		return Minute{}, fmt.Errorf("%w: DST field", ErrBadFrame)
	}

	leap := LeapNone
	if frame[leapSecSecond] == One {
		if positive {
			leap = LeapPositive
		} else {
			leap = LeapNegative
		}
	}

	m, err := NewMinute(year, days, hour, min, DSTStatus(dst), ut1, leap)
	if err != nil {
		return Minute{}, fmt.Errorf("%w: %w", ErrBadFrame, err)
	}
	if ly := frame[leapYearSecond] == One; ly != m.IsLeapYear() {
		return Minute{}, fmt.Errorf("%w: leap year flag contradicts year %d", ErrBadFrame, m.FullYear())
	}
	if m.Length() != len(frame) {
		return Minute{}, fmt.Errorf("%w: frame length %d does not match leap second framing", ErrBadFrame, len(frame))
	}
	return m, nil
}

// putBCD writes v into the given seconds in MSB-first order. Each group
// of four weighted positions holds one decimal digit; positions beyond
// the value's range stay zero.
func putBCD(out []Symbol, v int, seconds []int) {
	for i := 0; i < len(seconds); i++ {
		p := seconds[len(seconds)-1-i]
		digit := v
		for k := 0; k < i/4; k++ {
			digit /= 10
		}
		out[p] = symbolForBit((digit%10)>>(i%4)&1 != 0)
	}
}

// getBCD reads the BCD value stored in the given seconds. It reports
// failure when a position holds a marker or a digit exceeds 9.
func getBCD(frame []Symbol, seconds []int) (int, bool) {
	val := 0
	base := 1
	digit := 0
	for i := 0; i < len(seconds); i++ {
		s := frame[seconds[len(seconds)-1-i]]
		if s > One {
			return 0, false
		}
		if s == One {
			digit |= 1 << (i % 4)
		}
		if i%4 == 3 || i == len(seconds)-1 {
			if digit > 9 {
				return 0, false
			}
			val += digit * base
			base *= 10
			digit = 0
		}
	}
	return val, true
}
