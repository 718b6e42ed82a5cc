package wwvb

import "fmt"

// Epoch is the anchor year for two-digit years. Years 70..99 resolve to
// 1970..1999 and 00..69 to 2000..2069. No other anchor is supported.
const Epoch = 1970

// DSTStatus is the 2-bit daylight saving time code broadcast on the
// amplitude channel.
type DSTStatus byte

// Bit 1 is the status at the start of the day, bit 0 the status at its
// end, so a transition day carries the code whose bits differ.
const (
	DSTNotInEffect DSTStatus = 0b00
	DSTEndsToday   DSTStatus = 0b01
	DSTStartsToday DSTStatus = 0b10
	DSTInEffect    DSTStatus = 0b11
)

// LeapSecond describes the leap second, if any, at the end of a minute.
type LeapSecond byte

const (
	LeapNone     LeapSecond = iota
	LeapPositive            // inserted 61st second
	LeapNegative            // shortened 59-second minute
)

func (l LeapSecond) String() string {
	switch l {
	case LeapNone:
		return "none"
	case LeapPositive:
		return "positive"
	case LeapNegative:
		return "negative"
	}
	return "unknown"
}

// Minute identifies one broadcast minute of the WWVB timecode. Construct
// with NewMinute; the zero value is not valid. Values are immutable and
// safe to share.
type Minute struct {
	year     int // 0..99 within the epoch
	days     int // 1-based day of year
	hour     int
	min      int
	dst      DSTStatus
	leap     LeapSecond
	ut1      int // deciseconds, -9..9, never negative zero
	leapYear bool
}

// NewMinute validates and constructs a Minute. year may be a two-digit
// year or an absolute year within the epoch. ut1 is the broadcast DUT1
// value in deciseconds. The leap flag is only legal on the last minute
// of a UTC month, and its direction must match the sign of ut1: a
// positive leap second is broadcast while DUT1 is non-negative, a
// negative one while it is negative.
func NewMinute(year, days, hour, min int, dst DSTStatus, ut1 int, leap LeapSecond) (Minute, error) {
	switch {
	case year >= Epoch && year < Epoch+100:
		year %= 100
	case year < 0 || year > 99:
		return Minute{}, fmt.Errorf("%w: year %d: %w", ErrInvalidMinute, year, ErrOutOfEpoch)
	}
	ly := isLeapYear(fullYear(year))
	yearLen := 365
	if ly {
		yearLen = 366
	}
	if days < 1 || days > yearLen {
		return Minute{}, fmt.Errorf("%w: day %d of year %d", ErrInvalidMinute, days, fullYear(year))
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return Minute{}, fmt.Errorf("%w: time %02d:%02d", ErrInvalidMinute, hour, min)
	}
	if dst > DSTInEffect {
		return Minute{}, fmt.Errorf("%w: dst code %d", ErrInvalidMinute, dst)
	}
	if ut1 < -9 || ut1 > 9 {
		return Minute{}, fmt.Errorf("%w: ut1 %d deciseconds out of range", ErrInvalidMinute, ut1)
	}
	if leap != LeapNone {
		if hour != 23 || min != 59 || !isMonthEnd(fullYear(year), days) {
			return Minute{}, fmt.Errorf("%w: leap second outside last minute of a UTC month", ErrInvalidMinute)
		}
		if leap == LeapPositive && ut1 < 0 {
			return Minute{}, fmt.Errorf("%w: positive leap second with negative DUT1", ErrInvalidMinute)
		}
		if leap == LeapNegative && ut1 >= 0 {
			return Minute{}, fmt.Errorf("%w: negative leap second with non-negative DUT1", ErrInvalidMinute)
		}
	}
	return Minute{
		year:     year,
		days:     days,
		hour:     hour,
		min:      min,
		dst:      dst,
		leap:     leap,
		ut1:      ut1,
		leapYear: ly,
	}, nil
}

func (m Minute) Year() int              { return m.year }
func (m Minute) Days() int              { return m.days }
func (m Minute) Hour() int              { return m.hour }
func (m Minute) Min() int               { return m.min }
func (m Minute) DST() DSTStatus         { return m.dst }
func (m Minute) LeapSecond() LeapSecond { return m.leap }
func (m Minute) UT1() int               { return m.ut1 }
func (m Minute) IsLeapYear() bool       { return m.leapYear }

// FullYear resolves the two-digit year against the epoch anchor.
func (m Minute) FullYear() int { return fullYear(m.year) }

// Length returns the number of seconds in this minute: 61 across a
// positive leap second, 59 across a negative one, otherwise 60.
func (m Minute) Length() int {
	switch m.leap {
	case LeapPositive:
		return 61
	case LeapNegative:
		return 59
	}
	return 60
}

// MinuteOfCentury counts minutes since the start of the century that
// contains this minute's absolute year. It is the primary time field of
// the phase channel.
func (m Minute) MinuteOfCentury() int {
	fy := m.FullYear()
	century := fy / 100 * 100
	days := 0
	for y := century; y < fy; y++ {
		days += 365
		if isLeapYear(y) {
			days++
		}
	}
	days += m.days - 1
	return (days*24+m.hour)*60 + m.min
}

// Next returns the minute that follows this one, propagating DUT1 and
// the leap flag: stepping across a leap second clears the flag and
// shifts DUT1 by one whole second. The DST code is carried unchanged;
// flipping it on change-over days is the calendar collaborator's job.
func (m Minute) Next() (Minute, error) {
	ut1, leap := m.ut1, m.leap
	if m.leap != LeapNone {
		leap = LeapNone
		if m.ut1 < 0 {
			ut1 += 10
		} else {
			ut1 -= 10
		}
	}
	year, days, hour, min := m.year, m.days, m.hour, m.min+1
	if min > 59 {
		min = 0
		hour++
	}
	if hour > 23 {
		hour = 0
		days++
	}
	yearLen := 365
	if m.leapYear {
		yearLen = 366
	}
	if days > yearLen {
		if m.year == 69 {
			return Minute{}, fmt.Errorf("minute after 2069-365 23:59: %w", ErrOutOfEpoch)
		}
		days = 1
		year = (year + 1) % 100
	}
	return NewMinute(year, days, hour, min, m.dst, ut1, leap)
}

// Prev returns the preceding minute. Leap-second context is not
// reconstructed; the result carries the same DUT1 value and no leap flag.
func (m Minute) Prev() (Minute, error) {
	year, days, hour, min := m.year, m.days, m.hour, m.min-1
	if min < 0 {
		min = 59
		hour--
	}
	if hour < 0 {
		hour = 23
		days--
	}
	if days < 1 {
		if m.year == 70 {
			return Minute{}, fmt.Errorf("minute before 1970-001 00:00: %w", ErrOutOfEpoch)
		}
		year--
		if year < 0 {
			year = 99
		}
		days = 365
		if isLeapYear(fullYear(year)) {
			days = 366
		}
	}
	return NewMinute(year, days, hour, min, m.dst, m.ut1, LeapNone)
}

func (m Minute) String() string {
	return fmt.Sprintf("year=%d days=%03d hour=%02d min=%02d dst=%d ut1=%d ly=%t ls=%s",
		m.FullYear(), m.days, m.hour, m.min, m.dst, m.ut1, m.leapYear, m.leap)
}

func fullYear(year int) int {
	if year < Epoch%100 {
		return 2000 + year
	}
	return 1900 + year
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// isMonthEnd reports whether the given day of year is the last day of a
// calendar month.
func isMonthEnd(year, days int) bool {
	end := 0
	for mo, n := range monthDays {
		if mo == 1 && isLeapYear(year) {
			n++
		}
		end += n
		if days == end {
			return true
		}
		if days < end {
			return false
		}
	}
	return false
}
