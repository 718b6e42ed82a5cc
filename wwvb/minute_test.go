package wwvb

import (
	"errors"
	"reflect"
	"testing"

	"github.com/icza/gog"
)

func TestNewMinute(t *testing.T) {
	type args struct {
		year, days, hour, min int
		dst                   DSTStatus
		ut1                   int
		leap                  LeapSecond
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{"plain minute", args{2012, 186, 17, 30, DSTInEffect, 4, LeapNone}, false},
		{"two digit year", args{12, 186, 17, 30, DSTInEffect, 4, LeapNone}, false},
		{"epoch start", args{1970, 1, 0, 0, DSTNotInEffect, 0, LeapNone}, false},
		{"epoch end", args{2069, 365, 23, 59, DSTNotInEffect, 0, LeapNone}, false},
		{"before epoch", args{1969, 1, 0, 0, DSTNotInEffect, 0, LeapNone}, true},
		{"after epoch", args{2070, 1, 0, 0, DSTNotInEffect, 0, LeapNone}, true},
		{"day zero", args{2012, 0, 0, 0, DSTNotInEffect, 0, LeapNone}, true},
		{"day 366 in leap year", args{2012, 366, 0, 0, DSTNotInEffect, 0, LeapNone}, false},
		{"day 366 in common year", args{2011, 366, 0, 0, DSTNotInEffect, 0, LeapNone}, true},
		{"hour 24", args{2012, 1, 24, 0, DSTNotInEffect, 0, LeapNone}, true},
		{"minute 60", args{2012, 1, 0, 60, DSTNotInEffect, 0, LeapNone}, true},
		{"dst code out of range", args{2012, 1, 0, 0, DSTStatus(4), 0, LeapNone}, true},
		{"ut1 too large", args{2012, 1, 0, 0, DSTNotInEffect, 10, LeapNone}, true},
		{"ut1 too small", args{2012, 1, 0, 0, DSTNotInEffect, -10, LeapNone}, true},
		{"positive leap at month end", args{1998, 365, 23, 59, DSTNotInEffect, 3, LeapPositive}, false},
		{"negative leap at month end", args{1998, 365, 23, 59, DSTNotInEffect, -3, LeapNegative}, false},
		{"leap at june month end", args{2012, 182, 23, 59, DSTInEffect, 3, LeapPositive}, false},
		{"leap mid month", args{2012, 186, 23, 59, DSTInEffect, 3, LeapPositive}, true},
		{"leap before final minute", args{1998, 365, 23, 58, DSTNotInEffect, 3, LeapPositive}, true},
		{"leap before final hour", args{1998, 365, 12, 59, DSTNotInEffect, 3, LeapPositive}, true},
		{"positive leap with negative dut1", args{1998, 365, 23, 59, DSTNotInEffect, -3, LeapPositive}, true},
		{"negative leap with positive dut1", args{1998, 365, 23, 59, DSTNotInEffect, 3, LeapNegative}, true},
		{"negative leap with zero dut1", args{1998, 365, 23, 59, DSTNotInEffect, 0, LeapNegative}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinute(tt.args.year, tt.args.days, tt.args.hour, tt.args.min, tt.args.dst, tt.args.ut1, tt.args.leap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMinute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDSTStatus_codes(t *testing.T) {
	// On-air assignment: the high bit is the DST status at the start of
	// the day, the low bit the status at its end. A day DST begins on
	// therefore broadcasts 0b10 and a day it ends on 0b01.
	tests := []struct {
		name string
		dst  DSTStatus
		want DSTStatus
	}{
		{"not in effect", DSTNotInEffect, 0b00},
		{"ends today", DSTEndsToday, 0b01},
		{"starts today", DSTStartsToday, 0b10},
		{"in effect", DSTInEffect, 0b11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.dst != tt.want {
				t.Errorf("code = %#04b, want %#04b", byte(tt.dst), byte(tt.want))
			}
		})
	}
}

func TestMinute_FullYear(t *testing.T) {
	tests := []struct {
		name string
		year int
		want int
	}{
		{"top of epoch window", 69, 2069},
		{"bottom of epoch window", 70, 1970},
		{"century rollover", 0, 2000},
		{"late nineties", 98, 1998},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := gog.Must(NewMinute(tt.year, 1, 0, 0, DSTNotInEffect, 0, LeapNone))
			if got := m.FullYear(); got != tt.want {
				t.Errorf("FullYear() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinute_Length(t *testing.T) {
	tests := []struct {
		name   string
		minute Minute
		want   int
	}{
		{"plain", gog.Must(NewMinute(2012, 186, 17, 30, DSTInEffect, 4, LeapNone)), 60},
		{"positive leap", gog.Must(NewMinute(1998, 365, 23, 59, DSTNotInEffect, 3, LeapPositive)), 61},
		{"negative leap", gog.Must(NewMinute(1998, 365, 23, 59, DSTNotInEffect, -3, LeapNegative)), 59},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.minute.Length(); got != tt.want {
				t.Errorf("Length() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinute_Next(t *testing.T) {
	tests := []struct {
		name    string
		minute  Minute
		want    Minute
		wantErr bool
	}{
		{"within hour",
			gog.Must(NewMinute(2012, 186, 17, 30, DSTInEffect, 4, LeapNone)),
			gog.Must(NewMinute(2012, 186, 17, 31, DSTInEffect, 4, LeapNone)),
			false,
		},
		{"hour rollover",
			gog.Must(NewMinute(2012, 186, 17, 59, DSTInEffect, 4, LeapNone)),
			gog.Must(NewMinute(2012, 186, 18, 0, DSTInEffect, 4, LeapNone)),
			false,
		},
		{"day rollover",
			gog.Must(NewMinute(2012, 186, 23, 59, DSTInEffect, 4, LeapNone)),
			gog.Must(NewMinute(2012, 187, 0, 0, DSTInEffect, 4, LeapNone)),
			false,
		},
		{"year rollover",
			gog.Must(NewMinute(1998, 365, 23, 59, DSTNotInEffect, 3, LeapNone)),
			gog.Must(NewMinute(1999, 1, 0, 0, DSTNotInEffect, 3, LeapNone)),
			false,
		},
		{"leap year day 366",
			gog.Must(NewMinute(2012, 366, 23, 59, DSTNotInEffect, 0, LeapNone)),
			gog.Must(NewMinute(2013, 1, 0, 0, DSTNotInEffect, 0, LeapNone)),
			false,
		},
		{"across positive leap second",
			gog.Must(NewMinute(1998, 365, 23, 59, DSTNotInEffect, 3, LeapPositive)),
			gog.Must(NewMinute(1999, 1, 0, 0, DSTNotInEffect, -7, LeapNone)),
			false,
		},
		{"across negative leap second",
			gog.Must(NewMinute(1998, 365, 23, 59, DSTNotInEffect, -3, LeapNegative)),
			gog.Must(NewMinute(1999, 1, 0, 0, DSTNotInEffect, 7, LeapNone)),
			false,
		},
		{"end of epoch",
			gog.Must(NewMinute(2069, 365, 23, 59, DSTNotInEffect, 0, LeapNone)),
			Minute{},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.minute.Next()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Next() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfEpoch) {
					t.Errorf("Next() error = %v, want ErrOutOfEpoch", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinute_Prev(t *testing.T) {
	tests := []struct {
		name    string
		minute  Minute
		want    Minute
		wantErr bool
	}{
		{"within hour",
			gog.Must(NewMinute(2012, 186, 17, 30, DSTInEffect, 4, LeapNone)),
			gog.Must(NewMinute(2012, 186, 17, 29, DSTInEffect, 4, LeapNone)),
			false,
		},
		{"day rollback",
			gog.Must(NewMinute(2012, 187, 0, 0, DSTInEffect, 4, LeapNone)),
			gog.Must(NewMinute(2012, 186, 23, 59, DSTInEffect, 4, LeapNone)),
			false,
		},
		{"year rollback into leap year",
			gog.Must(NewMinute(2013, 1, 0, 0, DSTNotInEffect, 0, LeapNone)),
			gog.Must(NewMinute(2012, 366, 23, 59, DSTNotInEffect, 0, LeapNone)),
			false,
		},
		{"start of epoch",
			gog.Must(NewMinute(1970, 1, 0, 0, DSTNotInEffect, 0, LeapNone)),
			Minute{},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.minute.Prev()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Prev() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfEpoch) {
					t.Errorf("Prev() error = %v, want ErrOutOfEpoch", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Prev() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_isMonthEnd(t *testing.T) {
	tests := []struct {
		name string
		year int
		days int
		want bool
	}{
		{"january 31", 2012, 31, true},
		{"february 28 common year", 2011, 59, true},
		{"february 28 leap year", 2012, 59, false},
		{"february 29 leap year", 2012, 60, true},
		{"june 30 leap year", 2012, 182, true},
		{"mid july", 2012, 186, false},
		{"december 31 common year", 1998, 365, true},
		{"december 31 leap year", 2012, 366, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMonthEnd(tt.year, tt.days); got != tt.want {
				t.Errorf("isMonthEnd() = %v, want %v", got, tt.want)
			}
		})
	}
}
