package wwvb

import (
	"errors"
	"reflect"
	"testing"

	"github.com/icza/gog"
)

// consecutiveMinutes returns n broadcast minutes starting at m, stepping
// with Next.
func consecutiveMinutes(t *testing.T, m Minute, n int) []Minute {
	t.Helper()
	out := []Minute{m}
	for len(out) < n {
		next, err := out[len(out)-1].Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		out = append(out, next)
	}
	return out
}

func symbolStream(minutes []Minute) []Symbol {
	var stream []Symbol
	for _, m := range minutes {
		stream = append(stream, EncodeAmplitude(m)...)
	}
	return stream
}

// runDecoder feeds a stream through a fresh decoder and collects the
// decoded minutes and the errors, in order.
func runDecoder(stream []Symbol) ([]Minute, []error) {
	d := NewDecoder()
	var minutes []Minute
	var errs []error
	for _, s := range stream {
		m, err := d.Update(s)
		if m != nil {
			minutes = append(minutes, *m)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return minutes, errs
}

func TestDecoder_plainStream(t *testing.T) {
	minutes := consecutiveMinutes(t, gog.Must(NewMinute(2012, 182, 23, 50, DSTInEffect, 3, LeapNone)), 15)
	// Data symbols before the first minute boundary are indistinguishable
	// from the tail of a minute; the decoder must discard them and the
	// partial first minute, then decode everything that follows.
	stream := append([]Symbol{One, Zero, Zero, One}, symbolStream(minutes)...)

	got, errs := runDecoder(stream)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(got, minutes[1:]) {
		t.Errorf("decoded %d minutes, want the %d complete ones", len(got), len(minutes)-1)
	}
}

func TestDecoder_positiveLeapStream(t *testing.T) {
	// 23:55 through the 61-second leap minute at 23:59 and past midnight.
	minutes := consecutiveMinutes(t, gog.Must(NewMinute(1998, 365, 23, 55, DSTNotInEffect, 3, LeapNone)), 4)
	leap := gog.Must(NewMinute(1998, 365, 23, 59, DSTNotInEffect, 3, LeapPositive))
	minutes = append(minutes, consecutiveMinutes(t, leap, 6)...)

	got, errs := runDecoder(symbolStream(minutes))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(got, minutes[1:]) {
		t.Errorf("decoded %v, want %v", got, minutes[1:])
	}
}

func TestDecoder_negativeLeapStream(t *testing.T) {
	minutes := consecutiveMinutes(t, gog.Must(NewMinute(1998, 365, 23, 55, DSTNotInEffect, -3, LeapNone)), 4)
	leap := gog.Must(NewMinute(1998, 365, 23, 59, DSTNotInEffect, -3, LeapNegative))
	minutes = append(minutes, consecutiveMinutes(t, leap, 6)...)

	got, errs := runDecoder(symbolStream(minutes))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(got, minutes[1:]) {
		t.Errorf("decoded %v, want %v", got, minutes[1:])
	}
}

func TestDecoder_resyncAfterFramingError(t *testing.T) {
	minutes := consecutiveMinutes(t, gog.Must(NewMinute(2021, 316, 18, 0, DSTNotInEffect, -1, LeapNone)), 10)
	stream := symbolStream(minutes)
	// Corrupt the second-29 marker of the fourth minute. The decoder
	// must report exactly one framing error, resynchronize on the next
	// minute boundary, and miss only the corrupted minute.
	stream[3*60+29] = Zero

	got, errs := runDecoder(stream)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var fe *FramingError
	if !errors.As(errs[0], &fe) {
		t.Fatalf("error = %v, want *FramingError", errs[0])
	}
	if fe.Pos != 29 || fe.Got != Zero {
		t.Errorf("FramingError = %+v, want Pos 29 Got Zero", fe)
	}
	want := append(append([]Minute{}, minutes[1:3]...), minutes[4:]...)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %v, want %v", got, want)
	}
}

func TestDecoder_badFrameStaysLocked(t *testing.T) {
	minutes := consecutiveMinutes(t, gog.Must(NewMinute(2021, 316, 18, 0, DSTNotInEffect, -1, LeapNone)), 10)
	stream := symbolStream(minutes)
	// Corrupt a reserved-zero second of the fourth minute. The cadence is
	// intact, so the decoder rejects that frame but keeps its lock and
	// decodes every following minute without resynchronizing.
	stream[3*60+4] = One

	got, errs := runDecoder(stream)
	if len(errs) != 1 || !errors.Is(errs[0], ErrBadFrame) {
		t.Fatalf("errors = %v, want one ErrBadFrame", errs)
	}
	want := append(append([]Minute{}, minutes[1:3]...), minutes[4:]...)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %v, want %v", got, want)
	}
}

func TestDecoder_Synchronized(t *testing.T) {
	d := NewDecoder()
	if d.Synchronized() {
		t.Error("fresh decoder reports synchronized")
	}
	d.Update(Mark)
	if d.Synchronized() {
		t.Error("synchronized after a single marker")
	}
	d.Update(Mark)
	if !d.Synchronized() {
		t.Error("not synchronized after consecutive markers")
	}
	// A data symbol after the minute edge starts a frame and keeps the
	// lock; a misplaced marker inside the frame drops it.
	d.Update(Zero)
	if !d.Synchronized() {
		t.Error("lock lost on first data symbol")
	}
	if _, err := d.Update(Mark); err == nil {
		t.Error("misplaced marker not reported")
	}
	if d.Synchronized() {
		t.Error("still synchronized after framing error")
	}
}
