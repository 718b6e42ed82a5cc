//go:build linux

package wwvb

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// PulseReceiver adapts the demodulated envelope output of a WWVB
// receiver module (CMMR-6 and similar) into a symbol stream. The module
// drops its output at the top of each second for 0.2 s, 0.5 s or 0.8 s;
// the receiver times each low pulse and classifies it. Everything past
// this classification is the Decoder's job.
type PulseReceiver struct {
	line *gpiocdev.Line

	mu     sync.Mutex
	closed bool
	out    chan Symbol
}

// OpenPulseReceiver requests the given GPIO line and starts classifying
// pulses. chip is a gpiochip name such as "gpiochip0".
func OpenPulseReceiver(chip string, offset int) (*PulseReceiver, error) {
	r := &PulseReceiver{
		// One symbol per second arrives; a small buffer absorbs a
		// slow consumer without stalling the event handler.
		out: make(chan Symbol, 4),
	}
	var fell time.Duration
	handler := func(evt gpiocdev.LineEvent) {
		switch evt.Type {
		case gpiocdev.LineEventFallingEdge:
			fell = evt.Timestamp
		case gpiocdev.LineEventRisingEdge:
			if fell == 0 {
				return
			}
			width := evt.Timestamp - fell
			fell = 0
			sym, ok := classifyPulse(width)
			if !ok {
				return
			}
			r.emit(sym)
		}
	}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("request receiver line: %w", err)
	}
	r.line = line
	return r, nil
}

// Symbols returns the classified symbol stream, one per second. The
// channel is closed by Close.
func (r *PulseReceiver) Symbols() <-chan Symbol {
	return r.out
}

// emit hands a classified symbol to the consumer. Event handlers can
// still fire while Close runs, so sends are serialized against the
// channel close.
func (r *PulseReceiver) emit(s Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.out <- s:
	default:
	}
}

func (r *PulseReceiver) Close() error {
	err := r.line.Close()
	r.shutdown()
	return err
}

// shutdown marks the receiver closed and releases the symbol channel.
func (r *PulseReceiver) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	close(r.out)
}

// classifyPulse maps a carrier-drop width to a symbol. Nominal widths
// are 200, 500 and 800 ms; anything outside a 150 ms tolerance is
// noise and dropped.
func classifyPulse(width time.Duration) (Symbol, bool) {
	switch {
	case width > 50*time.Millisecond && width < 350*time.Millisecond:
		return Zero, true
	case width >= 350*time.Millisecond && width < 650*time.Millisecond:
		return One, true
	case width >= 650*time.Millisecond && width < 950*time.Millisecond:
		return Mark, true
	}
	return 0, false
}
