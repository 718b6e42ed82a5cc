package wwvb

import "fmt"

// Symbol is one second of the WWVB amplitude or phase broadcast.
// The amplitude channel uses the full three-symbol alphabet; the phase
// channel only ever carries Zero and One.
type Symbol byte

const (
	Zero Symbol = iota
	One
	Mark
)

func (s Symbol) String() string {
	switch s {
	case Zero:
		return "0"
	case One:
		return "1"
	case Mark:
		return "2"
	}
	return "?"
}

// SymbolsToString renders a symbol sequence as the digits 0, 1 and 2.
// This is the textual serialization used by the cmd front ends and the
// test fixtures.
func SymbolsToString(syms []Symbol) string {
	b := make([]byte, len(syms))
	for i, s := range syms {
		b[i] = '0' + byte(s)
	}
	return string(b)
}

// ParseSymbols converts a string of the digits 0, 1 and 2 back to a
// symbol sequence.
func ParseSymbols(s string) ([]Symbol, error) {
	out := make([]Symbol, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '2' {
			return nil, fmt.Errorf("invalid symbol character %q at %d", c, i)
		}
		out[i] = Symbol(c - '0')
	}
	return out, nil
}

func symbolForBit(b bool) Symbol {
	if b {
		return One
	}
	return Zero
}
