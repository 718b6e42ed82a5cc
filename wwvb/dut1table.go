package wwvb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sigurn/crc16"
)

// Compact persisted DUT1 representation: one character per calendar day
// from a 21-symbol alphabet, 'a' (-1.0 s) through 'u' (+1.0 s) with 'k'
// the neutral zero. The neutral symbol always stands in for -0.0; the
// format never emits a negative zero.
//
// On disk the run of characters is stored run-length compressed under a
// start-date header, with a trailing CRC-16 line so a truncated or
// corrupted table is rejected instead of decoded into nonsense.
const (
	tableFirstChar = 'a'
	tableZeroChar  = 'k'
	tableLastChar  = 'u'
)

var tableCRC = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// OffsetChar encodes a decisecond offset as its table character.
func OffsetChar(off int) (byte, error) {
	if off < -10 || off > 10 {
		return 0, fmt.Errorf("offset %d deciseconds not representable", off)
	}
	return byte(tableZeroChar + off), nil
}

// CharOffset decodes a table character to a decisecond offset.
func CharOffset(c byte) (int, error) {
	if c < tableFirstChar || c > tableLastChar {
		return 0, fmt.Errorf("character %q outside table alphabet", c)
	}
	return int(c) - tableZeroChar, nil
}

// Table is an in-memory DUT1 table: a start day and one decisecond
// offset per day. It is plain data; Series() hands it to the inference
// engine.
type Table struct {
	Start   time.Time
	Offsets []int
}

// Series converts the table to a validated Series.
func (t *Table) Series() (*Series, error) {
	entries := make([]SeriesEntry, len(t.Offsets))
	for i, off := range t.Offsets {
		entries[i] = SeriesEntry{Date: t.Start.AddDate(0, 0, i), Offset: off}
	}
	return NewSeries(entries)
}

// ParseTable reads the textual table format: comment and blank lines, a
// "start YYYY-MM-DD" header, run-length payload lines such as
// "k*31+j*5+i", and an optional trailing "crc XXXX" integrity line,
// which is verified when present.
func ParseTable(r io.Reader) (*Table, error) {
	var (
		t       Table
		payload strings.Builder
		sawCRC  bool
		wantCRC uint16
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, "start "):
			if !t.Start.IsZero() {
				return nil, fmt.Errorf("duplicate start line")
			}
			d, err := time.Parse("2006-01-02", strings.TrimSpace(line[len("start "):]))
			if err != nil {
				return nil, fmt.Errorf("parse start line: %w", err)
			}
			t.Start = d
		case strings.HasPrefix(line, "crc "):
			v, err := strconv.ParseUint(strings.TrimSpace(line[len("crc "):]), 16, 16)
			if err != nil {
				return nil, fmt.Errorf("parse crc line: %w", err)
			}
			sawCRC = true
			wantCRC = uint16(v)
		default:
			if sawCRC {
				return nil, fmt.Errorf("payload after crc line")
			}
			if err := expandRuns(line, &payload); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if t.Start.IsZero() {
		return nil, fmt.Errorf("missing start line")
	}
	chars := payload.String()
	if chars == "" {
		return nil, fmt.Errorf("empty table payload")
	}
	if sawCRC {
		if got := crc16.Checksum([]byte(chars), tableCRC); got != wantCRC {
			return nil, fmt.Errorf("table crc mismatch: computed %04X, recorded %04X", got, wantCRC)
		}
	}
	t.Offsets = make([]int, len(chars))
	for i := 0; i < len(chars); i++ {
		off, err := CharOffset(chars[i])
		if err != nil {
			return nil, err
		}
		t.Offsets[i] = off
	}
	return &t, nil
}

func expandRuns(line string, out *strings.Builder) error {
	for _, run := range strings.Split(line, "+") {
		ch, countStr, ok := strings.Cut(run, "*")
		if len(ch) != 1 {
			return fmt.Errorf("malformed run %q", run)
		}
		count := 1
		if ok {
			var err error
			count, err = strconv.Atoi(countStr)
			if err != nil || count < 1 {
				return fmt.Errorf("malformed run count %q", run)
			}
		}
		for i := 0; i < count; i++ {
			out.WriteByte(ch[0])
		}
	}
	return nil
}

// Format writes the table in the textual format ParseTable reads,
// including the integrity line.
func (t *Table) Format(w io.Writer) error {
	var payload strings.Builder
	for _, off := range t.Offsets {
		c, err := OffsetChar(off)
		if err != nil {
			return err
		}
		payload.WriteByte(c)
	}
	chars := payload.String()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# DUT1 broadcast table, one character per day, %q = 0.0 s\n", tableZeroChar)
	fmt.Fprintf(bw, "start %s\n", t.Start.Format("2006-01-02"))

	line := ""
	for i := 0; i < len(chars); {
		j := i
		for j < len(chars) && chars[j] == chars[i] {
			j++
		}
		run := string(chars[i])
		if j-i > 1 {
			run += "*" + strconv.Itoa(j-i)
		}
		if line != "" && len(line)+len(run)+1 > 64 {
			fmt.Fprintln(bw, line)
			line = run
		} else if line == "" {
			line = run
		} else {
			line += "+" + run
		}
		i = j
	}
	if line != "" {
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintf(bw, "crc %04X\n", crc16.Checksum([]byte(chars), tableCRC))
	return bw.Flush()
}
