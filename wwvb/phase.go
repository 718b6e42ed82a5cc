package wwvb

// Phase-channel encoding per the enhanced WWVB broadcast format. The
// regular frame carries a 13-bit time sync word, the 26-bit minute of
// century protected by a 5-bit Hamming parity, the combined DST/leap
// status bits, and a 6-bit "DST next" field describing the coming
// transition. During minutes 10-15 and 40-45 the channel instead carries
// the fixed six-minute sequences built from a 255-bit LFSR run and the
// 106-bit timing word.
//
// Of the two channels this one is the less proven: it is validated
// against a single known-good reference minute plus fixtures, not
// against an independent receiver.

// Time sync word identifying a time frame (as opposed to the message
// frames NIST has defined no use for).
const syncTimeWord = 0x768

// Bit weights of the five Hamming parity bits over the 26-bit minute of
// century.
var hammingWeights = [5][15]int{
	{23, 21, 20, 17, 16, 15, 14, 13, 9, 8, 6, 5, 4, 2, 0},
	{24, 22, 21, 18, 17, 16, 15, 14, 10, 9, 7, 6, 5, 3, 1},
	{25, 23, 22, 19, 18, 17, 16, 15, 11, 10, 8, 7, 6, 4, 2},
	{24, 21, 19, 18, 15, 14, 13, 12, 11, 7, 6, 4, 3, 2, 0},
	{25, 22, 20, 19, 16, 15, 14, 13, 12, 8, 7, 5, 4, 3, 1},
}

// Combined DST/leap status codebook, indexed by the 2-bit DST status in
// the low bits and the 2-bit leap code in the high bits.
var dstLeapLUT = [16]byte{
	0b01000, 0b10101, 0b10110, 0b00011,
	0b01000, 0b10101, 0b10110, 0b00011,
	0b00100, 0b01110, 0b10000, 0b01101,
	0b11001, 0b11100, 0b11010, 0b11111,
}

// Fixed 106-bit timing word of the six-minute sequences.
var fixedTimingWord = parseBits("1101000111" +
	"0101100101" +
	"1001101110" +
	"0011000010" +
	"1101001110" +
	"1001010100" +
	"0010111000" +
	"1011010110" +
	"1101111111" +
	"1000000100" +
	"100100")

// 255-bit maximal LFSR sequence used by the six-minute codes,
// x[n] = x[n-7] ^ x[n-6] ^ x[n-5] ^ x[n-2], seeded with ones.
var lfsrSeq = func() []byte {
	seq := make([]byte, 7, 255)
	for i := range seq {
		seq[i] = 1
	}
	for len(seq) < 255 {
		n := len(seq)
		seq = append(seq, seq[n-7]^seq[n-6]^seq[n-5]^seq[n-2])
	}
	return seq
}()

func parseBits(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[i] - '0'
	}
	return out
}

// EncodePhase produces the phase-channel symbol sequence for one minute.
// dstNext is the 6-bit next-DST-transition code; determining it requires
// civil-calendar arithmetic and is therefore supplied by the caller. The
// length rules match the amplitude channel.
func EncodePhase(m Minute, dstNext byte) []Symbol {
	out := make([]Symbol, m.Length())
	if mn := m.Min(); (mn >= 10 && mn < 16) || (mn >= 40 && mn < 46) {
		fillPhaseExtended(out, m)
	} else {
		fillPhaseRegular(out, m, dstNext)
	}
	return out
}

func fillPhaseRegular(out []Symbol, m Minute, dstNext byte) {
	moc := m.MinuteOfCentury()
	putPhaseBits(out, 0, 13, syncTimeWord)
	putPhaseBits(out, 13, 5, hammingParity(moc))

	// Minute-of-century bits in the published scatter order. Bit 0
	// appears twice, at seconds 19 and 46.
	scatter := []struct{ sec, bit int }{
		{18, 25}, {19, 0}, {20, 24}, {21, 23}, {22, 22}, {23, 21},
		{24, 20}, {25, 19}, {26, 18}, {27, 17}, {28, 16},
		{30, 15}, {31, 14}, {32, 13}, {33, 12}, {34, 11}, {35, 10},
		{36, 9}, {37, 8}, {38, 7},
		{40, 6}, {41, 5}, {42, 4}, {43, 3}, {44, 2}, {45, 1}, {46, 0},
	}
	for _, sb := range scatter {
		out[sb.sec] = symbolForBit(moc>>sb.bit&1 != 0)
	}
	out[29] = Zero // reserved
	out[39] = One  // reserved
	out[49] = One  // notice

	dstLs := dstLeapLUT[int(m.DST())|phaseLeapCode(m.LeapSecond())<<2]
	out[47] = symbolForBit(dstLs>>4&1 != 0)
	out[48] = symbolForBit(dstLs>>3&1 != 0)
	out[50] = symbolForBit(dstLs>>2&1 != 0)
	out[51] = symbolForBit(dstLs>>1&1 != 0)
	out[52] = symbolForBit(dstLs&1 != 0)

	putPhaseBits(out[53:], 0, 6, int(dstNext&0x3f))
	// Seconds 59 and 60, when present, stay zero.
}

// phaseLeapCode maps the leap direction to the 2-bit code of the
// DST/leap status word.
func phaseLeapCode(l LeapSecond) int {
	switch l {
	case LeapPositive:
		return 2
	case LeapNegative:
		return 3
	}
	return 0
}

// fillPhaseExtended writes one minute's slice of the six-minute
// sequence: 127 LFSR bits, the fixed timing word, and the LFSR bits
// reversed, 360 bits in all. Which LFSR run is used depends on the DST
// status and hour. Leap seconds never fall inside the extended windows,
// so the frame is always 60 symbols here.
func fillPhaseExtended(out []Symbol, m Minute) {
	seqno := m.Min() / 30 * 2
	switch m.DST() {
	case DSTNotInEffect:
	case DSTInEffect:
		seqno++
	case DSTStartsToday:
		switch {
		case m.Hour() < 4:
		case m.Hour() < 11:
			seqno += 90
		default:
			seqno++
		}
	case DSTEndsToday:
		switch {
		case m.Hour() < 4:
			seqno++
		case m.Hour() < 11:
			seqno += 91
		}
	}
	info := lfsrSeq[seqno : seqno+127]
	offset := m.Min() % 10 * 60
	for i := 0; i < 60; i++ {
		j := i + offset
		var bit byte
		switch {
		case j < 127:
			bit = info[j]
		case j < 127+len(fixedTimingWord):
			bit = fixedTimingWord[j-127]
		default:
			bit = info[126-(j-127-len(fixedTimingWord))]
		}
		out[i] = symbolForBit(bit != 0)
	}
}

// putPhaseBits writes an n-bit binary value MSB first starting at second
// st.
func putPhaseBits(out []Symbol, st, n, v int) {
	for i := 0; i < n; i++ {
		out[st+i] = symbolForBit(v>>(n-i-1)&1 != 0)
	}
}

// hammingParity computes the 5-bit parity of a 26-bit value such as the
// minute of century.
func hammingParity(value int) int {
	parity := 0
	for i := 4; i >= 0; i-- {
		bit := 0
		for _, w := range hammingWeights[i] {
			bit ^= value >> w & 1
		}
		parity = parity<<1 | bit
	}
	return parity
}
