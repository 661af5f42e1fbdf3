// Package b64counter implements the compact little-endian base-64 counter
// used as the per-thread seed and per-attempt counter seed in a proof.
package b64counter

// maxSize bounds how many 6-bit digits a Counter can ever hold.
const maxSize = 64

// mapping is the fixed digit alphabet: index 0 -> 'A', index 63 -> '_'.
var mapping = [64]byte{
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H',
	'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P',
	'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X',
	'Y', 'Z', 'a', 'b', 'c', 'd', 'e', 'f',
	'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n',
	'o', 'p', 'q', 'r', 's', 't', 'u', 'v',
	'w', 'x', 'y', 'z', '0', '1', '2', '3',
	'4', '5', '6', '7', '8', '9', '-', '_',
}

// Counter is a fixed-capacity, little-endian sequence of 6-bit digits.
// Digits are stored least-significant first; len is always >= 1.
type Counter struct {
	buf [maxSize]byte
	len uint32
}

// New constructs a Counter from the lowest 6-bit digits of val, taken
// least-significant first, trimmed to the highest nonzero digit but never
// shorter than one digit.
func New(val uint64) Counter {
	var c Counter
	c.len = 1
	for n := uint(0); n < 64; n += 6 {
		c.buf[n/6] = byte((val >> n) & 0x3f)
	}
	for n := 64 / 6; n > 0; n-- {
		if c.buf[n] > 0 {
			c.len = uint32(n + 1)
			break
		}
	}
	return c
}

// NewFromU32 is New with a 32-bit input widened to 64 bits.
func NewFromU32(val uint32) Counter {
	return New(uint64(val))
}

// Incr increments the counter in place, carrying into higher digits and
// growing the stored length as carries propagate past the current length.
func (c *Counter) Incr() {
	i := uint32(0)
	for ; i < maxSize; i++ {
		c.buf[i]++
		if c.buf[i] <= 0x3f {
			break
		}
		c.buf[i] = 0
	}
	if i >= c.len {
		c.len = i + 1
	}
}

// String renders the digits in stored order, i.e. least-significant digit
// first.
func (c Counter) String() string {
	out := make([]byte, c.len)
	for i := uint32(0); i < c.len; i++ {
		out[i] = mapping[c.buf[i]]
	}
	return string(out)
}

// Len reports the current number of stored digits.
func (c Counter) Len() int {
	return int(c.len)
}
