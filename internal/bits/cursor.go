package bits

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/google/uuid"
)

// epoch1601 is the FILETIME epoch: midnight, January 1, 1601 UTC.
var epoch1601 = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// cursor reads fixed-width integers, length-prefixed UTF-16 strings,
// GUIDs and FILETIMEs out of a borrowed byte slice, advancing its
// position as it goes. It never mutates the underlying slice.
//
// The fixed-width reads (u8, u32le, u64le, bytesN) either advance pos and
// return a value, or leave pos untouched and return ErrShortInput. The
// composite reads (pascalUTF16, fileTime) can fail after consuming their
// leading length or tick count, leaving pos past those bytes.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) remaining() int { return len(c.data) - c.pos }

func (c *cursor) u8() (byte, error) {
	if c.remaining() < 1 {
		return 0, ErrShortInput
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u32le() (uint32, error) {
	if c.remaining() < 4 {
		return 0, ErrShortInput
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) u64le() (uint64, error) {
	if c.remaining() < 8 {
		return 0, ErrShortInput
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

func (c *cursor) bytesN(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, ErrShortInput
	}
	v := c.data[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// guid reads 16 bytes and reorders the first three little-endian groups
// into the canonical big-endian GUID layout, returning its string form
// via google/uuid.
func (c *cursor) guid() (string, error) {
	raw, err := c.bytesN(16)
	if err != nil {
		return "", err
	}
	var out [16]byte
	out[0], out[1], out[2], out[3] = raw[3], raw[2], raw[1], raw[0]
	out[4], out[5] = raw[5], raw[4]
	out[6], out[7] = raw[7], raw[6]
	copy(out[8:], raw[8:])
	id, err := uuid.FromBytes(out[:])
	if err != nil {
		return "", newStructError("GUID", c.pos-16, err)
	}
	return id.String(), nil
}

// fileTime reads a u64le tick count and converts it to a UTC time.Time.
// An overflowing tick count yields ErrDecodeTime instead of panicking.
func (c *cursor) fileTime() (time.Time, error) {
	start := c.pos
	ticks, err := c.u64le()
	if err != nil {
		return time.Time{}, err
	}
	const maxTicks = uint64(math.MaxInt64) / 100
	if ticks > maxTicks {
		return time.Time{}, newStructError("FILETIME", start, ErrDecodeTime)
	}
	return epoch1601.Add(time.Duration(ticks * 100)), nil
}

// pascalUTF16 reads a u32le code-unit count n, then 2*n bytes, decodes
// them as UTF-16LE, and strips trailing NUL code units. Invalid UTF-16
// is replaced by the sentinel "unreadable data" rather than surfaced as
// an error — a deliberate, externally-observed behavior that downstream
// reports depend on verbatim.
func (c *cursor) pascalUTF16() (string, error) {
	n, err := c.u32le()
	if err != nil {
		return "", err
	}
	raw, err := c.bytesN(int(n) * 2)
	if err != nil {
		return "", err
	}
	return decodeUTF16LE(raw), nil
}

// delimited consumes bytes until (and including) the first occurrence of
// stop, returning the bytes before stop and leaving the cursor
// immediately before stop — the caller asserts stop separately via
// expect. Returns ErrDelimiterNotFound if stop never occurs.
func (c *cursor) delimited(stop []byte) ([]byte, error) {
	idx := bytes.Index(c.data[c.pos:], stop)
	if idx < 0 {
		return nil, ErrDelimiterNotFound
	}
	field := c.data[c.pos : c.pos+idx]
	c.pos += idx
	return field, nil
}

// expect asserts that the next len(want) bytes equal want and advances
// past them, or returns ErrConstMismatch without advancing.
func (c *cursor) expect(want []byte) error {
	got, err := c.bytesN(len(want))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		c.pos -= len(want)
		return ErrConstMismatch
	}
	return nil
}

// rest returns every remaining byte without advancing further than the
// end of the buffer, and moves the cursor to the end.
func (c *cursor) rest() []byte {
	v := c.data[c.pos:]
	c.pos = len(c.data)
	return v
}

// decodeUTF16LE decodes raw little-endian UTF-16 bytes, returning the
// sentinel "unreadable data" for malformed sequences (unpaired
// surrogates or an odd byte count) instead of an error. This is distinct
// from the carver's reverse-scan tail-decoding fallback, which treats raw
// bytes as UTF-8 by design (see DESIGN.md).
func decodeUTF16LE(raw []byte) string {
	if len(raw)%2 != 0 {
		return unreadableData
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if !utf16.IsSurrogate(r) {
			continue
		}
		if i+1 >= len(units) {
			return unreadableData
		}
		if utf16.DecodeRune(r, rune(units[i+1])) == unicode.ReplacementChar {
			return unreadableData
		}
		i++
	}
	return strings.TrimRight(string(utf16.Decode(units)), "\x00")
}
