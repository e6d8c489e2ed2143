package lwo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Faultbox/lwostrut/pkg/encoding"
	lwmath "github.com/Faultbox/lwostrut/pkg/math"
)

// reader is a big-endian cursor over a byte slice. base is the absolute
// file offset of data[0], used for diagnostics only.
type reader struct {
	data []byte
	off  int
	base int
	dec  encoding.Decoder
}

func newReader(data []byte, base int, dec encoding.Decoder) *reader {
	return &reader{data: data, base: base, dec: dec}
}

// remaining returns the number of unread bytes.
func (r *reader) remaining() int {
	return len(r.data) - r.off
}

// pos returns the absolute file offset of the cursor.
func (r *reader) pos() int {
	return r.base + r.off
}

func (r *reader) need(n int, what string) error {
	if r.remaining() < n {
		return fmt.Errorf("%w: reading %s at offset %d (need %d bytes, have %d)",
			ErrTruncatedInput, what, r.pos(), n, r.remaining())
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1, "u8"); err != nil {
		return 0, err
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2, "u16"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) i16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4, "u32"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) f32() (float32, error) {
	if err := r.need(4, "f32"); err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.BigEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

// floats reads n consecutive f32 values.
func (r *reader) floats(n int) ([]float32, error) {
	if err := r.need(4*n, fmt.Sprintf("%d floats", n)); err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(r.data[r.off:]))
		r.off += 4
	}
	return out, nil
}

// vec3 reads three floats in file order without swapping.
func (r *reader) vec3() ([3]float32, error) {
	var v [3]float32
	if err := r.need(12, "vec3"); err != nil {
		return v, err
	}
	for i := range v {
		v[i] = math.Float32frombits(binary.BigEndian.Uint32(r.data[r.off:]))
		r.off += 4
	}
	return v, nil
}

// point reads a file-order vector and swaps it into memory order.
func (r *reader) point() (lwmath.Vec3, error) {
	v, err := r.vec3()
	if err != nil {
		return lwmath.Vec3{}, err
	}
	return lwmath.FromFileOrder(v), nil
}

func (r *reader) tag() (Tag, error) {
	var t Tag
	if err := r.need(4, "tag"); err != nil {
		return t, err
	}
	copy(t[:], r.data[r.off:])
	r.off += 4
	return t, nil
}

// bytes returns a copy of the next n bytes.
func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n, fmt.Sprintf("%d bytes", n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.off:])
	r.off += n
	return out, nil
}

func (r *reader) skip(n int) error {
	if err := r.need(n, "skipped bytes"); err != nil {
		return err
	}
	r.off += n
	return nil
}

// skipRest discards everything left in the reader.
func (r *reader) skipRest() {
	r.off = len(r.data)
}

// str reads a NUL-terminated string padded to an even length. The bytes
// are copied out and decoded; undecodable sequences are replaced.
func (r *reader) str() (string, error) {
	i := bytes.IndexByte(r.data[r.off:], 0)
	if i < 0 {
		return "", fmt.Errorf("%w: unterminated string at offset %d", ErrTruncatedInput, r.pos())
	}
	s := r.dec.Decode(r.data[r.off : r.off+i])
	n := i + 1
	if n%2 == 1 {
		n++
	}
	// A missing pad byte at the very end of a payload is tolerated.
	r.off = min(r.off+n, len(r.data))
	return s, nil
}

// vx reads a variable-length index: two bytes when the first byte is not
// 0xFF, otherwise four bytes holding a 24-bit value. Only the bytes the
// index occupies must be present.
func (r *reader) vx() (uint32, int, error) {
	if err := r.need(1, "VX index"); err != nil {
		return 0, 0, err
	}
	if r.data[r.off] != 0xFF {
		if err := r.need(2, "VX index"); err != nil {
			return 0, 0, err
		}
		v := uint32(binary.BigEndian.Uint16(r.data[r.off:]))
		r.off += 2
		return v, 2, nil
	}
	if err := r.need(4, "VX index"); err != nil {
		return 0, 0, err
	}
	d := r.data[r.off:]
	v := uint32(d[1])<<16 | uint32(d[2])<<8 | uint32(d[3])
	r.off += 4
	return v, 4, nil
}

// index reads a VX index and drops the width.
func (r *reader) index() (uint32, error) {
	v, _, err := r.vx()
	return v, err
}
