package lwo

import (
	"bytes"
	"encoding/binary"
	"math"
)

// builder assembles big-endian LWO payloads for tests.
type builder struct {
	buf bytes.Buffer
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) tag(s string) *builder {
	t := MakeTag(s)
	b.buf.Write(t[:])
	return b
}

func (b *builder) u8(v uint8) *builder {
	b.buf.WriteByte(v)
	return b
}

func (b *builder) u16(v uint16) *builder {
	binary.Write(&b.buf, binary.BigEndian, v)
	return b
}

func (b *builder) i16(v int16) *builder {
	binary.Write(&b.buf, binary.BigEndian, v)
	return b
}

func (b *builder) u32(v uint32) *builder {
	binary.Write(&b.buf, binary.BigEndian, v)
	return b
}

func (b *builder) f32(v float32) *builder {
	return b.u32(math.Float32bits(v))
}

// vec writes three floats in file order.
func (b *builder) vec(x, y, z float32) *builder {
	return b.f32(x).f32(y).f32(z)
}

// str writes a NUL-terminated string padded to an even length.
func (b *builder) str(s string) *builder {
	b.buf.WriteString(s)
	b.buf.WriteByte(0)
	if (len(s)+1)%2 == 1 {
		b.buf.WriteByte(0)
	}
	return b
}

// vx writes a variable-length index.
func (b *builder) vx(v uint32) *builder {
	if v < 0xFF00 {
		return b.u16(uint16(v))
	}
	return b.u32(v | 0xFF000000)
}

func (b *builder) raw(p []byte) *builder {
	b.buf.Write(p)
	return b
}

func (b *builder) bytes() []byte {
	return append([]byte(nil), b.buf.Bytes()...)
}

// chunk32 builds a chunk with a 32-bit length, padded to even length.
func chunk32(tag string, payload []byte) []byte {
	b := newBuilder().tag(tag).u32(uint32(len(payload))).raw(payload)
	if len(payload)%2 == 1 {
		b.u8(0)
	}
	return b.bytes()
}

// chunk16 builds a sub-chunk with a 16-bit length.
func chunk16(tag string, payload []byte) []byte {
	return newBuilder().tag(tag).u16(uint16(len(payload))).raw(payload).bytes()
}

// form32 builds a FORM group with a 32-bit length.
func form32(sub string, payload []byte) []byte {
	return chunk32("FORM", append(MakeTag(sub).bytes(), payload...))
}

// topForm32 builds a top-level LWO3 group: FORM, sub-tag, then an inner
// chunk header ahead of the group's fields.
func topForm32(sub string, payload []byte) []byte {
	inner := newBuilder().tag(sub).u32(uint32(len(payload))).raw(payload).bytes()
	return form32(sub, inner)
}

func (t Tag) bytes() []byte {
	return []byte{t[0], t[1], t[2], t[3]}
}

// lwoFile wraps chunks in a FORM container of the given format.
func lwoFile(format string, chunks ...[]byte) []byte {
	body := newBuilder().tag(format)
	for _, c := range chunks {
		body.raw(c)
	}
	payload := body.bytes()
	return newBuilder().tag("FORM").u32(uint32(len(payload))).raw(payload).bytes()
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// tagsChunk builds a TAGS chunk.
func tagsChunk(names ...string) []byte {
	b := newBuilder()
	for _, n := range names {
		b.str(n)
	}
	return chunk32("TAGS", b.bytes())
}

// layerChunk builds an LWO2 LAYR chunk with a file-order pivot.
func layerChunk(index uint16, flags uint16, pivot [3]float32, name string) []byte {
	return chunk32("LAYR", newBuilder().
		u16(index).u16(flags).vec(pivot[0], pivot[1], pivot[2]).str(name).bytes())
}

// pointsChunk builds a PNTS chunk from file-order triples.
func pointsChunk(points ...[3]float32) []byte {
	b := newBuilder()
	for _, p := range points {
		b.vec(p[0], p[1], p[2])
	}
	return chunk32("PNTS", b.bytes())
}

// polsChunk builds a typed POLS chunk; each polygon is in file order.
func polsChunk(kind string, polys ...[]uint32) []byte {
	b := newBuilder().tag(kind)
	for _, poly := range polys {
		b.u16(uint16(len(poly)))
		for _, v := range poly {
			b.vx(v)
		}
	}
	return chunk32("POLS", b.bytes())
}

// ptagChunk builds a PTAG chunk from (id, tag) pairs.
func ptagChunk(kind string, pairs ...[2]uint32) []byte {
	b := newBuilder().tag(kind)
	for _, pr := range pairs {
		b.vx(pr[0]).u16(uint16(pr[1]))
	}
	return chunk32("PTAG", b.bytes())
}
