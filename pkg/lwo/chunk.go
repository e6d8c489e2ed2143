package lwo

import "fmt"

// chunk is one tagged record. payload covers exactly the declared length.
type chunk struct {
	tag     Tag
	offset  int // absolute offset of the chunk header
	length  int // declared payload length
	form    bool
	values  []float64 // pre-decoded fields for layout-driven sub-chunks
	payload *reader
}

// nextChunk reads a chunk header and slices off its payload. width is the
// length field size in bits (16 or 32). Top-level chunks are padded to an
// even length; a nested chunk that runs past its parent is ErrChunkOverrun.
func (r *reader) nextChunk(width int, nested bool) (*chunk, error) {
	c := &chunk{offset: r.pos()}
	var err error
	if c.tag, err = r.tag(); err != nil {
		return nil, err
	}
	switch width {
	case 16:
		var n uint16
		n, err = r.u16()
		c.length = int(n)
	case 32:
		var n uint32
		n, err = r.u32()
		c.length = int(n)
	default:
		return nil, fmt.Errorf("unsupported chunk length width %d", width)
	}
	if err != nil {
		return nil, err
	}
	if c.length < 0 || c.length > r.remaining() {
		sentinel := ErrTruncatedInput
		if nested {
			sentinel = ErrChunkOverrun
		}
		return nil, fmt.Errorf("%w: %s declares %d bytes, %d remain",
			sentinel, c.tag, c.length, r.remaining())
	}
	c.payload = newReader(r.data[r.off:r.off+c.length], r.pos(), r.dec)
	r.off += c.length
	if !nested && c.length%2 == 1 && r.remaining() > 0 {
		r.off++
	}
	return c, nil
}

// unwrap replaces a FORM chunk's tag with its sub-tag, leaving the rest of
// the wrapper as the payload. It unwraps exactly one level.
func (c *chunk) unwrap() error {
	if c.tag != tagFORM {
		return nil
	}
	sub, err := c.payload.tag()
	if err != nil {
		return err
	}
	c.tag = sub
	c.form = true
	return nil
}
