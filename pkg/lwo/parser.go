package lwo

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// chunkHandler decodes one top-level chunk into the parser's object.
type chunkHandler func(p *parser, c *chunk) error

// subHandler decodes one nested chunk into a target value.
type subHandler[T any] func(p *parser, target T, c *chunk) error

var legacyHandlers = map[Tag]chunkHandler{
	tagSRFS: (*parser).readTags,
	tagLAYR: (*parser).readLayer,
	tagPNTS: (*parser).readPoints,
	tagPOLS: (*parser).readLegacyPolygons,
	tagPCHS: (*parser).readLegacyPatches,
	tagSURF: (*parser).readLegacySurface,
}

var chunkedHandlers = map[Tag]chunkHandler{
	tagTAGS: (*parser).readTags,
	tagLAYR: (*parser).readLayer,
	tagPNTS: (*parser).readPoints,
	tagPOLS: (*parser).readPolygons,
	tagPTAG: (*parser).readPolygonTags,
	tagVMAP: (*parser).readVertexMap,
	tagVMAD: (*parser).readDiscontinuousMap,
	tagCLIP: (*parser).readClip,
	tagSURF: (*parser).readSurface,
	tagBBOX: (*parser).readBoundingBox,
}

// blockKind is the kind of the most recent POLS block in a layer.
type blockKind int

const (
	blockNone blockKind = iota
	blockPolygons
	blockBones
	blockSkipped
)

// parser holds the state of one parse. It is never shared.
type parser struct {
	prof   profile
	log    *zap.Logger
	strict bool

	obj   *Object
	layer *Layer

	// Polygon block bookkeeping for the current layer. polyBlock is -1
	// until a polygon POLS block has been read.
	polyBase      int
	polyBlock     int
	pendingBlocks int
	lastBlock     blockKind

	nextLocalClip uint32
}

// Parse decodes an LWO file held in memory. data is only borrowed for the
// duration of the call.
func Parse(data []byte, opts ...Option) (*Object, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	body, format, err := readHeader(data, o)
	if err != nil {
		return nil, err
	}
	prof, ok := profileFor(format)
	if !ok {
		return nil, &ParseError{Tag: format, Offset: 8,
			Err: fmt.Errorf("%w: unsupported format %s", ErrMalformedContainer, format)}
	}

	p := &parser{
		prof:      prof,
		log:       o.logger,
		strict:    o.strict,
		obj:       newObject(prof.format),
		polyBlock: -1,
	}
	p.log.Debug("parsing object", zap.String("format", string(prof.format)), zap.Int("size", len(data)))
	if err := p.run(body); err != nil {
		return nil, err
	}
	return p.obj, nil
}

// ParseFile parses an LWO file from disk.
func ParseFile(path string, opts ...Option) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading LWO file: %w", err)
	}
	obj, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	obj.SourcePath = path
	return obj, nil
}

// readHeader checks the 12-byte container header and returns a reader
// over the chunks it declares.
func readHeader(data []byte, o options) (*reader, Tag, error) {
	if len(data) < 12 {
		return nil, Tag{}, &ParseError{Offset: 0,
			Err: fmt.Errorf("%w: file too short (%d bytes)", ErrMalformedContainer, len(data))}
	}
	r := newReader(data, 0, o.charset)
	magic, _ := r.tag()
	size, _ := r.u32()
	format, _ := r.tag()
	if magic != tagFORM {
		return nil, Tag{}, &ParseError{Tag: magic, Offset: 0,
			Err: fmt.Errorf("%w: expected FORM magic", ErrMalformedContainer)}
	}
	if size < 4 {
		return nil, Tag{}, &ParseError{Tag: magic, Offset: 4,
			Err: fmt.Errorf("%w: declared length %d", ErrMalformedContainer, size)}
	}
	end := len(data)
	if declared := 8 + int64(size); declared < int64(end) {
		end = int(declared)
	}
	return newReader(data[12:end], 12, o.charset), format, nil
}

// run is the top-level dispatch loop.
func (p *parser) run(body *reader) error {
	for body.remaining() > 0 {
		c, err := body.nextChunk(32, false)
		if err != nil {
			return &ParseError{Offset: body.pos(), Err: err}
		}
		if p.prof.unwrapTop {
			if err := c.unwrap(); err != nil {
				return wrapChunkError(c.tag, c.offset, err)
			}
		}
		if c.form && p.prof.formHeader {
			if err := c.payload.skip(8); err != nil {
				return wrapChunkError(c.tag, c.offset, err)
			}
		}
		h, ok := p.prof.handlers[c.tag]
		if !ok {
			p.skipped(c, "object")
			continue
		}
		if err := h(p, c); err != nil {
			return wrapChunkError(c.tag, c.offset, err)
		}
		if err := p.finish(c, "object"); err != nil {
			return err
		}
	}
	return nil
}

// walk dispatches every nested chunk in r to handlers. Unknown tags are
// skipped.
func walk[T any](p *parser, r *reader, context string, target T, handlers map[Tag]subHandler[T]) error {
	for r.remaining() > 0 {
		c, err := p.nextSub(r)
		if err != nil {
			return err
		}
		h, ok := handlers[c.tag]
		if !ok {
			p.skipped(c, context)
			continue
		}
		if err := h(p, target, c); err != nil {
			return wrapChunkError(c.tag, c.offset, err)
		}
		if err := p.finish(c, context); err != nil {
			return err
		}
	}
	return nil
}

// nextSub reads a nested chunk using the profile's length width, unwraps
// FORM groups where the profile allows it and pre-decodes fixed layouts.
func (p *parser) nextSub(r *reader) (*chunk, error) {
	c, err := r.nextChunk(p.prof.subWidth, true)
	if err != nil {
		return nil, err
	}
	if p.prof.unwrapNested {
		if err := c.unwrap(); err != nil {
			return nil, wrapChunkError(c.tag, c.offset, err)
		}
	}
	if p.prof.fixedLayouts && !c.form {
		if l, ok := layouts[c.tag]; ok {
			if c.values, err = c.payload.readFixed(l); err != nil {
				return nil, wrapChunkError(c.tag, c.offset, err)
			}
		}
	}
	return c, nil
}

// skipped logs an unrecognized chunk. Skipping is always length-exact.
func (p *parser) skipped(c *chunk, context string) {
	c.payload.skipRest()
	p.log.Debug("skipping unsupported chunk",
		zap.String("tag", c.tag.String()),
		zap.String("context", context),
		zap.Int("offset", c.offset),
		zap.Int("length", c.length))
}

// finish checks that a handler consumed its whole payload. Layout-driven
// chunks may carry trailing envelope data.
func (p *parser) finish(c *chunk, context string) error {
	left := c.payload.remaining()
	if left == 0 || c.values != nil {
		return nil
	}
	if p.strict {
		return &ParseError{Tag: c.tag, Offset: c.offset,
			Err: fmt.Errorf("%w: %d of %d bytes left in %s", ErrLengthMismatch, left, c.length, context)}
	}
	p.log.Warn("chunk payload not fully consumed",
		zap.String("tag", c.tag.String()),
		zap.String("context", context),
		zap.Int("offset", c.offset),
		zap.Int("unread", left))
	return nil
}

// currentLayer returns the layer receiving geometry, creating the default
// layer when the file has no LAYR chunk before its geometry.
func (p *parser) currentLayer() *Layer {
	if p.layer == nil {
		p.startLayer(newLayer("Layer 1", 0))
		p.log.Debug("created implicit layer")
	}
	return p.layer
}

func (p *parser) startLayer(l *Layer) {
	p.obj.Layers = append(p.obj.Layers, l)
	p.layer = l
	p.polyBase = 0
	p.polyBlock = -1
	p.pendingBlocks = 0
	p.lastBlock = blockNone
}

// readTags reads TAGS (and legacy SRFS) name lists.
func (p *parser) readTags(c *chunk) error {
	r := c.payload
	for r.remaining() > 0 {
		s, err := r.str()
		if err != nil {
			return err
		}
		p.obj.Tags = append(p.obj.Tags, s)
	}
	return nil
}

// readLayer starts a new layer. Hidden layers are kept; filtering is up to
// the caller via Object.ActiveLayers.
func (p *parser) readLayer(c *chunk) error {
	r := c.payload
	index, err := r.i16()
	if err != nil {
		return err
	}
	flags, err := r.u16()
	if err != nil {
		return err
	}

	l := newLayer("", index)
	l.Hidden = flags&1 != 0

	if p.prof.layerPivot {
		if l.Pivot, err = r.point(); err != nil {
			return err
		}
	}

	start := r.off
	name, err := r.str()
	if err != nil {
		return err
	}
	consumed := r.off - start

	switch {
	case p.prof.legacy && consumed > 2 && name != "noname":
		l.Name = name
	case !p.prof.legacy && name != "":
		l.Name = name
	default:
		l.Name = fmt.Sprintf("Layer %d", int(index)+p.prof.layerNameBase)
	}

	if p.prof.layerPivot && r.remaining() == 2 {
		if l.ParentIndex, err = r.i16(); err != nil {
			return err
		}
	}

	p.startLayer(l)
	p.log.Debug("reading layer",
		zap.String("name", l.Name),
		zap.Int16("index", l.Index),
		zap.Bool("hidden", l.Hidden))
	return nil
}

// readBoundingBox reads BBOX. The corners are axis-swapped like points but
// are not pivot-relative.
func (p *parser) readBoundingBox(c *chunk) error {
	l := p.currentLayer()
	lo, err := c.payload.point()
	if err != nil {
		return err
	}
	hi, err := c.payload.point()
	if err != nil {
		return err
	}
	if !lo.IsFinite() || !hi.IsFinite() {
		p.log.Warn("bounding box has non-finite corners",
			zap.String("layer", l.Name), zap.Int("offset", c.offset))
	}
	l.BBox.Min, l.BBox.Max = lo, hi
	return nil
}
