package lwo

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// readPoints reads PNTS. Each point is swapped into memory axis order and
// made relative to the layer pivot.
func (p *parser) readPoints(c *chunk) error {
	l := p.currentLayer()
	r := c.payload
	if r.remaining()%12 != 0 {
		return fmt.Errorf("%w: PNTS length %d is not a multiple of 12", ErrTruncatedInput, c.length)
	}
	n := r.remaining() / 12
	l.Points = slices.Grow(l.Points, n)
	bad := 0
	for r.remaining() > 0 {
		pt, err := r.point()
		if err != nil {
			return err
		}
		if !pt.IsFinite() {
			bad++
		}
		l.Points = append(l.Points, pt.Sub(l.Pivot))
	}
	if bad > 0 {
		p.log.Warn("points with non-finite coordinates",
			zap.String("layer", l.Name), zap.Int("count", bad), zap.Int("offset", c.offset))
	}
	p.log.Debug("read points", zap.String("layer", l.Name), zap.Int("count", n))
	return nil
}

// readFaces reads polygon records until the payload ends. Vertex order is
// reversed from the file.
func (p *parser) readFaces(r *reader, emit func(points []uint32) error) error {
	for r.remaining() > 0 {
		count, err := r.u16()
		if err != nil {
			return err
		}
		count &= p.prof.countMask
		points := make([]uint32, count)
		for i := int(count) - 1; i >= 0; i-- {
			if points[i], err = r.index(); err != nil {
				return err
			}
		}
		if err := emit(points); err != nil {
			return err
		}
	}
	return nil
}

// beginPolygonBlock records where a new POLS block starts.
func (p *parser) beginPolygonBlock(l *Layer) {
	p.polyBase = len(l.Polygons)
	p.pendingBlocks++
	p.lastBlock = blockPolygons
}

// endPolygonBlock records the size of the block just read.
func (p *parser) endPolygonBlock(l *Layer) {
	p.polyBlock = len(l.Polygons) - p.polyBase
}

// readPolygons reads a typed POLS chunk (LWO2/LWO3).
func (p *parser) readPolygons(c *chunk) error {
	l := p.currentLayer()
	r := c.payload
	kind, err := r.tag()
	if err != nil {
		return err
	}

	switch kind {
	case tagFACE, tagPTCH, tagSUBD:
		p.beginPolygonBlock(l)
		err := p.readFaces(r, func(points []uint32) error {
			l.Polygons = append(l.Polygons, Polygon{Points: points, Surface: -1})
			return nil
		})
		if err != nil {
			return err
		}
		p.endPolygonBlock(l)
		if kind != tagFACE {
			l.HasSubdivision = true
		}
		p.log.Debug("read polygons",
			zap.String("layer", l.Name),
			zap.String("kind", kind.String()),
			zap.Int("count", p.polyBlock))
	case tagBONE:
		p.lastBlock = blockBones
		return p.readFaces(r, func(points []uint32) error {
			// Bones keep file order.
			for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
				points[i], points[j] = points[j], points[i]
			}
			l.Bones = append(l.Bones, points)
			return nil
		})
	default:
		p.lastBlock = blockSkipped
		r.skipRest()
		p.log.Debug("skipping polygon type",
			zap.String("tag", kind.String()),
			zap.String("context", "POLS"),
			zap.Int("offset", c.offset))
	}
	return nil
}

// readLegacyPolygons reads an LWOB POLS chunk: u16 indices followed by an
// inline signed surface id. A negative id announces detail polygons, whose
// count precedes them; they are read as ordinary polygons.
func (p *parser) readLegacyPolygons(c *chunk) error {
	l := p.currentLayer()
	r := c.payload
	p.beginPolygonBlock(l)
	for r.remaining() > 0 {
		count, err := r.u16()
		if err != nil {
			return err
		}
		points := make([]uint32, count)
		for i := int(count) - 1; i >= 0; i-- {
			v, err := r.u16()
			if err != nil {
				return err
			}
			points[i] = uint32(v)
		}
		sid, err := r.i16()
		if err != nil {
			return err
		}
		if sid == 0 {
			return inconsistent("polygon %d has surface id 0", len(l.Polygons))
		}
		surface := int(sid) - 1
		if sid < 0 {
			surface = -int(sid) - 1
			if _, err := r.i16(); err != nil {
				return err
			}
		}
		index := len(l.Polygons)
		l.Polygons = append(l.Polygons, Polygon{Points: points, Surface: surface})
		l.SurfaceTags[surface] = append(l.SurfaceTags[surface], index)
	}
	p.endPolygonBlock(l)
	p.pendingBlocks = 0
	p.log.Debug("read polygons", zap.String("layer", l.Name), zap.Int("count", p.polyBlock))
	return nil
}

// readLegacyPatches reads PCHS, which is POLS for subdivision patches.
func (p *parser) readLegacyPatches(c *chunk) error {
	if err := p.readLegacyPolygons(c); err != nil {
		return err
	}
	p.currentLayer().HasSubdivision = true
	return nil
}

// relativePolygon converts a block-relative polygon id to a layer index.
func (p *parser) relativePolygon(id uint32) (int, error) {
	if p.polyBlock < 0 {
		return 0, inconsistent("polygon %d referenced before any POLS block", id)
	}
	if int64(id) >= int64(p.polyBlock) {
		return 0, inconsistent("polygon %d outside current POLS block of %d", id, p.polyBlock)
	}
	return int(id) + p.polyBase, nil
}

// checkAssignment rejects per-polygon data that follows more than one
// unassigned polygon block, since its ids cannot be placed.
func (p *parser) checkAssignment() error {
	if p.pendingBlocks > 1 {
		return inconsistent("%d POLS blocks precede polygon assignments", p.pendingBlocks)
	}
	return nil
}

// readPolygonTags reads PTAG.
func (p *parser) readPolygonTags(c *chunk) error {
	l := p.currentLayer()
	r := c.payload
	kind, err := r.tag()
	if err != nil {
		return err
	}

	switch kind {
	case tagSURF:
		if p.lastBlock == blockBones || p.lastBlock == blockSkipped {
			// Surface tags that follow a bone or skipped block are not ours.
			r.skipRest()
			p.log.Debug("skipping surface tags after non-polygon block", zap.Int("offset", c.offset))
			return nil
		}
		if r.remaining() == 0 {
			return nil
		}
		if err := p.checkAssignment(); err != nil {
			return err
		}
		for r.remaining() > 0 {
			id, err := r.index()
			if err != nil {
				return err
			}
			tag, err := r.u16()
			if err != nil {
				return err
			}
			if int(tag) >= len(p.obj.Tags) {
				return inconsistent("surface tag %d not in tag table of %d", tag, len(p.obj.Tags))
			}
			poly, err := p.relativePolygon(id)
			if err != nil {
				return err
			}
			l.SurfaceTags[int(tag)] = append(l.SurfaceTags[int(tag)], poly)
		}
		p.pendingBlocks = 0
	case tagBONE, tagBNUP:
		dst := l.BoneNames
		if kind == tagBNUP {
			dst = l.BoneRolls
		}
		for r.remaining() > 0 {
			id, err := r.index()
			if err != nil {
				return err
			}
			tag, err := r.u16()
			if err != nil {
				return err
			}
			if int(tag) >= len(p.obj.Tags) {
				return inconsistent("bone tag %d not in tag table of %d", tag, len(p.obj.Tags))
			}
			dst[id] = p.obj.Tags[tag]
		}
	default:
		r.skipRest()
		p.log.Debug("skipping polygon tag type",
			zap.String("tag", kind.String()),
			zap.String("context", "PTAG"),
			zap.Int("offset", c.offset))
	}
	return nil
}
