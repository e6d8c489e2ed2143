package lwo

import (
	"go.uber.org/zap"
)

// readTextureBlock reads a BLOK sub-chunk: a header chunk naming the block
// type, followed by the block's attributes.
func (p *parser) readTextureBlock(s *Surface, c *chunk) error {
	r := c.payload
	if r.remaining() == 0 {
		return nil
	}
	hdr, err := p.nextSub(r)
	if err != nil {
		return err
	}
	switch hdr.tag {
	case tagIMAP, tagPROC, tagSHDR, tagGRAD:
	default:
		r.skipRest()
		p.log.Debug("skipping texture block type",
			zap.String("tag", hdr.tag.String()),
			zap.String("context", "BLOK"),
			zap.Int("offset", hdr.offset))
		return nil
	}

	t := newTextureLayer(hdr.tag.String())
	if t.Ordinal, err = hdr.payload.str(); err != nil {
		return wrapChunkError(hdr.tag, hdr.offset, err)
	}
	if err := walk(p, hdr.payload, "texture header", t, textureHandlers); err != nil {
		return err
	}
	if err := walk(p, r, "texture block", t, textureHandlers); err != nil {
		return err
	}
	s.addTexture(t)
	return nil
}

var textureHandlers = map[Tag]subHandler[*TextureLayer]{
	tagCHAN: func(p *parser, t *TextureLayer, c *chunk) error {
		t.Channel = tagFromUint32(uint32(c.value(0))).String()
		return nil
	},
	tagOPAC: func(p *parser, t *TextureLayer, c *chunk) error {
		t.OpacityMode = uint16(c.value(0))
		t.Opacity = float32(c.value(1))
		return nil
	},
	tagENAB: func(p *parser, t *TextureLayer, c *chunk) error {
		t.Enabled = c.value(0) != 0
		return nil
	},
	tagNEGA: func(p *parser, t *TextureLayer, c *chunk) error {
		t.Negative = c.value(0) != 0
		return nil
	},
	tagAXIS: func(p *parser, t *TextureLayer, c *chunk) error {
		t.Axis = uint16(c.value(0))
		return nil
	},
	tagPROJ: func(p *parser, t *TextureLayer, c *chunk) error {
		t.Projection = uint16(c.value(0))
		return nil
	},
	tagIMAG: func(p *parser, t *TextureLayer, c *chunk) error {
		t.ClipID = uint32(c.value(0))
		return nil
	},
	tagVMAP: func(p *parser, t *TextureLayer, c *chunk) error {
		var err error
		t.UVName, err = c.payload.str()
		return err
	},
	tagFUNC: func(p *parser, t *TextureLayer, c *chunk) error {
		var err error
		t.Function, err = c.payload.str()
		// Procedural parameters follow the name and are not decoded.
		c.payload.skipRest()
		return err
	},
	tagTMAP: func(p *parser, t *TextureLayer, c *chunk) error {
		return walk(p, c.payload, "texture placement", &t.Placement, placementHandlers)
	},
}

func envVector(c *chunk) EnvVector {
	return EnvVector{
		Value:    [3]float32{float32(c.value(0)), float32(c.value(1)), float32(c.value(2))},
		Envelope: int16(c.value(3)),
	}
}

var placementHandlers = map[Tag]subHandler[*Placement]{
	tagCNTR: func(p *parser, pl *Placement, c *chunk) error {
		pl.Center = envVector(c)
		return nil
	},
	tagSIZE: func(p *parser, pl *Placement, c *chunk) error {
		pl.Size = envVector(c)
		return nil
	},
	tagROTA: func(p *parser, pl *Placement, c *chunk) error {
		pl.Rotation = envVector(c)
		return nil
	},
	tagFALL: func(p *parser, pl *Placement, c *chunk) error {
		pl.Falloff = Falloff{
			Type:     int16(c.value(0)),
			Value:    [3]float32{float32(c.value(1)), float32(c.value(2)), float32(c.value(3))},
			Envelope: int16(c.value(4)),
		}
		return nil
	},
	tagOREF: func(p *parser, pl *Placement, c *chunk) error {
		var err error
		pl.ReferenceObject, err = c.payload.str()
		return err
	},
	tagCSYS: func(p *parser, pl *Placement, c *chunk) error {
		pl.CoordSystem = int16(c.value(0))
		return nil
	},
}
