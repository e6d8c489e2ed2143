package lwo

import (
	"strings"

	"go.uber.org/zap"
)

// legacySurface is the state of an LWOB SURF chunk: the surface and the
// texture context opened by the last xTEX sub-chunk.
type legacySurface struct {
	surf    *Surface
	channel string
	kind    string
	texture *TextureLayer
}

// legacyChannels maps xTEX tags to surface channels.
var legacyChannels = map[Tag]string{
	tagCTEX: "COLR",
	tagDTEX: "DIFF",
	tagSTEX: "SPEC",
	tagRTEX: "REFL",
	tagTTEX: "TRAN",
	tagBTEX: "BUMP",
	tagLTEX: "LUMI",
}

// fixedPoint assigns an i16/256 fraction. The divisor is 256, not 255.
func fixedPoint(field func(s *Surface) *float32) subHandler[*legacySurface] {
	return func(p *parser, ls *legacySurface, c *chunk) error {
		v, err := c.payload.i16()
		if err != nil {
			return err
		}
		*field(ls.surf) = float32(v) / 256
		return nil
	}
}

// floatOverride assigns a full-precision f32 value.
func floatOverride(field func(s *Surface) *float32) subHandler[*legacySurface] {
	return func(p *parser, ls *legacySurface, c *chunk) error {
		v, err := c.payload.f32()
		if err != nil {
			return err
		}
		*field(ls.surf) = v
		return nil
	}
}

func openTexture(p *parser, ls *legacySurface, c *chunk) error {
	kind, err := c.payload.str()
	if err != nil {
		return err
	}
	ls.channel = legacyChannels[c.tag]
	ls.kind = kind
	ls.texture = nil
	return nil
}

var legacySurfaceHandlers = map[Tag]subHandler[*legacySurface]{
	tagCOLR: func(p *parser, ls *legacySurface, c *chunk) error {
		rgb, err := c.payload.bytes(4)
		if err != nil {
			return err
		}
		ls.surf.Color = [3]float32{float32(rgb[0]) / 255, float32(rgb[1]) / 255, float32(rgb[2]) / 255}
		return nil
	},
	tagDIFF: fixedPoint(func(s *Surface) *float32 { return &s.Diffuse }),
	tagLUMI: fixedPoint(func(s *Surface) *float32 { return &s.Luminosity }),
	tagSPEC: fixedPoint(func(s *Surface) *float32 { return &s.Specular }),
	tagREFL: fixedPoint(func(s *Surface) *float32 { return &s.Reflection }),
	tagTRAN: fixedPoint(func(s *Surface) *float32 { return &s.Transparency }),
	tagGLOS: fixedPoint(func(s *Surface) *float32 { return &s.Glossiness }),
	tagVDIF: floatOverride(func(s *Surface) *float32 { return &s.Diffuse }),
	tagVLUM: floatOverride(func(s *Surface) *float32 { return &s.Luminosity }),
	tagVSPC: floatOverride(func(s *Surface) *float32 { return &s.Specular }),
	tagVRFL: floatOverride(func(s *Surface) *float32 { return &s.Reflection }),
	tagVTRN: floatOverride(func(s *Surface) *float32 { return &s.Transparency }),
	tagRIND: floatOverride(func(s *Surface) *float32 { return &s.RefractionIndex }),
	tagSMAN: func(p *parser, ls *legacySurface, c *chunk) error {
		v, err := c.payload.f32()
		if err != nil {
			return err
		}
		ls.surf.SmoothingAngle = v
		ls.surf.Smooth = ls.surf.Smooth || v > 0
		return nil
	},
	tagFLAG: func(p *parser, ls *legacySurface, c *chunk) error {
		flags, err := c.payload.u16()
		if err != nil {
			return err
		}
		if flags&0x4 != 0 {
			ls.surf.Smooth = true
		}
		if flags&0x100 != 0 {
			ls.surf.Sidedness = 3
			ls.surf.DoubleSided = true
		}
		return nil
	},
	tagCTEX: openTexture,
	tagDTEX: openTexture,
	tagSTEX: openTexture,
	tagRTEX: openTexture,
	tagTTEX: openTexture,
	tagBTEX: openTexture,
	tagLTEX: openTexture,
	tagTIMG: (*parser).readLegacyImage,
	tagTFLG: func(p *parser, ls *legacySurface, c *chunk) error {
		flags, err := c.payload.u16()
		if err != nil {
			return err
		}
		if ls.texture == nil {
			return nil
		}
		switch {
		case flags&1 != 0:
			ls.texture.Axis = 0
		case flags&2 != 0:
			ls.texture.Axis = 1
		case flags&4 != 0:
			ls.texture.Axis = 2
		}
		return nil
	},
}

// readLegacySurface reads an LWOB SURF chunk.
func (p *parser) readLegacySurface(c *chunk) error {
	r := c.payload
	name, err := r.str()
	if err != nil {
		return err
	}
	ls := &legacySurface{surf: newSurface(name)}
	if err := walk(p, r, "surface", ls, legacySurfaceHandlers); err != nil {
		return err
	}
	p.addSurface(ls.surf)
	return nil
}

// readLegacyImage reads TIMG. The image is registered as a clip under a
// locally generated id since legacy files have no clip table.
func (p *parser) readLegacyImage(ls *legacySurface, c *chunk) error {
	path, err := c.payload.str()
	if err != nil {
		return err
	}
	if path == "(none)" || path == "" {
		ls.texture = nil
		return nil
	}
	channel := ls.channel
	if channel == "" {
		channel = "COLR"
	}

	p.nextLocalClip++
	id := p.nextLocalClip
	p.obj.Clips[id] = &Clip{ID: id, Path: path}

	t := newTextureLayer("IMAP")
	t.Channel = channel
	t.ClipID = id
	t.Function = ls.kind
	t.Projection = legacyProjection(ls.kind)
	ls.surf.addTexture(t)
	ls.texture = t

	p.log.Debug("registered legacy texture image",
		zap.String("surface", ls.surf.Name),
		zap.String("channel", channel),
		zap.Uint32("clip", id))
	return nil
}

// legacyProjection derives a projection mode from an xTEX texture name
// such as "Planar Image Map".
func legacyProjection(kind string) uint16 {
	switch {
	case strings.HasPrefix(kind, "Planar"):
		return ProjectionPlanar
	case strings.HasPrefix(kind, "Cylindrical"):
		return ProjectionCylindrical
	case strings.HasPrefix(kind, "Spherical"):
		return ProjectionSpherical
	case strings.HasPrefix(kind, "Cubic"):
		return ProjectionCubic
	case strings.HasPrefix(kind, "Front"):
		return ProjectionFront
	}
	return ProjectionUV
}
