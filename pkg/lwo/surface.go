package lwo

import (
	"go.uber.org/zap"
)

// surfaceFloat assigns the first pre-decoded value of a chunk to a field.
func surfaceFloat(field func(s *Surface) *float32) subHandler[*Surface] {
	return func(p *parser, s *Surface, c *chunk) error {
		*field(s) = float32(c.value(0))
		return nil
	}
}

var surfaceHandlers = map[Tag]subHandler[*Surface]{
	tagCOLR: func(p *parser, s *Surface, c *chunk) error {
		s.Color = [3]float32{float32(c.value(0)), float32(c.value(1)), float32(c.value(2))}
		return nil
	},
	tagDIFF: surfaceFloat(func(s *Surface) *float32 { return &s.Diffuse }),
	tagLUMI: surfaceFloat(func(s *Surface) *float32 { return &s.Luminosity }),
	tagSPEC: surfaceFloat(func(s *Surface) *float32 { return &s.Specular }),
	tagREFL: surfaceFloat(func(s *Surface) *float32 { return &s.Reflection }),
	tagRBLR: surfaceFloat(func(s *Surface) *float32 { return &s.ReflectionBlur }),
	tagTRAN: surfaceFloat(func(s *Surface) *float32 { return &s.Transparency }),
	tagRIND: surfaceFloat(func(s *Surface) *float32 { return &s.RefractionIndex }),
	tagTBLR: surfaceFloat(func(s *Surface) *float32 { return &s.RefractionBlur }),
	tagTRNL: surfaceFloat(func(s *Surface) *float32 { return &s.Translucency }),
	tagGLOS: surfaceFloat(func(s *Surface) *float32 { return &s.Glossiness }),
	tagSHRP: surfaceFloat(func(s *Surface) *float32 { return &s.Sharpness }),
	tagBUMP: surfaceFloat(func(s *Surface) *float32 { return &s.Bump }),
	tagSMAN: func(p *parser, s *Surface, c *chunk) error {
		s.SmoothingAngle = float32(c.value(0))
		s.Smooth = s.SmoothingAngle > 0
		return nil
	},
	tagSIDE: func(p *parser, s *Surface, c *chunk) error {
		s.Sidedness = uint16(c.value(0))
		s.DoubleSided = s.Sidedness == 3
		return nil
	},
	tagVERS: func(p *parser, s *Surface, c *chunk) error {
		s.Version = uint32(c.value(0))
		return nil
	},
	tagBLOK: (*parser).readTextureBlock,
	tagNODS: (*parser).readNodeGraph,
	tagSSHA: (*parser).readShader,
}

// value returns the i-th pre-decoded field, or 0 when absent.
func (c *chunk) value(i int) float64 {
	if i < len(c.values) {
		return c.values[i]
	}
	return 0
}

// readSurface reads an LWO2/LWO3 SURF chunk.
func (p *parser) readSurface(c *chunk) error {
	r := c.payload
	name, err := r.str()
	if err != nil {
		return err
	}
	s := newSurface(name)
	if p.prof.sourceName {
		if s.SourceName, err = r.str(); err != nil {
			return err
		}
	}
	if err := walk(p, r, "surface", s, surfaceHandlers); err != nil {
		return err
	}
	p.addSurface(s)
	return nil
}

// addSurface stores s by name. A later definition replaces an earlier one.
func (p *parser) addSurface(s *Surface) {
	if _, ok := p.obj.Surfaces[s.Name]; ok {
		p.log.Debug("surface redefined, keeping the last definition", zap.String("name", s.Name))
	}
	p.obj.Surfaces[s.Name] = s
	p.log.Debug("read surface", zap.String("name", s.Name), zap.Int("channels", len(s.Textures)))
}

// readShader reads SSHA. The shader data is captured, not interpreted.
func (p *parser) readShader(s *Surface, c *chunk) error {
	sh := &Shader{}
	if err := walk(p, c.payload, "shader", sh, shaderHandlers); err != nil {
		return err
	}
	s.Shaders = append(s.Shaders, sh)
	return nil
}

var shaderHandlers = map[Tag]subHandler[*Shader]{
	tagSSHN: func(p *parser, sh *Shader, c *chunk) error {
		var err error
		sh.Name, err = c.payload.str()
		return err
	},
	tagSSHD: func(p *parser, sh *Shader, c *chunk) error {
		var err error
		sh.Data, err = c.payload.bytes(c.payload.remaining())
		return err
	},
}
