package lwo

import (
	"fmt"

	"go.uber.org/zap"
)

// readClip reads a CLIP chunk: a numeric id followed by sub-chunks.
func (p *parser) readClip(c *chunk) error {
	r := c.payload
	id, err := r.u32()
	if err != nil {
		return err
	}
	clip := &Clip{ID: id}
	if err := walk(p, r, "clip", clip, clipHandlers); err != nil {
		return err
	}
	if _, ok := p.obj.Clips[id]; ok {
		p.log.Debug("clip redefined, keeping the last definition", zap.Uint32("id", id))
	}
	p.obj.Clips[id] = clip
	return nil
}

var clipHandlers = map[Tag]subHandler[*Clip]{
	tagSTIL: readStill,
	tagISEQ: readImageSequence,
	tagXREF: func(p *parser, clip *Clip, c *chunk) error {
		id, err := c.payload.u32()
		if err != nil {
			return err
		}
		name, err := c.payload.str()
		if err != nil {
			return err
		}
		clip.XRef = &ClipRef{ID: id, Name: name}
		return nil
	},
}

// readStill reads a still image path. In LWO3 the still is a FORM group
// whose first nested chunk begins with the path.
func readStill(p *parser, clip *Clip, c *chunk) error {
	r := c.payload
	if c.form {
		inner, err := r.nextChunk(p.prof.subWidth, true)
		if err != nil {
			return err
		}
		r.skipRest()
		r = inner.payload
	}
	path, err := r.str()
	if err != nil {
		return err
	}
	clip.Path = path
	r.skipRest()
	return nil
}

// readImageSequence reads ISEQ. The clip path is set to the first frame.
func readImageSequence(p *parser, clip *Clip, c *chunk) error {
	r := c.payload
	seq := &ImageSequence{}
	var err error
	if seq.Digits, err = r.u8(); err != nil {
		return err
	}
	if seq.Flags, err = r.u8(); err != nil {
		return err
	}
	if seq.Offset, err = r.i16(); err != nil {
		return err
	}
	if err = r.skip(2); err != nil {
		return err
	}
	if seq.Start, err = r.i16(); err != nil {
		return err
	}
	if seq.End, err = r.i16(); err != nil {
		return err
	}
	if seq.Prefix, err = r.str(); err != nil {
		return err
	}
	if seq.Suffix, err = r.str(); err != nil {
		return err
	}
	clip.Sequence = seq
	clip.Path = seq.Frame(int(seq.Start))
	return nil
}

// Frame returns the file name of frame n.
func (s *ImageSequence) Frame(n int) string {
	return fmt.Sprintf("%s%0*d%s", s.Prefix, int(s.Digits), n, s.Suffix)
}
