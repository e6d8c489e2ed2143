package lwo

import (
	"go.uber.org/zap"

	lwmath "github.com/Faultbox/lwostrut/pkg/math"
)

// mapReader decodes the records of one VMAP or VMAD kind.
type mapReader func(p *parser, l *Layer, name string, dim int, r *reader) error

var vertexMapReaders = map[Tag]mapReader{
	tagWGHT: readWeightMap,
	tagMORF: readRelativeMorph,
	tagSPOT: readAbsoluteMorph,
	tagTXUV: readUVMap,
	tagRGB:  readColorMap,
	tagRGBA: readColorMap,
	tagNORM: readNormalMap,
}

var discontinuousMapReaders = map[Tag]mapReader{
	tagTXUV: readUVFaces,
	tagRGB:  readColorFaces,
	tagRGBA: readColorFaces,
	tagNORM: readNormalFaces,
	tagWGHT: readEdgeWeights,
}

// edgeWeightMap is the only weight VMAD that carries edge weights.
const edgeWeightMap = "Edge Weight"

// readMapHeader reads the kind, dimension and name shared by VMAP and VMAD.
func readMapHeader(r *reader) (Tag, int, string, error) {
	kind, err := r.tag()
	if err != nil {
		return kind, 0, "", err
	}
	dim, err := r.u16()
	if err != nil {
		return kind, 0, "", err
	}
	name, err := r.str()
	if err != nil {
		return kind, 0, "", err
	}
	return kind, int(dim), name, nil
}

// readValues reads dim floats and pads the result to want components.
func readValues(r *reader, dim, want int) ([]float32, error) {
	v, err := r.floats(dim)
	if err != nil {
		return nil, err
	}
	for len(v) < want {
		v = append(v, 0)
	}
	return v, nil
}

// readVertexMap reads VMAP, a per-point map.
func (p *parser) readVertexMap(c *chunk) error {
	l := p.currentLayer()
	kind, dim, name, err := readMapHeader(c.payload)
	if err != nil {
		return err
	}
	read, ok := vertexMapReaders[kind]
	if !ok {
		c.payload.skipRest()
		p.log.Debug("skipping vertex map type",
			zap.String("tag", kind.String()),
			zap.String("context", "VMAP"),
			zap.String("name", name),
			zap.Int("offset", c.offset))
		return nil
	}
	return read(p, l, name, dim, c.payload)
}

// readDiscontinuousMap reads VMAD, a per-polygon map. Polygon ids are
// relative to the most recent POLS block.
func (p *parser) readDiscontinuousMap(c *chunk) error {
	l := p.currentLayer()
	kind, dim, name, err := readMapHeader(c.payload)
	if err != nil {
		return err
	}
	read, ok := discontinuousMapReaders[kind]
	if !ok {
		c.payload.skipRest()
		p.log.Debug("skipping discontinuous map type",
			zap.String("tag", kind.String()),
			zap.String("context", "VMAD"),
			zap.String("name", name),
			zap.Int("offset", c.offset))
		return nil
	}
	return read(p, l, name, dim, c.payload)
}

func readWeightMap(p *parser, l *Layer, name string, dim int, r *reader) error {
	var weights []Weight
	for r.remaining() > 0 {
		id, err := r.index()
		if err != nil {
			return err
		}
		v, err := readValues(r, dim, 1)
		if err != nil {
			return err
		}
		weights = append(weights, Weight{Point: id, Value: v[0]})
	}
	l.WeightMaps[name] = append(l.WeightMaps[name], weights...)
	return nil
}

// readRelativeMorph reads MORF: each delta is added to the point.
func readRelativeMorph(p *parser, l *Layer, name string, dim int, r *reader) error {
	return readMorph(l, name, dim, r, true)
}

// readAbsoluteMorph reads SPOT: positions replace the point outright.
func readAbsoluteMorph(p *parser, l *Layer, name string, dim int, r *reader) error {
	return readMorph(l, name, dim, r, false)
}

func readMorph(l *Layer, name string, dim int, r *reader, relative bool) error {
	var targets []MorphTarget
	for r.remaining() > 0 {
		id, err := r.index()
		if err != nil {
			return err
		}
		v, err := readValues(r, dim, 3)
		if err != nil {
			return err
		}
		pos := lwmath.FromFileOrder([3]float32{v[0], v[1], v[2]})
		if relative {
			if int64(id) >= int64(len(l.Points)) {
				return inconsistent("morph %q references point %d of %d", name, id, len(l.Points))
			}
			pos = l.Points[id].Add(pos)
		}
		targets = append(targets, MorphTarget{Point: id, Position: pos})
	}
	l.Morphs[name] = append(l.Morphs[name], targets...)
	return nil
}

func readUVMap(p *parser, l *Layer, name string, dim int, r *reader) error {
	m := l.UVMaps[name]
	if m == nil {
		m = newUVMap()
		l.UVMaps[name] = m
	}
	for r.remaining() > 0 {
		id, err := r.index()
		if err != nil {
			return err
		}
		v, err := readValues(r, dim, 2)
		if err != nil {
			return err
		}
		m.Points[id] = [2]float32{v[0], v[1]}
	}
	return nil
}

func colorValue(v []float32, dim int) [4]float32 {
	c := [4]float32{v[0], v[1], v[2], 1}
	if dim >= 4 {
		c[3] = v[3]
	}
	return c
}

func readColorMap(p *parser, l *Layer, name string, dim int, r *reader) error {
	m := l.ColorMaps[name]
	if m == nil {
		m = newColorMap()
		l.ColorMaps[name] = m
	}
	for r.remaining() > 0 {
		id, err := r.index()
		if err != nil {
			return err
		}
		v, err := readValues(r, dim, 4)
		if err != nil {
			return err
		}
		m.Points[id] = colorValue(v, dim)
	}
	return nil
}

func readNormalMap(p *parser, l *Layer, name string, dim int, r *reader) error {
	m := l.NormalMaps[name]
	if m == nil {
		m = newNormalMap()
		l.NormalMaps[name] = m
	}
	for r.remaining() > 0 {
		id, err := r.index()
		if err != nil {
			return err
		}
		v, err := readValues(r, dim, 3)
		if err != nil {
			return err
		}
		m.Points[id] = lwmath.FromFileOrder([3]float32{v[0], v[1], v[2]})
	}
	return nil
}

// faceRecords walks VMAD records, resolving each polygon id to a layer
// index before calling fn.
func (p *parser) faceRecords(r *reader, dim, want int, fn func(point uint32, poly int, v []float32) error) error {
	if r.remaining() == 0 {
		return nil
	}
	if err := p.checkAssignment(); err != nil {
		return err
	}
	for r.remaining() > 0 {
		point, err := r.index()
		if err != nil {
			return err
		}
		rel, err := r.index()
		if err != nil {
			return err
		}
		v, err := readValues(r, dim, want)
		if err != nil {
			return err
		}
		poly, err := p.relativePolygon(rel)
		if err != nil {
			return err
		}
		if err := fn(point, poly, v); err != nil {
			return err
		}
	}
	p.pendingBlocks = 0
	return nil
}

func readUVFaces(p *parser, l *Layer, name string, dim int, r *reader) error {
	m := l.UVMaps[name]
	if m == nil {
		m = newUVMap()
		l.UVMaps[name] = m
	}
	return p.faceRecords(r, dim, 2, func(point uint32, poly int, v []float32) error {
		face := m.Faces[poly]
		if face == nil {
			face = make(map[uint32][2]float32)
			m.Faces[poly] = face
		}
		face[point] = [2]float32{v[0], v[1]}
		return nil
	})
}

func readColorFaces(p *parser, l *Layer, name string, dim int, r *reader) error {
	m := l.ColorMaps[name]
	if m == nil {
		m = newColorMap()
		l.ColorMaps[name] = m
	}
	return p.faceRecords(r, dim, 4, func(point uint32, poly int, v []float32) error {
		face := m.Faces[poly]
		if face == nil {
			face = make(map[uint32][4]float32)
			m.Faces[poly] = face
		}
		face[point] = colorValue(v, dim)
		return nil
	})
}

func readNormalFaces(p *parser, l *Layer, name string, dim int, r *reader) error {
	m := l.NormalMaps[name]
	if m == nil {
		m = newNormalMap()
		l.NormalMaps[name] = m
	}
	return p.faceRecords(r, dim, 3, func(point uint32, poly int, v []float32) error {
		face := m.Faces[poly]
		if face == nil {
			face = make(map[uint32]lwmath.Vec3)
			m.Faces[poly] = face
		}
		face[point] = lwmath.FromFileOrder([3]float32{v[0], v[1], v[2]})
		return nil
	})
}

// readEdgeWeights reads subdivision edge weights from the "Edge Weight"
// VMAD. A weight belongs to the edge running from the next point of the
// polygon to the named point.
func readEdgeWeights(p *parser, l *Layer, name string, dim int, r *reader) error {
	if name != edgeWeightMap {
		r.skipRest()
		p.log.Debug("ignoring weight VMAD", zap.String("name", name))
		return nil
	}
	return p.faceRecords(r, dim, 1, func(point uint32, poly int, v []float32) error {
		face := l.Polygons[poly].Points
		at := -1
		for i, pt := range face {
			if pt == point {
				at = i
				break
			}
		}
		if at < 0 {
			return nil
		}
		next := face[(at+1)%len(face)]
		l.EdgeWeights[Edge{From: next, To: point}] = v[0]
		return nil
	})
}
