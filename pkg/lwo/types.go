// Package lwo parses LightWave Object files (LWOB/LWLO, LWO2 and LWO3)
// into layers, surfaces, clips and vertex maps.
package lwo

import (
	"fmt"

	lwmath "github.com/Faultbox/lwostrut/pkg/math"
)

// Format identifies the container's format tag.
type Format string

// Supported formats.
const (
	FormatLWOB Format = "LWOB"
	FormatLWLO Format = "LWLO"
	FormatLWO2 Format = "LWO2"
	FormatLWO3 Format = "LWO3"
)

// Object is the result of a parse.
type Object struct {
	Format     Format
	SourcePath string
	Layers     []*Layer
	Surfaces   map[string]*Surface
	Tags       []string
	Clips      map[uint32]*Clip
}

func newObject(format Format) *Object {
	return &Object{
		Format:   format,
		Surfaces: make(map[string]*Surface),
		Clips:    make(map[uint32]*Clip),
	}
}

// ActiveLayers returns the layers a caller should present. Hidden layers
// are included only when loadHidden is set.
func (o *Object) ActiveLayers(loadHidden bool) []*Layer {
	out := make([]*Layer, 0, len(o.Layers))
	for _, l := range o.Layers {
		if l.Hidden && !loadHidden {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Bounds returns the box around the points of the active layers.
func (o *Object) Bounds(loadHidden bool) lwmath.Bounds {
	b := lwmath.EmptyBounds()
	for _, l := range o.ActiveLayers(loadHidden) {
		if lb := l.ComputeBounds(); !lb.IsEmpty() {
			b = b.Extend(lb.Min).Extend(lb.Max)
		}
	}
	return b
}

// Layer returns the first layer with the given index, or nil.
func (o *Object) Layer(index int16) *Layer {
	for _, l := range o.Layers {
		if l.Index == index {
			return l
		}
	}
	return nil
}

// Stats summarizes an object.
type Stats struct {
	Layers       int
	HiddenLayers int
	Points       int
	Polygons     int
	Surfaces     int
	Textures     int
	Clips        int
	Nodes        int
}

// Stats counts the object's contents.
func (o *Object) Stats() Stats {
	s := Stats{
		Layers:   len(o.Layers),
		Surfaces: len(o.Surfaces),
		Clips:    len(o.Clips),
	}
	for _, l := range o.Layers {
		if l.Hidden {
			s.HiddenLayers++
		}
		s.Points += len(l.Points)
		s.Polygons += len(l.Polygons)
	}
	for _, surf := range o.Surfaces {
		for _, list := range surf.Textures {
			s.Textures += len(list)
		}
		for _, g := range surf.Nodes {
			s.Nodes += len(g.Nodes)
		}
	}
	return s
}

// Layer is a named geometry group with its own point and polygon space.
type Layer struct {
	Index       int16
	ParentIndex int16 // -1 for root layers
	Name        string
	Pivot       lwmath.Vec3
	Hidden      bool

	Points   []lwmath.Vec3 // axis-swapped, pivot-relative
	Polygons []Polygon
	Bones    [][]uint32

	BoneNames map[uint32]string
	BoneRolls map[uint32]string

	WeightMaps map[string][]Weight
	UVMaps     map[string]*UVMap
	ColorMaps  map[string]*ColorMap
	NormalMaps map[string]*NormalMap
	Morphs     map[string][]MorphTarget

	EdgeWeights map[Edge]float32
	SurfaceTags map[int][]int // tag index -> absolute polygon indices

	HasSubdivision bool
	BBox           lwmath.Bounds
}

func newLayer(name string, index int16) *Layer {
	return &Layer{
		Index:       index,
		ParentIndex: -1,
		Name:        name,
		BoneNames:   make(map[uint32]string),
		BoneRolls:   make(map[uint32]string),
		WeightMaps:  make(map[string][]Weight),
		UVMaps:      make(map[string]*UVMap),
		ColorMaps:   make(map[string]*ColorMap),
		NormalMaps:  make(map[string]*NormalMap),
		Morphs:      make(map[string][]MorphTarget),
		EdgeWeights: make(map[Edge]float32),
		SurfaceTags: make(map[int][]int),
	}
}

// ComputeBounds returns the bounding box of the layer's points.
func (l *Layer) ComputeBounds() lwmath.Bounds {
	b := lwmath.EmptyBounds()
	for _, p := range l.Points {
		b = b.Extend(p)
	}
	return b
}

// Polygon is a list of point indices in reversed file order.
type Polygon struct {
	Points  []uint32
	Surface int // inline surface index (legacy files), -1 otherwise
}

// Edge is a directed polygon edge between two points.
type Edge struct {
	From, To uint32
}

// MarshalText renders the edge as "from-to" so edge maps serialize with
// scalar keys.
func (e Edge) MarshalText() ([]byte, error) {
	return fmt.Appendf(nil, "%d-%d", e.From, e.To), nil
}

// Weight is one entry of a weight map.
type Weight struct {
	Point uint32
	Value float32
}

// MorphTarget is a morphed point position.
type MorphTarget struct {
	Point    uint32
	Position lwmath.Vec3
}

// UVMap holds per-point and per-polygon texture coordinates.
type UVMap struct {
	Points map[uint32][2]float32
	Faces  map[int]map[uint32][2]float32
}

func newUVMap() *UVMap {
	return &UVMap{
		Points: make(map[uint32][2]float32),
		Faces:  make(map[int]map[uint32][2]float32),
	}
}

// ColorMap holds per-point and per-polygon RGBA colors. RGB maps get an
// alpha of 1.
type ColorMap struct {
	Points map[uint32][4]float32
	Faces  map[int]map[uint32][4]float32
}

func newColorMap() *ColorMap {
	return &ColorMap{
		Points: make(map[uint32][4]float32),
		Faces:  make(map[int]map[uint32][4]float32),
	}
}

// NormalMap holds vertex normals and split (per-polygon) normals.
type NormalMap struct {
	Points map[uint32]lwmath.Vec3
	Faces  map[int]map[uint32]lwmath.Vec3
}

func newNormalMap() *NormalMap {
	return &NormalMap{
		Points: make(map[uint32]lwmath.Vec3),
		Faces:  make(map[int]map[uint32]lwmath.Vec3),
	}
}

// Surface is a material record.
type Surface struct {
	Name       string
	SourceName string
	Version    uint32

	Color           [3]float32
	Diffuse         float32
	Luminosity      float32
	Specular        float32
	Reflection      float32
	ReflectionBlur  float32
	Transparency    float32
	RefractionIndex float32
	RefractionBlur  float32
	Translucency    float32
	Glossiness      float32
	Sharpness       float32
	Bump            float32

	SmoothingAngle float32
	Smooth         bool
	Sidedness      uint16
	DoubleSided    bool

	Textures map[string][]*TextureLayer // keyed by channel, file order
	Nodes    []*NodeGraph
	Shaders  []*Shader
}

func newSurface(name string) *Surface {
	if name == "" {
		name = "Default"
	}
	return &Surface{
		Name:            name,
		Color:           [3]float32{1, 1, 1},
		Diffuse:         1,
		RefractionIndex: 1,
		Glossiness:      0.4,
		Bump:            1,
		Textures:        make(map[string][]*TextureLayer),
	}
}

func (s *Surface) addTexture(t *TextureLayer) {
	s.Textures[t.Channel] = append(s.Textures[t.Channel], t)
}

// TextureLayer is one texture block bound to a surface channel.
type TextureLayer struct {
	Type    string // IMAP, PROC, SHDR or GRAD
	Ordinal string
	Channel string

	ClipID uint32
	Clip   *Clip `yaml:"-"` // bound by clip validation

	UVName      string
	Function    string
	Opacity     float32
	OpacityMode uint16
	Enabled     bool
	Negative    bool
	Projection  uint16
	Axis        uint16

	Placement Placement
}

func newTextureLayer(kind string) *TextureLayer {
	return &TextureLayer{
		Type:       kind,
		Channel:    "COLR",
		ClipID:     1,
		UVName:     "UVMap",
		Opacity:    1,
		Enabled:    true,
		Projection: ProjectionUV,
	}
}

// Texture projection modes.
const (
	ProjectionPlanar      uint16 = 0
	ProjectionCylindrical uint16 = 1
	ProjectionSpherical   uint16 = 2
	ProjectionCubic       uint16 = 3
	ProjectionFront       uint16 = 4
	ProjectionUV          uint16 = 5
)

// EnvVector is a vector parameter with its envelope index. Envelopes are
// recorded but not evaluated.
type EnvVector struct {
	Value    [3]float32
	Envelope int16
}

// Falloff is a texture falloff parameter.
type Falloff struct {
	Type     int16
	Value    [3]float32
	Envelope int16
}

// Placement is a texture's 3D transform.
type Placement struct {
	Center          EnvVector
	Size            EnvVector
	Rotation        EnvVector
	Falloff         Falloff
	ReferenceObject string
	CoordSystem     int16
}

// Clip is an image reference.
type Clip struct {
	ID   uint32
	Path string // as stored in the file

	Sequence *ImageSequence
	XRef     *ClipRef

	// Filled by clip resolution.
	ResolvedPath string
	Missing      bool
	Image        *ImageInfo
}

// ImageSequence describes an ISEQ clip.
type ImageSequence struct {
	Digits uint8
	Flags  uint8
	Offset int16
	Start  int16
	End    int16
	Prefix string
	Suffix string
}

// ClipRef is an XREF clip pointing at another clip.
type ClipRef struct {
	ID   uint32
	Name string
}

// ImageInfo is filled when clip resolution probes image headers.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// NodeGraph is a captured shader node graph. It is never evaluated.
type NodeGraph struct {
	Version     uint32
	Root        NodeRoot
	Nodes       []*Node
	Connections []*NodeConnection
}

// NodeRoot is the editor state of the root node.
type NodeRoot struct {
	Location [2]uint32
	Zoom     float32
	Disabled bool
}

// Node is one node instance.
type Node struct {
	Server string
	Tag    NodeTag
}

// NodeTag holds a node's editor metadata.
type NodeTag struct {
	RealName  string
	Name      string
	Coords    [2]int32
	Mode      uint32
	Data      []byte
	Preview   string
	Comment   string
	Placement uint32
}

// NodeConnection links a node input to another node's output.
type NodeConnection struct {
	Name            string
	InputName       string
	InputNodeName   string
	InputOutputName string
}

// Shader is captured SSHA shader data.
type Shader struct {
	Name string
	Data []byte
}
