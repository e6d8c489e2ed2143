package lwo

import "fmt"

// layout describes a fixed-field sub-chunk payload, one code per field:
//
//	B u8   H u16   h i16   I u32   i i32   f f32   t 4-byte tag   x VX index
//
// Every field is returned as a float64, which holds all of them exactly.
type layout string

// layouts maps sub-chunk tags to their fixed-field shapes. Tags not listed
// carry strings or nested chunks and are decoded by their handlers.
var layouts = map[Tag]layout{
	// surface
	tagCOLR: "fff",
	tagDIFF: "f",
	tagLUMI: "f",
	tagSPEC: "f",
	tagREFL: "f",
	tagRBLR: "f",
	tagTRAN: "f",
	tagRIND: "f",
	tagTBLR: "f",
	tagTRNL: "f",
	tagGLOS: "f",
	tagSHRP: "f",
	tagBUMP: "f",
	tagSMAN: "f",
	tagSIDE: "H",
	tagVERS: "I",

	// texture block
	tagCHAN: "t",
	tagOPAC: "Hf",
	tagENAB: "H",
	tagIMAG: "x",
	tagPROJ: "H",
	tagNEGA: "H",
	tagAXIS: "H",
	tagCNTR: "fffh",
	tagSIZE: "fffh",
	tagROTA: "fffh",
	tagFALL: "hfffh",
	tagCSYS: "h",

	// node graph
	tagNVER: "I",
	tagNLOC: "II",
	tagNZOM: "f",
	tagNSTA: "H",
	tagNCRD: "ii",
	tagNMOD: "I",
	tagNPLA: "I",
}

// readFixed decodes the fields of l.
func (r *reader) readFixed(l layout) ([]float64, error) {
	out := make([]float64, 0, len(l))
	for _, code := range l {
		var (
			v   float64
			err error
		)
		switch code {
		case 'B':
			var x uint8
			x, err = r.u8()
			v = float64(x)
		case 'H':
			var x uint16
			x, err = r.u16()
			v = float64(x)
		case 'h':
			var x int16
			x, err = r.i16()
			v = float64(x)
		case 'I', 't':
			var x uint32
			x, err = r.u32()
			v = float64(x)
		case 'i':
			var x int32
			x, err = r.i32()
			v = float64(x)
		case 'f':
			var x float32
			x, err = r.f32()
			v = float64(x)
		case 'x':
			var x uint32
			x, err = r.index()
			v = float64(x)
		default:
			return nil, fmt.Errorf("unknown layout code %q", code)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
