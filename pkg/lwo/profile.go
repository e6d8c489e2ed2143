package lwo

// profile captures everything that differs between format generations.
type profile struct {
	format Format

	subWidth      int  // sub-chunk length field, in bits
	layerPivot    bool // LAYR carries pivot and parent
	legacy        bool // fixed-point shading, u16 indices with inline surface ids
	sourceName    bool // SURF carries a source name after its name
	fixedLayouts  bool // sub-chunks are pre-decoded from the layout table
	unwrapTop     bool // top-level FORM chunks are unwrapped
	unwrapNested  bool // nested FORM chunks are unwrapped
	formHeader    bool // an unwrapped top-level FORM opens with an inner chunk header
	layerNameBase int  // added to the layer index in default names
	countMask     uint16

	handlers map[Tag]chunkHandler
}

var (
	legacyProfile = profile{
		subWidth:      16,
		legacy:        true,
		layerNameBase: 0,
		countMask:     0xFFFF,
		handlers:      legacyHandlers,
	}
	lwo2Profile = profile{
		format:        FormatLWO2,
		subWidth:      16,
		layerPivot:    true,
		sourceName:    true,
		fixedLayouts:  true,
		unwrapTop:     true,
		layerNameBase: 1,
		countMask:     0x03FF,
		handlers:      chunkedHandlers,
	}
	lwo3Profile = profile{
		format:        FormatLWO3,
		subWidth:      32,
		layerPivot:    true,
		sourceName:    true,
		fixedLayouts:  true,
		unwrapTop:     true,
		unwrapNested:  true,
		formHeader:    true,
		layerNameBase: 1,
		countMask:     0x03FF,
		handlers:      chunkedHandlers,
	}
)

// profileFor returns the profile for a container format tag.
func profileFor(t Tag) (profile, bool) {
	switch t {
	case tagLWOB:
		p := legacyProfile
		p.format = FormatLWOB
		return p, true
	case tagLWLO:
		p := legacyProfile
		p.format = FormatLWLO
		return p, true
	case tagLWO2:
		return lwo2Profile, true
	case tagLWO3:
		return lwo3Profile, true
	}
	return profile{}, false
}
