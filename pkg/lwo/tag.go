package lwo

import "strings"

// Tag is a 4-byte chunk identifier.
type Tag [4]byte

// MakeTag builds a Tag from a string, padding short names with spaces.
func MakeTag(s string) Tag {
	t := Tag{' ', ' ', ' ', ' '}
	copy(t[:], s)
	return t
}

// String returns the tag with trailing padding removed.
func (t Tag) String() string {
	s := strings.TrimRight(string(t[:]), " \x00")
	for _, c := range []byte(s) {
		if c < 0x20 || c > 0x7e {
			return hexTag(t)
		}
	}
	return s
}

func hexTag(t Tag) string {
	const digits = "0123456789abcdef"
	b := make([]byte, 0, 10)
	b = append(b, '0', 'x')
	for _, c := range t {
		b = append(b, digits[c>>4], digits[c&0x0f])
	}
	return string(b)
}

func tagFromUint32(v uint32) Tag {
	return Tag{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// Container and top-level chunk tags.
var (
	tagFORM = MakeTag("FORM")
	tagLWOB = MakeTag("LWOB")
	tagLWLO = MakeTag("LWLO")
	tagLWO2 = MakeTag("LWO2")
	tagLWO3 = MakeTag("LWO3")

	tagTAGS = MakeTag("TAGS")
	tagSRFS = MakeTag("SRFS")
	tagLAYR = MakeTag("LAYR")
	tagPNTS = MakeTag("PNTS")
	tagPOLS = MakeTag("POLS")
	tagPCHS = MakeTag("PCHS")
	tagPTAG = MakeTag("PTAG")
	tagVMAP = MakeTag("VMAP")
	tagVMAD = MakeTag("VMAD")
	tagCLIP = MakeTag("CLIP")
	tagSURF = MakeTag("SURF")
	tagBBOX = MakeTag("BBOX")
)

// Polygon, tag and map kinds.
var (
	tagFACE = MakeTag("FACE")
	tagPTCH = MakeTag("PTCH")
	tagSUBD = MakeTag("SUBD")
	tagBONE = MakeTag("BONE")
	tagBNUP = MakeTag("BNUP")
	tagWGHT = MakeTag("WGHT")
	tagMORF = MakeTag("MORF")
	tagSPOT = MakeTag("SPOT")
	tagTXUV = MakeTag("TXUV")
	tagRGB  = MakeTag("RGB ")
	tagRGBA = MakeTag("RGBA")
	tagNORM = MakeTag("NORM")
)

// Surface, texture, node and clip sub-chunk tags.
var (
	tagCOLR = MakeTag("COLR")
	tagDIFF = MakeTag("DIFF")
	tagLUMI = MakeTag("LUMI")
	tagSPEC = MakeTag("SPEC")
	tagREFL = MakeTag("REFL")
	tagRBLR = MakeTag("RBLR")
	tagTRAN = MakeTag("TRAN")
	tagRIND = MakeTag("RIND")
	tagTBLR = MakeTag("TBLR")
	tagTRNL = MakeTag("TRNL")
	tagGLOS = MakeTag("GLOS")
	tagSHRP = MakeTag("SHRP")
	tagBUMP = MakeTag("BUMP")
	tagSMAN = MakeTag("SMAN")
	tagSIDE = MakeTag("SIDE")
	tagVERS = MakeTag("VERS")
	tagBLOK = MakeTag("BLOK")
	tagNODS = MakeTag("NODS")
	tagSSHA = MakeTag("SSHA")
	tagSSHN = MakeTag("SSHN")
	tagSSHD = MakeTag("SSHD")

	tagIMAP = MakeTag("IMAP")
	tagPROC = MakeTag("PROC")
	tagSHDR = MakeTag("SHDR")
	tagGRAD = MakeTag("GRAD")
	tagCHAN = MakeTag("CHAN")
	tagOPAC = MakeTag("OPAC")
	tagENAB = MakeTag("ENAB")
	tagNEGA = MakeTag("NEGA")
	tagAXIS = MakeTag("AXIS")
	tagTMAP = MakeTag("TMAP")
	tagPROJ = MakeTag("PROJ")
	tagIMAG = MakeTag("IMAG")
	tagFUNC = MakeTag("FUNC")
	tagCNTR = MakeTag("CNTR")
	tagSIZE = MakeTag("SIZE")
	tagROTA = MakeTag("ROTA")
	tagFALL = MakeTag("FALL")
	tagOREF = MakeTag("OREF")
	tagCSYS = MakeTag("CSYS")
	tagWRAP = MakeTag("WRAP")
	tagWRPW = MakeTag("WRPW")
	tagWRPH = MakeTag("WRPH")
	tagAAST = MakeTag("AAST")
	tagPIXB = MakeTag("PIXB")
	tagVALU = MakeTag("VALU")

	tagNVER = MakeTag("NVER")
	tagNROT = MakeTag("NROT")
	tagNLOC = MakeTag("NLOC")
	tagNZOM = MakeTag("NZOM")
	tagNSTA = MakeTag("NSTA")
	tagNNDS = MakeTag("NNDS")
	tagNSRV = MakeTag("NSRV")
	tagNTAG = MakeTag("NTAG")
	tagNRNM = MakeTag("NRNM")
	tagNNME = MakeTag("NNME")
	tagNCRD = MakeTag("NCRD")
	tagNMOD = MakeTag("NMOD")
	tagNDTA = MakeTag("NDTA")
	tagNPRW = MakeTag("NPRW")
	tagNCOM = MakeTag("NCOM")
	tagNPLA = MakeTag("NPLA")
	tagNCON = MakeTag("NCON")
	tagINME = MakeTag("INME")
	tagIINM = MakeTag("IINM")
	tagIINN = MakeTag("IINN")
	tagIONM = MakeTag("IONM")

	tagSTIL = MakeTag("STIL")
	tagISEQ = MakeTag("ISEQ")
	tagXREF = MakeTag("XREF")
)

// Legacy surface sub-chunk tags.
var (
	tagVDIF = MakeTag("VDIF")
	tagVLUM = MakeTag("VLUM")
	tagVSPC = MakeTag("VSPC")
	tagVRFL = MakeTag("VRFL")
	tagVTRN = MakeTag("VTRN")
	tagFLAG = MakeTag("FLAG")
	tagTIMG = MakeTag("TIMG")
	tagTFLG = MakeTag("TFLG")
	tagCTEX = MakeTag("CTEX")
	tagDTEX = MakeTag("DTEX")
	tagSTEX = MakeTag("STEX")
	tagRTEX = MakeTag("RTEX")
	tagTTEX = MakeTag("TTEX")
	tagBTEX = MakeTag("BTEX")
	tagLTEX = MakeTag("LTEX")
)
