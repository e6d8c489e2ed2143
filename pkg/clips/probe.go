package clips

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/Faultbox/lwostrut/pkg/lwo"
)

// headerDecoders read image dimensions by file extension. TGA has no magic
// number, so formats are chosen by extension rather than sniffed.
var headerDecoders = map[string]func(io.Reader) (image.Config, error){
	".png":  png.DecodeConfig,
	".jpg":  jpeg.DecodeConfig,
	".jpeg": jpeg.DecodeConfig,
	".bmp":  bmp.DecodeConfig,
	".tif":  tiff.DecodeConfig,
	".tiff": tiff.DecodeConfig,
	".webp": webp.DecodeConfig,
	".tga":  tgaConfig,
}

// tgaConfig decodes the whole TGA image to learn its size.
func tgaConfig(r io.Reader) (image.Config, error) {
	img, err := tga.Decode(r)
	if err != nil {
		return image.Config{}, err
	}
	b := img.Bounds()
	return image.Config{ColorModel: img.ColorModel(), Width: b.Dx(), Height: b.Dy()}, nil
}

// ProbeImage reads the format and dimensions of the image at path.
func ProbeImage(path string) (*lwo.ImageInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := headerDecoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported image extension %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decoding %s header: %w", ext, err)
	}
	format := strings.TrimPrefix(ext, ".")
	switch format {
	case "jpeg":
		format = "jpg"
	case "tif":
		format = "tiff"
	}
	return &lwo.ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
