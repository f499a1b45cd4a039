package asset

import (
	"bytes"
	"errors"
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
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/Faultbox/lightlab/internal/engine/gpu"
)

// LoadTexture decodes a PNG, JPEG, BMP, WebP or TGA file into tightly
// packed RGBA8 pixels, top row first.
func LoadTexture(path string) (pixels []byte, width, height int, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("texture: read %s: %w", path, err)
	}

	img, err := DecodeImage(raw, path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	rgba := ToNRGBA(img)
	return rgba.Pix, rgba.Rect.Dx(), rgba.Rect.Dy(), nil
}

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// decoders maps lowercase file extensions to image decoders. The tga package
// registers itself with image.RegisterFormat under an empty magic string that
// matches any input, so image.Decode cannot be trusted once it is linked.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// DecodeImage decodes raw image data with the decoder for path's extension.
func DecodeImage(raw []byte, path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return decode(bytes.NewReader(raw))
}

// ToNRGBA converts any image to straight-alpha RGBA8 with a zero origin and
// no row padding.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// CreateTexture uploads RGBA8 pixels as an immutable sampleable texture.
func CreateTexture(b gpu.Backend, label string, width, height int, pixels []byte) (*gpu.Texture, error) {
	return gpu.NewTexture(b, gpu.TextureDesc{Width: width, Height: height, Label: label}, pixels)
}

// WhiteTexture creates the 1x1 opaque white texture used by untextured submeshes.
func WhiteTexture(b gpu.Backend) (*gpu.Texture, error) {
	return CreateTexture(b, "white", 1, 1, []byte{0xff, 0xff, 0xff, 0xff})
}
