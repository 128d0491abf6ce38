package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"assbin-loader/internal/assbin"
)

// Decode converts an embedded texture to an NRGBA image. Raw textures hold
// BGRA texels; compressed ones are decoded by whichever registered format
// matches the payload (the hint is only used in error messages).
func Decode(t *assbin.Texture) (*image.NRGBA, error) {
	if t.Compressed() {
		img, _, err := image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, fmt.Errorf("texture: decode %q blob: %w", t.Hint(), err)
		}
		return toNRGBA(img), nil
	}

	w, h := int(t.Width), int(t.Height)
	if w <= 0 || h <= 0 || int64(len(t.Data)) != t.Size() {
		return nil, fmt.Errorf("texture: bad raw texture %dx%d with %d bytes", w, h, len(t.Data))
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(t.Data); i += 4 {
		dst.Pix[i] = t.Data[i+2]
		dst.Pix[i+1] = t.Data[i+1]
		dst.Pix[i+2] = t.Data[i]
		dst.Pix[i+3] = t.Data[i+3]
	}
	return dst, nil
}

// LoadFile reads an external texture file and returns an NRGBA image.
func LoadFile(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
