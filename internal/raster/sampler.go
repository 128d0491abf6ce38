package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// SampleTexture performs bilinear filtering with UV wrapping. UVs follow the
// bottom-left origin convention, so v is flipped before lookup.
// Accesses tex.Pix directly for performance.
func SampleTexture(tex *image.NRGBA, uv mgl32.Vec2) [4]float32 {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return [4]float32{}
	}

	u := wrap(uv[0])
	v := 1 - wrap(uv[1])

	fx := u * float32(w-1)
	fy := v * float32(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]float32
	for c := range out {
		out[c] = float32(pix[i00+c])*w00 + float32(pix[i10+c])*w10 +
			float32(pix[i01+c])*w01 + float32(pix[i11+c])*w11
	}
	return out
}

func wrap(t float32) float32 {
	t -= float32(int(t))
	if t < 0 {
		t++
	}
	return t
}
