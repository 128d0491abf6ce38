package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a projected vertex: X and Y in pixels, Z as depth (larger is
// nearer).
type Vertex struct {
	Pos   mgl32.Vec3
	UV    mgl32.Vec2
	Color mgl32.Vec4
}

// Surface is what a triangle is painted with. Tex may be nil, in which case
// the tint alone is used.
type Surface struct {
	Tex  *image.NRGBA
	Tint mgl32.Vec4
}

// RasterizeTriangle rasterizes a single triangle with texture mapping,
// z-buffer, sRGB color space, flat lighting from normal and ACES tone mapping.
//
// The pixel loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, normal mgl32.Vec3, s *Surface, lc *LightConfig) {
	shade := lc.Shade(normal)

	x0, y0, z0 := v[0].Pos[0], v[0].Pos[1], v[0].Pos[2]
	x1, y1, z1 := v[1].Pos[0], v[1].Pos[1], v[1].Pos[2]
	x2, y2, z2 := v[2].Pos[0], v[2].Pos[1], v[2].Pos[2]

	// Bounding box
	minX := max(int(min(x0, x1, x2)), 0)
	maxX := min(int(max(x0, x1, x2))+1, fb.Width-1)
	minY := max(int(min(y0, y1, y2)), 0)
	maxY := min(int(max(y0, y1, y2))+1, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	scale := shade * lc.Exposure
	invGamma := float64(lc.InvGamma)

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			texel := [4]float32{255, 255, 255, 255}
			if s.Tex != nil {
				uv := v[0].UV.Mul(w0).Add(v[1].UV.Mul(w1)).Add(v[2].UV.Mul(w2))
				texel = SampleTexture(s.Tex, uv)
			}
			col := v[0].Color.Mul(w0).Add(v[1].Color.Mul(w1)).Add(v[2].Color.Mul(w2))

			alpha := texel[3] / 255 * s.Tint[3] * col[3]
			// Skip transparent texels
			if alpha < 8.0/255 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			for c := range 3 {
				// sRGB decode, tint, shade, tone map, encode
				lin := srgbToLinear[clamp255(texel[c])] * s.Tint[c] * col[c] * scale
				out := math.Pow(float64(ACESTonemap(lin)), invGamma)
				fb.Color[pxIdx+c] = clamp255(float32(out * 255))
			}
			fb.Color[pxIdx+3] = clamp255(alpha * 255)
		}
	}
}

func clamp255(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
