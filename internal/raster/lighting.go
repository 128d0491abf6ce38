package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir mgl32.Vec3
	RimDir   mgl32.Vec3
	HalfMain mgl32.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient  float32
	Hemi     float32
	Direct   float32
	Rim      float32
	SpecInt  float32
	SpecPow  float32
	Exposure float32
	InvGamma float32
}

// DefaultLightConfig returns a key light from the upper right, a rim light
// from behind and a viewer looking down -Z.
func DefaultLightConfig() LightConfig {
	lightDir := mgl32.Vec3{180, 260, 140}.Normalize()
	rimDir := mgl32.Vec3{-160, 130, -210}.Normalize()
	viewDir := mgl32.Vec3{0, 0, -1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.45,
		Hemi:     0.40,
		Direct:   1.20,
		Rim:      0.50,
		SpecInt:  0.30,
		SpecPow:  12.0,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a unit face normal.
func (lc *LightConfig) Shade(n mgl32.Vec3) float32 {
	// Lambertian (abs for double-sided)
	ndlMain := abs32(n.Dot(lc.LightDir))
	ndlRim := abs32(n.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := (1-abs32(n[1]))*0.5 + 0.5

	// Blinn-Phong specular
	ndh := max(n.Dot(lc.HalfMain), 0)
	spec := float32(math.Pow(float64(ndh), float64(lc.SpecPow))) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float32

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = float32(math.Pow(float64(i)/255.0, 2.2))
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float32) float32 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
