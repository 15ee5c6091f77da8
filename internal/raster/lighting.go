package raster

import (
	"math"

	"ltree-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir  mathutil.Vec3 // in view space
	RimDir    mathutil.Vec3
	HalfMain  mathutil.Vec3 // Blinn-Phong half-vector for a viewer on +Z
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig is a late-afternoon key light from the upper right with
// a cool rim from behind. Bark and foliage are matte, so specular is weak.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{0.45, 0.75, 0.5}.Normalize()
	rimDir := mathutil.Vec3{-0.4, 0.3, -0.6}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		HalfMain:  lightDir.Add(viewDir).Normalize(),
		Ambient:   0.35,
		Hemi:      0.40,
		Direct:    1.10,
		Rim:       0.35,
		SpecInt:   0.10,
		SpecPow:   8.0,
		Exposure:  1.0,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
// Faces are lit from both sides; leaf cards have no back face.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Sky fill is strongest on faces pointing up.
	hemi := math.Abs(normal[1])*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	ndh := math.Abs(normal.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Apply shades an sRGB texel tinted by an RGB multiplier and returns the
// tone-mapped sRGB result.
func (lc *LightConfig) Apply(r, g, b uint8, tint [4]float64, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	tr := ACESTonemap(srgbToLinear[r] * tint[0] * k)
	tg := ACESTonemap(srgbToLinear[g] * tint[1] * k)
	tb := ACESTonemap(srgbToLinear[b] * tint[2] * k)
	return clamp255(math.Pow(tr, lc.InvGamma) * 255),
		clamp255(math.Pow(tg, lc.InvGamma) * 255),
		clamp255(math.Pow(tb, lc.InvGamma) * 255)
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
