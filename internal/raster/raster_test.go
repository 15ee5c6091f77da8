package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/treemesh"
)

var (
	red  = [4]uint8{220, 30, 30, 255}
	blue = [4]uint8{30, 30, 220, 255}
	full = [4]float64{1, 1, 1, 1}
)

// corner triangle covering the top-left half of a 16×16 buffer
var (
	triX = []float64{1, 14, 1}
	triY = []float64{1, 1, 14}
	tri  = [3]int{0, 1, 2}
)

func depth(z float64) []float64 { return []float64{z, z, z} }

func TestRasterizeTriangle(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	lc := DefaultLightConfig()
	RasterizeTriangle(fb, triX, triY, depth(1), nil, tri, &Surface{Default: red, Tint: full}, &lc)

	assert.Positive(t, fb.Coverage())
	img := fb.Image()
	assert.Equal(t, uint8(255), img.NRGBAAt(3, 3).A)
	assert.Zero(t, img.NRGBAAt(14, 14).A)
	c := img.NRGBAAt(3, 3)
	assert.Greater(t, c.R, c.B)
}

func TestRasterizeTriangleDepthTest(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	lc := DefaultLightConfig()
	RasterizeTriangle(fb, triX, triY, depth(1), nil, tri, &Surface{Default: red, Tint: full}, &lc)
	before := fb.Image().NRGBAAt(3, 3)

	RasterizeTriangle(fb, triX, triY, depth(0), nil, tri, &Surface{Default: blue, Tint: full}, &lc)
	assert.Equal(t, before, fb.Image().NRGBAAt(3, 3), "farther triangle is hidden")

	RasterizeTriangle(fb, triX, triY, depth(2), nil, tri, &Surface{Default: blue, Tint: full}, &lc)
	assert.NotEqual(t, before, fb.Image().NRGBAAt(3, 3), "nearer triangle wins")
}

func TestRasterizeTriangleRejects(t *testing.T) {
	lc := DefaultLightConfig()
	tests := []struct {
		name string
		px   []float64
		py   []float64
		vi   [3]int
		surf Surface
	}{
		{"alpha cutout", triX, triY, tri, Surface{Default: red, Tint: [4]float64{1, 1, 1, 0.2}}},
		{"collinear", []float64{1, 5, 9}, []float64{1, 5, 9}, tri, Surface{Default: red, Tint: full}},
		{"bad index", triX, triY, [3]int{0, 1, 7}, Surface{Default: red, Tint: full}},
		{"off screen", []float64{-30, -20, -30}, []float64{-30, -30, -20}, tri, Surface{Default: red, Tint: full}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer(16, 16)
			RasterizeTriangle(fb, tt.px, tt.py, depth(1), nil, tt.vi, &tt.surf, &lc)
			assert.Zero(t, fb.Coverage())
		})
	}
}

func TestRasterizeTriangleSamplesTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			tex.SetNRGBA(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	uvs := [][2]float64{{0, 0}, {1, 0}, {0, 1}}

	fb := NewFrameBuffer(16, 16)
	lc := DefaultLightConfig()
	RasterizeTriangle(fb, triX, triY, depth(1), uvs, tri, &Surface{Tex: tex, Mode: Clamp, Default: red, Tint: full}, &lc)

	c := fb.Image().NRGBAAt(3, 3)
	assert.Greater(t, c.G, c.R)
}

func TestSampleTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 100, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 255})

	r, _, _, a := SampleTexture(tex, 0, 0, Clamp)
	assert.Equal(t, uint8(100), r)
	assert.Equal(t, uint8(255), a)

	r, _, _, _ = SampleTexture(tex, 0.5, 0, Clamp)
	assert.Equal(t, uint8(150), r)

	r, _, _, _ = SampleTexture(tex, 2, 0, Clamp)
	assert.Equal(t, uint8(200), r)
}

func TestAddressModes(t *testing.T) {
	assert.InDelta(t, 0.25, Wrap.address(1.25), 1e-12)
	assert.InDelta(t, 0.75, Wrap.address(-0.25), 1e-12)
	assert.Equal(t, 0.0, Clamp.address(-3))
	assert.Equal(t, 1.0, Clamp.address(3))
}

func TestLighting(t *testing.T) {
	assert.Zero(t, ACESTonemap(0))
	assert.Less(t, ACESTonemap(0.2), ACESTonemap(0.8))

	lc := DefaultLightConfig()
	facing := lc.ComputeShade(lc.LightDir)
	grazing := lc.ComputeShade(mathutil.Vec3{0, 0, 0})
	assert.Greater(t, facing, grazing)

	r, g, b := lc.Apply(0, 0, 0, full, facing)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestFitFrameKeepsPointsInside(t *testing.T) {
	points := []mathutil.Vec3{{-50, 0, -20}, {50, 300, 20}, {10, 150, 80}}
	for _, cam := range []Camera{DefaultCamera(), {View: mathutil.Mat3Identity(), FOV: 40}} {
		f := fitFrame(points, cam, 128, 8)
		px, py, _ := f.project(points, cam.View)
		for i := range points {
			assert.GreaterOrEqual(t, px[i], 8.0-1e-6)
			assert.LessOrEqual(t, px[i], 120.0+1e-6)
			assert.GreaterOrEqual(t, py[i], 8.0-1e-6)
			assert.LessOrEqual(t, py[i], 120.0+1e-6)
		}
	}
}

func TestRenderTree(t *testing.T) {
	mesh := &treemesh.Mesh{
		Kind: treemesh.Bark,
		Verts: []mathutil.Vec3{
			{-10, 0, 0}, {10, 0, 0}, {10, 100, 0}, {-10, 100, 0},
		},
		UVs: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Tris: []treemesh.Tri{
			{V: [3]int{0, 1, 2}, Tint: full},
			{V: [3]int{0, 2, 3}, Tint: full},
		},
	}

	img := RenderTree([]*treemesh.Mesh{mesh}, DefaultCamera(), nil, 64, 2)
	require.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds())

	opaque := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			opaque++
		}
	}
	assert.Positive(t, opaque)
}

func TestRenderTreeEmpty(t *testing.T) {
	img := RenderTree(nil, DefaultCamera(), nil, 16, 1)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}
