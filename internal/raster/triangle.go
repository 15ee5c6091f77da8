package raster

import (
	"image"
	"math"

	"ltree-renderer/internal/mathutil"
)

// Surface is the per-triangle material state.
type Surface struct {
	Tex     *image.NRGBA // nil for flat color
	Mode    AddressMode
	Default [4]uint8 // color used without a texture
	Tint    [4]float64
}

// RasterizeTriangle rasterizes one projected triangle with texture mapping,
// z-buffer, alpha cutout, flat lighting and ACES tone mapping.
//
// px/py are screen coordinates, pz is view depth (larger is nearer).
// The inner loop does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs [][2]float64,
	vi [3]int,
	surf *Surface,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := surf.Tex != nil && len(uvs) == nv
	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = uvs[vi[0]][0], uvs[vi[0]][1]
		u1, v1 = uvs[vi[1]][0], uvs[vi[1]][1]
		u2, v2 = uvs[vi[2]][0], uvs[vi[2]][1]
	}

	// Face normal in screen space; Y is flipped so undo it for lighting.
	e1 := mathutil.Vec3{x1 - x0, -(y1 - y0), z1 - z0}
	e2 := mathutil.Vec3{x2 - x0, -(y2 - y0), z2 - z0}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.ComputeShade(n.Normalize())

	w, h := fb.Width, fb.Height
	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, w-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, h-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	alphaScale := surf.Tint[3]

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := surf.Default[0], surf.Default[1], surf.Default[2], surf.Default[3]
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				cr, cg, cb, ca = SampleTexture(surf.Tex, u, v, surf.Mode)
			}

			a := clamp255(float64(ca) * alphaScale)
			// Alpha cutout: leaf cards rely on it for their silhouette.
			if a < 128 {
				continue
			}
			fb.ZBuf[zIdx] = z

			r, g, b := lc.Apply(cr, cg, cb, surf.Tint, shade)
			pxIdx := zIdx * 4
			fb.Color[pxIdx] = r
			fb.Color[pxIdx+1] = g
			fb.Color[pxIdx+2] = b
			fb.Color[pxIdx+3] = 255
		}
	}
}
