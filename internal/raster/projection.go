package raster

import (
	"math"

	"ltree-renderer/internal/mathutil"
)

// Camera looks at the tree's bounding box center.
type Camera struct {
	View mathutil.Mat3 // world to view rotation
	FOV  float64       // vertical field of view in degrees; 0 is orthographic
}

// DefaultCamera is an orthographic camera at the default preview angles.
func DefaultCamera() Camera {
	return Camera{View: mathutil.ViewFromAngles(mathutil.DefaultViewYaw, mathutil.DefaultViewPitch)}
}

// frame is the view-space fit of a set of points onto a square target.
type frame struct {
	center  mathutil.Vec3
	scale   float64
	half    float64
	camDist float64 // 0 when orthographic
}

// fitFrame computes center and scale so every point lands inside the target
// with the given pixel margin.
func fitFrame(points []mathutil.Vec3, cam Camera, renderSize, margin int) frame {
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		t := cam.View.MulVec3(p)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], t[k])
			hi[k] = math.Max(hi[k], t[k])
		}
	}

	f := frame{
		center: lo.Add(hi).Scale(0.5),
		half:   float64(renderSize) / 2,
	}
	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)

	if cam.FOV > 0 {
		f.camDist = (span / 2) / math.Tan(mathutil.Deg2Rad(cam.FOV/2))
		// Points nearer than the center grow under perspective; leave room.
		near := f.camDist - (hi[2] - f.center[2])
		if near > 0.1 {
			span *= f.camDist / near
		}
	}
	f.scale = float64(renderSize-2*margin) / span
	return f
}

// project maps points to screen x/y (Y down) and view depth.
func (f frame) project(points []mathutil.Vec3, view mathutil.Mat3) (px, py, pz []float64) {
	n := len(points)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)
	for i, p := range points {
		t := view.MulVec3(p).Sub(f.center)
		if f.camDist > 0 {
			depth := math.Max(f.camDist-t[2], 0.1)
			k := f.camDist / depth
			t[0] *= k
			t[1] *= k
		}
		px[i] = t[0]*f.scale + f.half
		py[i] = -t[1]*f.scale + f.half
		pz[i] = t[2]
	}
	return px, py, pz
}
