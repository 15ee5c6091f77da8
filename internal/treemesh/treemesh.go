// Package treemesh tessellates a tree skeleton into triangle meshes for the
// preview renderer: one cylinder per branch and one camera-facing quad per
// leaf.
package treemesh

import (
	"errors"
	"math"

	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/skeleton"
)

// DefaultRadialSegments is the segment count of a circle as wide as the trunk base.
const DefaultRadialSegments = 8

var (
	ErrNoBranches     = errors.New("treemesh: skeleton has no branches")
	ErrTooFewSegments = errors.New("treemesh: need at least 3 radial segments")
)

// Tri indexes three vertices; UVs share the vertex index.
type Tri struct {
	V    [3]int
	Tint [4]float64 // RGBA multiplier applied to the sampled texel
}

// Kind tells the renderer which material a mesh uses.
type Kind int

const (
	Bark Kind = iota
	Foliage
)

// Mesh is a flat triangle list in world space.
type Mesh struct {
	Kind    Kind
	Verts   []mathutil.Vec3
	UVs     [][2]float64
	Tris    []Tri
	TexPath string
}

var white = [4]float64{1, 1, 1, 1}

func radialSegments(radius, trunk float64, max int) int {
	ratio := 0.0
	if trunk > 0 {
		ratio = radius / trunk
	}
	return 3 + int(ratio*float64(max-3)+0.5)
}

// Branches builds the trunk mesh. maxRadial is the segment count used at
// the base of the trunk; thinner circles get fewer segments, never below 3.
func Branches(s *skeleton.Skeleton, maxRadial int) (*Mesh, error) {
	if len(s.Branches) == 0 {
		return nil, ErrNoBranches
	}
	if maxRadial < 3 {
		return nil, ErrTooFewSegments
	}

	transforms := s.AbsoluteBranchTransforms()
	distances := make([]float64, len(s.Branches))
	if _, err := s.GetLongestBranching(distances); err != nil {
		return nil, err
	}

	trunkRadius := s.TrunkRadius()
	texHeight := s.TextureHeight
	if texHeight <= 0 {
		texHeight = 1
	}

	m := &Mesh{Kind: Bark}
	for i, b := range s.Branches {
		bottomRadials := radialSegments(b.StartRadius, trunkRadius, maxRadial)
		bottom := transforms[i]
		if b.ParentIndex != -1 && b.ParentPosition > 0.99 &&
			bottom.Up().Dot(transforms[b.ParentIndex].Up()) > 0.7 {
			bottom = continuation(transforms[b.ParentIndex], s.Branches[b.ParentIndex].Length, b.Rotation, bottomRadials)
		}

		ty := (distances[i] - b.Length) / texHeight
		span := textureSpan(b.StartRadius, trunkRadius)
		bottomIndex := m.addCircle(bottom, b.StartRadius, bottomRadials, ty, span)

		topRadials := radialSegments(b.EndRadius, trunkRadius, maxRadial)
		top := transforms[i]
		t := top.Translation().Add(top.Up().Scale(b.Length))
		top = mathutil.FromBasis(top.Right(), top.Up(), top.Backward(), t)

		ty += b.Length / texHeight
		span = textureSpan(b.EndRadius, trunkRadius)
		topIndex := m.addCircle(top, b.EndRadius, topRadials, ty, span)

		m.addCylinder(bottomIndex, bottomRadials, topIndex, topRadials)
	}
	return m, nil
}

func textureSpan(radius, trunkRadius float64) float64 {
	if trunkRadius <= 0 {
		return 1
	}
	return 0.25 + 0.75*radius/trunkRadius
}

// continuation places a branch's bottom circle on its parent's top circle,
// turned to the radial closest to the child's own right axis so the seam
// does not twist.
func continuation(parent mathutil.Mat4, parentLength float64, rot mathutil.Quat, radials int) mathutil.Mat4 {
	t := parent.Translation().Add(parent.Up().Scale(parentLength))
	childDir := rot.Rotate(mathutil.UnitX)

	best, bestDot := 0.0, -2.0
	for j := 0; j < radials; j++ {
		angle := float64(j) / float64(radials) * 2 * math.Pi
		d := childDir.Dot(mathutil.Vec3{math.Cos(angle), 0, math.Sin(angle)})
		if d > bestDot {
			best, bestDot = angle, d
		}
	}

	cos, sin := math.Cos(best), math.Sin(best)
	right := parent.Right().Scale(cos).Add(parent.Backward().Scale(sin))
	back := parent.Right().Scale(-sin).Add(parent.Backward().Scale(cos))
	return mathutil.FromBasis(right, parent.Up(), back, t)
}

// addCircle appends segments+1 vertices (the seam is duplicated for UVs)
// and returns the index of the first.
func (m *Mesh) addCircle(transform mathutil.Mat4, radius float64, segments int, ty, span float64) int {
	first := len(m.Verts)
	center := transform.Translation()
	for i := 0; i <= segments; i++ {
		f := float64(i) / float64(segments)
		angle := f * 2 * math.Pi
		dir := transform.MulDir(mathutil.Vec3{math.Cos(angle), 0, math.Sin(angle)})
		m.Verts = append(m.Verts, center.Add(dir.Scale(radius)))
		m.UVs = append(m.UVs, [2]float64{f * span, ty})
	}
	return first
}

// addCylinder stitches two circles with different segment counts, advancing
// whichever side lags behind.
func (m *Mesh) addCylinder(bottom, numBottom, top, numTop int) {
	bi, ti := 0, 0
	for bi < numBottom || ti < numTop {
		if bi*numTop < ti*numBottom {
			m.Tris = append(m.Tris, Tri{V: [3]int{bottom + bi + 1, top + ti, bottom + bi}, Tint: white})
			bi++
		} else {
			m.Tris = append(m.Tris, Tri{V: [3]int{bottom + bi, top + ti + 1, top + ti}, Tint: white})
			ti++
		}
	}
}

// Leaves builds one quad per leaf facing a camera with the given world to
// view rotation. The quad spans twice the leaf size on each axis. With a
// leaf axis set, the quad's up edge follows the axis instead of the camera.
func Leaves(s *skeleton.Skeleton, view mathutil.Mat3) *Mesh {
	m := &Mesh{Kind: Foliage}
	if len(s.Leaves) == 0 {
		return m
	}

	// Rows of the view rotation are the camera axes in world space.
	inv := view.Transpose()
	camRight := inv.MulVec3(mathutil.UnitX)
	camUp := inv.MulVec3(mathutil.Up)
	if s.LeafAxis != nil {
		// Axis-bound leaves stand along the axis and only turn about it.
		axis := *s.LeafAxis
		if side := camRight.Sub(axis.Scale(camRight.Dot(axis))); side.Len() > 1e-6 {
			camRight, camUp = side.Normalize(), axis
		}
	}

	transforms := s.AbsoluteBranchTransforms()
	for _, leaf := range s.Leaves {
		var pos mathutil.Vec3
		if leaf.ParentIndex != -1 {
			parent := transforms[leaf.ParentIndex]
			pos = parent.Translation().Add(parent.Up().Scale(s.Branches[leaf.ParentIndex].Length))
		}
		if s.LeafAxis != nil {
			pos = pos.Add(s.LeafAxis.Scale(leaf.AxisOffset))
		}

		cos, sin := math.Cos(leaf.Rotation), math.Sin(leaf.Rotation)
		right := camRight.Scale(cos * leaf.Size[0]).Add(camUp.Scale(sin * leaf.Size[0]))
		up := camRight.Scale(-sin * leaf.Size[1]).Add(camUp.Scale(cos * leaf.Size[1]))

		//  0---1
		//  | \ |
		//  3---2
		first := len(m.Verts)
		m.Verts = append(m.Verts,
			pos.Sub(right).Add(up),
			pos.Add(right).Add(up),
			pos.Add(right).Sub(up),
			pos.Sub(right).Sub(up),
		)
		m.UVs = append(m.UVs, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, [2]float64{0, 1})
		m.Tris = append(m.Tris,
			Tri{V: [3]int{first, first + 1, first + 2}, Tint: leaf.Color},
			Tri{V: [3]int{first, first + 2, first + 3}, Tint: leaf.Color},
		)
	}
	return m
}
