// Package skeleton holds the output graph of one tree generation run:
// branches, leaves and skinning bones stored as dense, append-only slices
// whose parent links are plain indices.
package skeleton

import "ltree-renderer/internal/mathutil"

// MaxBones caps the number of bones a skeleton may hold, synthetic root included.
const MaxBones = 20

// Branch is one rigid, tapered segment.
type Branch struct {
	Rotation       mathutil.Quat // relative to the parent branch, or to the world for the root
	Length         float64
	StartRadius    float64
	EndRadius      float64
	ParentIndex    int     // -1 for the root
	ParentPosition float64 // attachment point along the parent, 0=base, 1=tip
	BoneIndex      int     // -1 if no bone controls the branch
}

// Leaf is a billboard anchored at the tip of its parent branch.
type Leaf struct {
	ParentIndex int
	Color       [4]float64 // RGBA, 0..1
	Rotation    float64    // roll in radians
	Size        [2]float64 // width, height
	BoneIndex   int
	AxisOffset  float64 // distance along the skeleton's leaf axis
}

// Bone is one skinning joint. A bone controls every branch from EndBranchIndex
// up to, but excluding, the end branch of its parent bone.
type Bone struct {
	Rotation                  mathutil.Quat // rest rotation relative to the parent bone
	ParentIndex               int
	ReferenceTransform        mathutil.Mat4 // absolute rest pose
	InverseReferenceTransform mathutil.Mat4
	Length                    float64
	Stiffness                 float64
	EndBranchIndex            int
}

// Skeleton is the sole mutable output of a generation run. Branches are
// topologically sorted: Branches[i].ParentIndex < i, and index 0 is the root.
type Skeleton struct {
	Branches []Branch
	Leaves   []Leaf
	Bones    []Bone

	// LeafAxis is the unit axis leaves are constrained to, nil for free billboards.
	LeafAxis      *mathutil.Vec3
	TextureHeight float64
}

// New returns an empty skeleton.
func New() *Skeleton {
	return &Skeleton{}
}

// AddBranch appends b and returns its index.
func (s *Skeleton) AddBranch(b Branch) int {
	s.Branches = append(s.Branches, b)
	return len(s.Branches) - 1
}

// AddLeaf appends l and returns its index.
func (s *Skeleton) AddLeaf(l Leaf) int {
	s.Leaves = append(s.Leaves, l)
	return len(s.Leaves) - 1
}

// AddBone appends b and returns its index, or -1 if the skeleton already
// holds MaxBones bones.
func (s *Skeleton) AddBone(b Bone) int {
	if len(s.Bones) >= MaxBones {
		return -1
	}
	s.Bones = append(s.Bones, b)
	return len(s.Bones) - 1
}

// RootBone is the synthetic bone installed before generation starts.
func RootBone() Bone {
	return Bone{
		Rotation:                  mathutil.QuatIdentity(),
		ParentIndex:               -1,
		ReferenceTransform:        mathutil.Mat4Identity(),
		InverseReferenceTransform: mathutil.Mat4Identity(),
		Length:                    0,
		Stiffness:                 1,
		EndBranchIndex:            -1,
	}
}

// TrunkRadius is the start radius of the root branch, or 0 for an empty skeleton.
func (s *Skeleton) TrunkRadius() float64 {
	if len(s.Branches) == 0 {
		return 0
	}
	return s.Branches[0].StartRadius
}

// RadiusAt interpolates a branch's radius at fraction f along it.
// parentIndex -1 yields RootRadius.
func (s *Skeleton) RadiusAt(parentIndex int, f float64) float64 {
	if parentIndex == -1 {
		return RootRadius
	}
	b := s.Branches[parentIndex]
	return b.StartRadius + f*(b.EndRadius-b.StartRadius)
}

// RootRadius is the virtual parent radius of the root branch.
const RootRadius = 128.0
