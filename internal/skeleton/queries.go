package skeleton

import (
	"errors"
	"fmt"

	"ltree-renderer/internal/mathutil"
)

var (
	// ErrBufferTooSmall is returned when a destination slice is shorter than
	// the list it is filled from.
	ErrBufferTooSmall = errors.New("skeleton: destination buffer too small")

	// ErrStateMismatch is returned when an animation state does not cover
	// every bone of the skeleton.
	ErrStateMismatch = errors.New("skeleton: animation state does not match bones")
)

func checkLen(what string, have, need int) error {
	if have < need {
		return fmt.Errorf("%w: %s has %d entries, need %d", ErrBufferTooSmall, what, have, need)
	}
	return nil
}

// localTransform places a rotation at distance along the parent's up axis.
func localTransform(rot mathutil.Quat, along float64) mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.QuatToMat3(rot), mathutil.Vec3{0, along, 0})
}

// CopyAbsoluteBranchTransformsTo fills dst with the world transform of each
// branch base. A single forward pass; relies on parents preceding children.
func (s *Skeleton) CopyAbsoluteBranchTransformsTo(dst []mathutil.Mat4) error {
	if err := checkLen("branch transforms", len(dst), len(s.Branches)); err != nil {
		return err
	}
	for i, b := range s.Branches {
		if b.ParentIndex == -1 {
			dst[i] = mathutil.FromMat3Translation(mathutil.QuatToMat3(b.Rotation), mathutil.Vec3{})
			continue
		}
		parent := s.Branches[b.ParentIndex]
		dst[i] = mathutil.Mat4Mul(dst[b.ParentIndex], localTransform(b.Rotation, b.ParentPosition*parent.Length))
	}
	return nil
}

// AbsoluteBranchTransforms allocates and returns every branch's world transform.
func (s *Skeleton) AbsoluteBranchTransforms() []mathutil.Mat4 {
	dst := make([]mathutil.Mat4, len(s.Branches))
	_ = s.CopyAbsoluteBranchTransformsTo(dst)
	return dst
}

// GetLongestBranching writes the root-to-tip distance of every branch into
// dst and returns the largest one.
func (s *Skeleton) GetLongestBranching(dst []float64) (float64, error) {
	if err := checkLen("branch distances", len(dst), len(s.Branches)); err != nil {
		return 0, err
	}
	maxDist := 0.0
	for i, b := range s.Branches {
		dist := b.Length
		if b.ParentIndex != -1 {
			parent := s.Branches[b.ParentIndex]
			dist += dst[b.ParentIndex] - parent.Length*(1-b.ParentPosition)
		}
		if dist > maxDist {
			maxDist = dist
		}
		dst[i] = dist
	}
	return maxDist, nil
}

// CloseEdgeBranches tapers every branch without children to an end radius of 0.
func (s *Skeleton) CloseEdgeBranches() {
	isParent := make([]bool, len(s.Branches))
	for i := len(s.Branches) - 1; i >= 0; i-- {
		if p := s.Branches[i].ParentIndex; p != -1 {
			isParent[p] = true
		}
		// children always sit after their parent, so isParent[i] is final here
		if !isParent[i] {
			s.Branches[i].EndRadius = 0
		}
	}
}

// CopyBranchLevelsTo writes each branch's depth from the root into dst.
func (s *Skeleton) CopyBranchLevelsTo(dst []int) error {
	if err := checkLen("branch levels", len(dst), len(s.Branches)); err != nil {
		return err
	}
	for i, b := range s.Branches {
		if b.ParentIndex == -1 {
			dst[i] = 0
		} else {
			dst[i] = 1 + dst[b.ParentIndex]
		}
	}
	return nil
}

// NumBranchChildren counts the branches directly attached to branch index.
func (s *Skeleton) NumBranchChildren(index int) int {
	count := 0
	for i := index + 1; i < len(s.Branches); i++ {
		if s.Branches[i].ParentIndex == index {
			count++
		}
	}
	return count
}

// CopyAbsoluteBoneTransformsTo computes posed bone transforms from a per-bone
// rotation array. Child bones sit at the tip of their parent.
func (s *Skeleton) CopyAbsoluteBoneTransformsTo(dst []mathutil.Mat4, rotations []mathutil.Quat) error {
	if err := checkLen("bone transforms", len(dst), len(s.Bones)); err != nil {
		return err
	}
	if len(rotations) < len(s.Bones) {
		return fmt.Errorf("%w: %d rotations for %d bones", ErrStateMismatch, len(rotations), len(s.Bones))
	}
	for i, b := range s.Bones {
		if b.ParentIndex == -1 {
			dst[i] = localTransform(rotations[i], 0)
			continue
		}
		dst[i] = mathutil.Mat4Mul(dst[b.ParentIndex], localTransform(rotations[i], s.Bones[b.ParentIndex].Length))
	}
	return nil
}

// CopyBoneBindingMatricesTo writes, per bone, the matrix taking object-space
// geometry from the rest pose into the pose described by rotations.
func (s *Skeleton) CopyBoneBindingMatricesTo(dst []mathutil.Mat4, rotations []mathutil.Quat) error {
	if err := s.CopyAbsoluteBoneTransformsTo(dst, rotations); err != nil {
		return err
	}
	for i, b := range s.Bones {
		dst[i] = mathutil.Mat4Mul(dst[i], b.InverseReferenceTransform)
	}
	return nil
}
