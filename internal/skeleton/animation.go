package skeleton

import (
	"errors"
	"fmt"

	"ltree-renderer/internal/mathutil"
)

// ErrInterpolation is returned for an interpolation factor outside [0,1].
var ErrInterpolation = errors.New("skeleton: interpolation factor must be between 0 and 1")

// AnimationState is one pose of a skeleton: a rotation per bone, relative to
// the parent bone.
type AnimationState struct {
	BoneRotations []mathutil.Quat
}

// NewAnimationState returns the rest pose of s.
func NewAnimationState(s *Skeleton) *AnimationState {
	rot := make([]mathutil.Quat, len(s.Bones))
	for i, b := range s.Bones {
		rot[i] = b.Rotation
	}
	return &AnimationState{BoneRotations: rot}
}

// RotateBoneBy turns bone index about axis (in the bone's local frame).
func (a *AnimationState) RotateBoneBy(index int, axis mathutil.Vec3, radians float64) {
	a.BoneRotations[index] = mathutil.QuatMul(a.BoneRotations[index], mathutil.QuatFromAxisAngle(axis, radians))
}

// Interpolate slerps every bone rotation of a and b into dst.
func Interpolate(a, b, dst *AnimationState, f float64) error {
	n := len(dst.BoneRotations)
	if len(a.BoneRotations) != n || len(b.BoneRotations) != n {
		return fmt.Errorf("%w: %d, %d and %d rotations", ErrStateMismatch, len(a.BoneRotations), len(b.BoneRotations), n)
	}
	if f < 0 || f > 1 {
		return fmt.Errorf("%w: got %g", ErrInterpolation, f)
	}
	for i := range dst.BoneRotations {
		dst.BoneRotations[i] = mathutil.Slerp(a.BoneRotations[i], b.BoneRotations[i], f)
	}
	return nil
}
