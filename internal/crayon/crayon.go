// Package crayon implements the turtle that interprets grammar instructions.
// A crayon keeps a cursor on the skeleton it is building (parent branch,
// position along it, accumulated rotation and scale) and appends branches,
// leaves and bones as it moves. One crayon builds exactly one skeleton and
// must not be shared between goroutines.
package crayon

import (
	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/skeleton"
)

// DefaultBoneLevels is the bone placement budget used when none is configured.
const DefaultBoneLevels = 3

// backwardBoneLevel is written to the bone level by Backward. It exceeds any
// realistic budget, so Bone is a no-op until the level is lowered again.
const backwardBoneLevel = 99

// State is the part of the crayon saved and restored by PushState/PopState.
type State struct {
	ParentIndex     int
	ParentPosition  float64
	Scale           float64
	Rotation        mathutil.Quat
	Level           int
	RadiusScale     float64
	ParentBoneIndex int
	BoneLevel       int
}

func initialState() State {
	return State{
		ParentIndex:     -1,
		ParentPosition:  1,
		Scale:           1,
		Rotation:        mathutil.QuatIdentity(),
		Level:           1,
		RadiusScale:     1,
		ParentBoneIndex: -1,
		BoneLevel:       0,
	}
}

// Crayon is the turtle. The zero value is not usable; call New.
type Crayon struct {
	state State
	stack []State

	skel *skeleton.Skeleton
	// transforms[i] is the absolute transform of branch i, captured when it was created.
	transforms  []mathutil.Mat4
	boneLevels  int
	constraints Constraint
}

// New returns a crayon drawing into skel, normally an empty one.
func New(skel *skeleton.Skeleton) *Crayon {
	return &Crayon{
		state:      initialState(),
		skel:       skel,
		transforms: skel.AbsoluteBranchTransforms(),
		boneLevels: DefaultBoneLevels,
	}
}

// Skeleton returns the skeleton being built.
func (c *Crayon) Skeleton() *skeleton.Skeleton { return c.skel }

// State returns a copy of the current cursor state.
func (c *Crayon) State() State { return c.state }

// Depth returns the number of saved states.
func (c *Crayon) Depth() int { return len(c.stack) }

func (c *Crayon) Level() int            { return c.state.Level }
func (c *Crayon) SetLevel(level int)    { c.state.Level = level }
func (c *Crayon) CurrentScale() float64 { return c.state.Scale }

// BoneLevels is the bone placement budget.
func (c *Crayon) BoneLevels() int     { return c.boneLevels }
func (c *Crayon) SetBoneLevels(n int) { c.boneLevels = n }

// SetConstraints installs the constraint consulted by Forward. nil disables it.
func (c *Crayon) SetConstraints(con Constraint) { c.constraints = con }

// Transform returns the absolute transform of the cursor: the accumulated
// rotation placed at the current position along the parent branch.
func (c *Crayon) Transform() mathutil.Mat4 {
	rot := mathutil.QuatToMat3(c.state.Rotation)
	if c.state.ParentIndex == -1 {
		return mathutil.FromMat3Translation(rot, mathutil.Vec3{})
	}
	parent := c.skel.Branches[c.state.ParentIndex]
	local := mathutil.FromMat3Translation(rot, mathutil.Vec3{0, c.state.ParentPosition * parent.Length, 0})
	return mathutil.Mat4Mul(c.transforms[c.state.ParentIndex], local)
}

// Forward grows a branch of length × scale from the cursor and moves the
// cursor to its tip. The constraint chain may shorten, retaper or veto it.
func (c *Crayon) Forward(length, radiusEndScale float64) {
	if c.constraints != nil && !c.constraints.ConstrainForward(c, &length, &radiusEndScale) {
		return
	}

	startRadius := c.skel.RadiusAt(c.state.ParentIndex, c.state.ParentPosition) * c.state.RadiusScale
	transform := c.Transform()
	index := c.skel.AddBranch(skeleton.Branch{
		Rotation:       c.state.Rotation,
		Length:         length * c.state.Scale,
		StartRadius:    startRadius,
		EndRadius:      startRadius * radiusEndScale,
		ParentIndex:    c.state.ParentIndex,
		ParentPosition: c.state.ParentPosition,
		BoneIndex:      c.state.ParentBoneIndex,
	})
	c.transforms = append(c.transforms, transform)

	// re-root on the new branch; rotation and radius are relative to it from now on
	c.state.ParentIndex = index
	c.state.ParentPosition = 1
	c.state.Rotation = mathutil.QuatIdentity()
	c.state.RadiusScale = 1
}

// Backward walks the cursor distance × scale back toward the root,
// stepping onto parent branches as needed.
func (c *Crayon) Backward(distance float64) {
	distance *= c.state.Scale
	for c.state.ParentIndex != -1 && distance > 0 {
		branch := c.skel.Branches[c.state.ParentIndex]
		onBranch := c.state.ParentPosition * branch.Length
		if distance > onBranch {
			c.state.ParentIndex = branch.ParentIndex
			c.state.ParentPosition = 1
			c.state.Rotation = mathutil.QuatIdentity()
		} else {
			c.state.ParentPosition -= distance / branch.Length
		}
		distance -= onBranch
	}
	c.state.BoneLevel = backwardBoneLevel
}

// Twist rotates about the cursor's local up axis.
func (c *Crayon) Twist(radians float64) {
	c.state.Rotation = mathutil.QuatMul(c.state.Rotation, mathutil.QuatYaw(radians))
}

// Pitch rotates about the cursor's local right axis.
func (c *Crayon) Pitch(radians float64) {
	c.state.Rotation = mathutil.QuatMul(c.state.Rotation, mathutil.QuatPitch(radians))
}

func (c *Crayon) Scale(f float64)       { c.state.Scale *= f }
func (c *Crayon) ScaleRadius(f float64) { c.state.RadiusScale *= f }

// PushState saves the full cursor state.
func (c *Crayon) PushState() {
	c.stack = append(c.stack, c.state)
}

// PopState restores the most recently pushed state. It reports false, and
// leaves the state untouched, if nothing was pushed.
func (c *Crayon) PopState() bool {
	n := len(c.stack)
	if n == 0 {
		return false
	}
	c.state = c.stack[n-1]
	c.stack = c.stack[:n-1]
	return true
}

// Leaf anchors a leaf at the tip of the current parent branch.
func (c *Crayon) Leaf(rotation float64, size [2]float64, color [4]float64, axisOffset float64) {
	c.skel.AddLeaf(skeleton.Leaf{
		ParentIndex: c.state.ParentIndex,
		Color:       color,
		Rotation:    rotation,
		Size:        size,
		BoneIndex:   c.state.ParentBoneIndex,
		AxisOffset:  axisOffset,
	})
}
