package crayon

import (
	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/skeleton"
)

// verticalBoneY is the bone direction Y component above which the
// perpendicular axes are derived from world backward instead of world up.
const verticalBoneY = 0.5

// Bone places a bone from the tip of the current parent bone to the cursor,
// and hands the branches walked since the parent bone's end over to it.
// Nothing happens if the bone budget is spent or the skeleton is full.
func (c *Crayon) Bone(delta int) {
	if c.state.BoneLevel > c.boneLevels+delta || len(c.skel.Bones) >= skeleton.MaxBones {
		return
	}

	parent := c.state.ParentBoneIndex
	parentTransform := mathutil.Mat4Identity()
	parentInverse := mathutil.Mat4Identity()
	parentLength := 0.0
	if parent != -1 {
		pb := c.skel.Bones[parent]
		parentTransform = pb.ReferenceTransform
		parentInverse = pb.InverseReferenceTransform
		parentLength = pb.Length
	}

	to := c.Transform().Translation()
	from := parentTransform.Translation().Add(parentTransform.Up().Scale(parentLength))

	dirY := to.Sub(from).Normalize()
	var dirX mathutil.Vec3
	if dirY[1] < verticalBoneY {
		dirX = dirY.Cross(mathutil.Up).Normalize()
	} else {
		dirX = dirY.Cross(mathutil.Backward).Normalize()
	}
	dirZ := dirX.Cross(dirY).Normalize()

	absolute := mathutil.FromBasis(dirX, dirY, dirZ, from)
	relative := mathutil.Mat4Mul(parentInverse, absolute)

	stiffness := skeleton.RootRadius
	if c.state.ParentIndex != -1 {
		stiffness = c.skel.Branches[c.state.ParentIndex].StartRadius
	}

	index := c.skel.AddBone(skeleton.Bone{
		Rotation:                  mathutil.QuatFromMat3(relative.Rotation()),
		ParentIndex:               parent,
		ReferenceTransform:        absolute,
		InverseReferenceTransform: absolute.Inverse(),
		Length:                    from.Dist(to),
		Stiffness:                 stiffness,
		EndBranchIndex:            c.state.ParentIndex,
	})

	endIndex := -1
	if parent != -1 {
		endIndex = c.skel.Bones[parent].EndBranchIndex
	}
	c.state.ParentBoneIndex = index
	c.state.BoneLevel -= delta

	// stitch the branches walked since the parent bone ended to the new bone;
	// stop at the root too, in case Backward left the parent bone's end behind
	for b := c.state.ParentIndex; b != endIndex && b != -1; b = c.skel.Branches[b].ParentIndex {
		c.skel.Branches[b].BoneIndex = index
	}
}
