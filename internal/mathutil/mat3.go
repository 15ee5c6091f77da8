package mathutil

import "math"

// Mat3 is a row-major 3×3 rotation or basis matrix.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3FromRows builds a matrix from its three rows.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{r0[0], r0[1], r0[2], r1[0], r1[1], r1[2], r2[0], r2[1], r2[2]}
}

func (m Mat3) Row(i int) Vec3 { return Vec3{m[i*3], m[i*3+1], m[i*3+2]} }

// MulVec3 returns m·v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{m[0], m[3], m[6], m[1], m[4], m[7], m[2], m[5], m[8]}
}

// Inverse returns the inverse of m, or the identity for a singular matrix.
// The adjugate's columns are the cross products of the rows.
func (m Mat3) Inverse() Mat3 {
	r0, r1, r2 := m.Row(0), m.Row(1), m.Row(2)
	c0, c1, c2 := r1.Cross(r2), r2.Cross(r0), r0.Cross(r1)
	det := r0.Dot(c0)
	if math.Abs(det) < 1e-12 {
		return Mat3Identity()
	}
	inv := 1 / det
	return Mat3FromRows(c0.Scale(inv), c1.Scale(inv), c2.Scale(inv)).Transpose()
}
