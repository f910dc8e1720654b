package geom

import (
	"github.com/chewxy/math32"
)

// Quat is a rotation quaternion with vector part X, Y, Z and scalar part W.
// Rotations are always stored as unit quaternions.
type Quat struct {
	X float32
	Y float32
	Z float32
	W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle returns the rotation of angle radians about axis.
// The axis is normalized first.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	axis = axis.Normalize()
	half := angle / 2
	s := math32.Sin(half)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math32.Cos(half),
	}
}

// QuatFromEuler converts Euler angles in radians to a quaternion, applying the
// rotations in intrinsic XYZ order. The result equals
// QuatFromAxisAngle(X) * QuatFromAxisAngle(Y) * QuatFromAxisAngle(Z).
func QuatFromEuler(euler Vec3) Quat {
	c1 := math32.Cos(euler.X / 2)
	c2 := math32.Cos(euler.Y / 2)
	c3 := math32.Cos(euler.Z / 2)
	s1 := math32.Sin(euler.X / 2)
	s2 := math32.Sin(euler.Y / 2)
	s3 := math32.Sin(euler.Z / 2)

	return Quat{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// Mul returns the Hamilton product q * o, which applies o first and then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Dot returns the 4D dot product.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Length returns the quaternion norm.
func (q Quat) Length() float32 {
	return math32.Sqrt(q.Dot(q))
}

// Normalize returns q scaled to unit length; a zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 {
		return QuatIdentity()
	}
	inv := 1 / l
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Conjugate returns the conjugate, which is the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Negate returns -q, which represents the same rotation.
func (q Quat) Negate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, -q.W}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).MulScalar(2)
	return v.Add(t.MulScalar(q.W)).Add(u.Cross(t))
}

// ApproxEqual checks if every component differs by at most eps.
func (q Quat) ApproxEqual(o Quat, eps float32) bool {
	return math32.Abs(q.X-o.X) <= eps &&
		math32.Abs(q.Y-o.Y) <= eps &&
		math32.Abs(q.Z-o.Z) <= eps &&
		math32.Abs(q.W-o.W) <= eps
}

// SameRotation checks if q and o describe the same rotation, accounting for
// the double cover (q and -q are the same rotation).
func (q Quat) SameRotation(o Quat, eps float32) bool {
	return q.ApproxEqual(o, eps) || q.ApproxEqual(o.Negate(), eps)
}

// Slerp spherically interpolates from a to b. The shorter arc is taken. When
// the quaternions are numerically parallel, so that the sine of the angle
// between them vanishes, it falls back to normalized linear interpolation.
func Slerp(a, b Quat, t float32) Quat {
	cosHalfTheta := a.Dot(b)
	if cosHalfTheta < 0 {
		b = b.Negate()
		cosHalfTheta = -cosHalfTheta
	}

	sinHalfTheta := math32.Sqrt(max(0, 1-cosHalfTheta*cosHalfTheta))
	if sinHalfTheta < Epsilon {
		s := 1 - t
		return Quat{
			X: s*a.X + t*b.X,
			Y: s*a.Y + t*b.Y,
			Z: s*a.Z + t*b.Z,
			W: s*a.W + t*b.W,
		}.Normalize()
	}

	halfTheta := math32.Atan2(sinHalfTheta, cosHalfTheta)
	ratioA := math32.Sin((1-t)*halfTheta) / sinHalfTheta
	ratioB := math32.Sin(t*halfTheta) / sinHalfTheta

	return Quat{
		X: a.X*ratioA + b.X*ratioB,
		Y: a.Y*ratioA + b.Y*ratioB,
		Z: a.Z*ratioA + b.Z*ratioB,
		W: a.W*ratioA + b.W*ratioB,
	}
}

// Mat4FromQuat returns the rotation matrix of a unit quaternion.
func Mat4FromQuat(q Quat) Mat4 {
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	xx, xy, xz := q.X*x2, q.X*y2, q.X*z2
	yy, yz, zz := q.Y*y2, q.Y*z2, q.Z*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	return Mat4{
		1 - (yy + zz), xy + wz, xz - wy, 0,
		xy - wz, 1 - (xx + zz), yz + wx, 0,
		xz + wy, yz - wx, 1 - (xx + yy), 0,
		0, 0, 0, 1,
	}
}

// QuatFromMat4 extracts the rotation from the upper 3x3 of m, which must be a
// pure rotation matrix.
func QuatFromMat4(m Mat4) Quat {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]
	trace := m11 + m22 + m33

	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math32.Sqrt(trace+1)
		q.W = 0.25 / s
		q.X = (m32 - m23) * s
		q.Y = (m13 - m31) * s
		q.Z = (m21 - m12) * s
	case m11 > m22 && m11 > m33:
		s := 2 * math32.Sqrt(1+m11-m22-m33)
		q.W = (m32 - m23) / s
		q.X = 0.25 * s
		q.Y = (m12 + m21) / s
		q.Z = (m13 + m31) / s
	case m22 > m33:
		s := 2 * math32.Sqrt(1+m22-m11-m33)
		q.W = (m13 - m31) / s
		q.X = (m12 + m21) / s
		q.Y = 0.25 * s
		q.Z = (m23 + m32) / s
	default:
		s := 2 * math32.Sqrt(1+m33-m11-m22)
		q.W = (m21 - m12) / s
		q.X = (m13 + m31) / s
		q.Y = (m23 + m32) / s
		q.Z = 0.25 * s
	}
	return q
}
