package geom

import (
	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix stored in column-major order: element (row r, column c)
// is at index c*4+r.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix translating by v.
func Translation(v Vec3) Mat4 {
	m := Identity()
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
	return m
}

// Scaling returns a matrix scaling by v.
func Scaling(v Vec3) Mat4 {
	m := Identity()
	m[0] = v.X
	m[5] = v.Y
	m[10] = v.Z
	return m
}

// Compose returns translate(pos) * rotate(rot) * scale(scale): scale is applied
// first, then rotation, then translation.
func Compose(pos Vec3, rot Quat, scale Vec3) Mat4 {
	m := Mat4FromQuat(rot)
	m[0] *= scale.X
	m[1] *= scale.X
	m[2] *= scale.X
	m[4] *= scale.Y
	m[5] *= scale.Y
	m[6] *= scale.Y
	m[8] *= scale.Z
	m[9] *= scale.Z
	m[10] *= scale.Z
	m[12] = pos.X
	m[13] = pos.Y
	m[14] = pos.Z
	return m
}

// At returns the element at the given row and column.
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Mul returns the matrix product m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = m[row]*o[col*4] +
				m[4+row]*o[col*4+1] +
				m[8+row]*o[col*4+2] +
				m[12+row]*o[col*4+3]
		}
	}
	return r
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// TransformPoint transforms p as a point (w=1), including the perspective divide.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return m.MulVec4(Vec4{p.X, p.Y, p.Z, 1}).PerspectiveDivide()
}

// TransformDirection transforms d as a direction (w=0); translation is ignored.
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return m.MulVec4(Vec4{d.X, d.Y, d.Z, 0}).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[row*4+col] = m[col*4+row]
		}
	}
	return r
}

// Determinant returns the determinant of m.
func (m Mat4) Determinant() float32 {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	return b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
}

// Inverse returns the inverse of m. It returns false, and the identity, when m is singular.
func (m Mat4) Inverse() (Mat4, bool) {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return Identity(), false
	}
	inv := 1 / det

	return Mat4{
		(a11*b11 - a12*b10 + a13*b09) * inv,
		(a02*b10 - a01*b11 - a03*b09) * inv,
		(a31*b05 - a32*b04 + a33*b03) * inv,
		(a22*b04 - a21*b05 - a23*b03) * inv,
		(a12*b08 - a10*b11 - a13*b07) * inv,
		(a00*b11 - a02*b08 + a03*b07) * inv,
		(a32*b02 - a30*b05 - a33*b01) * inv,
		(a20*b05 - a22*b02 + a23*b01) * inv,
		(a10*b10 - a11*b08 + a13*b06) * inv,
		(a01*b08 - a00*b10 - a03*b06) * inv,
		(a30*b04 - a31*b02 + a33*b00) * inv,
		(a21*b02 - a20*b04 - a23*b00) * inv,
		(a11*b07 - a10*b09 - a12*b06) * inv,
		(a00*b09 - a01*b07 + a02*b06) * inv,
		(a31*b01 - a30*b03 - a32*b00) * inv,
		(a20*b03 - a21*b01 + a22*b00) * inv,
	}, true
}

// Perspective returns a right-handed perspective projection with a vertical
// field of view of fovY radians, mapping depth to the [-1, 1] clip range.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// ApproxEqual checks if every element differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float32) bool {
	for i := range m {
		if math32.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// Slice returns the elements as a slice, for uniform uploads.
func (m *Mat4) Slice() []float32 {
	return m[:]
}

// ViewMatrix returns the view matrix of a camera at pos with rotation rot:
// inverse(translate(pos) * rotate(rot)).
func ViewMatrix(pos Vec3, rot Quat) Mat4 {
	view, _ := Translation(pos).Mul(Mat4FromQuat(rot)).Inverse()
	return view
}
