// Package geom implements the float32 vector, quaternion and matrix math used
// by transforms, cameras, the render pipeline and ray picking.
//
// Matrices are column-major, matching the layout GPU uniforms expect.
package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Epsilon is the tolerance used by approximate comparisons and intersection tests.
const Epsilon = 1e-6

// Vec3 is a 3D vector or point.
type Vec3 struct {
	X float32
	Y float32
	Z float32
}

// V3 returns a new Vec3 with the given components.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// MulScalar returns v scaled by s.
func (v Vec3) MulScalar(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSquared returns the squared length.
func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

// Length returns the euclidean length.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

// Lerp linearly interpolates between v and o.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// ApproxEqual checks if every component differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float32) bool {
	return math32.Abs(v.X-o.X) <= eps &&
		math32.Abs(v.Y-o.Y) <= eps &&
		math32.Abs(v.Z-o.Z) <= eps
}

// Array returns the components as an array
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Vec4 is a vector in homogeneous coordinates.
type Vec4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

// V4 returns a new Vec4 with the given components.
func V4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// Vec3 drops the W component.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns the 3D point after dividing by W.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Vec3()
	}
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Array returns the components as an array
func (v Vec4) Array() [4]float32 {
	return [4]float32{v.X, v.Y, v.Z, v.W}
}
