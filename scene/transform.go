// Package scene holds the built-in components of the engine and the JSON
// scene format.
package scene

import (
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
)

const TransformType ecs.ComponentType = "Transform"

// Transform places an entity in the world. The model matrix is built lazily and
// cached until a setter changes the transform.
type Transform struct {
	position geom.Vec3
	rotation geom.Quat
	scale    geom.Vec3

	matrix  geom.Mat4
	dirty   bool
	version uint64
}

func NewTransform() *Transform {
	return &Transform{
		rotation: geom.QuatIdentity(),
		scale:    geom.V3(1, 1, 1),
		dirty:    true,
	}
}

func (*Transform) ComponentType() ecs.ComponentType { return TransformType }

func (t *Transform) Clone() ecs.Component {
	return &Transform{
		position: t.position,
		rotation: t.rotation,
		scale:    t.scale,
		dirty:    true,
	}
}

func (t *Transform) Position() geom.Vec3 { return t.position }
func (t *Transform) Rotation() geom.Quat { return t.rotation }
func (t *Transform) Scale() geom.Vec3    { return t.scale }

func (t *Transform) SetPosition(p geom.Vec3) {
	t.position = p
	t.dirty = true
}

func (t *Transform) SetScale(s geom.Vec3) {
	t.scale = s
	t.dirty = true
}

func (t *Transform) SetRotation(q geom.Quat) {
	t.rotation = q.Normalize()
	t.dirty = true
}

// SetInitialRotation sets the rotation from XYZ Euler angles in radians.
func (t *Transform) SetInitialRotation(euler geom.Vec3) {
	t.SetRotation(geom.QuatFromEuler(euler))
}

// Translate moves the transform by d in world space.
func (t *Transform) Translate(d geom.Vec3) {
	t.SetPosition(t.position.Add(d))
}

// Rotate applies q on top of the current rotation, in local space.
func (t *Transform) Rotate(q geom.Quat) {
	t.SetRotation(t.rotation.Mul(q))
}

// Forward is the local -Z axis in world space.
func (t *Transform) Forward() geom.Vec3 {
	return t.rotation.Rotate(geom.V3(0, 0, -1))
}

// Right is the local +X axis in world space.
func (t *Transform) Right() geom.Vec3 {
	return t.rotation.Rotate(geom.V3(1, 0, 0))
}

// Matrix returns translate * rotate * scale, rebuilding it only after a change.
func (t *Transform) Matrix() geom.Mat4 {
	if t.dirty {
		t.matrix = geom.Compose(t.position, t.rotation, t.scale)
		t.dirty = false
		t.version++
	}
	return t.matrix
}

// MatrixVersion counts how many times the matrix has been rebuilt.
func (t *Transform) MatrixVersion() uint64 {
	return t.version
}

func (t *Transform) Fields() []ecs.Field {
	return []ecs.Field{
		{Name: "position", Value: &t.position},
		{Name: "rotation", Value: &t.rotation},
		{Name: "scale", Value: &t.scale},
	}
}

func (t *Transform) FieldsLoaded() {
	t.rotation = t.rotation.Normalize()
	t.dirty = true
}
