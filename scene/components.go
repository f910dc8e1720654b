package scene

import (
	"github.com/chewxy/math32"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
)

const (
	CameraType        ecs.ComponentType = "Camera"
	RenderableType    ecs.ComponentType = "Renderable"
	LightType         ecs.ComponentType = "Light"
	EditorControlType ecs.ComponentType = "EditorControl"
	RotatorType       ecs.ComponentType = "Rotator"
	RigidBodyType     ecs.ComponentType = "RigidBody"
	NameType          ecs.ComponentType = "Name"
)

// Camera is a perspective camera. FOV is the vertical field of view in degrees.
type Camera struct {
	FOV  float32
	Near float32
	Far  float32
}

func NewCamera() *Camera {
	return &Camera{FOV: 60, Near: 0.1, Far: 1000}
}

func (*Camera) ComponentType() ecs.ComponentType { return CameraType }

func (c *Camera) Clone() ecs.Component {
	clone := *c
	return &clone
}

func (c *Camera) Projection(aspect float32) geom.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return geom.Perspective(c.FOV*math32.Pi/180, aspect, c.Near, c.Far)
}

func (c *Camera) ViewMatrix(t *Transform) geom.Mat4 {
	return geom.ViewMatrix(t.Position(), t.Rotation())
}

func (c *Camera) Fields() []ecs.Field {
	return []ecs.Field{
		{Name: "fov", Value: &c.FOV},
		{Name: "near", Value: &c.Near},
		{Name: "far", Value: &c.Far},
	}
}

// Renderable draws geometry from the asset library with a material. Objects are
// built from the other fields the first time the entity is rendered and are
// rebuilt whenever they are reset to nil.
type Renderable struct {
	Geometry string
	Material string
	Color    geom.Vec3
	Texture  string
	Visible  bool

	// Highlight marks the selected entity
	Highlight bool

	Objects []*render.RenderableObject
}

func NewRenderable() *Renderable {
	return &Renderable{
		Material: render.MaterialBasic,
		Color:    geom.V3(0.8, 0.8, 0.8),
		Visible:  true,
	}
}

func (*Renderable) ComponentType() ecs.ComponentType { return RenderableType }

// Clone copies the authored fields and clones the materials of built objects.
// Geometry buffers are shared.
func (r *Renderable) Clone() ecs.Component {
	clone := *r
	clone.Objects = nil
	for _, obj := range r.Objects {
		clone.Objects = append(clone.Objects, obj.Clone())
	}
	return &clone
}

func (r *Renderable) Fields() []ecs.Field {
	return []ecs.Field{
		{Name: "geometry", Value: &r.Geometry},
		{Name: "material", Value: &r.Material},
		{Name: "color", Value: &r.Color},
		{Name: "texture", Value: &r.Texture},
		{Name: "visible", Value: &r.Visible},
	}
}

func (r *Renderable) FieldsLoaded() {
	r.Objects = nil
}

// Light is the scene light. A directional light shines along its transform's
// forward axis; a point light sits at the transform's position.
type Light struct {
	Color       geom.Vec3
	Intensity   float32
	Directional bool
}

func NewLight() *Light {
	return &Light{Color: geom.V3(1, 1, 1), Intensity: 1, Directional: true}
}

func (*Light) ComponentType() ecs.ComponentType { return LightType }

func (l *Light) Clone() ecs.Component {
	clone := *l
	return &clone
}

func (l *Light) Fields() []ecs.Field {
	return []ecs.Field{
		{Name: "color", Value: &l.Color},
		{Name: "intensity", Value: &l.Intensity},
		{Name: "directional", Value: &l.Directional},
	}
}

// EditorControl makes an entity fly with the editor camera controls. Speeds
// are in units and radians per second.
type EditorControl struct {
	MoveSpeed float32
	LookSpeed float32
	Yaw       float32
	Pitch     float32
}

func NewEditorControl() *EditorControl {
	return &EditorControl{MoveSpeed: 5, LookSpeed: 0.005}
}

func (*EditorControl) ComponentType() ecs.ComponentType { return EditorControlType }

func (c *EditorControl) Clone() ecs.Component {
	clone := *c
	return &clone
}

func (c *EditorControl) Fields() []ecs.Field {
	return []ecs.Field{
		{Name: "moveSpeed", Value: &c.MoveSpeed},
		{Name: "lookSpeed", Value: &c.LookSpeed},
		{Name: "yaw", Value: &c.Yaw},
		{Name: "pitch", Value: &c.Pitch},
	}
}

// Rotator spins an entity about Axis at Speed radians per second.
type Rotator struct {
	Axis  geom.Vec3
	Speed float32
}

func NewRotator() *Rotator {
	return &Rotator{Axis: geom.V3(0, 1, 0), Speed: 1}
}

func (*Rotator) ComponentType() ecs.ComponentType { return RotatorType }

func (r *Rotator) Clone() ecs.Component {
	clone := *r
	return &clone
}

func (r *Rotator) Fields() []ecs.Field {
	return []ecs.Field{
		{Name: "axis", Value: &r.Axis},
		{Name: "speed", Value: &r.Speed},
	}
}

// RigidBody is a box body simulated in the XY plane.
type RigidBody struct {
	Mass   float32
	Width  float32
	Height float32
	Static bool
}

func NewRigidBody() *RigidBody {
	return &RigidBody{Mass: 1, Width: 1, Height: 1}
}

func (*RigidBody) ComponentType() ecs.ComponentType { return RigidBodyType }

func (b *RigidBody) Clone() ecs.Component {
	clone := *b
	return &clone
}

func (b *RigidBody) Fields() []ecs.Field {
	return []ecs.Field{
		{Name: "mass", Value: &b.Mass},
		{Name: "width", Value: &b.Width},
		{Name: "height", Value: &b.Height},
		{Name: "static", Value: &b.Static},
	}
}

// Name is the label shown by the editor.
type Name struct {
	Value string
}

func (*Name) ComponentType() ecs.ComponentType { return NameType }

func (n *Name) Clone() ecs.Component {
	return &Name{Value: n.Value}
}

func (n *Name) Fields() []ecs.Field {
	return []ecs.Field{{Name: "value", Value: &n.Value}}
}

// RegisterComponents registers every built-in component and its editable fields.
func RegisterComponents(r *ecs.ComponentRegistry) {
	ecs.Register(r, NewTransform)
	ecs.Register(r, NewCamera)
	ecs.Register(r, NewRenderable)
	ecs.Register(r, NewLight)
	ecs.Register(r, NewEditorControl)
	ecs.Register(r, NewRotator)
	ecs.Register(r, NewRigidBody)
	ecs.Register(r, func() *Name { return &Name{} })

	r.RegisterEditableField(TransformType, "position", ecs.WidgetVector3)
	r.RegisterEditableField(TransformType, "scale", ecs.WidgetVector3)

	r.RegisterEditableField(CameraType, "fov", ecs.WidgetNumber)
	r.RegisterEditableField(CameraType, "near", ecs.WidgetNumber)
	r.RegisterEditableField(CameraType, "far", ecs.WidgetNumber)

	r.RegisterEditableField(RenderableType, "geometry", ecs.WidgetText)
	r.RegisterEditableField(RenderableType, "material", ecs.WidgetText)
	r.RegisterEditableField(RenderableType, "color", ecs.WidgetColor)
	r.RegisterEditableField(RenderableType, "texture", ecs.WidgetText)
	r.RegisterEditableField(RenderableType, "visible", ecs.WidgetCheckbox)

	r.RegisterEditableField(LightType, "color", ecs.WidgetColor)
	r.RegisterEditableField(LightType, "intensity", ecs.WidgetNumber)
	r.RegisterEditableField(LightType, "directional", ecs.WidgetCheckbox)

	r.RegisterEditableField(EditorControlType, "moveSpeed", ecs.WidgetNumber)
	r.RegisterEditableField(EditorControlType, "lookSpeed", ecs.WidgetNumber)

	r.RegisterEditableField(RotatorType, "axis", ecs.WidgetVector3)
	r.RegisterEditableField(RotatorType, "speed", ecs.WidgetNumber)

	r.RegisterEditableField(RigidBodyType, "mass", ecs.WidgetNumber)
	r.RegisterEditableField(RigidBodyType, "static", ecs.WidgetCheckbox)

	r.RegisterEditableField(NameType, "value", ecs.WidgetText)
}
