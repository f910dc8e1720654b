package render

import (
	"slices"

	"github.com/plus3/ember3d/geom"
)

// Attribute identifies one of the per-vertex arrays of a Geometry.
type Attribute int

const (
	AttribPosition Attribute = iota
	AttribNormal
	AttribTexCoord
	attribCount
)

// Name returns the shader attribute name
func (a Attribute) Name() string {
	switch a {
	case AttribPosition:
		return "aPosition"
	case AttribNormal:
		return "aNormal"
	case AttribTexCoord:
		return "aTexCoord"
	}
	return ""
}

// Size returns the number of floats per vertex
func (a Attribute) Size() int {
	if a == AttribTexCoord {
		return 2
	}
	return 3
}

// Geometry owns the raw vertex arrays of a triangle list. GPU buffers are
// created on first bind and re-uploaded only when an array was replaced.
// Geometries are shared between renderable objects; they are asset-level state.
type Geometry struct {
	arrays  [attribCount][]float32
	dirty   [attribCount]bool
	buffers [attribCount]BufferHandle
}

// NewGeometry creates a geometry; normals and texCoords may be nil.
func NewGeometry(vertices, normals, texCoords []float32) *Geometry {
	g := &Geometry{}
	g.SetVertices(vertices)
	g.SetNormals(normals)
	g.SetTexCoords(texCoords)
	return g
}

func (g *Geometry) set(a Attribute, data []float32) {
	g.arrays[a] = data
	g.dirty[a] = true
}

// SetVertices replaces the positions (3 floats per vertex) and flags them for upload
func (g *Geometry) SetVertices(v []float32) { g.set(AttribPosition, v) }

// SetNormals replaces the normals (3 floats per vertex) and flags them for upload
func (g *Geometry) SetNormals(n []float32) { g.set(AttribNormal, n) }

// SetTexCoords replaces the texture coordinates (2 floats per vertex) and flags them for upload
func (g *Geometry) SetTexCoords(t []float32) { g.set(AttribTexCoord, t) }

func (g *Geometry) Vertices() []float32  { return g.arrays[AttribPosition] }
func (g *Geometry) Normals() []float32   { return g.arrays[AttribNormal] }
func (g *Geometry) TexCoords() []float32 { return g.arrays[AttribTexCoord] }

// NeedsUpload reports whether the array must be uploaded before the next draw
func (g *Geometry) NeedsUpload(a Attribute) bool {
	return g.dirty[a] && len(g.arrays[a]) > 0
}

// VertexCount returns the number of vertices
func (g *Geometry) VertexCount() int {
	return len(g.arrays[AttribPosition]) / 3
}

// TriangleCount returns the number of triangles
func (g *Geometry) TriangleCount() int {
	return g.VertexCount() / 3
}

// Triangle returns the corners of triangle i in model space.
func (g *Geometry) Triangle(i int) (a, b, c geom.Vec3) {
	v := g.arrays[AttribPosition][i*9 : i*9+9]
	return geom.V3(v[0], v[1], v[2]), geom.V3(v[3], v[4], v[5]), geom.V3(v[6], v[7], v[8])
}

// Clone copies the arrays without any GPU buffers.
func (g *Geometry) Clone() *Geometry {
	return NewGeometry(slices.Clone(g.Vertices()), slices.Clone(g.Normals()), slices.Clone(g.TexCoords()))
}

// bind uploads flagged arrays and binds every non-empty array to its
// attribute. Attributes of empty arrays are disabled.
func (g *Geometry) bind(device Device) {
	for a := Attribute(0); a < attribCount; a++ {
		if len(g.arrays[a]) == 0 {
			device.DisableAttribute(a.Name())
			continue
		}

		if g.buffers[a] == 0 {
			g.buffers[a] = device.CreateBuffer()
			g.dirty[a] = true
		}
		if g.dirty[a] {
			device.UploadBuffer(g.buffers[a], g.arrays[a])
			g.dirty[a] = false
		}

		device.BindAttribute(a.Name(), g.buffers[a], a.Size())
	}
}

// RenderableObject pairs one Geometry with one Material. LocalMatrix, when
// set, is applied before the entity's world matrix, e.g. to draw a bounding volume.
type RenderableObject struct {
	Geometry    *Geometry
	Material    *Material
	LocalMatrix *geom.Mat4
}

// NewRenderableObject creates an object with no local matrix override.
func NewRenderableObject(geometry *Geometry, material *Material) *RenderableObject {
	return &RenderableObject{Geometry: geometry, Material: material}
}

// ModelMatrix combines the entity's world matrix with the local override.
func (o *RenderableObject) ModelMatrix(world geom.Mat4) geom.Mat4 {
	if o.LocalMatrix == nil {
		return world
	}
	return world.Mul(*o.LocalMatrix)
}

// Clone copies the material values and local matrix. The geometry is shared.
func (o *RenderableObject) Clone() *RenderableObject {
	c := &RenderableObject{Geometry: o.Geometry}
	if o.Material != nil {
		c.Material = o.Material.Clone()
	}
	if o.LocalMatrix != nil {
		m := *o.LocalMatrix
		c.LocalMatrix = &m
	}
	return c
}
