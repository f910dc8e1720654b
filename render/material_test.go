package render_test

import (
	"testing"

	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformVariant(t *testing.T) {
	tests := []struct {
		name    string
		uniform render.Uniform
		typ     render.UniformType
		floats  int
	}{
		{"bool", render.BoolUniform(true), render.UniformBool, 0},
		{"float", render.FloatUniform(2.5), render.UniformFloat, 1},
		{"vec3", render.Vec3Uniform(geom.V3(1, 2, 3)), render.UniformVec3, 3},
		{"vec4", render.Vec4Uniform(geom.V4(1, 2, 3, 4)), render.UniformVec4, 4},
		{"mat4", render.Mat4Uniform(geom.Identity()), render.UniformMat4, 16},
		{"sampler", render.SamplerUniform("crate.png"), render.UniformSampler2D, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.uniform.Type())
			assert.Len(t, tt.uniform.Floats(), tt.floats)
			assert.True(t, tt.typ.Valid())
		})
	}

	assert.True(t, render.BoolUniform(true).Bool())
	assert.Equal(t, float32(2.5), render.FloatUniform(2.5).Float())
	assert.Equal(t, geom.V3(1, 2, 3), render.Vec3Uniform(geom.V3(1, 2, 3)).Vec3())
	assert.Equal(t, geom.Identity(), render.Mat4Uniform(geom.Identity()).Mat4())
	assert.Equal(t, "crate.png", render.SamplerUniform("crate.png").Texture())
	assert.False(t, render.UniformType(42).Valid())
}

func TestParseUniformType(t *testing.T) {
	typ, err := render.ParseUniformType("vec4")
	require.NoError(t, err)
	assert.Equal(t, render.UniformVec4, typ)

	_, err = render.ParseUniformType("ivec2")
	assert.ErrorIs(t, err, render.ErrUnsupportedUniformType)
}

func TestMaterialRegistry(t *testing.T) {
	registry := render.NewMaterialRegistry()
	render.RegisterBuiltinMaterials(registry)

	assert.Equal(t, []string{render.MaterialBasic, render.MaterialUnlit}, registry.Kinds())

	m, err := registry.NewMaterial(render.MaterialBasic)
	require.NoError(t, err)
	assert.Equal(t, "basic", m.Shader())

	color, ok := m.Value("color")
	require.True(t, ok)
	assert.Equal(t, render.UniformVec3, color.Type())

	_, ok = m.Value("texture")
	assert.False(t, ok, "samplers have no default")

	_, err = registry.NewMaterial("toon")
	assert.ErrorIs(t, err, render.ErrUnknownMaterial)
}

func TestMaterialSet(t *testing.T) {
	registry := render.NewMaterialRegistry()
	render.RegisterBuiltinMaterials(registry)
	m, err := registry.NewMaterial(render.MaterialBasic)
	require.NoError(t, err)

	require.NoError(t, m.Set("color", render.Vec3Uniform(geom.V3(1, 0, 0))))
	assert.ErrorIs(t, m.Set("color", render.FloatUniform(1)), render.ErrPropertyType)
	assert.ErrorIs(t, m.Set("roughness", render.FloatUniform(1)), render.ErrUnknownProperty)

	other, err := registry.NewMaterial(render.MaterialBasic)
	require.NoError(t, err)
	color, _ := other.Value("color")
	assert.Equal(t, geom.V3(0.8, 0.8, 0.8), color.Vec3(), "values are per instance")

	clone := m.Clone()
	require.NoError(t, clone.Set("color", render.Vec3Uniform(geom.V3(0, 1, 0))))
	color, _ = m.Value("color")
	assert.Equal(t, geom.V3(1, 0, 0), color.Vec3())
	assert.Same(t, m.Schema(), clone.Schema())
}

func TestGeometry(t *testing.T) {
	g := render.NewGeometry([]float32{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		0, 0, 1, 1, 0, 1, 0, 1, 1,
	}, nil, nil)

	assert.Equal(t, 6, g.VertexCount())
	assert.Equal(t, 2, g.TriangleCount())
	assert.True(t, g.NeedsUpload(render.AttribPosition))
	assert.False(t, g.NeedsUpload(render.AttribNormal))

	a, b, c := g.Triangle(1)
	assert.Equal(t, geom.V3(0, 0, 1), a)
	assert.Equal(t, geom.V3(1, 0, 1), b)
	assert.Equal(t, geom.V3(0, 1, 1), c)

	clone := g.Clone()
	clone.Vertices()[0] = 9
	assert.Equal(t, float32(0), g.Vertices()[0])
}

func TestRenderableObjectClone(t *testing.T) {
	registry := render.NewMaterialRegistry()
	render.RegisterBuiltinMaterials(registry)
	m, err := registry.NewMaterial(render.MaterialUnlit)
	require.NoError(t, err)

	local := geom.Scaling(geom.V3(2, 2, 2))
	obj := &render.RenderableObject{
		Geometry:    render.NewGeometry([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, nil),
		Material:    m,
		LocalMatrix: &local,
	}

	clone := obj.Clone()
	assert.Same(t, obj.Geometry, clone.Geometry)
	assert.NotSame(t, obj.Material, clone.Material)
	assert.NotSame(t, obj.LocalMatrix, clone.LocalMatrix)

	world := geom.Translation(geom.V3(1, 0, 0))
	model := obj.ModelMatrix(world)
	assert.True(t, model.TransformPoint(geom.V3(1, 0, 0)).ApproxEqual(geom.V3(3, 0, 0), 1e-6))
}
