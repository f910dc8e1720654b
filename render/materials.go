package render

import "github.com/plus3/ember3d/geom"

// Built-in material kinds
const (
	MaterialBasic = "basic"
	MaterialUnlit = "unlit"
)

// RegisterBuiltinMaterials registers the material kinds every scene can use.
func RegisterBuiltinMaterials(r *MaterialRegistry) {
	r.RegisterMaterial(MaterialBasic, MaterialSchema{
		Shader: "basic",
		Properties: []PropertySpec{
			{Name: "color", Type: UniformVec3, Variable: "uColor"},
			{Name: "shininess", Type: UniformFloat, Variable: "uShininess"},
			{Name: "useTexture", Type: UniformBool, Variable: "uUseTexture"},
			{Name: "texture", Type: UniformSampler2D, Variable: "uTexture", Toggle: "uUseTexture"},
		},
		Defaults: map[string]Uniform{
			"color":      Vec3Uniform(geom.V3(0.8, 0.8, 0.8)),
			"shininess":  FloatUniform(16),
			"useTexture": BoolUniform(false),
		},
	})

	r.RegisterMaterial(MaterialUnlit, MaterialSchema{
		Shader: "unlit",
		Properties: []PropertySpec{
			{Name: "color", Type: UniformVec4, Variable: "uColor"},
		},
		Defaults: map[string]Uniform{
			"color": Vec4Uniform(geom.V4(1, 1, 1, 1)),
		},
	})
}
