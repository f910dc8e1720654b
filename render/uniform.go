package render

import (
	"fmt"

	"github.com/plus3/ember3d/geom"
)

// UniformType is the semantic type of a material property.
type UniformType int

const (
	UniformBool UniformType = iota
	UniformFloat
	UniformVec3
	UniformVec4
	UniformMat4
	UniformSampler2D
)

var uniformTypeNames = map[UniformType]string{
	UniformBool:      "bool",
	UniformFloat:     "float",
	UniformVec3:      "vec3",
	UniformVec4:      "vec4",
	UniformMat4:      "mat4",
	UniformSampler2D: "sampler2D",
}

func (t UniformType) String() string {
	if name, ok := uniformTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UniformType(%d)", int(t))
}

// Valid reports whether t is one of the supported types
func (t UniformType) Valid() bool {
	_, ok := uniformTypeNames[t]
	return ok
}

// ParseUniformType maps a type name such as "vec3" to its UniformType.
func ParseUniformType(name string) (UniformType, error) {
	for t, n := range uniformTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedUniformType, name)
}

// Uniform is a tagged value written to a shader uniform. Only the payload
// matching Type is meaningful.
type Uniform struct {
	typ     UniformType
	data    [16]float32
	flag    bool
	texture string
}

// BoolUniform returns a bool uniform
func BoolUniform(b bool) Uniform {
	return Uniform{typ: UniformBool, flag: b}
}

// FloatUniform returns a float uniform
func FloatUniform(f float32) Uniform {
	u := Uniform{typ: UniformFloat}
	u.data[0] = f
	return u
}

// Vec3Uniform returns a vec3 uniform
func Vec3Uniform(v geom.Vec3) Uniform {
	u := Uniform{typ: UniformVec3}
	u.data[0], u.data[1], u.data[2] = v.X, v.Y, v.Z
	return u
}

// Vec4Uniform returns a vec4 uniform
func Vec4Uniform(v geom.Vec4) Uniform {
	u := Uniform{typ: UniformVec4}
	u.data[0], u.data[1], u.data[2], u.data[3] = v.X, v.Y, v.Z, v.W
	return u
}

// Mat4Uniform returns a mat4 uniform
func Mat4Uniform(m geom.Mat4) Uniform {
	return Uniform{typ: UniformMat4, data: m}
}

// SamplerUniform references a texture by its asset name. The texture is
// resolved when the uniform is written.
func SamplerUniform(texture string) Uniform {
	return Uniform{typ: UniformSampler2D, texture: texture}
}

// Type returns the uniform's type tag
func (u Uniform) Type() UniformType {
	return u.typ
}

func (u Uniform) Bool() bool {
	return u.flag
}

func (u Uniform) Float() float32 {
	return u.data[0]
}

func (u Uniform) Vec3() geom.Vec3 {
	return geom.V3(u.data[0], u.data[1], u.data[2])
}

func (u Uniform) Vec4() geom.Vec4 {
	return geom.V4(u.data[0], u.data[1], u.data[2], u.data[3])
}

func (u Uniform) Mat4() geom.Mat4 {
	return u.data
}

// Texture returns the texture name of a sampler uniform
func (u Uniform) Texture() string {
	return u.texture
}

// Floats returns the numeric payload sized for the type; nil for bool and sampler.
func (u Uniform) Floats() []float32 {
	switch u.typ {
	case UniformFloat:
		return u.data[:1]
	case UniformVec3:
		return u.data[:3]
	case UniformVec4:
		return u.data[:4]
	case UniformMat4:
		return u.data[:]
	}
	return nil
}

func (u Uniform) String() string {
	switch u.typ {
	case UniformBool:
		return fmt.Sprintf("bool(%t)", u.flag)
	case UniformSampler2D:
		return fmt.Sprintf("sampler2D(%q)", u.texture)
	}
	return fmt.Sprintf("%s%v", u.typ, u.Floats())
}
