package render

import (
	"fmt"
	"maps"
	"slices"
)

// PropertySpec maps a semantic material property to a shader variable.
type PropertySpec struct {
	Name     string
	Type     UniformType
	Variable string

	// Toggle names a bool uniform written false when this sampler has no
	// loaded texture
	Toggle string
}

// MaterialSchema is the static description of a material kind: which shader
// set renders it and which properties it writes. A schema is registered once
// per kind and shared by every Material of that kind.
type MaterialSchema struct {
	Shader     string
	Properties []PropertySpec

	// Defaults are copied into every new Material
	Defaults map[string]Uniform
}

// Property looks up a property by its semantic name
func (s *MaterialSchema) Property(name string) (PropertySpec, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySpec{}, false
}

// MaterialRegistry holds the schema of every material kind.
type MaterialRegistry struct {
	schemas map[string]*MaterialSchema
	order   []string
}

func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{
		schemas: make(map[string]*MaterialSchema),
	}
}

// RegisterMaterial registers the schema for kind, replacing an earlier registration.
func (r *MaterialRegistry) RegisterMaterial(kind string, schema MaterialSchema) {
	if _, exists := r.schemas[kind]; !exists {
		r.order = append(r.order, kind)
	}
	schema.Properties = slices.Clone(schema.Properties)
	schema.Defaults = maps.Clone(schema.Defaults)
	r.schemas[kind] = &schema
}

// Schema returns the schema of kind
func (r *MaterialRegistry) Schema(kind string) (*MaterialSchema, bool) {
	s, ok := r.schemas[kind]
	return s, ok
}

// Kinds returns every registered kind in registration order
func (r *MaterialRegistry) Kinds() []string {
	return slices.Clone(r.order)
}

// NewMaterial creates a material of the given kind with the schema's defaults.
func (r *MaterialRegistry) NewMaterial(kind string) (*Material, error) {
	schema, ok := r.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, kind)
	}

	m := &Material{
		kind:   kind,
		schema: schema,
		values: make(map[string]Uniform, len(schema.Properties)),
	}
	maps.Copy(m.values, schema.Defaults)
	return m, nil
}

// Material is an instance of a material kind holding its property values.
type Material struct {
	kind   string
	schema *MaterialSchema
	values map[string]Uniform
}

func (m *Material) Kind() string {
	return m.kind
}

// Shader returns the name of the shader set that renders this material
func (m *Material) Shader() string {
	return m.schema.Shader
}

func (m *Material) Schema() *MaterialSchema {
	return m.schema
}

// Set assigns a property value. The property must be declared by the schema
// with the same type.
func (m *Material) Set(name string, u Uniform) error {
	spec, ok := m.schema.Property(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, m.kind, name)
	}
	if spec.Type != u.Type() {
		return fmt.Errorf("%w: %s.%s is %s, got %s", ErrPropertyType, m.kind, name, spec.Type, u.Type())
	}
	m.values[name] = u
	return nil
}

// Value returns the current value of a property
func (m *Material) Value(name string) (Uniform, bool) {
	u, ok := m.values[name]
	return u, ok
}

// Clone copies the property values; the schema is shared.
func (m *Material) Clone() *Material {
	return &Material{
		kind:   m.kind,
		schema: m.schema,
		values: maps.Clone(m.values),
	}
}
