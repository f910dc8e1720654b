package ecs

import (
	"fmt"
	"slices"
)

// WidgetKind selects the editor widget used for an editable field.
type WidgetKind int

const (
	WidgetNumber WidgetKind = iota
	WidgetVector3
	WidgetCheckbox
	WidgetText
	WidgetColor
)

func (w WidgetKind) String() string {
	switch w {
	case WidgetNumber:
		return "number"
	case WidgetVector3:
		return "vector3"
	case WidgetCheckbox:
		return "checkbox"
	case WidgetText:
		return "text"
	case WidgetColor:
		return "color"
	default:
		return fmt.Sprintf("WidgetKind(%d)", int(w))
	}
}

// EditableField describes a component field the editor may change.
type EditableField struct {
	Name   string
	Widget WidgetKind
}

// ComponentRegistry manages component type registration for an ECS instance.
// It maps type tags to factories (used when loading scenes and by the editor's
// "add component" menu) and holds the static table of editable fields.
type ComponentRegistry struct {
	factories map[ComponentType]func() Component
	order     []ComponentType
	editable  map[ComponentType][]EditableField
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[ComponentType]func() Component),
		editable:  make(map[ComponentType][]EditableField),
	}
}

// RegisterComponent registers a factory for the given component type.
// Registering the same type twice replaces the factory.
func (r *ComponentRegistry) RegisterComponent(t ComponentType, factory func() Component) {
	if _, exists := r.factories[t]; !exists {
		r.order = append(r.order, t)
	}
	r.factories[t] = factory
}

// Register is the typed variant of RegisterComponent
func Register[T Component](r *ComponentRegistry, factory func() T) {
	var zero T
	r.RegisterComponent(zero.ComponentType(), func() Component { return factory() })
}

// New creates a default instance of the given component type
func (r *ComponentRegistry) New(t ComponentType) (Component, error) {
	factory, ok := r.factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, t)
	}
	return factory(), nil
}

// Has checks if a factory is registered for the given type
func (r *ComponentRegistry) Has(t ComponentType) bool {
	_, ok := r.factories[t]
	return ok
}

// Types returns all registered component types in registration order
func (r *ComponentRegistry) Types() []ComponentType {
	return slices.Clone(r.order)
}

// RegisterEditableField declares that the named field of t is editable with the given widget.
func (r *ComponentRegistry) RegisterEditableField(t ComponentType, field string, widget WidgetKind) {
	fields := r.editable[t]
	for i := range fields {
		if fields[i].Name == field {
			fields[i].Widget = widget
			return
		}
	}
	r.editable[t] = append(fields, EditableField{Name: field, Widget: widget})
}

// EditableFields returns the editable fields of t in declaration order
func (r *ComponentRegistry) EditableFields(t ComponentType) []EditableField {
	return slices.Clone(r.editable[t])
}
