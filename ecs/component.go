package ecs

// ComponentType tags a kind of component. It is used for lookup and family
// matching, never for dispatch.
type ComponentType string

// Component is a plain data bag owned by exactly one entity.
// ComponentType must not dereference the receiver, so that it can be called on
// a nil pointer of the concrete type.
type Component interface {
	ComponentType() ComponentType

	// Clone returns a value copy that shares no mutable state with the receiver
	Clone() Component
}

// Mounter is implemented by components that need to know when their entity
// becomes part of an engine.
type Mounter interface {
	OnMount(e *Entity)
}

// Unmounter is implemented by components that need to release resources when
// they are detached or their entity is removed from the engine.
type Unmounter interface {
	OnUnmount(e *Entity)
}

// Field is one serializable field of a component. Value must be a pointer to the
// field so that it can be both read and written.
type Field struct {
	Name  string
	Value any
}

// FieldSource is implemented by components that expose their fields for
// serialization and editing.
type FieldSource interface {
	Fields() []Field
}

// FieldsLoader is notified after fields have been written from the outside
// (scene loading, editor input), e.g. to invalidate caches.
type FieldsLoader interface {
	FieldsLoaded()
}
