package ecs

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

var entityCounter atomic.Uint64

// Entity is a unique id that owns at most one component per ComponentType.
// An entity can be built while detached and later added to an Engine; from then
// on every component change is reported to the engine's families.
type Entity struct {
	id     string
	handle uint32
	engine *Engine

	components map[ComponentType]Component
	order      []ComponentType
}

// NewEntity creates a detached entity. Without an explicit id a process-unique
// id of the form "entity-instance-<n>" is generated.
func NewEntity(id ...string) *Entity {
	var entityId string
	if len(id) > 0 && id[0] != "" {
		entityId = id[0]
	} else {
		entityId = "entity-instance-" + strconv.FormatUint(entityCounter.Add(1), 10)
	}

	return &Entity{
		id:         entityId,
		components: make(map[ComponentType]Component),
	}
}

// Id returns the entity's identifier
func (e *Entity) Id() string {
	return e.id
}

// Engine returns the engine the entity belongs to, or nil while detached
func (e *Entity) Engine() *Engine {
	return e.engine
}

// Handle returns the engine-assigned handle, or 0 while detached. Handles are
// not reused within an engine.
func (e *Entity) Handle() uint32 {
	return e.handle
}

// SetId changes the id of a detached entity. Ids are immutable once the entity
// has been added to an engine.
func (e *Entity) SetId(id string) error {
	if e.engine != nil {
		return fmt.Errorf("entity %q: id cannot change while attached to an engine", e.id)
	}
	e.id = id
	return nil
}

// AddComponent attaches the component, rejecting a second component of the same type
func (e *Entity) AddComponent(c Component) error {
	if c == nil {
		panic("cannot add nil component")
	}

	t := c.ComponentType()
	if _, exists := e.components[t]; exists {
		return fmt.Errorf("%w: %s on entity %q", ErrComponentAlreadyExists, t, e.id)
	}

	e.components[t] = c
	e.order = append(e.order, t)

	if e.engine != nil {
		e.engine.componentAdded(e, c)
	}
	return nil
}

// Component returns the component of the given type
func (e *Entity) Component(t ComponentType) (Component, error) {
	c, ok := e.components[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s on entity %q", ErrComponentNotFound, t, e.id)
	}
	return c, nil
}

// HasComponent checks if the entity has a component of the given type
func (e *Entity) HasComponent(t ComponentType) bool {
	_, ok := e.components[t]
	return ok
}

// HasComponents checks if the entity has every one of the given types
func (e *Entity) HasComponents(types []ComponentType) bool {
	for _, t := range types {
		if _, ok := e.components[t]; !ok {
			return false
		}
	}
	return true
}

// RemoveComponent detaches the component of the given type.
func (e *Entity) RemoveComponent(t ComponentType) error {
	c, ok := e.components[t]
	if !ok {
		return fmt.Errorf("%w: %s on entity %q", ErrComponentNotFound, t, e.id)
	}

	delete(e.components, t)
	for i, ot := range e.order {
		if ot == t {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	if e.engine != nil {
		e.engine.componentRemoved(e, c)
	}
	return nil
}

// Components lists the entity's components in insertion order
func (e *Entity) Components() []Component {
	result := make([]Component, 0, len(e.order))
	for _, t := range e.order {
		result = append(result, e.components[t])
	}
	return result
}

// ComponentTypes lists the entity's component types in insertion order
func (e *Entity) ComponentTypes() []ComponentType {
	return append([]ComponentType(nil), e.order...)
}

// Clone returns a detached deep copy of the entity. Component state is copied
// through each component's Clone method; GPU resources are never shared.
func (e *Entity) Clone(id ...string) *Entity {
	clone := NewEntity(id...)
	for _, t := range e.order {
		clone.components[t] = e.components[t].Clone()
		clone.order = append(clone.order, t)
	}
	return clone
}

// String implements fmt.Stringer
func (e *Entity) String() string {
	return "Entity(" + e.id + ")"
}

// Get returns the component of the type T.
func Get[T Component](e *Entity) (T, error) {
	var zero T
	c, err := e.Component(zero.ComponentType())
	if err != nil {
		return zero, err
	}

	typed, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s on entity %q has Go type %T", ErrComponentNotFound, zero.ComponentType(), e.id, c)
	}
	return typed, nil
}

// MustGet is like Get but panics when the component is missing.
func MustGet[T Component](e *Entity) T {
	c, err := Get[T](e)
	if err != nil {
		panic(err)
	}
	return c
}

// Use returns the component of type T, creating it with factory if the entity
// doesn't have one yet. This is the get-or-create used while authoring scenes.
func Use[T Component](e *Entity, factory func() T) T {
	var zero T
	if c, ok := e.components[zero.ComponentType()]; ok {
		return c.(T)
	}

	c := factory()
	if err := e.AddComponent(c); err != nil {
		panic(err)
	}
	return c
}
