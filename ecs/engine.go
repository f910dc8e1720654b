package ecs

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Engine owns the ordered entity list, the live families and the change feed.
// It is not safe for concurrent use: all mutation happens on the frame thread.
// Other goroutines must hand work over through Commands or a channel.
type Engine struct {
	logger   *zap.Logger
	registry *ComponentRegistry

	entities   []*Entity
	byId       map[string]*Entity
	nextHandle uint32

	families   map[string]*Family
	familyList []*Family

	subscribers      []subscriber
	nextSubscriberId uint64

	selected *Entity
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used by the engine
func WithLogger(logger *zap.Logger) Option {
	return func(en *Engine) {
		if logger != nil {
			en.logger = logger
		}
	}
}

// WithRegistry sets the component registry used to create components by name
func WithRegistry(registry *ComponentRegistry) Option {
	return func(en *Engine) {
		if registry != nil {
			en.registry = registry
		}
	}
}

// NewEngine creates an empty engine
func NewEngine(opts ...Option) *Engine {
	en := &Engine{
		logger:   zap.NewNop(),
		registry: NewComponentRegistry(),
		byId:     make(map[string]*Entity),
		families: make(map[string]*Family),
	}

	for _, opt := range opts {
		opt(en)
	}

	return en
}

// Logger returns the engine's logger
func (en *Engine) Logger() *zap.Logger {
	return en.logger
}

// Registry returns the engine's component registry
func (en *Engine) Registry() *ComponentRegistry {
	return en.registry
}

// Entities returns the engine's entities in order. The returned slice must not be modified.
func (en *Engine) Entities() []*Entity {
	return en.entities
}

// Len returns the number of entities
func (en *Engine) Len() int {
	return len(en.entities)
}

// EntityById looks up an entity by its id
func (en *Engine) EntityById(id string) (*Entity, bool) {
	e, ok := en.byId[id]
	return e, ok
}

// IndexOf returns the position of the entity in the engine, or -1
func (en *Engine) IndexOf(e *Entity) int {
	if e == nil || e.engine != en {
		return -1
	}
	return slices.Index(en.entities, e)
}

// AddEntity appends the entity. It fails with ErrEntityIdConflict without
// changing any state if an entity with the same id is already present.
func (en *Engine) AddEntity(e *Entity) error {
	return en.InsertEntityAt(e, len(en.entities))
}

// InsertEntityAt inserts the entity at the given position, which is clamped to
// the valid range. Used to undo a removal at the original position.
func (en *Engine) InsertEntityAt(e *Entity, index int) error {
	if e == nil {
		panic("cannot add nil entity")
	}

	if e.engine != nil {
		return fmt.Errorf("entity %q already belongs to an engine", e.id)
	}

	if _, exists := en.byId[e.id]; exists {
		return fmt.Errorf("%w: %q", ErrEntityIdConflict, e.id)
	}

	index = max(0, min(index, len(en.entities)))

	en.nextHandle++
	e.handle = en.nextHandle
	e.engine = en

	en.entities = slices.Insert(en.entities, index, e)
	en.byId[e.id] = e

	for _, family := range en.familyList {
		family.check(e)
	}

	for _, c := range e.Components() {
		if m, ok := c.(Mounter); ok {
			m.OnMount(e)
		}
	}

	en.logger.Debug("Entity added",
		zap.String("entity", e.id),
		zap.Int("index", index))

	en.emit(Event{Kind: EntityAdded, Entity: e, Index: index})
	return nil
}

// RemoveEntity removes the entity from the engine and from every family, and
// unmounts its components. The entity keeps its components and may be added again.
func (en *Engine) RemoveEntity(e *Entity) error {
	if e == nil || e.engine != en {
		id := "<nil>"
		if e != nil {
			id = e.id
		}
		return fmt.Errorf("%w: %q", ErrEntityNotFound, id)
	}

	index := slices.Index(en.entities, e)
	en.entities = slices.Delete(en.entities, index, index+1)
	delete(en.byId, e.id)

	for _, family := range en.familyList {
		family.remove(e)
	}

	for _, c := range e.Components() {
		if u, ok := c.(Unmounter); ok {
			u.OnUnmount(e)
		}
	}

	if en.selected == e {
		en.Select(nil)
	}

	e.engine = nil
	e.handle = 0

	en.logger.Debug("Entity removed",
		zap.String("entity", e.id),
		zap.Int("index", index))

	en.emit(Event{Kind: EntityRemoved, Entity: e, Index: index})
	return nil
}

// RemoveEntityById removes the entity with the given id
func (en *Engine) RemoveEntityById(id string) (*Entity, error) {
	e, ok := en.byId[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntityNotFound, id)
	}
	return e, en.RemoveEntity(e)
}

// Clear removes all entities, last to first
func (en *Engine) Clear() {
	for len(en.entities) > 0 {
		_ = en.RemoveEntity(en.entities[len(en.entities)-1])
	}
}

// Spawn creates a new entity with the given components and adds it to the engine.
func (en *Engine) Spawn(components ...Component) (*Entity, error) {
	e := NewEntity()
	for _, c := range components {
		if err := e.AddComponent(c); err != nil {
			return nil, err
		}
	}

	if err := en.AddEntity(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Select changes the current selection and notifies subscribers when it changed.
func (en *Engine) Select(e *Entity) {
	if e != nil && e.engine != en {
		return
	}

	if en.selected == e {
		return
	}

	previous := en.selected
	en.selected = e
	en.emit(Event{Kind: SelectionChanged, Entity: e, Previous: previous})
}

// Selected returns the currently selected entity, or nil
func (en *Engine) Selected() *Entity {
	return en.selected
}

func (en *Engine) componentAdded(e *Entity, c Component) {
	for _, family := range en.familyList {
		family.check(e)
	}

	if m, ok := c.(Mounter); ok {
		m.OnMount(e)
	}

	en.emit(Event{Kind: ComponentAdded, Entity: e, Component: c.ComponentType(), Index: -1})
}

func (en *Engine) componentRemoved(e *Entity, c Component) {
	for _, family := range en.familyList {
		family.check(e)
	}

	if u, ok := c.(Unmounter); ok {
		u.OnUnmount(e)
	}

	en.emit(Event{Kind: ComponentRemoved, Entity: e, Component: c.ComponentType(), Index: -1})
}
