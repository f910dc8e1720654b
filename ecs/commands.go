package ecs

import (
	"go.uber.org/zap"
)

// Commands provides a buffer for deferred engine operations that are executed at the end of a frame.
// Use it to change structure while iterating a family, whose member slice would
// otherwise be reordered underneath the loop.
type Commands struct {
	spawns  []*Entity
	removes []*Entity
	adds    []addComponentCommand
	drops   []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type addComponentCommand struct {
	entity    *Entity
	component Component
}

type removeComponentCommand struct {
	entity   *Entity
	compType ComponentType
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues adding the entity to the engine.
func (c *Commands) Spawn(e *Entity) {
	c.spawns = append(c.spawns, e)
}

// Remove queues an entity removal.
func (c *Commands) Remove(e *Entity) {
	c.removes = append(c.removes, e)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(e *Entity, component Component) {
	c.adds = append(c.adds, addComponentCommand{entity: e, component: component})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(e *Entity, compType ComponentType) {
	c.drops = append(c.drops, removeComponentCommand{entity: e, compType: compType})
}

// Len returns the number of queued operations
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.removes) + len(c.adds) + len(c.drops) + len(c.defers)
}

// Flush applies all commands to the engine, resetting the buffer state.
// Failing operations are logged and skipped.
func (c *Commands) Flush(engine *Engine) {
	removed := make(map[*Entity]bool, len(c.removes))

	for _, e := range c.removes {
		if err := engine.RemoveEntity(e); err != nil {
			engine.logger.Warn("Deferred entity removal failed", zap.Error(err))
		}
		removed[e] = true
	}

	for _, cmd := range c.drops {
		if removed[cmd.entity] {
			continue
		}
		if err := cmd.entity.RemoveComponent(cmd.compType); err != nil {
			engine.logger.Warn("Deferred component removal failed", zap.Error(err))
		}
	}

	for _, cmd := range c.adds {
		if removed[cmd.entity] {
			continue
		}
		if err := cmd.entity.AddComponent(cmd.component); err != nil {
			engine.logger.Warn("Deferred component add failed", zap.Error(err))
		}
	}

	for _, e := range c.spawns {
		if err := engine.AddEntity(e); err != nil {
			engine.logger.Warn("Deferred spawn failed", zap.Error(err))
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	clear(c.removes)
	clear(c.adds)
	clear(c.drops)
	clear(c.defers)

	c.spawns = c.spawns[:0]
	c.removes = c.removes[:0]
	c.adds = c.adds[:0]
	c.drops = c.drops[:0]
	c.defers = c.defers[:0]
}
