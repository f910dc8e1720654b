package ecs_test

import (
	"testing"

	"github.com/plus3/ember3d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Despawner removes every entity with Health at or below zero
type Despawner struct {
	living *ecs.Family
}

func (s *Despawner) OnAttach(engine *ecs.Engine) {
	s.living = engine.Family("Health")
}

func (s *Despawner) Update(frame *ecs.UpdateFrame) {
	for _, e := range s.living.Entities() {
		if ecs.MustGet[*Health](e).Current <= 0 {
			frame.Commands.Remove(e)
		}
	}
}

func TestCommandsDeferRemovalUntilEndOfTick(t *testing.T) {
	engine := ecs.NewEngine()
	scheduler := ecs.NewScheduler(engine)
	scheduler.AddSystem(&Despawner{})

	counted := -1
	scheduler.AddSystem(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		counted = frame.Engine.Len()
	}))

	for i := range 4 {
		_, err := engine.Spawn(&Health{Current: i % 2})
		require.NoError(t, err)
	}

	scheduler.Tick(0.016)

	assert.Equal(t, 4, counted, "removals are not visible during the tick")
	assert.Equal(t, 2, engine.Len())
}

func TestCommandsFlush(t *testing.T) {
	engine := ecs.NewEngine()
	scheduler := ecs.NewScheduler(engine)

	a, err := engine.Spawn(&Position{})
	require.NoError(t, err)
	b, err := engine.Spawn(&Position{})
	require.NoError(t, err)

	spawned := ecs.NewEntity("spawned")
	var deferred []string

	scheduler.AddSystem(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		if frame.Frame != 1 {
			return
		}
		frame.Commands.Spawn(spawned)
		frame.Commands.AddComponent(a, &Velocity{DX: 1})
		frame.Commands.RemoveComponent(a, "Position")
		frame.Commands.Remove(b)
		frame.Commands.AddComponent(b, &Velocity{})
		frame.Commands.Defer(func() { deferred = append(deferred, "ran") })
		assert.Equal(t, 6, frame.Commands.Len())
	}))

	scheduler.Tick(0.016)

	assert.Equal(t, []*ecs.Entity{a, spawned}, engine.Entities())
	assert.Equal(t, []ecs.ComponentType{"Velocity"}, a.ComponentTypes())
	assert.False(t, b.HasComponent("Velocity"), "commands for removed entities are dropped")
	assert.Equal(t, []string{"ran"}, deferred)

	scheduler.Tick(0.016)
	assert.Equal(t, []string{"ran"}, deferred, "buffer is reset after flush")
}

func TestCommandsFailuresAreSkipped(t *testing.T) {
	engine := ecs.NewEngine()
	e, err := engine.Spawn(&Position{})
	require.NoError(t, err)

	scheduler := ecs.NewScheduler(engine)
	scheduler.AddSystem(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		if frame.Frame != 1 {
			return
		}
		frame.Commands.AddComponent(e, &Position{})
		frame.Commands.Spawn(ecs.NewEntity(e.Id()))
		frame.Commands.AddComponent(e, &Velocity{})
	}))

	scheduler.Tick(0.016)

	assert.Equal(t, 1, engine.Len())
	assert.True(t, e.HasComponent("Velocity"))
}
