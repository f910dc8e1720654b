package ecs_test

import (
	"strings"
	"testing"

	"github.com/plus3/ember3d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityGeneratesUniqueIds(t *testing.T) {
	a := ecs.NewEntity()
	b := ecs.NewEntity()

	assert.True(t, strings.HasPrefix(a.Id(), "entity-instance-"))
	assert.NotEqual(t, a.Id(), b.Id())

	named := ecs.NewEntity("camera")
	assert.Equal(t, "camera", named.Id())
	assert.Nil(t, named.Engine())
}

func TestEntityComponents(t *testing.T) {
	e := ecs.NewEntity()

	require.NoError(t, e.AddComponent(&Position{X: 3, Y: 4}))
	require.NoError(t, e.AddComponent(&Velocity{DX: 1}))

	pos, err := ecs.Get[*Position](e)
	require.NoError(t, err)
	assert.Equal(t, float32(3), pos.X)
	assert.Equal(t, float32(4), pos.Y)

	_, err = ecs.Get[*Health](e)
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)

	_, err = e.Component("Health")
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)

	assert.True(t, e.HasComponent("Position"))
	assert.True(t, e.HasComponents([]ecs.ComponentType{"Position", "Velocity"}))
	assert.False(t, e.HasComponents([]ecs.ComponentType{"Position", "Health"}))
	assert.Equal(t, []ecs.ComponentType{"Position", "Velocity"}, e.ComponentTypes())
}

func TestEntityAddComponentTwice(t *testing.T) {
	e := ecs.NewEntity()
	first := &Position{X: 1}
	require.NoError(t, e.AddComponent(first))

	err := e.AddComponent(&Position{X: 2})
	assert.ErrorIs(t, err, ecs.ErrComponentAlreadyExists)

	// the original component is untouched
	pos := ecs.MustGet[*Position](e)
	assert.Same(t, first, pos)
	assert.Len(t, e.Components(), 1)
}

func TestEntityRemoveComponent(t *testing.T) {
	e := ecs.NewEntity()
	require.NoError(t, e.AddComponent(&Position{}))
	require.NoError(t, e.AddComponent(&Velocity{}))
	require.NoError(t, e.AddComponent(&Health{}))

	require.NoError(t, e.RemoveComponent("Velocity"))
	assert.Equal(t, []ecs.ComponentType{"Position", "Health"}, e.ComponentTypes())

	err := e.RemoveComponent("Velocity")
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)
}

func TestEntityUse(t *testing.T) {
	e := ecs.NewEntity()

	created := ecs.Use(e, func() *Health { return &Health{Current: 5, Max: 10} })
	assert.Equal(t, 5, created.Current)

	again := ecs.Use(e, func() *Health { return &Health{Current: 99} })
	assert.Same(t, created, again)
}

func TestEntitySetId(t *testing.T) {
	e := ecs.NewEntity("a")
	require.NoError(t, e.SetId("b"))
	assert.Equal(t, "b", e.Id())

	engine := ecs.NewEngine()
	require.NoError(t, engine.AddEntity(e))
	assert.Error(t, e.SetId("c"))
	assert.Equal(t, "b", e.Id())
}

func TestEntityClone(t *testing.T) {
	e := ecs.NewEntity("original")
	require.NoError(t, e.AddComponent(&Position{X: 1, Y: 2}))
	require.NoError(t, e.AddComponent(&Inventory{Items: []string{"sword"}}))

	clone := e.Clone("copy")
	assert.Equal(t, "copy", clone.Id())
	assert.Equal(t, e.ComponentTypes(), clone.ComponentTypes())

	ecs.MustGet[*Position](clone).X = 10
	ecs.MustGet[*Inventory](clone).Items[0] = "shield"

	assert.Equal(t, float32(1), ecs.MustGet[*Position](e).X)
	assert.Equal(t, "sword", ecs.MustGet[*Inventory](e).Items[0])

	anonymous := e.Clone()
	assert.NotEqual(t, e.Id(), anonymous.Id())
}

func TestEntityMountCallbacks(t *testing.T) {
	engine := ecs.NewEngine()
	tracked := &Tracked{}

	e := ecs.NewEntity()
	require.NoError(t, e.AddComponent(tracked))
	assert.Equal(t, 0, tracked.Mounted, "detached entities don't mount")

	require.NoError(t, engine.AddEntity(e))
	assert.Equal(t, 1, tracked.Mounted)

	require.NoError(t, engine.RemoveEntity(e))
	assert.Equal(t, 1, tracked.Unmounted)

	require.NoError(t, engine.AddEntity(e))
	require.NoError(t, e.RemoveComponent("Tracked"))
	assert.Equal(t, 2, tracked.Mounted)
	assert.Equal(t, 2, tracked.Unmounted)

	other := &Tracked{}
	require.NoError(t, e.AddComponent(other))
	assert.Equal(t, 1, other.Mounted)
}
