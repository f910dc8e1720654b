package main

import (
	"math/rand/v2"

	"github.com/plus3/ember3d/ecs"
)

type randSource interface {
	Float64() float64
	IntN(n int) int
}

// spawnRandomEntity builds an entity with 1 to count random component types.
func spawnRandomEntity(rng randSource, count int) *ecs.Entity {
	e := ecs.NewEntity()
	n := rng.IntN(count) + 1
	for _, i := range rand.Perm(len(allTypes))[:min(n, len(allTypes))] {
		e.AddComponent(newComponent(allTypes[i], rng))
	}
	return e
}

type movementSystem struct {
	family *ecs.Family
}

func (s *movementSystem) OnAttach(engine *ecs.Engine) {
	s.family = engine.Family(positionType, velocityType)
}

func (s *movementSystem) Update(frame *ecs.UpdateFrame) {
	for _, e := range s.family.Entities() {
		p := ecs.MustGet[*Position](e)
		v := ecs.MustGet[*Velocity](e)
		p.X += v.X * frame.DeltaTime
		p.Y += v.Y * frame.DeltaTime
		p.Z += v.Z * frame.DeltaTime
	}
}

// heatSystem adds and removes Heat, moving entities between families.
type heatSystem struct {
	family *ecs.Family
	rng    randSource
}

func (s *heatSystem) OnAttach(engine *ecs.Engine) {
	s.family = engine.Family(healthType)
}

func (s *heatSystem) Update(frame *ecs.UpdateFrame) {
	for _, e := range s.family.Entities() {
		if s.rng.IntN(100) != 0 {
			continue
		}
		if e.HasComponent(heatType) {
			frame.Commands.RemoveComponent(e, heatType)
		} else {
			frame.Commands.AddComponent(e, &Heat{Level: s.rng.Float64()})
		}
	}
}

// lifetimeSystem removes expired entities and respawns a replacement for each.
type lifetimeSystem struct {
	family  *ecs.Family
	rng     randSource
	removed int64
}

func (s *lifetimeSystem) OnAttach(engine *ecs.Engine) {
	s.family = engine.Family(lifetimeType)
}

func (s *lifetimeSystem) Update(frame *ecs.UpdateFrame) {
	for _, e := range s.family.Entities() {
		l := ecs.MustGet[*Lifetime](e)
		l.Remaining -= frame.DeltaTime
		if l.Remaining < 0 {
			frame.Commands.Remove(e)
			frame.Commands.Spawn(spawnRandomEntity(s.rng, 5))
			s.removed++
		}
	}
}

// readerSystem walks one family combination without writing.
type readerSystem struct {
	types  []ecs.ComponentType
	family *ecs.Family
	sum    int
}

func (s *readerSystem) OnAttach(engine *ecs.Engine) {
	s.family = engine.Family(s.types...)
}

func (s *readerSystem) Update(*ecs.UpdateFrame) {
	for _, e := range s.family.Entities() {
		s.sum += len(e.ComponentTypes())
	}
}

// readerSystems returns one reader per pair of component types.
func readerSystems() []ecs.System {
	var systems []ecs.System
	for i := range allTypes {
		for j := i + 1; j < len(allTypes); j++ {
			systems = append(systems, &readerSystem{types: []ecs.ComponentType{allTypes[i], allTypes[j]}})
		}
	}
	return systems
}
