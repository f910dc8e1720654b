package ecs_test

import "github.com/plus3/ember3d/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

func (*Position) ComponentType() ecs.ComponentType { return "Position" }
func (p *Position) Clone() ecs.Component {
	c := *p
	return &c
}

type Velocity struct {
	DX, DY float32
}

func (*Velocity) ComponentType() ecs.ComponentType { return "Velocity" }
func (v *Velocity) Clone() ecs.Component {
	c := *v
	return &c
}

type Health struct {
	Current int
	Max     int
}

func (*Health) ComponentType() ecs.ComponentType { return "Health" }
func (h *Health) Clone() ecs.Component {
	c := *h
	return &c
}

type Inventory struct {
	Items []string
}

func (*Inventory) ComponentType() ecs.ComponentType { return "Inventory" }
func (i *Inventory) Clone() ecs.Component {
	return &Inventory{Items: append([]string(nil), i.Items...)}
}

// Tracked records mount callbacks
type Tracked struct {
	Mounted   int
	Unmounted int
}

func (*Tracked) ComponentType() ecs.ComponentType { return "Tracked" }
func (t *Tracked) Clone() ecs.Component           { return &Tracked{} }
func (t *Tracked) OnMount(*ecs.Entity)            { t.Mounted++ }
func (t *Tracked) OnUnmount(*ecs.Entity)          { t.Unmounted++ }

var allTestTypes = []ecs.ComponentType{"Position", "Velocity", "Health", "Inventory"}

func newTestComponent(t ecs.ComponentType) ecs.Component {
	switch t {
	case "Position":
		return &Position{}
	case "Velocity":
		return &Velocity{}
	case "Health":
		return &Health{Current: 100, Max: 100}
	case "Inventory":
		return &Inventory{}
	}
	panic("unknown test component " + string(t))
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.Register(registry, func() *Position { return &Position{} })
	ecs.Register(registry, func() *Velocity { return &Velocity{} })
	ecs.Register(registry, func() *Health { return &Health{Current: 100, Max: 100} })
	ecs.Register(registry, func() *Inventory { return &Inventory{} })
	return registry
}
