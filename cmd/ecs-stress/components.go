package main

import "github.com/plus3/ember3d/ecs"

const (
	positionType ecs.ComponentType = "Position"
	velocityType ecs.ComponentType = "Velocity"
	healthType   ecs.ComponentType = "Health"
	lifetimeType ecs.ComponentType = "Lifetime"
	heatType     ecs.ComponentType = "Heat"
)

type Position struct{ X, Y, Z float64 }

func (*Position) ComponentType() ecs.ComponentType { return positionType }
func (p *Position) Clone() ecs.Component           { c := *p; return &c }

type Velocity struct{ X, Y, Z float64 }

func (*Velocity) ComponentType() ecs.ComponentType { return velocityType }
func (v *Velocity) Clone() ecs.Component           { c := *v; return &c }

type Health struct{ Value float64 }

func (*Health) ComponentType() ecs.ComponentType { return healthType }
func (h *Health) Clone() ecs.Component           { c := *h; return &c }

// Lifetime removes its entity once Remaining drops below zero
type Lifetime struct{ Remaining float64 }

func (*Lifetime) ComponentType() ecs.ComponentType { return lifetimeType }
func (l *Lifetime) Clone() ecs.Component           { c := *l; return &c }

// Heat is toggled on and off to churn family membership
type Heat struct{ Level float64 }

func (*Heat) ComponentType() ecs.ComponentType { return heatType }
func (h *Heat) Clone() ecs.Component           { c := *h; return &c }

var allTypes = []ecs.ComponentType{positionType, velocityType, healthType, lifetimeType, heatType}

func newComponent(t ecs.ComponentType, rng randSource) ecs.Component {
	switch t {
	case positionType:
		return &Position{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	case velocityType:
		return &Velocity{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5, Z: rng.Float64() - 0.5}
	case healthType:
		return &Health{Value: 100}
	case lifetimeType:
		return &Lifetime{Remaining: 0.5 + rng.Float64()*5}
	default:
		return &Heat{Level: rng.Float64()}
	}
}
