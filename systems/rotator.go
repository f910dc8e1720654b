package systems

import (
	"github.com/chewxy/math32"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/scene"
)

type spin struct {
	base  geom.Quat
	angle float32
}

// RotatorSystem spins Rotator entities. Each entity's angle is accumulated
// and applied on top of the rotation it had when first seen.
type RotatorSystem struct {
	family *ecs.Family
	spins  map[*ecs.Entity]*spin
	cancel func()
}

func NewRotatorSystem() *RotatorSystem {
	return &RotatorSystem{spins: make(map[*ecs.Entity]*spin)}
}

func (s *RotatorSystem) OnAttach(engine *ecs.Engine) {
	s.family = engine.Family(scene.RotatorType, scene.TransformType)
	s.cancel = engine.Subscribe(func(ev ecs.Event) {
		switch {
		case ev.Kind == ecs.EntityRemoved,
			ev.Kind == ecs.ComponentRemoved && ev.Component == scene.RotatorType:
			delete(s.spins, ev.Entity)
		}
	})
}

func (s *RotatorSystem) OnDetach(*ecs.Engine) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	clear(s.spins)
}

// Angle returns the accumulated angle of e in radians
func (s *RotatorSystem) Angle(e *ecs.Entity) float32 {
	if sp, ok := s.spins[e]; ok {
		return sp.angle
	}
	return 0
}

func (s *RotatorSystem) Update(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)

	for _, e := range s.family.Entities() {
		rot := ecs.MustGet[*scene.Rotator](e)
		tr := ecs.MustGet[*scene.Transform](e)

		sp, ok := s.spins[e]
		if !ok {
			sp = &spin{base: tr.Rotation()}
			s.spins[e] = sp
		}

		sp.angle = math32.Mod(sp.angle+rot.Speed*dt, 2*math32.Pi)
		tr.SetRotation(sp.base.Mul(geom.QuatFromAxisAngle(rot.Axis, sp.angle)))
	}
}
