package systems

import (
	"github.com/chewxy/math32"
	"github.com/jakecoffman/cp/v2"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/scene"
)

type physicsBody struct {
	body  *cp.Body
	shape *cp.Shape
}

// PhysicsSystem is a placeholder 2D simulation: RigidBody entities are boxes
// in the XY plane of a chipmunk space. Positions and Z rotation are written
// back to the transforms of dynamic bodies after each step.
type PhysicsSystem struct {
	Gravity geom.Vec3

	space  *cp.Space
	family *ecs.Family
	bodies map[*ecs.Entity]*physicsBody
	cancel func()
}

func NewPhysicsSystem(gravity geom.Vec3) *PhysicsSystem {
	return &PhysicsSystem{
		Gravity: gravity,
		bodies:  make(map[*ecs.Entity]*physicsBody),
	}
}

func (s *PhysicsSystem) OnAttach(engine *ecs.Engine) {
	s.space = cp.NewSpace()
	s.space.SetGravity(cp.Vector{X: float64(s.Gravity.X), Y: float64(s.Gravity.Y)})

	s.family = engine.Family(scene.RigidBodyType, scene.TransformType)
	s.cancel = engine.Subscribe(func(ev ecs.Event) {
		switch {
		case ev.Kind == ecs.EntityRemoved,
			ev.Kind == ecs.ComponentRemoved && (ev.Component == scene.RigidBodyType || ev.Component == scene.TransformType):
			s.removeBody(ev.Entity)
		}
	})
}

func (s *PhysicsSystem) OnDetach(*ecs.Engine) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for e := range s.bodies {
		s.removeBody(e)
	}
}

func (s *PhysicsSystem) removeBody(e *ecs.Entity) {
	pb, ok := s.bodies[e]
	if !ok {
		return
	}
	s.space.RemoveShape(pb.shape)
	s.space.RemoveBody(pb.body)
	delete(s.bodies, e)
}

func (s *PhysicsSystem) addBody(e *ecs.Entity) *physicsBody {
	rb := ecs.MustGet[*scene.RigidBody](e)
	tr := ecs.MustGet[*scene.Transform](e)
	w, h := float64(rb.Width), float64(rb.Height)

	var body *cp.Body
	if rb.Static {
		body = cp.NewStaticBody()
	} else {
		mass := float64(max(rb.Mass, 0.001))
		body = cp.NewBody(mass, cp.MomentForBox(mass, w, h))
	}

	pos := tr.Position()
	body.SetPosition(cp.Vector{X: float64(pos.X), Y: float64(pos.Y)})
	body.SetAngle(float64(zAngle(tr.Rotation())))
	s.space.AddBody(body)

	shape := cp.NewBox(body, w, h, 0)
	shape.SetFriction(0.7)
	s.space.AddShape(shape)

	pb := &physicsBody{body: body, shape: shape}
	s.bodies[e] = pb
	return pb
}

// zAngle is the rotation about Z of a quaternion that only rotates about Z
func zAngle(q geom.Quat) float32 {
	return 2 * math32.Atan2(q.Z, q.W)
}

func (s *PhysicsSystem) Update(frame *ecs.UpdateFrame) {
	if frame.DeltaTime <= 0 {
		return
	}

	for _, e := range s.family.Entities() {
		if _, ok := s.bodies[e]; !ok {
			s.addBody(e)
		}
	}

	s.space.Step(frame.DeltaTime)

	for e, pb := range s.bodies {
		if pb.body.GetType() != cp.BODY_DYNAMIC {
			continue
		}
		tr := ecs.MustGet[*scene.Transform](e)
		p := pb.body.Position()
		tr.SetPosition(geom.V3(float32(p.X), float32(p.Y), tr.Position().Z))
		tr.SetRotation(geom.QuatFromAxisAngle(geom.V3(0, 0, 1), float32(pb.body.Angle())))
	}
}
