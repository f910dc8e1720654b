package systems

import (
	"github.com/chewxy/math32"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/input"
	"github.com/plus3/ember3d/scene"
)

const maxPitch = math32.Pi/2 - 0.01

// EditorControlSystem flies the EditorControl entity: forward, strafe and
// rise axes move it in camera space, look axis changes turn it.
type EditorControlSystem struct {
	Input input.Input

	target *ecs.Singleton
}

func NewEditorControlSystem(in input.Input) *EditorControlSystem {
	return &EditorControlSystem{Input: in}
}

func (s *EditorControlSystem) OnAttach(engine *ecs.Engine) {
	s.target = ecs.NewSingleton(engine, scene.EditorControlType, scene.TransformType)
}

func (s *EditorControlSystem) Update(frame *ecs.UpdateFrame) {
	e, ok := s.target.Get()
	if !ok {
		return
	}

	ctrl := ecs.MustGet[*scene.EditorControl](e)
	tr := ecs.MustGet[*scene.Transform](e)
	dt := float32(frame.DeltaTime)

	dx := s.Input.AxisChange(input.AxisLookX)
	dy := s.Input.AxisChange(input.AxisLookY)
	if dx != 0 || dy != 0 {
		ctrl.Yaw -= dx * ctrl.LookSpeed
		ctrl.Pitch = max(-maxPitch, min(maxPitch, ctrl.Pitch-dy*ctrl.LookSpeed))
		tr.SetRotation(geom.QuatFromAxisAngle(geom.V3(0, 1, 0), ctrl.Yaw).
			Mul(geom.QuatFromAxisAngle(geom.V3(1, 0, 0), ctrl.Pitch)))
	}

	move := tr.Forward().MulScalar(s.Input.Axis(input.AxisForward)).
		Add(tr.Right().MulScalar(s.Input.Axis(input.AxisStrafe))).
		Add(geom.V3(0, s.Input.Axis(input.AxisRise), 0))

	if move.LengthSquared() > 0 {
		tr.Translate(move.MulScalar(ctrl.MoveSpeed * dt))
	}
}
