package systems

import (
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/input"
	"github.com/plus3/ember3d/render"
	"github.com/plus3/ember3d/scene"
)

// ScreenRay builds the world-space pick ray through a point in normalized
// device coordinates. The ray starts at the camera position and points at the
// unprojected point.
func ScreenRay(ndcX, ndcY float32, view, projection geom.Mat4, cameraPosition geom.Vec3) geom.Ray {
	inv, ok := projection.Mul(view).Inverse()
	if !ok {
		return geom.Ray{Origin: cameraPosition, Dir: geom.V3(0, 0, -1)}
	}

	near := geom.Unproject(geom.V3(ndcX, ndcY, -1), inv)
	far := geom.Unproject(geom.V3(ndcX, ndcY, 1), inv)

	return geom.Ray{
		Origin: cameraPosition,
		Dir:    far.Sub(near).Normalize(),
	}
}

// Target is one piece of geometry that can be picked.
type Target struct {
	Entity   *ecs.Entity
	World    geom.Mat4
	Geometry *render.Geometry
}

// Hit is the result of a successful pick. Distance is the ray parameter,
// which is a world distance for a normalized ray.
type Hit struct {
	Entity   *ecs.Entity
	Distance float32
	Triangle int
}

// Pick tests every triangle of every target and returns the nearest hit.
// Ties keep the first target and triangle encountered.
func Pick(ray geom.Ray, targets []Target) (Hit, bool) {
	var best Hit
	found := false

	for _, target := range targets {
		if target.Geometry == nil {
			continue
		}

		for i := 0; i < target.Geometry.TriangleCount(); i++ {
			a, b, c := target.Geometry.Triangle(i)
			t, ok := geom.IntersectTriangle(ray,
				target.World.TransformPoint(a),
				target.World.TransformPoint(b),
				target.World.TransformPoint(c))
			if !ok {
				continue
			}
			if !found || t < best.Distance {
				best = Hit{Entity: target.Entity, Distance: t, Triangle: i}
				found = true
			}
		}
	}

	return best, found
}

// SelectionSystem picks the entity under the pointer when the select action
// fires and makes it the engine's selection. Selected entities are
// highlighted however the selection changes, including from the editor.
//
// It reads the camera transform, so it must run after systems that move the
// camera in the same tick.
type SelectionSystem struct {
	Input input.Input
	// Viewport returns the size of the drawing surface in pixels
	Viewport func() (int, int)

	camera      *ecs.Singleton
	renderables *ecs.Family
	targets     []Target
	cancel      func()
}

func NewSelectionSystem(in input.Input, viewport func() (int, int)) *SelectionSystem {
	return &SelectionSystem{Input: in, Viewport: viewport}
}

func (s *SelectionSystem) OnAttach(engine *ecs.Engine) {
	s.camera = ecs.NewSingleton(engine, scene.CameraType, scene.TransformType)
	s.renderables = engine.Family(scene.RenderableType, scene.TransformType)
	s.cancel = engine.Subscribe(func(ev ecs.Event) {
		if ev.Kind != ecs.SelectionChanged {
			return
		}
		setHighlight(ev.Previous, false)
		setHighlight(ev.Entity, true)
	})
}

func (s *SelectionSystem) OnDetach(*ecs.Engine) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func setHighlight(e *ecs.Entity, on bool) {
	if e == nil {
		return
	}
	if r, err := ecs.Get[*scene.Renderable](e); err == nil {
		r.Highlight = on
	}
}

func (s *SelectionSystem) Update(frame *ecs.UpdateFrame) {
	if !s.Input.IsActive(input.ActionSelect) {
		return
	}

	camEntity, ok := s.camera.Get()
	if !ok {
		return
	}
	width, height := s.Viewport()
	if width <= 0 || height <= 0 {
		return
	}

	cam := ecs.MustGet[*scene.Camera](camEntity)
	tr := ecs.MustGet[*scene.Transform](camEntity)

	px := s.Input.Axis(input.AxisPointerX)
	py := s.Input.Axis(input.AxisPointerY)
	ndcX := 2*px/float32(width) - 1
	ndcY := 1 - 2*py/float32(height)

	ray := ScreenRay(ndcX, ndcY,
		cam.ViewMatrix(tr),
		cam.Projection(float32(width)/float32(height)),
		tr.Position())

	hit, ok := Pick(ray, s.collectTargets())
	if !ok {
		frame.Engine.Select(nil)
		return
	}
	frame.Engine.Select(hit.Entity)
}

func (s *SelectionSystem) collectTargets() []Target {
	s.targets = s.targets[:0]
	for _, e := range s.renderables.Entities() {
		r := ecs.MustGet[*scene.Renderable](e)
		if !r.Visible {
			continue
		}
		world := ecs.MustGet[*scene.Transform](e).Matrix()
		for _, obj := range r.Objects {
			s.targets = append(s.targets, Target{
				Entity:   e,
				World:    obj.ModelMatrix(world),
				Geometry: obj.Geometry,
			})
		}
	}
	return s.targets
}
