package systems

import (
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
	"github.com/plus3/ember3d/scene"
	"go.uber.org/zap"
)

// GeometrySource resolves geometry names, usually an *assets.Library.
type GeometrySource interface {
	Geometry(name string) (*render.Geometry, error)
}

// RenderSystem turns the scene into a render.FrameData each tick and runs the
// pipeline. Nothing is drawn while there is no camera.
type RenderSystem struct {
	Pipeline  *render.Pipeline
	Geometry  GeometrySource
	Materials *render.MaterialRegistry

	logger      *zap.Logger
	camera      *ecs.Singleton
	light       *ecs.Singleton
	renderables *ecs.Family

	frame    render.FrameData
	lightBuf render.LightData
	failed   map[*ecs.Entity]string
	cancel   func()
}

func NewRenderSystem(pipeline *render.Pipeline, geometry GeometrySource, materials *render.MaterialRegistry) *RenderSystem {
	return &RenderSystem{
		Pipeline:  pipeline,
		Geometry:  geometry,
		Materials: materials,
		failed:    make(map[*ecs.Entity]string),
	}
}

func (s *RenderSystem) OnAttach(engine *ecs.Engine) {
	s.logger = engine.Logger().Named("render")
	s.camera = ecs.NewSingleton(engine, scene.CameraType, scene.TransformType)
	s.light = ecs.NewSingleton(engine, scene.LightType, scene.TransformType)
	s.renderables = engine.Family(scene.RenderableType, scene.TransformType)
	s.cancel = engine.Subscribe(func(ev ecs.Event) {
		if ev.Kind == ecs.EntityRemoved {
			delete(s.failed, ev.Entity)
		}
	})
}

func (s *RenderSystem) OnDetach(*ecs.Engine) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *RenderSystem) Update(frame *ecs.UpdateFrame) {
	camEntity, ok := s.camera.Get()
	if !ok {
		return
	}
	cam := ecs.MustGet[*scene.Camera](camEntity)
	camTransform := ecs.MustGet[*scene.Transform](camEntity)

	width, height := s.Pipeline.Context().Device.Size()
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}

	s.frame.View = cam.ViewMatrix(camTransform)
	s.frame.Projection = cam.Projection(aspect)
	s.frame.CameraPosition = camTransform.Position()
	s.frame.Light = s.lightData()
	s.frame.Items = s.frame.Items[:0]

	for _, e := range s.renderables.Entities() {
		r := ecs.MustGet[*scene.Renderable](e)
		if !r.Visible {
			continue
		}
		if r.Objects == nil && !s.build(e, r) {
			continue
		}

		world := ecs.MustGet[*scene.Transform](e).Matrix()
		for _, obj := range r.Objects {
			s.frame.Items = append(s.frame.Items, render.DrawItem{
				EntityId:  e.Id(),
				World:     world,
				Object:    obj,
				Highlight: r.Highlight,
			})
		}
	}

	s.Pipeline.Frame(&s.frame)
}

// Frame returns the frame data built by the last tick
func (s *RenderSystem) Frame() *render.FrameData {
	return &s.frame
}

func (s *RenderSystem) lightData() *render.LightData {
	e, ok := s.light.Get()
	if !ok {
		return nil
	}
	l := ecs.MustGet[*scene.Light](e)
	tr := ecs.MustGet[*scene.Transform](e)

	s.lightBuf = render.LightData{
		Color:       l.Color,
		Intensity:   l.Intensity,
		Direction:   tr.Forward(),
		Position:    tr.Position(),
		Directional: l.Directional,
	}
	return &s.lightBuf
}

// build creates the renderable objects of r from its authored fields. Failures
// are logged once per entity and configuration, and the entity is skipped.
func (s *RenderSystem) build(e *ecs.Entity, r *scene.Renderable) bool {
	key := r.Geometry + "|" + r.Material + "|" + r.Texture

	g, err := s.Geometry.Geometry(r.Geometry)
	if err == nil {
		var m *render.Material
		m, err = s.Materials.NewMaterial(r.Material)
		if err == nil {
			err = applyRenderable(m, r)
		}
		if err == nil {
			r.Objects = []*render.RenderableObject{render.NewRenderableObject(g, m)}
			delete(s.failed, e)
			return true
		}
	}

	if s.failed[e] != key {
		s.failed[e] = key
		s.logger.Warn("Renderable could not be built, skipping entity",
			zap.String("entity", e.Id()),
			zap.String("geometry", r.Geometry),
			zap.String("material", r.Material),
			zap.Error(err))
	}
	return false
}

// applyRenderable copies the renderable's color and texture into the material
// properties of the same name, when the material has them.
func applyRenderable(m *render.Material, r *scene.Renderable) error {
	schema := m.Schema()

	if prop, ok := schema.Property("color"); ok {
		var err error
		switch prop.Type {
		case render.UniformVec3:
			err = m.Set("color", render.Vec3Uniform(r.Color))
		case render.UniformVec4:
			err = m.Set("color", render.Vec4Uniform(geom.V4(r.Color.X, r.Color.Y, r.Color.Z, 1)))
		}
		if err != nil {
			return err
		}
	}

	if r.Texture == "" {
		return nil
	}
	if _, ok := schema.Property("texture"); ok {
		if err := m.Set("texture", render.SamplerUniform(r.Texture)); err != nil {
			return err
		}
		if _, ok := schema.Property("useTexture"); ok {
			return m.Set("useTexture", render.BoolUniform(true))
		}
	}
	return nil
}
