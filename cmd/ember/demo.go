package main

import (
	"github.com/chewxy/math32"
	"github.com/plus3/ember3d/config"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/scene"
)

// demoScene builds the scene shown when no scene file is configured: an
// editor camera, a sun, a spinning crate on a floor and, with physics
// enabled, a falling box.
func demoScene(cfg config.Config) []*ecs.Entity {
	var entities []*ecs.Entity
	add := func(id string, components ...ecs.Component) {
		e := ecs.NewEntity(id)
		e.AddComponent(&scene.Name{Value: id})
		for _, c := range components {
			e.AddComponent(c)
		}
		entities = append(entities, e)
	}

	camTransform := scene.NewTransform()
	camTransform.SetPosition(geom.V3(0, 2, 8))
	camera := scene.NewCamera()
	camera.FOV, camera.Near, camera.Far = cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far
	control := scene.NewEditorControl()
	control.MoveSpeed, control.LookSpeed = cfg.Editor.MoveSpeed, cfg.Editor.LookSpeed
	add("camera", camTransform, camera, control)

	sunTransform := scene.NewTransform()
	sunTransform.SetInitialRotation(geom.V3(-math32.Pi/3, math32.Pi/6, 0))
	add("sun", sunTransform, scene.NewLight())

	floorTransform := scene.NewTransform()
	floorTransform.SetScale(geom.V3(10, 1, 10))
	floor := scene.NewRenderable()
	floor.Geometry = "plane"
	floor.Color = geom.V3(0.35, 0.4, 0.35)
	add("floor", floorTransform, floor)

	crateTransform := scene.NewTransform()
	crateTransform.SetPosition(geom.V3(0, 0.5, 0))
	crate := scene.NewRenderable()
	crate.Geometry = "cube"
	crate.Color = geom.V3(0.8, 0.5, 0.2)
	add("crate", crateTransform, crate, scene.NewRotator())

	if cfg.Physics.Enabled {
		ground := scene.NewRigidBody()
		ground.Static, ground.Width, ground.Height = true, 20, 0.1
		groundTransform := scene.NewTransform()
		add("ground", groundTransform, ground)

		boxTransform := scene.NewTransform()
		boxTransform.SetPosition(geom.V3(2, 5, 0))
		box := scene.NewRenderable()
		box.Geometry = "cube"
		box.Color = geom.V3(0.3, 0.5, 0.9)
		add("box", boxTransform, box, scene.NewRigidBody())
	}

	return entities
}
