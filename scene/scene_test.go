package scene_test

import (
	"math"
	"testing"

	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEngine(opts ...ecs.Option) *ecs.Engine {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	return ecs.NewEngine(append([]ecs.Option{ecs.WithRegistry(registry)}, opts...)...)
}

func TestTransformMatrixCache(t *testing.T) {
	tr := scene.NewTransform()

	m1 := tr.Matrix()
	v := tr.MatrixVersion()
	m2 := tr.Matrix()
	assert.Equal(t, m1, m2)
	assert.Equal(t, v, tr.MatrixVersion(), "no rebuild without a change")

	tr.SetPosition(geom.V3(1, 2, 3))
	m3 := tr.Matrix()
	assert.NotEqual(t, m1, m3)
	assert.Equal(t, v+1, tr.MatrixVersion())

	tr.Matrix()
	assert.Equal(t, v+1, tr.MatrixVersion())
	assert.True(t, m3.TransformPoint(geom.Vec3{}).ApproxEqual(geom.V3(1, 2, 3), 1e-6))
}

func TestTransformSetters(t *testing.T) {
	tr := scene.NewTransform()
	tr.SetScale(geom.V3(2, 2, 2))
	tr.SetInitialRotation(geom.V3(0, math.Pi/2, 0))
	tr.Translate(geom.V3(0, 0, 1))

	p := tr.Matrix().TransformPoint(geom.V3(1, 0, 0))
	assert.True(t, p.ApproxEqual(geom.V3(0, 0, -1), 1e-5), "got %v", p)

	assert.True(t, tr.Forward().ApproxEqual(geom.V3(-1, 0, 0), 1e-5), "got %v", tr.Forward())

	clone := tr.Clone().(*scene.Transform)
	clone.SetPosition(geom.Vec3{})
	assert.Equal(t, geom.V3(0, 0, 1), tr.Position())
}

func TestSceneRoundTrip(t *testing.T) {
	engine := newEngine()

	player := ecs.NewEntity("player")
	tr := scene.NewTransform()
	tr.SetPosition(geom.V3(1, 2, 3))
	require.NoError(t, player.AddComponent(tr))
	require.NoError(t, player.AddComponent(&scene.Name{Value: "Player One"}))
	require.NoError(t, engine.AddEntity(player))

	cam := ecs.NewEntity("camera")
	require.NoError(t, cam.AddComponent(scene.NewTransform()))
	require.NoError(t, cam.AddComponent(&scene.Camera{FOV: 75, Near: 0.5, Far: 200}))
	require.NoError(t, engine.AddEntity(cam))

	data, err := scene.FromGame(engine)
	require.NoError(t, err)

	entities, err := scene.FromString(string(data), engine.Registry())
	require.NoError(t, err)
	require.Len(t, entities, 2)

	loaded := entities[0]
	assert.Equal(t, "player", loaded.Id())
	assert.Equal(t, player.ComponentTypes(), loaded.ComponentTypes())

	ltr := ecs.MustGet[*scene.Transform](loaded)
	assert.Equal(t, geom.V3(1, 2, 3), ltr.Position())
	assert.Equal(t, geom.V3(1, 1, 1), ltr.Scale())
	assert.Equal(t, geom.QuatIdentity(), ltr.Rotation())
	assert.Equal(t, "Player One", ecs.MustGet[*scene.Name](loaded).Value)

	lcam := ecs.MustGet[*scene.Camera](entities[1])
	assert.Equal(t, &scene.Camera{FOV: 75, Near: 0.5, Far: 200}, lcam)

	again, err := scene.Marshal(entities)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestSceneFormat(t *testing.T) {
	engine := newEngine()
	e := ecs.NewEntity("a")
	tr := scene.NewTransform()
	tr.SetPosition(geom.V3(1, 2, 3))
	require.NoError(t, e.AddComponent(tr))
	require.NoError(t, engine.AddEntity(e))

	data, err := scene.FromGame(engine)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":"a","components":[{"name":"Transform","fields":[
		{"name":"position","value":[1,2,3]},
		{"name":"rotation","value":[0,0,0,1]},
		{"name":"scale","value":[1,1,1]}
	]}]}]`, string(data))
}

func TestFromStringUnknownComponent(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)

	_, err := scene.FromString(`[{"id":"a","components":[{"name":"Jetpack","fields":[]}]}]`, registry)
	assert.ErrorIs(t, err, ecs.ErrUnknownComponent)
}

func TestFromStringUnknownField(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	core, logs := observer.New(zapcore.WarnLevel)

	entities, err := scene.FromString(`[{"id":"a","components":[{"name":"Name","fields":[
		{"name":"value","value":"crate"},
		{"name":"color","value":"red"}
	]}]}]`, registry, scene.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Len(t, entities, 1)

	assert.Equal(t, "crate", ecs.MustGet[*scene.Name](entities[0]).Value)
	require.Equal(t, 1, logs.FilterMessage("Unknown component field, ignoring").Len())
	assert.Equal(t, "color", logs.All()[0].ContextMap()["field"])
}

func TestFromStringBadValue(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)

	_, err := scene.FromString(`[{"id":"a","components":[{"name":"Transform","fields":[
		{"name":"position","value":"up"}
	]}]}]`, registry)
	assert.Error(t, err)
}

func TestLoadRejectsConflicts(t *testing.T) {
	engine := newEngine()
	require.NoError(t, engine.AddEntity(ecs.NewEntity("a")))

	_, err := scene.Load(engine, `[{"id":"b","components":[]},{"id":"a","components":[]}]`)
	assert.ErrorIs(t, err, ecs.ErrEntityIdConflict)
	assert.Equal(t, 1, engine.Len(), "nothing is added on conflict")

	_, err = scene.Load(engine, `[{"id":"c","components":[]},{"id":"c","components":[]}]`)
	assert.ErrorIs(t, err, ecs.ErrEntityIdConflict)
	assert.Equal(t, 1, engine.Len())

	loaded, err := scene.Load(engine, `[{"id":"b","components":[{"name":"Light","fields":[]}]}]`)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Same(t, engine.Entities()[1], loaded[0])
	assert.Equal(t, scene.NewLight(), ecs.MustGet[*scene.Light](loaded[0]), "missing fields keep defaults")
}

func TestLoadedTransformIsDirty(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)

	entities, err := scene.FromString(`[{"id":"a","components":[{"name":"Transform","fields":[
		{"name":"position","value":[0,5,0]}
	]}]}]`, registry)
	require.NoError(t, err)

	tr := ecs.MustGet[*scene.Transform](entities[0])
	assert.True(t, tr.Matrix().TransformPoint(geom.Vec3{}).ApproxEqual(geom.V3(0, 5, 0), 1e-6))
}

func TestRegisterComponentsEditableFields(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)

	assert.True(t, registry.Has(scene.RenderableType))
	assert.Equal(t, []ecs.EditableField{
		{Name: "position", Widget: ecs.WidgetVector3},
		{Name: "scale", Widget: ecs.WidgetVector3},
	}, registry.EditableFields(scene.TransformType))

	// every editable field must exist on the component
	for _, typ := range registry.Types() {
		c, err := registry.New(typ)
		require.NoError(t, err)

		names := map[string]bool{}
		if src, ok := c.(ecs.FieldSource); ok {
			for _, f := range src.Fields() {
				names[f.Name] = true
			}
		}
		for _, f := range registry.EditableFields(typ) {
			assert.True(t, names[f.Name], "%s.%s", typ, f.Name)
		}
	}
}

func TestRenderableClone(t *testing.T) {
	r := scene.NewRenderable()
	r.Geometry = "cube"
	clone := r.Clone().(*scene.Renderable)
	clone.Geometry = "sphere"
	assert.Equal(t, "cube", r.Geometry)
	assert.True(t, clone.Visible)
}
