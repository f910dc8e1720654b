package render_test

import (
	"errors"
	"image"
	"testing"

	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
	"github.com/plus3/ember3d/render/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testShaders = gputest.Shaders{
	"basic": {Vertex: "basic.vert", Fragment: "basic.frag"},
	"unlit": {Vertex: "unlit.vert", Fragment: "unlit.frag"},
	"grid":  {Vertex: "grid.vert", Fragment: "grid.frag"},
}

type fixture struct {
	device    *gputest.Device
	pipeline  *render.Pipeline
	materials *render.MaterialRegistry
	logs      *observer.ObservedLogs
	triangle  *render.Geometry
}

func newFixture(t *testing.T, images render.ImageSource) *fixture {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	device := gputest.NewDevice(800, 600)

	materials := render.NewMaterialRegistry()
	render.RegisterBuiltinMaterials(materials)

	pipeline := render.NewPipeline(device, testShaders, images, render.WithLogger(zap.New(core)))
	pipeline.AddPass(render.NewMainPass())

	return &fixture{
		device:    device,
		pipeline:  pipeline,
		materials: materials,
		logs:      logs,
		triangle:  render.NewGeometry([]float32{-1, -1, -5, 1, -1, -5, 0, 1, -5}, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, nil),
	}
}

func (f *fixture) item(t *testing.T, id, kind string) render.DrawItem {
	t.Helper()
	m, err := f.materials.NewMaterial(kind)
	require.NoError(t, err)
	return render.DrawItem{
		EntityId: id,
		World:    geom.Identity(),
		Object:   render.NewRenderableObject(f.triangle, m),
	}
}

func frameOf(items ...render.DrawItem) *render.FrameData {
	return &render.FrameData{
		View:       geom.Identity(),
		Projection: geom.Perspective(1, 4.0/3, 0.1, 100),
		Light:      &render.LightData{Color: geom.V3(1, 1, 1), Intensity: 1, Direction: geom.V3(0, -1, 0), Directional: true},
		Items:      items,
	}
}

func TestPipelineGroupsBySubPass(t *testing.T) {
	f := newFixture(t, nil)
	frame := frameOf(
		f.item(t, "a", render.MaterialBasic),
		f.item(t, "b", render.MaterialUnlit),
		f.item(t, "c", render.MaterialBasic),
	)

	f.pipeline.Frame(frame)

	assert.Equal(t, 1, f.device.Count("UseProgram", "basic"))
	assert.Equal(t, 1, f.device.Count("UseProgram", "unlit"))
	assert.Equal(t, 2, f.device.Count("SetUniform", render.UniformView), "globals once per sub-pass")
	assert.Equal(t, 3, f.device.Count("SetUniform", render.UniformModel), "model once per object")

	require.Len(t, f.device.Draws, 3)
	assert.Equal(t, "basic", f.device.Draws[0].Shader)
	assert.Equal(t, "basic", f.device.Draws[1].Shader)
	assert.Equal(t, "unlit", f.device.Draws[2].Shader)
	assert.Equal(t, 3, f.device.Draws[0].VertexCount)
}

func TestPipelineCompilesOncePerShader(t *testing.T) {
	f := newFixture(t, nil)
	frame := frameOf(f.item(t, "a", render.MaterialBasic), f.item(t, "b", render.MaterialBasic))

	for range 3 {
		f.pipeline.Frame(frame)
	}

	assert.Equal(t, 1, f.device.Compiled["basic"])
	assert.Equal(t, 1, f.pipeline.Context().Programs.Len())
	assert.Len(t, f.device.Draws, 6)
}

func TestPipelineWritesGlobalsAndMaterial(t *testing.T) {
	f := newFixture(t, nil)
	item := f.item(t, "a", render.MaterialBasic)
	require.NoError(t, item.Object.Material.Set("color", render.Vec3Uniform(geom.V3(1, 0, 0))))
	item.World = geom.Translation(geom.V3(0, 0, -2))
	item.Highlight = true

	frame := frameOf(item)
	frame.CameraPosition = geom.V3(0, 1, 2)
	f.pipeline.Frame(frame)

	require.Len(t, f.device.Draws, 1)
	draw := f.device.Draws[0]

	assert.Equal(t, geom.V3(1, 0, 0), draw.Uniforms["uColor"].Vec3())
	assert.Equal(t, float32(16), draw.Uniforms["uShininess"].Float())
	assert.Equal(t, geom.V3(0, 1, 2), draw.Uniforms[render.UniformCameraPosition].Vec3())
	assert.Equal(t, float32(1), draw.Uniforms[render.UniformLightIntensity].Float())
	assert.Equal(t, item.World, draw.Uniforms[render.UniformModel].Mat4())
	assert.True(t, draw.Uniforms[render.UniformHighlight].Bool())

	assert.Equal(t, f.triangle.Vertices(), draw.Attributes["aPosition"])
	assert.Equal(t, f.triangle.Normals(), draw.Attributes["aNormal"])
	assert.NotContains(t, draw.Attributes, "aTexCoord")
}

func TestPipelineUploadsGeometryLazily(t *testing.T) {
	f := newFixture(t, nil)
	frame := frameOf(f.item(t, "a", render.MaterialBasic), f.item(t, "b", render.MaterialBasic))

	f.pipeline.Frame(frame)
	assert.Equal(t, 2, f.device.Uploads, "positions and normals, once")

	f.pipeline.Frame(frame)
	assert.Equal(t, 2, f.device.Uploads)

	f.triangle.SetVertices([]float32{-2, -2, -5, 2, -2, -5, 0, 2, -5})
	f.pipeline.Frame(frame)
	assert.Equal(t, 3, f.device.Uploads, "only the flagged array is re-uploaded")
	assert.Equal(t, 2, f.device.Count("CreateBuffer"))
}

func TestPipelineShaderCompileFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.device.FailCompile["unlit"] = errors.New("syntax error")

	frame := frameOf(f.item(t, "a", render.MaterialUnlit), f.item(t, "b", render.MaterialBasic))
	f.pipeline.Frame(frame)
	f.pipeline.Frame(frame)

	assert.Equal(t, 1, f.device.Compiled["unlit"], "failures are cached")
	assert.Len(t, f.device.Draws, 2, "other sub-passes keep drawing")
	for _, d := range f.device.Draws {
		assert.Equal(t, "basic", d.Shader)
	}

	_, err := f.pipeline.Context().Programs.Program("unlit")
	assert.ErrorIs(t, err, render.ErrShaderCompile)
	assert.Equal(t, 1, f.logs.FilterMessage("Shader program compile failed").Len())
}

func TestPipelineMissingShaderSource(t *testing.T) {
	f := newFixture(t, nil)
	f.materials.RegisterMaterial("toon", render.MaterialSchema{Shader: "toon"})

	f.pipeline.Frame(frameOf(f.item(t, "a", "toon")))

	assert.Empty(t, f.device.Draws)
	_, err := f.pipeline.Context().Programs.Program("toon")
	assert.ErrorIs(t, err, render.ErrShaderCompile)
	assert.Equal(t, 0, f.device.Compiled["toon"])
}

func TestPipelineUnsupportedUniformType(t *testing.T) {
	f := newFixture(t, nil)
	f.materials.RegisterMaterial("weird", render.MaterialSchema{
		Shader: "basic",
		Properties: []render.PropertySpec{
			{Name: "color", Type: render.UniformVec3, Variable: "uColor"},
			{Name: "matrix3", Type: render.UniformType(99), Variable: "uMat3"},
		},
	})

	frame := frameOf(f.item(t, "bad", "weird"), f.item(t, "good", render.MaterialBasic))
	f.pipeline.Frame(frame)
	f.pipeline.Frame(frame)

	assert.Len(t, f.device.Draws, 2, "the offending object is skipped, the frame continues")
	assert.Equal(t, 2, f.device.Count("SetUniform", render.UniformModel))

	warnings := f.logs.FilterMessage("Unsupported uniform type, skipping object")
	require.Equal(t, 1, warnings.Len())
	assert.Equal(t, "bad", warnings.All()[0].ContextMap()["entity"])
}

func TestPipelineSamplerWithoutTexture(t *testing.T) {
	images := gputest.Images{"crate.png": image.NewRGBA(image.Rect(0, 0, 4, 4))}
	f := newFixture(t, images)

	missing := f.item(t, "a", render.MaterialBasic)
	require.NoError(t, missing.Object.Material.Set("texture", render.SamplerUniform("missing.png")))

	loaded := f.item(t, "b", render.MaterialBasic)
	require.NoError(t, loaded.Object.Material.Set("texture", render.SamplerUniform("crate.png")))

	frame := frameOf(missing, loaded)
	f.pipeline.Frame(frame)
	f.pipeline.Frame(frame)

	require.Len(t, f.device.Draws, 4)
	assert.NotContains(t, f.device.Draws[0].Samplers, "uTexture")
	assert.Equal(t, 0, f.device.Draws[1].Samplers["uTexture"])
	assert.Equal(t, 2, f.device.Count("BindTexture"))
	assert.Equal(t, 1, f.device.Textures, "textures are created once")
	assert.Equal(t, 1, f.logs.FilterMessage("Texture not loaded, skipping sampler").Len())
}

func TestPipelinePassSetupFailureDisablesPass(t *testing.T) {
	f := newFixture(t, nil)
	f.device.FailCompile["grid"] = errors.New("no grid for you")
	f.pipeline.AddPass(render.NewGridPass(2, 1))

	frame := frameOf(f.item(t, "a", render.MaterialBasic))
	f.pipeline.Frame(frame)
	f.pipeline.Frame(frame)

	assert.False(t, f.pipeline.Enabled("grid"))
	assert.True(t, f.pipeline.Enabled("main"))
	assert.Len(t, f.device.Draws, 2)
	assert.Equal(t, 1, f.logs.FilterMessage("Render pass setup failed, pass disabled").Len())

	delete(f.device.FailCompile, "grid")
	f.pipeline.ReloadShader("grid")
	f.device.Reset()
	f.pipeline.Frame(frame)

	assert.True(t, f.pipeline.Enabled("grid"))
	assert.Equal(t, 1, f.device.Count("DrawTriangles", "grid"))
}

func TestPipelinePassesRebindFramebuffer(t *testing.T) {
	f := newFixture(t, nil)
	f.pipeline.AddPass(render.NewGridPass(2, 1))

	f.pipeline.Frame(frameOf(f.item(t, "a", render.MaterialBasic)))

	assert.Equal(t, 3, f.device.Count("BindFramebuffer"), "once for clear, once per pass")
	assert.Equal(t, 3, f.device.Count("Viewport"))
	assert.Equal(t, []any{0, 0, 800, 600}, f.device.Calls[1].Args)
	assert.Equal(t, "Clear", f.device.Calls[2].Op)
}

func TestGridPass(t *testing.T) {
	f := newFixture(t, nil)
	grid := render.NewGridPass(2, 1)
	f.pipeline.AddPass(grid)

	f.pipeline.Frame(frameOf())

	require.NotNil(t, grid.Geometry())
	// 5 lines per axis, 2 triangles each
	assert.Equal(t, 20, grid.Geometry().TriangleCount())

	for i := 0; i < grid.Geometry().TriangleCount(); i++ {
		a, b, c := grid.Geometry().Triangle(i)
		assert.Zero(t, a.Y+b.Y+c.Y, "grid lies on y=0")
	}

	require.Len(t, f.device.Draws, 1)
	assert.Equal(t, "grid", f.device.Draws[0].Shader)
}

func TestPipelineNoLight(t *testing.T) {
	f := newFixture(t, nil)
	frame := frameOf(f.item(t, "a", render.MaterialBasic))
	frame.Light = nil

	f.pipeline.Frame(frame)

	require.Len(t, f.device.Draws, 1)
	assert.Equal(t, float32(0), f.device.Draws[0].Uniforms[render.UniformLightIntensity].Float())
}

func TestPipelineDisablesMissingAttributes(t *testing.T) {
	f := newFixture(t, nil)
	lit := f.item(t, "a", render.MaterialBasic)
	bare := f.item(t, "b", render.MaterialBasic)
	bare.Object = render.NewRenderableObject(render.NewGeometry([]float32{
		-1, -1, -5, 1, -1, -5, 0, 1, -5,
		-1, -1, -6, 1, -1, -6, 0, 1, -6,
	}, nil, nil), bare.Object.Material)

	f.pipeline.Frame(frameOf(lit, bare))

	assert.Equal(t, 1, f.device.Count("UseProgram", "basic"))
	require.Len(t, f.device.Draws, 2)
	assert.Contains(t, f.device.Draws[0].Attributes, "aNormal")

	draw := f.device.Draws[1]
	assert.Equal(t, 6, draw.VertexCount)
	assert.Len(t, draw.Attributes["aPosition"], 18)
	assert.NotContains(t, draw.Attributes, "aNormal")
	assert.NotContains(t, draw.Attributes, "aTexCoord")
}

func TestPipelineMissingTextureTurnsToggleOff(t *testing.T) {
	images := gputest.Images{"crate.png": image.NewRGBA(image.Rect(0, 0, 4, 4))}
	f := newFixture(t, images)

	loaded := f.item(t, "a", render.MaterialBasic)
	require.NoError(t, loaded.Object.Material.Set("texture", render.SamplerUniform("crate.png")))
	require.NoError(t, loaded.Object.Material.Set("useTexture", render.BoolUniform(true)))

	missing := f.item(t, "b", render.MaterialBasic)
	require.NoError(t, missing.Object.Material.Set("texture", render.SamplerUniform("missing.png")))
	require.NoError(t, missing.Object.Material.Set("useTexture", render.BoolUniform(true)))

	f.pipeline.Frame(frameOf(loaded, missing))

	require.Len(t, f.device.Draws, 2)
	assert.True(t, f.device.Draws[0].Uniforms["uUseTexture"].Bool())
	assert.False(t, f.device.Draws[1].Uniforms["uUseTexture"].Bool())
}

func TestPipelineReloadShader(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	device := gputest.NewDevice(800, 600)
	shaders := gputest.Shaders{"grid": {Vertex: "grid.vert", Fragment: "grid.frag"}}

	pipeline := render.NewPipeline(device, shaders, nil, render.WithLogger(zap.New(core)))
	grid := render.NewGridPass(2, 1)
	pipeline.AddPass(grid)

	pipeline.Frame(frameOf())
	geometry := grid.Geometry()
	buffers := device.Count("CreateBuffer")

	pipeline.ReloadShader("grid")
	pipeline.Frame(frameOf())
	assert.Equal(t, 1, device.Compiled["grid"], "unchanged source is not recompiled")
	assert.Equal(t, 1, logs.FilterMessage("Shader source unchanged, reload skipped").Len())

	shaders["grid"] = render.ShaderSource{Vertex: "grid.vert", Fragment: "grid.frag v2"}
	pipeline.ReloadShader("grid")
	pipeline.Frame(frameOf())

	assert.Equal(t, 2, device.Compiled["grid"])
	assert.Equal(t, 1, device.Count("DeleteProgram", "grid"))
	assert.Same(t, geometry, grid.Geometry(), "grid geometry survives setup re-runs")
	assert.Equal(t, buffers, device.Count("CreateBuffer"))
	assert.Equal(t, 3, device.Count("DrawTriangles", "grid"))
}

func TestTextureCacheInvalidateFreesTexture(t *testing.T) {
	device := gputest.NewDevice(1, 1)
	cache := render.NewTextureCache(device, gputest.Images{"crate.png": image.NewRGBA(image.Rect(0, 0, 2, 2))}, nil)

	tex, ok := cache.Texture("crate.png")
	require.True(t, ok)

	cache.Invalidate("crate.png")
	require.Equal(t, 1, device.Count("DeleteTexture"))
	assert.Equal(t, []any{tex}, device.Calls[len(device.Calls)-1].Args)
	assert.Equal(t, 0, device.Textures)

	_, ok = cache.Texture("crate.png")
	assert.True(t, ok)
	assert.Equal(t, 1, device.Textures)

	cache.Invalidate("missing.png")
	assert.Equal(t, 1, device.Count("DeleteTexture"))
}
