package render

import (
	"github.com/plus3/ember3d/geom"
	"go.uber.org/zap"
)

// Global uniform names written once per sub-pass
const (
	UniformView           = "uView"
	UniformProjection     = "uProjection"
	UniformModel          = "uModel"
	UniformLightColor     = "uLightColor"
	UniformLightIntensity = "uLightIntensity"
	UniformLightDirection = "uLightDirection"
	UniformCameraPosition = "uCameraPosition"
	UniformHighlight      = "uHighlight"
)

// MainPass draws renderable objects through their materials. Objects are
// grouped into sub-passes by shader set so every program is bound once per frame.
type MainPass struct {
	// Preload lists shader sets compiled during setup
	Preload []string

	warned map[string]bool
}

func NewMainPass(preload ...string) *MainPass {
	return &MainPass{
		Preload: preload,
		warned:  make(map[string]bool),
	}
}

func (p *MainPass) Name() string {
	return "main"
}

// Setup compiles the preloaded shader sets. A failing shader only disables
// its own sub-pass, so errors are logged by the cache and not returned.
func (p *MainPass) Setup(ctx *PassContext) error {
	for _, name := range p.Preload {
		_, _ = ctx.Programs.Program(name)
	}
	return nil
}

type subPass struct {
	shader string
	items  []*DrawItem
}

// groupByShader splits items by shader set, keeping first-seen order.
func groupByShader(items []DrawItem) []subPass {
	var groups []subPass
	index := make(map[string]int)

	for i := range items {
		item := &items[i]
		obj := item.Object
		if obj == nil || obj.Geometry == nil || obj.Material == nil {
			continue
		}

		shader := obj.Material.Shader()
		gi, ok := index[shader]
		if !ok {
			gi = len(groups)
			index[shader] = gi
			groups = append(groups, subPass{shader: shader})
		}
		groups[gi].items = append(groups[gi].items, item)
	}
	return groups
}

func (p *MainPass) Render(ctx *PassContext, frame *FrameData) {
	for _, group := range groupByShader(frame.Items) {
		program, err := ctx.Programs.Program(group.shader)
		if err != nil {
			continue
		}

		ctx.Device.UseProgram(program)
		writeGlobals(ctx.Device, frame)

		for _, item := range group.items {
			p.draw(ctx, item)
		}
	}
}

func writeGlobals(device Device, frame *FrameData) {
	device.SetUniform(UniformView, Mat4Uniform(frame.View))
	device.SetUniform(UniformProjection, Mat4Uniform(frame.Projection))
	device.SetUniform(UniformCameraPosition, Vec3Uniform(frame.CameraPosition))

	light := frame.Light
	if light == nil {
		light = &LightData{Direction: geom.V3(0, -1, 0)}
	}
	device.SetUniform(UniformLightColor, Vec3Uniform(light.Color))
	device.SetUniform(UniformLightIntensity, FloatUniform(light.Intensity))
	device.SetUniform(UniformLightDirection, Vec3Uniform(light.Direction))
}

func (p *MainPass) draw(ctx *PassContext, item *DrawItem) {
	obj := item.Object
	material := obj.Material

	for _, prop := range material.Schema().Properties {
		if !prop.Type.Valid() {
			p.warnOnce(ctx, "Unsupported uniform type, skipping object", item, prop)
			return
		}
	}

	if obj.Geometry.VertexCount() == 0 {
		return
	}

	device := ctx.Device
	device.SetUniform(UniformModel, Mat4Uniform(obj.ModelMatrix(item.World)))
	device.SetUniform(UniformHighlight, BoolUniform(item.Highlight))
	obj.Geometry.bind(device)

	unit := 0
	var untextured []string
	for _, prop := range material.Schema().Properties {
		value, ok := material.Value(prop.Name)
		if !ok {
			continue
		}

		if prop.Type == UniformSampler2D {
			texture, ok := ctx.Textures.Texture(value.Texture())
			if !ok {
				if prop.Toggle != "" {
					untextured = append(untextured, prop.Toggle)
				}
				continue
			}
			device.BindTexture(unit, texture)
			device.SetSampler(prop.Variable, unit)
			unit++
			continue
		}

		device.SetUniform(prop.Variable, value)
	}
	for _, toggle := range untextured {
		device.SetUniform(toggle, BoolUniform(false))
	}

	device.DrawTriangles(obj.Geometry.VertexCount())
}

func (p *MainPass) warnOnce(ctx *PassContext, msg string, item *DrawItem, prop PropertySpec) {
	key := item.Object.Material.Kind() + "." + prop.Name
	if p.warned[key] {
		return
	}
	if p.warned == nil {
		p.warned = make(map[string]bool)
	}
	p.warned[key] = true

	ctx.Logger.Warn(msg,
		zap.String("entity", item.EntityId),
		zap.String("material", item.Object.Material.Kind()),
		zap.String("uniform", prop.Variable),
		zap.Stringer("type", prop.Type))
}
