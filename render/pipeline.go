package render

import (
	"github.com/plus3/ember3d/geom"
	"go.uber.org/zap"
)

// LightData is the single active light fed to every shader.
type LightData struct {
	Color       geom.Vec3
	Intensity   float32
	Direction   geom.Vec3
	Position    geom.Vec3
	Directional bool
}

// DrawItem is one object to draw with its entity's world matrix.
type DrawItem struct {
	EntityId  string
	World     geom.Mat4
	Object    *RenderableObject
	Highlight bool
}

// FrameData is everything passes need for one frame. Camera matrices are
// computed once per frame by the caller.
type FrameData struct {
	View           geom.Mat4
	Projection     geom.Mat4
	CameraPosition geom.Vec3
	Light          *LightData
	Items          []DrawItem
}

// PassContext gives passes access to the device and the shared GPU caches.
type PassContext struct {
	Device   Device
	Programs *ProgramCache
	Textures *TextureCache
	Logger   *zap.Logger
}

// Pass is one stage of the pipeline. Setup runs once before the first Render;
// a pass whose Setup fails is disabled while the others keep running.
type Pass interface {
	Name() string
	Setup(ctx *PassContext) error
	Render(ctx *PassContext, frame *FrameData)
}

type passSlot struct {
	pass     Pass
	ready    bool
	disabled bool
}

// Pipeline runs its passes in order into the default framebuffer.
type Pipeline struct {
	ctx        *PassContext
	passes     []*passSlot
	clearColor geom.Vec4
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.ctx.Logger = logger
		}
	}
}

func WithClearColor(c geom.Vec4) PipelineOption {
	return func(p *Pipeline) {
		p.clearColor = c
	}
}

// NewPipeline creates a pipeline rendering through device. Shader sets and
// textures are resolved through shaders and images.
func NewPipeline(device Device, shaders ShaderLibrary, images ImageSource, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		ctx: &PassContext{
			Device: device,
			Logger: zap.NewNop(),
		},
		clearColor: geom.V4(0.1, 0.1, 0.12, 1),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.ctx.Programs = NewProgramCache(device, shaders, p.ctx.Logger)
	p.ctx.Textures = NewTextureCache(device, images, p.ctx.Logger)
	return p
}

// AddPass appends a pass; passes render in the order added.
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, &passSlot{pass: pass})
}

// Context returns the shared pass context
func (p *Pipeline) Context() *PassContext {
	return p.ctx
}

// Enabled reports whether the named pass is still running
func (p *Pipeline) Enabled(name string) bool {
	for _, slot := range p.passes {
		if slot.pass.Name() == name {
			return !slot.disabled
		}
	}
	return false
}

// Frame clears the screen and runs every enabled pass. Errors never abort the
// frame; they are logged and the offending pass or object is skipped.
func (p *Pipeline) Frame(frame *FrameData) {
	device := p.ctx.Device
	width, height := device.Size()

	device.BindFramebuffer(DefaultFramebuffer)
	device.Viewport(0, 0, width, height)
	device.Clear(p.clearColor)

	for _, slot := range p.passes {
		if slot.disabled {
			continue
		}

		if !slot.ready {
			if err := slot.pass.Setup(p.ctx); err != nil {
				slot.disabled = true
				p.ctx.Logger.Error("Render pass setup failed, pass disabled",
					zap.String("pass", slot.pass.Name()),
					zap.Error(err))
				continue
			}
			slot.ready = true
		}

		// a previous pass may have left another target bound
		device.BindFramebuffer(DefaultFramebuffer)
		device.Viewport(0, 0, width, height)

		slot.pass.Render(p.ctx, frame)
	}
}

// ReloadShader recompiles the named shader set on next use and re-runs the
// setup of every pass, re-enabling passes disabled by an earlier failure.
// Reloads of unchanged source are ignored.
func (p *Pipeline) ReloadShader(name string) {
	if !p.ctx.Programs.Changed(name) {
		p.ctx.Logger.Debug("Shader source unchanged, reload skipped", zap.String("shader", name))
		return
	}
	p.ctx.Programs.Invalidate(name)
	for _, slot := range p.passes {
		slot.ready = false
		slot.disabled = false
	}
	p.ctx.Logger.Info("Shader reloaded", zap.String("shader", name))
}
