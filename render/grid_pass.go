package render

import (
	"github.com/plus3/ember3d/geom"
)

// GridPass draws reference lines on the y=0 plane, as thin quads.
type GridPass struct {
	Shader    string
	HalfLines int
	Spacing   float32
	Color     geom.Vec4

	geometry *Geometry
	program  ProgramHandle
}

func NewGridPass(halfLines int, spacing float32) *GridPass {
	return &GridPass{
		Shader:    "grid",
		HalfLines: halfLines,
		Spacing:   spacing,
		Color:     geom.V4(0.5, 0.5, 0.5, 1),
	}
}

func (p *GridPass) Name() string {
	return "grid"
}

func (p *GridPass) Setup(ctx *PassContext) error {
	program, err := ctx.Programs.Program(p.Shader)
	if err != nil {
		return err
	}

	p.program = program
	if p.geometry == nil {
		p.geometry = NewGeometry(gridVertices(p.HalfLines, p.Spacing), nil, nil)
	}
	return nil
}

func (p *GridPass) Render(ctx *PassContext, frame *FrameData) {
	device := ctx.Device
	device.UseProgram(p.program)
	device.SetUniform(UniformView, Mat4Uniform(frame.View))
	device.SetUniform(UniformProjection, Mat4Uniform(frame.Projection))
	device.SetUniform(UniformModel, Mat4Uniform(geom.Identity()))
	device.SetUniform("uColor", Vec4Uniform(p.Color))

	p.geometry.bind(device)
	device.DrawTriangles(p.geometry.VertexCount())
}

// Geometry returns the grid's geometry, nil before setup
func (p *GridPass) Geometry() *Geometry {
	return p.geometry
}

func gridVertices(halfLines int, spacing float32) []float32 {
	extent := float32(halfLines) * spacing
	w := spacing * 0.01

	var v []float32
	quad := func(x0, z0, x1, z1 float32) {
		// two counter-clockwise triangles seen from above
		v = append(v,
			x0, 0, z0, x0, 0, z1, x1, 0, z1,
			x0, 0, z0, x1, 0, z1, x1, 0, z0,
		)
	}

	for i := -halfLines; i <= halfLines; i++ {
		o := float32(i) * spacing
		quad(o-w, -extent, o+w, extent)
		quad(-extent, o-w, extent, o+w)
	}
	return v
}
