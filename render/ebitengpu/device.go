// Package ebitengpu implements render.Device on top of ebiten's triangle
// shader API. Ebiten only exposes a fragment stage, so vertices are
// transformed and lit on the CPU and triangles are depth sorted per draw.
package ebitengpu

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
	"go.uber.org/zap"
)

// maxBatchVertices keeps indices within uint16
const maxBatchVertices = 3 * 21845

const ambient = 0.2

type program struct {
	name     string
	shader   *ebiten.Shader
	uniforms map[string]render.Uniform
}

type triangle struct {
	depth float32
	verts [3]ebiten.Vertex
}

// Device renders into the ebiten image set with SetTarget.
type Device struct {
	logger *zap.Logger
	target *ebiten.Image
	width  int
	height int

	nextHandle uint32
	programs   map[render.ProgramHandle]*program
	current    *program

	buffers    map[render.BufferHandle][]float32
	attributes map[string][]float32

	textures map[render.TextureHandle]*ebiten.Image
	units    [4]*ebiten.Image
	samplers map[string]int

	triangles []triangle
	vertices  []ebiten.Vertex
	indices   []uint16
}

func NewDevice(logger *zap.Logger) *Device {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Device{
		logger:     logger,
		programs:   make(map[render.ProgramHandle]*program),
		buffers:    make(map[render.BufferHandle][]float32),
		attributes: make(map[string][]float32),
		textures:   make(map[render.TextureHandle]*ebiten.Image),
		samplers:   make(map[string]int),
	}
}

// SetTarget sets the image the next frame is drawn into, usually the screen
// passed to ebiten's Draw.
func (d *Device) SetTarget(target *ebiten.Image) {
	d.target = target
	if target != nil {
		b := target.Bounds()
		d.width, d.height = b.Dx(), b.Dy()
	}
}

func (d *Device) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

// CompileProgram compiles the Kage source in src.Fragment.
func (d *Device) CompileProgram(name string, src render.ShaderSource) (render.ProgramHandle, error) {
	shader, err := ebiten.NewShader([]byte(src.Fragment))
	if err != nil {
		return 0, fmt.Errorf("kage %s: %w", name, err)
	}

	h := render.ProgramHandle(d.handle())
	d.programs[h] = &program{
		name:     name,
		shader:   shader,
		uniforms: make(map[string]render.Uniform),
	}
	return h, nil
}

func (d *Device) DeleteProgram(p render.ProgramHandle) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	prog.shader.Deallocate()
	delete(d.programs, p)
	if d.current == prog {
		d.current = nil
	}
}

func (d *Device) UseProgram(p render.ProgramHandle) {
	d.current = d.programs[p]
	clear(d.samplers)
	clear(d.attributes)
	d.units = [4]*ebiten.Image{}
}

func (d *Device) SetUniform(name string, u render.Uniform) {
	if d.current != nil {
		d.current.uniforms[name] = u
	}
}

func (d *Device) SetSampler(name string, unit int) {
	d.samplers[name] = unit
}

func (d *Device) CreateBuffer() render.BufferHandle {
	return render.BufferHandle(d.handle())
}

func (d *Device) UploadBuffer(b render.BufferHandle, data []float32) {
	d.buffers[b] = slices.Clone(data)
}

func (d *Device) BindAttribute(name string, b render.BufferHandle, size int) {
	d.attributes[name] = d.buffers[b]
}

func (d *Device) DisableAttribute(name string) {
	delete(d.attributes, name)
}

func (d *Device) CreateTexture(img image.Image) render.TextureHandle {
	h := render.TextureHandle(d.handle())
	d.textures[h] = ebiten.NewImageFromImage(img)
	return h
}

func (d *Device) DeleteTexture(t render.TextureHandle) {
	img, ok := d.textures[t]
	if !ok {
		return
	}
	for i, u := range d.units {
		if u == img {
			d.units[i] = nil
		}
	}
	img.Deallocate()
	delete(d.textures, t)
}

func (d *Device) BindTexture(unit int, t render.TextureHandle) {
	if unit < 0 || unit >= len(d.units) {
		d.logger.Warn("Texture unit out of range", zap.Int("unit", unit))
		return
	}
	d.units[unit] = d.textures[t]
}

// BindFramebuffer is a no-op: every pass draws into the target image.
func (d *Device) BindFramebuffer(render.FramebufferHandle) {}

// Viewport is a no-op: the viewport always covers the target image.
func (d *Device) Viewport(x, y, width, height int) {}

func (d *Device) Clear(c geom.Vec4) {
	if d.target == nil {
		return
	}
	d.target.Fill(color.RGBA{
		R: uint8(clamp01(c.X) * 255),
		G: uint8(clamp01(c.Y) * 255),
		B: uint8(clamp01(c.Z) * 255),
		A: uint8(clamp01(c.W) * 255),
	})
}

func (d *Device) Size() (int, int) {
	return d.width, d.height
}

func (d *Device) uniformMat4(name string) geom.Mat4 {
	if u, ok := d.current.uniforms[name]; ok && u.Type() == render.UniformMat4 {
		return u.Mat4()
	}
	return geom.Identity()
}

func (d *Device) uniformVec3(name string, def geom.Vec3) geom.Vec3 {
	u, ok := d.current.uniforms[name]
	if !ok {
		return def
	}
	switch u.Type() {
	case render.UniformVec3:
		return u.Vec3()
	case render.UniformVec4:
		return u.Vec4().Vec3()
	}
	return def
}

func (d *Device) uniformFloat(name string, def float32) float32 {
	if u, ok := d.current.uniforms[name]; ok && u.Type() == render.UniformFloat {
		return u.Float()
	}
	return def
}

// DrawTriangles transforms and lights the bound vertices, sorts the triangles
// back to front and draws them with the current Kage shader.
func (d *Device) DrawTriangles(vertexCount int) {
	if d.target == nil || d.current == nil {
		return
	}

	positions := d.attributes["aPosition"]
	if len(positions) < vertexCount*3 {
		d.logger.Warn("Draw call without enough positions",
			zap.String("shader", d.current.name),
			zap.Int("vertices", vertexCount))
		return
	}
	normals := d.attributes["aNormal"]
	texCoords := d.attributes["aTexCoord"]

	model := d.uniformMat4(render.UniformModel)
	mvp := d.uniformMat4(render.UniformProjection).Mul(d.uniformMat4(render.UniformView)).Mul(model)

	base := d.uniformVec3("uColor", geom.V3(1, 1, 1))
	lightColor := d.uniformVec3(render.UniformLightColor, geom.V3(1, 1, 1))
	lightDir := d.uniformVec3(render.UniformLightDirection, geom.V3(0, -1, 0)).Normalize()
	intensity := d.uniformFloat(render.UniformLightIntensity, 1)
	shininess := d.uniformFloat("uShininess", 16)
	camera := d.uniformVec3(render.UniformCameraPosition, geom.Vec3{})

	src := d.units[0]
	var srcW, srcH float32
	if src != nil {
		b := src.Bounds()
		srcW, srcH = float32(b.Dx()), float32(b.Dy())
	}

	w, h := float32(d.width), float32(d.height)
	d.triangles = d.triangles[:0]

	for t := 0; t+2 < vertexCount; t += 3 {
		var tri triangle
		visible := true

		for k := 0; k < 3; k++ {
			i := t + k
			p := geom.V3(positions[i*3], positions[i*3+1], positions[i*3+2])

			clip := mvp.MulVec4(geom.V4(p.X, p.Y, p.Z, 1))
			if clip.W <= geom.Epsilon {
				visible = false
				break
			}
			ndc := clip.PerspectiveDivide()
			tri.depth += ndc.Z

			shade := base
			if len(normals) >= (i+1)*3 {
				n := model.TransformDirection(geom.V3(normals[i*3], normals[i*3+1], normals[i*3+2])).Normalize()
				world := model.TransformPoint(p)
				shade = lit(base, n, world, camera, lightDir, lightColor, intensity, shininess)
			}

			v := ebiten.Vertex{
				DstX:   (ndc.X + 1) / 2 * w,
				DstY:   (1 - ndc.Y) / 2 * h,
				ColorR: clamp01(shade.X),
				ColorG: clamp01(shade.Y),
				ColorB: clamp01(shade.Z),
				ColorA: 1,
			}
			if src != nil && len(texCoords) >= (i+1)*2 {
				v.SrcX = texCoords[i*2] * srcW
				v.SrcY = (1 - texCoords[i*2+1]) * srcH
			}
			tri.verts[k] = v
		}

		if visible {
			d.triangles = append(d.triangles, tri)
		}
	}

	// painter's algorithm: farthest first
	slices.SortStableFunc(d.triangles, func(a, b triangle) int {
		return cmp.Compare(b.depth, a.depth)
	})

	op := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: d.kageUniforms(),
		Images:   d.units,
	}

	for start := 0; start < len(d.triangles); {
		end := min(len(d.triangles), start+maxBatchVertices/3)
		d.vertices = d.vertices[:0]
		d.indices = d.indices[:0]

		for _, tri := range d.triangles[start:end] {
			base := uint16(len(d.vertices))
			d.vertices = append(d.vertices, tri.verts[:]...)
			d.indices = append(d.indices, base, base+1, base+2)
		}

		d.target.DrawTrianglesShader(d.vertices, d.indices, d.current.shader, op)
		start = end
	}
}

// kageUniforms converts uniforms to Kage names: "uHighlight" becomes "Highlight".
// Kage has no bool type, so bools are passed as 0 or 1.
func (d *Device) kageUniforms() map[string]any {
	out := make(map[string]any, len(d.current.uniforms))
	for name, u := range d.current.uniforms {
		kname := kageName(name)
		switch u.Type() {
		case render.UniformBool:
			if u.Bool() {
				out[kname] = float32(1)
			} else {
				out[kname] = float32(0)
			}
		case render.UniformFloat:
			out[kname] = u.Float()
		case render.UniformVec3, render.UniformVec4, render.UniformMat4:
			out[kname] = slices.Clone(u.Floats())
		}
	}
	return out
}

func kageName(name string) string {
	name = strings.TrimPrefix(name, "u")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// lit applies ambient, diffuse and Blinn-Phong specular terms of a single light.
func lit(base, normal, world, camera, lightDir, lightColor geom.Vec3, intensity, shininess float32) geom.Vec3 {
	toLight := lightDir.Negate()
	diffuse := max(0, normal.Dot(toLight)) * intensity

	toCamera := camera.Sub(world).Normalize()
	half := toLight.Add(toCamera).Normalize()
	specular := float32(0)
	if diffuse > 0 {
		specular = math32.Pow(max(0, normal.Dot(half)), shininess) * intensity * 0.5
	}

	c := base.MulScalar(ambient).
		Add(base.Mul(lightColor).MulScalar(diffuse)).
		Add(lightColor.MulScalar(specular))
	return c
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
