// Package gputest provides a recording render.Device for tests.
package gputest

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
)

// Call is one recorded device call.
type Call struct {
	Op   string
	Name string
	Args []any
}

func (c Call) String() string {
	if c.Name == "" {
		return fmt.Sprintf("%s%v", c.Op, c.Args)
	}
	return fmt.Sprintf("%s(%s)%v", c.Op, c.Name, c.Args)
}

// Draw captures the state a DrawTriangles call would have used.
type Draw struct {
	Program     render.ProgramHandle
	Shader      string
	VertexCount int
	Uniforms    map[string]render.Uniform
	Samplers    map[string]int
	Attributes  map[string][]float32
}

// Device records every call and keeps just enough state to inspect draws.
type Device struct {
	Width  int
	Height int

	// FailCompile makes CompileProgram fail for the named shader sets
	FailCompile map[string]error

	Calls []Call
	Draws []Draw

	Compiled map[string]int
	Uploads  int
	Textures int

	nextHandle uint32
	programs   map[render.ProgramHandle]string
	buffers    map[render.BufferHandle][]float32
	current    render.ProgramHandle
	uniforms   map[render.ProgramHandle]map[string]render.Uniform
	samplers   map[string]int
	attributes map[string]render.BufferHandle
}

func NewDevice(width, height int) *Device {
	return &Device{
		Width:       width,
		Height:      height,
		FailCompile: make(map[string]error),
		Compiled:    make(map[string]int),
		programs:    make(map[render.ProgramHandle]string),
		buffers:     make(map[render.BufferHandle][]float32),
		uniforms:    make(map[render.ProgramHandle]map[string]render.Uniform),
		samplers:    make(map[string]int),
		attributes:  make(map[string]render.BufferHandle),
	}
}

func (d *Device) record(op, name string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Name: name, Args: args})
}

func (d *Device) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) CompileProgram(name string, src render.ShaderSource) (render.ProgramHandle, error) {
	d.record("CompileProgram", name)
	d.Compiled[name]++

	if err := d.FailCompile[name]; err != nil {
		return 0, err
	}

	p := render.ProgramHandle(d.handle())
	d.programs[p] = name
	d.uniforms[p] = make(map[string]render.Uniform)
	return p, nil
}

func (d *Device) DeleteProgram(p render.ProgramHandle) {
	d.record("DeleteProgram", d.programs[p])
	delete(d.programs, p)
	delete(d.uniforms, p)
}

func (d *Device) UseProgram(p render.ProgramHandle) {
	d.record("UseProgram", d.programs[p])
	d.current = p
	clear(d.samplers)
	clear(d.attributes)
}

func (d *Device) SetUniform(name string, u render.Uniform) {
	d.record("SetUniform", name, u)
	if values, ok := d.uniforms[d.current]; ok {
		values[name] = u
	}
}

func (d *Device) SetSampler(name string, unit int) {
	d.record("SetSampler", name, unit)
	d.samplers[name] = unit
}

func (d *Device) CreateBuffer() render.BufferHandle {
	b := render.BufferHandle(d.handle())
	d.record("CreateBuffer", "", b)
	return b
}

func (d *Device) UploadBuffer(b render.BufferHandle, data []float32) {
	d.record("UploadBuffer", "", b, len(data))
	d.Uploads++
	d.buffers[b] = slices.Clone(data)
}

func (d *Device) BindAttribute(name string, b render.BufferHandle, size int) {
	d.record("BindAttribute", name, b, size)
	d.attributes[name] = b
}

func (d *Device) DisableAttribute(name string) {
	d.record("DisableAttribute", name)
	delete(d.attributes, name)
}

func (d *Device) CreateTexture(img image.Image) render.TextureHandle {
	t := render.TextureHandle(d.handle())
	d.record("CreateTexture", "", t, img.Bounds().Dx(), img.Bounds().Dy())
	d.Textures++
	return t
}

func (d *Device) DeleteTexture(t render.TextureHandle) {
	d.record("DeleteTexture", "", t)
	d.Textures--
}

func (d *Device) BindTexture(unit int, t render.TextureHandle) {
	d.record("BindTexture", "", unit, t)
}

func (d *Device) BindFramebuffer(fb render.FramebufferHandle) {
	d.record("BindFramebuffer", "", fb)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport", "", x, y, width, height)
}

func (d *Device) Clear(color geom.Vec4) {
	d.record("Clear", "", color)
}

func (d *Device) DrawTriangles(vertexCount int) {
	d.record("DrawTriangles", d.programs[d.current], vertexCount)

	draw := Draw{
		Program:     d.current,
		Shader:      d.programs[d.current],
		VertexCount: vertexCount,
		Uniforms:    make(map[string]render.Uniform),
		Samplers:    make(map[string]int),
		Attributes:  make(map[string][]float32),
	}
	for k, v := range d.uniforms[d.current] {
		draw.Uniforms[k] = v
	}
	for k, v := range d.samplers {
		draw.Samplers[k] = v
	}
	for k, b := range d.attributes {
		draw.Attributes[k] = d.buffers[b]
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Device) Size() (int, int) {
	return d.Width, d.Height
}

// Ops returns the recorded operation names in order
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many calls of op were recorded, optionally filtered by name
func (d *Device) Count(op string, name ...string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op != op {
			continue
		}
		if len(name) > 0 && c.Name != name[0] {
			continue
		}
		n++
	}
	return n
}

// Reset forgets the recorded calls and draws, keeping GPU state.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
}

func (d *Device) String() string {
	var sb strings.Builder
	for _, c := range d.Calls {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Shaders is a map-backed render.ShaderLibrary
type Shaders map[string]render.ShaderSource

func (s Shaders) Shader(name string) (render.ShaderSource, error) {
	src, ok := s[name]
	if !ok {
		return render.ShaderSource{}, fmt.Errorf("shader %q not found", name)
	}
	return src, nil
}

// Images is a map-backed render.ImageSource
type Images map[string]image.Image

func (i Images) Image(name string) (image.Image, error) {
	img, ok := i[name]
	if !ok {
		return nil, fmt.Errorf("image %q not found", name)
	}
	return img, nil
}
