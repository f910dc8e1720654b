//go:build js && wasm

// Package webgl implements render.Device on a browser WebGL2 context.
package webgl

import (
	"fmt"
	"image"
	"image/draw"
	"syscall/js"

	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
	"go.uber.org/zap"
)

type glConsts struct {
	arrayBuffer      int
	staticDraw       int
	floatType        int
	triangles        int
	framebuffer      int
	texture2D        int
	rgba8            int
	rgba             int
	unsignedByte     int
	textureMinFilter int
	textureMagFilter int
	textureWrapS     int
	textureWrapT     int
	linear           int
	clampToEdge      int
	colorBufferBit   int
	depthBufferBit   int
	depthTest        int
	compileStatus    int
	linkStatus       int
	vertexShader     int
	fragmentShader   int
	texture0         int
}

type program struct {
	name      string
	value     js.Value
	locations map[string]js.Value
	attribs   map[string]int
}

// Device issues WebGL2 calls through syscall/js.
type Device struct {
	gl     js.Value
	canvas js.Value
	consts glConsts
	logger *zap.Logger

	nextHandle   uint32
	programs     map[render.ProgramHandle]*program
	current      *program
	buffers      map[render.BufferHandle]js.Value
	textures     map[render.TextureHandle]js.Value
	framebuffers map[render.FramebufferHandle]js.Value
}

// NewDevice wraps the WebGL2 context of canvas.
func NewDevice(canvas js.Value, logger *zap.Logger) (*Device, error) {
	gl := canvas.Call("getContext", "webgl2")
	if gl.IsUndefined() || gl.IsNull() {
		return nil, fmt.Errorf("webgl2 context unavailable")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Device{
		gl:           gl,
		canvas:       canvas,
		logger:       logger,
		programs:     make(map[render.ProgramHandle]*program),
		buffers:      make(map[render.BufferHandle]js.Value),
		textures:     make(map[render.TextureHandle]js.Value),
		framebuffers: make(map[render.FramebufferHandle]js.Value),
	}
	d.initConsts()
	d.gl.Call("enable", d.consts.depthTest)
	return d, nil
}

func (d *Device) initConsts() {
	d.consts = glConsts{
		arrayBuffer:      d.gl.Get("ARRAY_BUFFER").Int(),
		staticDraw:       d.gl.Get("STATIC_DRAW").Int(),
		floatType:        d.gl.Get("FLOAT").Int(),
		triangles:        d.gl.Get("TRIANGLES").Int(),
		framebuffer:      d.gl.Get("FRAMEBUFFER").Int(),
		texture2D:        d.gl.Get("TEXTURE_2D").Int(),
		rgba8:            d.gl.Get("RGBA8").Int(),
		rgba:             d.gl.Get("RGBA").Int(),
		unsignedByte:     d.gl.Get("UNSIGNED_BYTE").Int(),
		textureMinFilter: d.gl.Get("TEXTURE_MIN_FILTER").Int(),
		textureMagFilter: d.gl.Get("TEXTURE_MAG_FILTER").Int(),
		textureWrapS:     d.gl.Get("TEXTURE_WRAP_S").Int(),
		textureWrapT:     d.gl.Get("TEXTURE_WRAP_T").Int(),
		linear:           d.gl.Get("LINEAR").Int(),
		clampToEdge:      d.gl.Get("CLAMP_TO_EDGE").Int(),
		colorBufferBit:   d.gl.Get("COLOR_BUFFER_BIT").Int(),
		depthBufferBit:   d.gl.Get("DEPTH_BUFFER_BIT").Int(),
		depthTest:        d.gl.Get("DEPTH_TEST").Int(),
		compileStatus:    d.gl.Get("COMPILE_STATUS").Int(),
		linkStatus:       d.gl.Get("LINK_STATUS").Int(),
		vertexShader:     d.gl.Get("VERTEX_SHADER").Int(),
		fragmentShader:   d.gl.Get("FRAGMENT_SHADER").Int(),
		texture0:         d.gl.Get("TEXTURE0").Int(),
	}
}

func (d *Device) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) CompileProgram(name string, src render.ShaderSource) (render.ProgramHandle, error) {
	vs, err := d.compileShader(d.consts.vertexShader, src.Vertex)
	if err != nil {
		return 0, fmt.Errorf("%s vertex: %w", name, err)
	}
	fs, err := d.compileShader(d.consts.fragmentShader, src.Fragment)
	if err != nil {
		d.gl.Call("deleteShader", vs)
		return 0, fmt.Errorf("%s fragment: %w", name, err)
	}

	p := d.gl.Call("createProgram")
	d.gl.Call("attachShader", p, vs)
	d.gl.Call("attachShader", p, fs)
	d.gl.Call("linkProgram", p)
	d.gl.Call("deleteShader", vs)
	d.gl.Call("deleteShader", fs)

	if !d.gl.Call("getProgramParameter", p, d.consts.linkStatus).Bool() {
		log := d.gl.Call("getProgramInfoLog", p).String()
		d.gl.Call("deleteProgram", p)
		return 0, fmt.Errorf("%s link: %s", name, log)
	}

	h := render.ProgramHandle(d.handle())
	d.programs[h] = &program{
		name:      name,
		value:     p,
		locations: make(map[string]js.Value),
		attribs:   make(map[string]int),
	}
	return h, nil
}

func (d *Device) compileShader(shaderType int, source string) (js.Value, error) {
	shader := d.gl.Call("createShader", shaderType)
	d.gl.Call("shaderSource", shader, source)
	d.gl.Call("compileShader", shader)
	if !d.gl.Call("getShaderParameter", shader, d.consts.compileStatus).Bool() {
		log := d.gl.Call("getShaderInfoLog", shader).String()
		d.gl.Call("deleteShader", shader)
		return js.Null(), fmt.Errorf("compile error: %s", log)
	}
	return shader, nil
}

func (d *Device) DeleteProgram(p render.ProgramHandle) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	d.gl.Call("deleteProgram", prog.value)
	delete(d.programs, p)
	if d.current == prog {
		d.current = nil
	}
}

func (d *Device) UseProgram(p render.ProgramHandle) {
	prog, ok := d.programs[p]
	if !ok {
		d.current = nil
		d.gl.Call("useProgram", js.Null())
		return
	}
	d.current = prog
	d.gl.Call("useProgram", prog.value)
}

func (d *Device) location(name string) (js.Value, bool) {
	if d.current == nil {
		return js.Null(), false
	}
	loc, ok := d.current.locations[name]
	if !ok {
		loc = d.gl.Call("getUniformLocation", d.current.value, name)
		d.current.locations[name] = loc
	}
	return loc, !loc.IsNull()
}

func (d *Device) SetUniform(name string, u render.Uniform) {
	loc, ok := d.location(name)
	if !ok {
		return
	}

	switch u.Type() {
	case render.UniformBool:
		v := 0
		if u.Bool() {
			v = 1
		}
		d.gl.Call("uniform1i", loc, v)
	case render.UniformFloat:
		d.gl.Call("uniform1f", loc, u.Float())
	case render.UniformVec3:
		v := u.Vec3()
		d.gl.Call("uniform3f", loc, v.X, v.Y, v.Z)
	case render.UniformVec4:
		v := u.Vec4()
		d.gl.Call("uniform4f", loc, v.X, v.Y, v.Z, v.W)
	case render.UniformMat4:
		d.gl.Call("uniformMatrix4fv", loc, false, float32Array(u.Floats()))
	}
}

func (d *Device) SetSampler(name string, unit int) {
	if loc, ok := d.location(name); ok {
		d.gl.Call("uniform1i", loc, unit)
	}
}

func (d *Device) CreateBuffer() render.BufferHandle {
	h := render.BufferHandle(d.handle())
	d.buffers[h] = d.gl.Call("createBuffer")
	return h
}

func (d *Device) UploadBuffer(b render.BufferHandle, data []float32) {
	buf, ok := d.buffers[b]
	if !ok {
		return
	}
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, buf)
	d.gl.Call("bufferData", d.consts.arrayBuffer, float32Array(data), d.consts.staticDraw)
}

func (d *Device) BindAttribute(name string, b render.BufferHandle, size int) {
	if d.current == nil {
		return
	}
	buf, ok := d.buffers[b]
	if !ok {
		return
	}

	index, ok := d.current.attribs[name]
	if !ok {
		index = d.gl.Call("getAttribLocation", d.current.value, name).Int()
		d.current.attribs[name] = index
	}
	if index < 0 {
		return
	}

	d.gl.Call("bindBuffer", d.consts.arrayBuffer, buf)
	d.gl.Call("enableVertexAttribArray", index)
	d.gl.Call("vertexAttribPointer", index, size, d.consts.floatType, false, 0, 0)
}

func (d *Device) DisableAttribute(name string) {
	if d.current == nil {
		return
	}
	index, ok := d.current.attribs[name]
	if !ok {
		index = d.gl.Call("getAttribLocation", d.current.value, name).Int()
		d.current.attribs[name] = index
	}
	if index >= 0 {
		d.gl.Call("disableVertexAttribArray", index)
	}
}

func (d *Device) CreateTexture(img image.Image) render.TextureHandle {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	tex := d.gl.Call("createTexture")
	d.gl.Call("bindTexture", d.consts.texture2D, tex)
	d.gl.Call("texParameteri", d.consts.texture2D, d.consts.textureMinFilter, d.consts.linear)
	d.gl.Call("texParameteri", d.consts.texture2D, d.consts.textureMagFilter, d.consts.linear)
	d.gl.Call("texParameteri", d.consts.texture2D, d.consts.textureWrapS, d.consts.clampToEdge)
	d.gl.Call("texParameteri", d.consts.texture2D, d.consts.textureWrapT, d.consts.clampToEdge)
	d.gl.Call("texImage2D", d.consts.texture2D, 0, d.consts.rgba8, bounds.Dx(), bounds.Dy(), 0,
		d.consts.rgba, d.consts.unsignedByte, uint8Array(rgba.Pix))

	h := render.TextureHandle(d.handle())
	d.textures[h] = tex
	return h
}

func (d *Device) DeleteTexture(t render.TextureHandle) {
	tex, ok := d.textures[t]
	if !ok {
		return
	}
	d.gl.Call("deleteTexture", tex)
	delete(d.textures, t)
}

func (d *Device) BindTexture(unit int, t render.TextureHandle) {
	tex, ok := d.textures[t]
	if !ok {
		return
	}
	d.gl.Call("activeTexture", d.consts.texture0+unit)
	d.gl.Call("bindTexture", d.consts.texture2D, tex)
}

func (d *Device) BindFramebuffer(fb render.FramebufferHandle) {
	if fb == render.DefaultFramebuffer {
		d.gl.Call("bindFramebuffer", d.consts.framebuffer, js.Null())
		return
	}
	if v, ok := d.framebuffers[fb]; ok {
		d.gl.Call("bindFramebuffer", d.consts.framebuffer, v)
		return
	}
	d.logger.Warn("Unknown framebuffer", zap.Uint32("framebuffer", uint32(fb)))
}

func (d *Device) Viewport(x, y, width, height int) {
	d.gl.Call("viewport", x, y, width, height)
}

func (d *Device) Clear(c geom.Vec4) {
	d.gl.Call("clearColor", c.X, c.Y, c.Z, c.W)
	d.gl.Call("clear", d.consts.colorBufferBit|d.consts.depthBufferBit)
}

func (d *Device) DrawTriangles(vertexCount int) {
	if d.current == nil || vertexCount == 0 {
		return
	}
	d.gl.Call("drawArrays", d.consts.triangles, 0, vertexCount)
}

// Size returns the drawing buffer size of the canvas.
func (d *Device) Size() (int, int) {
	return d.canvas.Get("width").Int(), d.canvas.Get("height").Int()
}
