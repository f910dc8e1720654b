package render

import (
	"image"

	"github.com/plus3/ember3d/geom"
)

// Handles are opaque, device-assigned identifiers. Zero is never a valid
// resource, except for DefaultFramebuffer.
type (
	ProgramHandle     uint32
	BufferHandle      uint32
	TextureHandle     uint32
	FramebufferHandle uint32
)

// DefaultFramebuffer is the on-screen framebuffer
const DefaultFramebuffer FramebufferHandle = 0

// ShaderSource is the source of one shader set. Backends without a separate
// vertex stage only use Fragment.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// ShaderLibrary resolves shader sets by name.
type ShaderLibrary interface {
	Shader(name string) (ShaderSource, error)
}

// ImageSource resolves loaded images by name.
type ImageSource interface {
	Image(name string) (image.Image, error)
}

// Device is the GPU abstraction the pipeline renders through. All calls happen
// on the render goroutine. Uniform, sampler and attribute calls apply to the
// program most recently passed to UseProgram.
type Device interface {
	CompileProgram(name string, src ShaderSource) (ProgramHandle, error)
	DeleteProgram(p ProgramHandle)
	UseProgram(p ProgramHandle)

	SetUniform(name string, u Uniform)
	SetSampler(name string, unit int)

	CreateBuffer() BufferHandle
	UploadBuffer(b BufferHandle, data []float32)
	BindAttribute(name string, b BufferHandle, size int)
	// DisableAttribute unbinds the named attribute so a later draw doesn't
	// read a buffer left over from an earlier object
	DisableAttribute(name string)

	CreateTexture(img image.Image) TextureHandle
	DeleteTexture(t TextureHandle)
	BindTexture(unit int, t TextureHandle)

	BindFramebuffer(fb FramebufferHandle)
	Viewport(x, y, width, height int)
	Clear(color geom.Vec4)

	// DrawTriangles draws vertexCount vertices of the bound attributes as a triangle list
	DrawTriangles(vertexCount int)

	Size() (width, height int)
}
