package render

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

type programEntry struct {
	handle ProgramHandle
	sum    uint64
	err    error
}

// ProgramCache compiles each shader set at most once per device. Failures are
// cached as well, so a broken shader is reported once instead of every frame.
type ProgramCache struct {
	device  Device
	shaders ShaderLibrary
	logger  *zap.Logger
	entries map[string]*programEntry
}

func NewProgramCache(device Device, shaders ShaderLibrary, logger *zap.Logger) *ProgramCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramCache{
		device:  device,
		shaders: shaders,
		logger:  logger,
		entries: make(map[string]*programEntry),
	}
}

// Program returns the compiled program for the named shader set, compiling it
// on first request. Errors wrap ErrShaderCompile.
func (c *ProgramCache) Program(name string) (ProgramHandle, error) {
	if e, ok := c.entries[name]; ok {
		return e.handle, e.err
	}

	entry := &programEntry{}
	entry.handle, entry.sum, entry.err = c.compile(name)
	c.entries[name] = entry

	if entry.err != nil {
		c.logger.Error("Shader program compile failed",
			zap.String("shader", name),
			zap.Error(entry.err))
	} else {
		c.logger.Debug("Shader program compiled", zap.String("shader", name))
	}

	return entry.handle, entry.err
}

func (c *ProgramCache) compile(name string) (ProgramHandle, uint64, error) {
	if c.shaders == nil {
		return 0, 0, fmt.Errorf("%w: %s: no shader library", ErrShaderCompile, name)
	}

	src, err := c.shaders.Shader(name)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrShaderCompile, name, err)
	}
	sum := sourceSum(src)

	handle, err := c.device.CompileProgram(name, src)
	if err != nil {
		return 0, sum, fmt.Errorf("%w: %s: %w", ErrShaderCompile, name, err)
	}
	return handle, sum, nil
}

func sourceSum(src ShaderSource) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(src.Vertex)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(src.Fragment)
	return d.Sum64()
}

// Changed reports whether the named shader set would compile from different
// source than the cached program. Uncached and failed sets count as changed.
func (c *ProgramCache) Changed(name string) bool {
	e, ok := c.entries[name]
	if !ok || e.err != nil || c.shaders == nil {
		return true
	}
	src, err := c.shaders.Shader(name)
	if err != nil {
		return true
	}
	return sourceSum(src) != e.sum
}

// Invalidate drops the cached program so that the next request recompiles it.
func (c *ProgramCache) Invalidate(name string) {
	e, ok := c.entries[name]
	if !ok {
		return
	}

	if e.err == nil {
		c.device.DeleteProgram(e.handle)
	}
	delete(c.entries, name)
}

// Len returns the number of cached entries, including failures
func (c *ProgramCache) Len() int {
	return len(c.entries)
}

// TextureCache creates device textures from named images on first use.
type TextureCache struct {
	device   Device
	images   ImageSource
	logger   *zap.Logger
	textures map[string]TextureHandle
	missing  map[string]bool
}

func NewTextureCache(device Device, images ImageSource, logger *zap.Logger) *TextureCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextureCache{
		device:   device,
		images:   images,
		logger:   logger,
		textures: make(map[string]TextureHandle),
		missing:  make(map[string]bool),
	}
}

// Texture returns the texture for the named image. It returns false while the
// image is not loaded; the lookup is retried on later calls.
func (c *TextureCache) Texture(name string) (TextureHandle, bool) {
	if t, ok := c.textures[name]; ok {
		return t, true
	}
	if c.images == nil || name == "" {
		return 0, false
	}

	img, err := c.images.Image(name)
	if err != nil {
		if !c.missing[name] {
			c.missing[name] = true
			c.logger.Warn("Texture not loaded, skipping sampler",
				zap.String("texture", name),
				zap.Error(err))
		}
		return 0, false
	}

	delete(c.missing, name)
	t := c.device.CreateTexture(img)
	c.textures[name] = t
	return t, true
}

// Invalidate frees the texture so it is recreated from the image on next use.
func (c *TextureCache) Invalidate(name string) {
	if t, ok := c.textures[name]; ok {
		c.device.DeleteTexture(t)
		delete(c.textures, name)
	}
	delete(c.missing, name)
}
