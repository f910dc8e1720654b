package ebitengpu

import (
	"embed"
	"fmt"

	"github.com/plus3/ember3d/render"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

// Shaders serves the built-in Kage programs for the "basic", "unlit" and
// "grid" shader names. Ebiten has no vertex stage, so Vertex is left empty.
type Shaders struct{}

func (Shaders) Shader(name string) (render.ShaderSource, error) {
	src, err := shaderFS.ReadFile("shaders/" + name + ".kage")
	if err != nil {
		return render.ShaderSource{}, fmt.Errorf("builtin shader %q: %w", name, err)
	}
	return render.ShaderSource{Fragment: string(src)}, nil
}

// Fallback serves shaders from primary, falling back to the built-in set.
type Fallback struct {
	Primary render.ShaderLibrary
}

func (f Fallback) Shader(name string) (render.ShaderSource, error) {
	if f.Primary != nil {
		if src, err := f.Primary.Shader(name); err == nil {
			return src, nil
		}
	}
	return Shaders{}.Shader(name)
}
