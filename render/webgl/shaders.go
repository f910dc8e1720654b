package webgl

import (
	"embed"
	"fmt"

	"github.com/plus3/ember3d/render"
)

//go:embed shaders
var shaderFS embed.FS

var builtinStages = map[string][2]string{
	"basic": {"basic.vert", "basic.frag"},
	"unlit": {"flat.vert", "unlit.frag"},
	"grid":  {"flat.vert", "grid.frag"},
}

// Shaders serves the built-in GLSL ES 3.0 programs.
type Shaders struct{}

func (Shaders) Shader(name string) (render.ShaderSource, error) {
	stages, ok := builtinStages[name]
	if !ok {
		return render.ShaderSource{}, fmt.Errorf("builtin shader %q not found", name)
	}
	vs, err := shaderFS.ReadFile("shaders/" + stages[0])
	if err != nil {
		return render.ShaderSource{}, err
	}
	fs, err := shaderFS.ReadFile("shaders/" + stages[1])
	if err != nil {
		return render.ShaderSource{}, err
	}
	return render.ShaderSource{Vertex: string(vs), Fragment: string(fs)}, nil
}
