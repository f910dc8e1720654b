package ebitengpu

import (
	"testing"

	"github.com/plus3/ember3d/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKageName(t *testing.T) {
	assert.Equal(t, "Highlight", kageName("uHighlight"))
	assert.Equal(t, "LightColor", kageName("uLightColor"))
	assert.Equal(t, "Tint", kageName("tint"))
	assert.Equal(t, "", kageName("u"))
}

func TestLitFacingLight(t *testing.T) {
	base := geom.V3(1, 0, 0)
	up := geom.V3(0, 1, 0)
	down := geom.V3(0, -1, 0)

	facing := lit(base, up, geom.Vec3{}, geom.V3(0, 5, 0), down, geom.V3(1, 1, 1), 1, 16)
	away := lit(base, down, geom.Vec3{}, geom.V3(0, 5, 0), down, geom.V3(1, 1, 1), 1, 16)

	assert.Greater(t, facing.X, away.X)
	assert.InDelta(t, ambient, away.X, 1e-6, "faces turned away only get ambient")
	assert.InDelta(t, 0, away.Y, 1e-6)
}

func TestBuiltinShaders(t *testing.T) {
	for _, name := range []string{"basic", "unlit", "grid"} {
		src, err := Shaders{}.Shader(name)
		require.NoError(t, err, name)
		assert.Contains(t, src.Fragment, "func Fragment")
	}

	_, err := Shaders{}.Shader("toon")
	assert.Error(t, err)
}
