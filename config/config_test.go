package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  width: 800
camera:
  fov: 75
editor_link:
  enabled: true
physics:
  enabled: true
`))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset fields keep defaults")
	assert.Equal(t, float32(75), cfg.Camera.FOV)
	assert.True(t, cfg.EditorLink.Enabled)
	assert.Equal(t, "127.0.0.1:7777", cfg.EditorLink.Listen)
	assert.Equal(t, float32(-9.81), cfg.Physics.GravityY)
}

func TestValidateListsEveryField(t *testing.T) {
	_, err := Parse([]byte(`
window:
  width: 0
camera:
  near: 10
  far: 1
log:
  level: loud
`))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "window.width")
	assert.Contains(t, msg, "camera.far")
	assert.Contains(t, msg, "log.level")
	assert.NotContains(t, msg, "window.height")
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
scene = "level1.json"

[assets]
root = "~/ember/assets"
watch = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "level1.json", cfg.Scene)
	assert.Equal(t, "~/ember/assets", cfg.Assets.Root)
	assert.True(t, cfg.Assets.Watch)
	assert.Equal(t, "manifest.yaml", cfg.Assets.Manifest)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
