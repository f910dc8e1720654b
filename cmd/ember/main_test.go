package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/ember3d/config"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func entityIds(engine *ecs.Engine) []string {
	var ids []string
	for _, e := range engine.Entities() {
		ids = append(ids, e.Id())
	}
	return ids
}

func TestDemoScene(t *testing.T) {
	cfg := config.Default()
	engine, err := buildEngine(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"camera", "sun", "floor", "crate"}, entityIds(engine))

	cam, ok := engine.EntityById("camera")
	require.True(t, ok)
	assert.Equal(t, cfg.Camera.FOV, ecs.MustGet[*scene.Camera](cam).FOV)
	assert.Equal(t, cfg.Editor.MoveSpeed, ecs.MustGet[*scene.EditorControl](cam).MoveSpeed)

	cfg.Physics.Enabled = true
	engine, err = buildEngine(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, entityIds(engine), "box")
}

func TestSceneFileRoundTrip(t *testing.T) {
	demo, err := buildEngine(config.Default(), zap.NewNop())
	require.NoError(t, err)
	data, err := scene.FromGame(demo)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Scene = filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(cfg.Scene, data, 0o644))

	engine, err := buildEngine(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, entityIds(demo), entityIds(engine))

	crate, _ := engine.EntityById("crate")
	assert.Equal(t, "cube", ecs.MustGet[*scene.Renderable](crate).Geometry)
}

func TestMissingSceneFile(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = filepath.Join(t.TempDir(), "missing.json")
	_, err := buildEngine(cfg, zap.NewNop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenAssetsFallsBackToPrimitives(t *testing.T) {
	cfg := config.Default().Assets
	cfg.Root = filepath.Join(t.TempDir(), "nowhere")

	library, err := openAssets(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = library.Geometry("cube")
	assert.NoError(t, err)
}

func TestOpenAssetsWithoutManifest(t *testing.T) {
	cfg := config.Default().Assets
	cfg.Root = t.TempDir()

	library, err := openAssets(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, cfg.Root, library.Root())
}
