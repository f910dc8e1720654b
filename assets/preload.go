package assets

import (
	"context"
	"fmt"
	"io/fs"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Manifest lists the assets a scene needs before its first frame.
type Manifest struct {
	Images     []string `yaml:"images"`
	Geometries []string `yaml:"geometries"`
	Shaders    []string `yaml:"shaders"`
}

func (m Manifest) Len() int {
	return len(m.Images) + len(m.Geometries) + len(m.Shaders)
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// ReadManifest reads a YAML manifest from the library's file system.
func (l *Library) ReadManifest(name string) (Manifest, error) {
	if l.fsys == nil {
		return Manifest{}, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// PreloadConcurrency bounds the number of files loaded at once
const PreloadConcurrency = 8

// Preload loads every asset in the manifest in parallel and returns the first
// error. No deadline is imposed; pass a context with one to bound the wait.
func (l *Library) Preload(ctx context.Context, m Manifest) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(PreloadConcurrency)

	load := func(kind, name string, fn func(string) error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(name); err != nil {
				return fmt.Errorf("preloading %s %q: %w", kind, name, err)
			}
			return nil
		})
	}

	for _, name := range m.Images {
		load("image", name, func(n string) error {
			_, err := l.LoadImage(n)
			return err
		})
	}
	for _, name := range m.Geometries {
		load("geometry", name, func(n string) error {
			_, err := l.LoadGeometry(n)
			return err
		})
	}
	for _, name := range m.Shaders {
		load("shader", name, func(n string) error {
			_, err := l.LoadShader(n)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		l.logger.Error("Asset preload failed", zap.Error(err))
		return err
	}

	l.logger.Info("Assets preloaded", zap.Int("count", m.Len()))
	return nil
}
