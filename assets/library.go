// Package assets loads images, geometry and shader sources by name. The
// library is filled ahead of the first frame by Preload and may be refreshed
// in the background by a Watcher, so all access is synchronized.
package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/h2non/filetype"
	"github.com/mitchellh/go-homedir"
	"github.com/plus3/ember3d/render"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/tools/txtar"
)

var ErrAssetNotFound = errors.New("asset not found")

const (
	geometryDir = "geometry"
	shaderDir   = "shaders"
)

type Option func(*Library)

func WithLogger(logger *zap.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Library holds loaded assets. Images are addressed by their path relative to
// the library root, geometry by the file name under geometry/ without ".json",
// and shaders by the file name under shaders/ without extension.
type Library struct {
	fsys   fs.FS
	root   string
	logger *zap.Logger

	mu         sync.RWMutex
	images     map[string]image.Image
	geometries map[string]*render.Geometry
	shaders    map[string]render.ShaderSource
}

// NewLibrary creates a library reading from fsys. A nil fsys gives a library
// that only serves assets added in code.
func NewLibrary(fsys fs.FS, opts ...Option) *Library {
	l := &Library{
		fsys:       fsys,
		logger:     zap.NewNop(),
		images:     make(map[string]image.Image),
		geometries: make(map[string]*render.Geometry),
		shaders:    make(map[string]render.ShaderSource),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open creates a library rooted at a directory on disk. A leading ~ is
// expanded to the home directory.
func Open(root string, opts ...Option) (*Library, error) {
	dir, err := homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("expanding asset root %q: %w", root, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("asset root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset root %q is not a directory", dir)
	}

	l := NewLibrary(os.DirFS(dir), opts...)
	l.root = dir
	return l, nil
}

// OpenArchive creates a library over a txtar bundle, one archive file per
// asset path.
func OpenArchive(data []byte, opts ...Option) (*Library, error) {
	fsys, err := txtar.FS(txtar.Parse(data))
	if err != nil {
		return nil, fmt.Errorf("asset archive: %w", err)
	}
	return NewLibrary(fsys, opts...), nil
}

// Root returns the directory the library was opened on, or "" for libraries
// not backed by the OS file system.
func (l *Library) Root() string {
	return l.root
}

func (l *Library) Image(name string) (image.Image, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	img, ok := l.images[name]
	if !ok {
		return nil, fmt.Errorf("%w: image %q", ErrAssetNotFound, name)
	}
	return img, nil
}

func (l *Library) Geometry(name string) (*render.Geometry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	g, ok := l.geometries[name]
	if !ok {
		return nil, fmt.Errorf("%w: geometry %q", ErrAssetNotFound, name)
	}
	return g, nil
}

func (l *Library) Shader(name string) (render.ShaderSource, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src, ok := l.shaders[name]
	if !ok {
		return render.ShaderSource{}, fmt.Errorf("%w: shader %q", ErrAssetNotFound, name)
	}
	return src, nil
}

func (l *Library) AddImage(name string, img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.images[name] = img
}

func (l *Library) AddGeometry(name string, g *render.Geometry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.geometries[name] = g
}

func (l *Library) AddShader(name string, src render.ShaderSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shaders[name] = src
}

// Names lists the loaded asset names of each kind, sorted.
func (l *Library) Names() (images, geometries, shaders []string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedKeys(l.images), sortedKeys(l.geometries), sortedKeys(l.shaders)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *Library) readFile(name string) ([]byte, error) {
	if l.fsys == nil {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return data, err
}

// LoadImage reads and decodes the image at name. PNG, JPEG, GIF, BMP and WebP
// are supported.
func (l *Library) LoadImage(name string) (image.Image, error) {
	data, err := l.readFile(name)
	if err != nil {
		return nil, err
	}

	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("%s: not an image (detected %q)", name, kind.MIME.Value)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	l.AddImage(name, img)
	l.logger.Debug("Image loaded",
		zap.String("image", name),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

type geometryFile struct {
	Vertices  []float32 `json:"vertices"`
	Normals   []float32 `json:"normals"`
	TexCoords []float32 `json:"texcoords"`
}

// LoadGeometry reads geometry/<name>.json, a JSON object with flat
// "vertices", "normals" and "texcoords" arrays.
func (l *Library) LoadGeometry(name string) (*render.Geometry, error) {
	data, err := l.readFile(path.Join(geometryDir, name+".json"))
	if err != nil {
		return nil, err
	}

	g, err := ParseGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("geometry %s: %w", name, err)
	}

	l.AddGeometry(name, g)
	l.logger.Debug("Geometry loaded",
		zap.String("geometry", name),
		zap.Int("triangles", g.TriangleCount()))
	return g, nil
}

// ParseGeometry decodes the geometry file format and checks array lengths.
func ParseGeometry(data []byte) (*render.Geometry, error) {
	var f geometryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if len(f.Vertices)%9 != 0 {
		return nil, fmt.Errorf("vertex array length %d is not a whole number of triangles", len(f.Vertices))
	}
	count := len(f.Vertices) / 3
	if len(f.Normals) != 0 && len(f.Normals) != count*3 {
		return nil, fmt.Errorf("normal array has %d values, want %d", len(f.Normals), count*3)
	}
	if len(f.TexCoords) != 0 && len(f.TexCoords) != count*2 {
		return nil, fmt.Errorf("texcoord array has %d values, want %d", len(f.TexCoords), count*2)
	}

	return render.NewGeometry(f.Vertices, f.Normals, f.TexCoords), nil
}

// LoadShader reads shaders/<name>.vert and the fragment stage from
// shaders/<name>.frag, or shaders/<name>.kage for ebiten programs. The vertex
// stage is optional.
func (l *Library) LoadShader(name string) (render.ShaderSource, error) {
	var src render.ShaderSource

	vert, err := l.readFile(path.Join(shaderDir, name+".vert"))
	switch {
	case err == nil:
		src.Vertex = string(vert)
	case !errors.Is(err, ErrAssetNotFound):
		return src, err
	}

	frag, err := l.readFile(path.Join(shaderDir, name+".frag"))
	if errors.Is(err, ErrAssetNotFound) {
		frag, err = l.readFile(path.Join(shaderDir, name+".kage"))
	}
	if err != nil {
		return src, fmt.Errorf("shader %s fragment: %w", name, err)
	}
	src.Fragment = string(frag)

	l.AddShader(name, src)
	l.logger.Debug("Shader loaded", zap.String("shader", name))
	return src, nil
}
