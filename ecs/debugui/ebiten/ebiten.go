// Package ebiten runs the Dear ImGui ebiten backend around an engine tick.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
)

// Backend wraps the ebiten Dear ImGui backend.
type Backend struct {
	*ebitenbackend.EbitenBackend
}

// New creates the backend and its window. ImGui's ini persistence is disabled.
func New(title string, width, height int) *Backend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Backend{EbitenBackend: backend}
}

// Frame runs fn inside an ImGui frame. Panels deferred by the debug UI system
// are flushed at the end of a tick, so the tick must run inside Frame.
func (b *Backend) Frame(fn func()) {
	b.BeginFrame()
	defer b.EndFrame()
	fn()
}
