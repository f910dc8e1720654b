// Package debugui provides Dear ImGui inspection panels for an ecs.Engine.
// Panels are drawn from a system so they observe the engine after every
// system registered before them has run.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ember3d/ecs"
)

// Context is passed to every panel once per frame.
type Context struct {
	Engine    *ecs.Engine
	Scheduler *ecs.Scheduler
	DeltaTime float64
}

// Panel draws one ImGui window.
type Panel interface {
	Render(ctx *Context)
}

// PanelFunc adapts a function to the Panel interface
type PanelFunc func(ctx *Context)

func (fn PanelFunc) Render(ctx *Context) { fn(ctx) }

// ImguiInputState tracks whether ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// DebugUISystem defers its panels' render functions to the end of the tick,
// after the frame's systems have written their state.
type DebugUISystem struct {
	Scheduler *ecs.Scheduler
	Panels    []Panel

	// Input is refreshed every tick; share it with Gate to keep clicks on
	// panels out of the scene.
	Input *ImguiInputState

	// Hidden suppresses every panel
	Hidden bool
}

func NewDebugUISystem(scheduler *ecs.Scheduler, panels ...Panel) *DebugUISystem {
	return &DebugUISystem{
		Scheduler: scheduler,
		Panels:    panels,
		Input:     &ImguiInputState{},
	}
}

// Default builds a system with every built-in panel.
func Default(scheduler *ecs.Scheduler) *DebugUISystem {
	return NewDebugUISystem(scheduler,
		NewEntityBrowser(100),
		NewComponentInspector(),
		NewFamilyViewer(),
		NewQueryDebugger(),
		NewPerformanceStats(120),
	)
}

func (s *DebugUISystem) Update(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	s.Input.WantCaptureMouse = io.WantCaptureMouse()
	s.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	if s.Hidden {
		return
	}

	ctx := &Context{
		Engine:    frame.Engine,
		Scheduler: s.Scheduler,
		DeltaTime: frame.DeltaTime,
	}
	for _, panel := range s.Panels {
		frame.Commands.Defer(func() { panel.Render(ctx) })
	}
}
