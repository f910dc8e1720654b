package debugui

import "github.com/plus3/ember3d/input"

// Gate hides pointer input from the scene while ImGui wants the mouse, and
// movement input while it wants the keyboard.
type Gate struct {
	Input input.Input
	State *ImguiInputState
}

func NewGate(in input.Input, state *ImguiInputState) *Gate {
	return &Gate{Input: in, State: state}
}

func (g *Gate) blocked(name string) bool {
	if g.State == nil {
		return false
	}
	switch name {
	case input.ActionSelect, input.AxisLookX, input.AxisLookY:
		return g.State.WantCaptureMouse
	case input.AxisForward, input.AxisStrafe, input.AxisRise:
		return g.State.WantCaptureKeyboard
	}
	return false
}

func (g *Gate) IsActive(action string) bool {
	return !g.blocked(action) && g.Input.IsActive(action)
}

func (g *Gate) Axis(name string) float32 {
	if g.blocked(name) {
		return 0
	}
	return g.Input.Axis(name)
}

func (g *Gate) AxisChange(name string) float32 {
	if g.blocked(name) {
		return 0
	}
	return g.Input.AxisChange(name)
}
