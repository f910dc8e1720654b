// Package input exposes device state to systems as named actions and axes.
package input

// Input is polled by systems. Implementations are refreshed once per frame,
// before systems run, and never change during a tick.
type Input interface {
	IsActive(action string) bool
	Axis(name string) float32
	// AxisChange is the change of the axis since the previous frame
	AxisChange(name string) float32
}

// Action and axis names used by the built-in systems
const (
	ActionSelect = "select"

	AxisForward  = "forward"
	AxisStrafe   = "strafe"
	AxisRise     = "rise"
	AxisLookX    = "lookX"
	AxisLookY    = "lookY"
	AxisPointerX = "pointerX"
	AxisPointerY = "pointerY"
)

// Static is a map-backed Input for tests and headless runs.
type Static struct {
	Actions map[string]bool
	Axes    map[string]float32
	Changes map[string]float32
}

func NewStatic() *Static {
	return &Static{
		Actions: make(map[string]bool),
		Axes:    make(map[string]float32),
		Changes: make(map[string]float32),
	}
}

func (s *Static) IsActive(action string) bool     { return s.Actions[action] }
func (s *Static) Axis(name string) float32        { return s.Axes[name] }
func (s *Static) AxisChange(name string) float32  { return s.Changes[name] }
func (s *Static) SetActive(action string, v bool) { s.Actions[action] = v }
func (s *Static) SetAxis(name string, v float32)  { s.Axes[name] = v }

// Reset clears every action and axis
func (s *Static) Reset() {
	clear(s.Actions)
	clear(s.Axes)
	clear(s.Changes)
}
