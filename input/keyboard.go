package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Button is a key or a mouse button.
type Button struct {
	Key   ebiten.Key
	Mouse ebiten.MouseButton
	// IsMouse selects Mouse instead of Key
	IsMouse bool
}

func Key(k ebiten.Key) Button                 { return Button{Key: k} }
func MouseButton(b ebiten.MouseButton) Button { return Button{Mouse: b, IsMouse: true} }

// ActionBinding activates an action while any of its buttons is held, or only
// on the frame a button goes down when JustPressed is set.
type ActionBinding struct {
	Buttons     []Button
	JustPressed bool
}

type AxisSource int

const (
	// SourceButtons gives +1 while a Positive button is held and -1 for Negative
	SourceButtons AxisSource = iota
	SourceCursorX
	SourceCursorY
	SourceWheelY
)

// AxisBinding computes an axis value. With While set, the axis only changes
// while that button is held.
type AxisBinding struct {
	Source   AxisSource
	Positive []Button
	Negative []Button
	While    *Button
}

type Bindings struct {
	Actions map[string]ActionBinding
	Axes    map[string]AxisBinding
}

// DefaultBindings are the editor controls: WASD to fly, E/Q to rise and sink,
// right mouse drag to look and left click to select.
func DefaultBindings() Bindings {
	look := MouseButton(ebiten.MouseButtonRight)
	return Bindings{
		Actions: map[string]ActionBinding{
			ActionSelect: {Buttons: []Button{MouseButton(ebiten.MouseButtonLeft)}, JustPressed: true},
		},
		Axes: map[string]AxisBinding{
			AxisForward:  {Positive: []Button{Key(ebiten.KeyW), Key(ebiten.KeyArrowUp)}, Negative: []Button{Key(ebiten.KeyS), Key(ebiten.KeyArrowDown)}},
			AxisStrafe:   {Positive: []Button{Key(ebiten.KeyD), Key(ebiten.KeyArrowRight)}, Negative: []Button{Key(ebiten.KeyA), Key(ebiten.KeyArrowLeft)}},
			AxisRise:     {Positive: []Button{Key(ebiten.KeyE)}, Negative: []Button{Key(ebiten.KeyQ)}},
			AxisLookX:    {Source: SourceCursorX, While: &look},
			AxisLookY:    {Source: SourceCursorY, While: &look},
			AxisPointerX: {Source: SourceCursorX},
			AxisPointerY: {Source: SourceCursorY},
		},
	}
}

// device is the slice of ebiten's input API the keyboard reads
type device interface {
	keyPressed(ebiten.Key) bool
	keyJustPressed(ebiten.Key) bool
	mousePressed(ebiten.MouseButton) bool
	mouseJustPressed(ebiten.MouseButton) bool
	cursor() (int, int)
	wheel() (float64, float64)
}

type ebitenDevice struct{}

func (ebitenDevice) keyPressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (ebitenDevice) keyJustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }
func (ebitenDevice) mousePressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}
func (ebitenDevice) mouseJustPressed(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(b)
}
func (ebitenDevice) cursor() (int, int)        { return ebiten.CursorPosition() }
func (ebitenDevice) wheel() (float64, float64) { return ebiten.Wheel() }

// Keyboard reads ebiten's keyboard and mouse through Bindings. Call Poll once
// per frame from ebiten's Update, before the scheduler ticks.
type Keyboard struct {
	bindings Bindings
	dev      device

	actions map[string]bool
	axes    map[string]float32
	changes map[string]float32
	polled  bool
}

func NewKeyboard(bindings Bindings) *Keyboard {
	return newKeyboard(bindings, ebitenDevice{})
}

func newKeyboard(bindings Bindings, dev device) *Keyboard {
	return &Keyboard{
		bindings: bindings,
		dev:      dev,
		actions:  make(map[string]bool),
		axes:     make(map[string]float32),
		changes:  make(map[string]float32),
	}
}

func (k *Keyboard) pressed(b Button) bool {
	if b.IsMouse {
		return k.dev.mousePressed(b.Mouse)
	}
	return k.dev.keyPressed(b.Key)
}

func (k *Keyboard) justPressed(b Button) bool {
	if b.IsMouse {
		return k.dev.mouseJustPressed(b.Mouse)
	}
	return k.dev.keyJustPressed(b.Key)
}

func (k *Keyboard) anyPressed(buttons []Button) bool {
	for _, b := range buttons {
		if k.pressed(b) {
			return true
		}
	}
	return false
}

// Poll samples the devices. The first poll reports no axis change.
func (k *Keyboard) Poll() {
	for name, binding := range k.bindings.Actions {
		active := false
		for _, b := range binding.Buttons {
			if binding.JustPressed && k.justPressed(b) || !binding.JustPressed && k.pressed(b) {
				active = true
				break
			}
		}
		k.actions[name] = active
	}

	cx, cy := k.dev.cursor()
	_, wy := k.dev.wheel()

	for name, binding := range k.bindings.Axes {
		var value float32
		switch binding.Source {
		case SourceButtons:
			if k.anyPressed(binding.Positive) {
				value++
			}
			if k.anyPressed(binding.Negative) {
				value--
			}
		case SourceCursorX:
			value = float32(cx)
		case SourceCursorY:
			value = float32(cy)
		case SourceWheelY:
			value = float32(wy)
		}

		prev, seen := k.axes[name]
		change := value - prev
		if !k.polled || !seen || binding.While != nil && !k.pressed(*binding.While) {
			change = 0
		}

		k.axes[name] = value
		k.changes[name] = change
	}

	k.polled = true
}

func (k *Keyboard) IsActive(action string) bool    { return k.actions[action] }
func (k *Keyboard) Axis(name string) float32       { return k.axes[name] }
func (k *Keyboard) AxisChange(name string) float32 { return k.changes[name] }
