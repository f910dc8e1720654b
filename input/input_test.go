package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

type fakeDevice struct {
	keys        map[ebiten.Key]bool
	justKeys    map[ebiten.Key]bool
	buttons     map[ebiten.MouseButton]bool
	justButtons map[ebiten.MouseButton]bool
	x, y        int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		keys:        map[ebiten.Key]bool{},
		justKeys:    map[ebiten.Key]bool{},
		buttons:     map[ebiten.MouseButton]bool{},
		justButtons: map[ebiten.MouseButton]bool{},
	}
}

func (d *fakeDevice) keyPressed(k ebiten.Key) bool               { return d.keys[k] }
func (d *fakeDevice) keyJustPressed(k ebiten.Key) bool           { return d.justKeys[k] }
func (d *fakeDevice) mousePressed(b ebiten.MouseButton) bool     { return d.buttons[b] }
func (d *fakeDevice) mouseJustPressed(b ebiten.MouseButton) bool { return d.justButtons[b] }
func (d *fakeDevice) cursor() (int, int)                         { return d.x, d.y }
func (d *fakeDevice) wheel() (float64, float64)                  { return 0, 0 }

var _ Input = (*Keyboard)(nil)
var _ Input = (*Static)(nil)

func TestKeyboardButtonAxes(t *testing.T) {
	dev := newFakeDevice()
	kb := newKeyboard(DefaultBindings(), dev)

	dev.keys[ebiten.KeyW] = true
	dev.keys[ebiten.KeyA] = true
	kb.Poll()
	assert.Equal(t, float32(1), kb.Axis(AxisForward))
	assert.Equal(t, float32(-1), kb.Axis(AxisStrafe))
	assert.Equal(t, float32(0), kb.Axis(AxisRise))

	dev.keys[ebiten.KeyS] = true
	kb.Poll()
	assert.Equal(t, float32(0), kb.Axis(AxisForward), "opposite keys cancel")
	assert.Equal(t, float32(-1), kb.AxisChange(AxisForward))
}

func TestKeyboardSelectIsEdgeTriggered(t *testing.T) {
	dev := newFakeDevice()
	kb := newKeyboard(DefaultBindings(), dev)

	dev.buttons[ebiten.MouseButtonLeft] = true
	dev.justButtons[ebiten.MouseButtonLeft] = true
	kb.Poll()
	assert.True(t, kb.IsActive(ActionSelect))

	dev.justButtons[ebiten.MouseButtonLeft] = false
	kb.Poll()
	assert.False(t, kb.IsActive(ActionSelect))
}

func TestKeyboardLookOnlyWhileHeld(t *testing.T) {
	dev := newFakeDevice()
	kb := newKeyboard(DefaultBindings(), dev)

	dev.x, dev.y = 100, 100
	kb.Poll()
	assert.Equal(t, float32(0), kb.AxisChange(AxisLookX), "first poll has no change")

	dev.x = 110
	kb.Poll()
	assert.Equal(t, float32(0), kb.AxisChange(AxisLookX))
	assert.Equal(t, float32(10), kb.AxisChange(AxisPointerX))
	assert.Equal(t, float32(110), kb.Axis(AxisPointerX))

	dev.buttons[ebiten.MouseButtonRight] = true
	dev.x, dev.y = 125, 95
	kb.Poll()
	assert.Equal(t, float32(15), kb.AxisChange(AxisLookX))
	assert.Equal(t, float32(-5), kb.AxisChange(AxisLookY))
}

func TestStatic(t *testing.T) {
	in := NewStatic()
	in.SetActive(ActionSelect, true)
	in.SetAxis(AxisForward, 1)
	in.Changes[AxisLookX] = 3

	assert.True(t, in.IsActive(ActionSelect))
	assert.Equal(t, float32(1), in.Axis(AxisForward))
	assert.Equal(t, float32(3), in.AxisChange(AxisLookX))

	in.Reset()
	assert.False(t, in.IsActive(ActionSelect))
	assert.Zero(t, in.Axis(AxisForward))
}
