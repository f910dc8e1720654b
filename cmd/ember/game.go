package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ember3d/ecs"
	debugui_ebiten "github.com/plus3/ember3d/ecs/debugui/ebiten"
	"github.com/plus3/ember3d/input"
	"github.com/plus3/ember3d/render"
	"github.com/plus3/ember3d/render/ebitengpu"
	"go.uber.org/zap"
)

// Game drives the engine from ebiten. Simulation systems tick in Update and
// the render systems tick in Draw, once the target image is known.
type Game struct {
	logger *zap.Logger

	keyboard  *input.Keyboard
	update    *ecs.Scheduler
	draw      *ecs.Scheduler
	device    *ebitengpu.Device
	pipeline  *render.Pipeline
	imgui     *debugui_ebiten.Backend
	reloads   <-chan string
	fixedStep float64

	width, height int
}

func (g *Game) delta() float64 {
	if g.fixedStep > 0 {
		return g.fixedStep
	}
	return 1 / float64(ebiten.TPS())
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.drainReloads()
	g.keyboard.Poll()

	if g.imgui != nil {
		g.imgui.Frame(func() { g.update.Tick(g.delta()) })
	} else {
		g.update.Tick(g.delta())
	}
	return nil
}

func (g *Game) drainReloads() {
	for {
		select {
		case name, ok := <-g.reloads:
			if !ok {
				g.reloads = nil
				return
			}
			g.logger.Info("Reloading shader", zap.String("shader", name))
			g.pipeline.ReloadShader(name)
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.device.SetTarget(screen)
	g.draw.Tick(0)

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Viewport reports the size of the last layout, used to unproject clicks
func (g *Game) Viewport() (int, int) {
	return g.width, g.height
}
