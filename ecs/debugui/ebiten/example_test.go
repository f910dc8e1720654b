package ebiten_test

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/ecs/debugui"
	debugui_ebiten "github.com/plus3/ember3d/ecs/debugui/ebiten"
)

type game struct {
	scheduler *ecs.Scheduler
	imgui     *debugui_ebiten.Backend
}

func (g *game) Update() error {
	g.imgui.Frame(func() {
		g.scheduler.Tick(1.0 / 60.0)
	})
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	// scene rendering goes here, the ImGui overlay is drawn last
	g.imgui.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imgui.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	backend := debugui_ebiten.New("ember3d debug", 1280, 720)

	engine := ecs.NewEngine()
	engine.AddEntity(ecs.NewEntity("hello"))

	scheduler := ecs.NewScheduler(engine)
	scheduler.AddSystem(debugui.Default(scheduler))

	if err := ebiten.RunGame(&game{scheduler: scheduler, imgui: backend}); err != nil {
		panic(err)
	}
}
