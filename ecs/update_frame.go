package ecs

type UpdateFrame struct {
	// DeltaTime is the elapsed time since the previous tick in seconds
	DeltaTime float64

	// Frame counts ticks, starting at 1
	Frame uint64

	Engine   *Engine
	Commands *Commands
}

func newUpdateFrame(dt float64, frame uint64, engine *Engine, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Engine:    engine,
		Commands:  commands,
	}
}
