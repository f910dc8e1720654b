package ecs

// System represents a behavior that operates on entities with specific components.
// Systems build their families in OnAttach and may keep custom state that
// persists between frames.
type System interface {
	Update(frame *UpdateFrame)
}

// Attacher is implemented by systems that need setup when added to a scheduler.
type Attacher interface {
	OnAttach(engine *Engine)
}

// Detacher is implemented by systems that need cleanup when removed from a scheduler.
type Detacher interface {
	OnDetach(engine *Engine)
}

// SystemFunc adapts a function to the System interface
type SystemFunc func(frame *UpdateFrame)

func (fn SystemFunc) Update(frame *UpdateFrame) {
	fn(frame)
}
