package editorlink

import (
	"github.com/plus3/ember3d/ecs"
	"go.uber.org/zap"
)

// HubSystem connects a Hub to the engine: it forwards every engine event to
// the editors and applies their queued commands once per tick.
type HubSystem struct {
	Hub *Hub

	cancel func()
}

func NewHubSystem(hub *Hub) *HubSystem {
	return &HubSystem{Hub: hub}
}

func (s *HubSystem) OnAttach(engine *ecs.Engine) {
	s.cancel = engine.Subscribe(func(ev ecs.Event) {
		s.Hub.Broadcast(EventMessage(ev))
	})
}

func (s *HubSystem) OnDetach(*ecs.Engine) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *HubSystem) Update(frame *ecs.UpdateFrame) {
	for {
		select {
		case cmd := <-s.Hub.Commands():
			s.apply(frame, cmd)
		default:
			return
		}
	}
}

func (s *HubSystem) apply(frame *ecs.UpdateFrame, cmd Command) {
	log := s.Hub.logger.With(zap.String("client", cmd.Client), zap.String("entity", cmd.Entity))

	var target *ecs.Entity
	if cmd.Entity != "" {
		e, ok := frame.Engine.EntityById(cmd.Entity)
		if !ok {
			log.Warn("Editor command names an unknown entity", zap.String("type", cmd.Type))
			return
		}
		target = e
	}

	switch cmd.Type {
	case CommandSelect:
		frame.Engine.Select(target)
	case CommandRemove:
		if target == nil {
			log.Warn("Remove command without entity")
			return
		}
		frame.Commands.Remove(target)
	default:
		log.Warn("Unknown editor command", zap.String("type", cmd.Type))
	}
}
