package ecs

import (
	"go.uber.org/zap"
)

// Singleton resolves the entity playing a unique role, such as the main camera
// or the active light, from a family. When several entities match, the first
// member wins; this is reported once through the engine's logger, since the
// engine does not reject a second candidate.
type Singleton struct {
	engine *Engine
	family *Family
	warned bool
}

// NewSingleton creates a Singleton over the family with the given types.
func NewSingleton(engine *Engine, types ...ComponentType) *Singleton {
	return &Singleton{
		engine: engine,
		family: engine.Family(types...),
	}
}

// Get returns the role's entity, or false when no entity plays the role.
func (s *Singleton) Get() (*Entity, bool) {
	e, ok := s.family.First()
	if !ok {
		return nil, false
	}

	if s.family.Len() > 1 && !s.warned {
		s.warned = true
		s.engine.logger.Warn("Multiple entities match a singleton role, using the first one",
			zap.Any("types", s.family.types),
			zap.String("entity", e.id),
			zap.Int("candidates", s.family.Len()))
	}

	return e, true
}

// Ambiguous reports whether more than one entity currently matches
func (s *Singleton) Ambiguous() bool {
	return s.family.Len() > 1
}

// Family returns the underlying family
func (s *Singleton) Family() *Family {
	return s.family
}
