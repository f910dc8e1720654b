package scene

import (
	"encoding/json"
	"fmt"

	"github.com/plus3/ember3d/ecs"
	"go.uber.org/zap"
)

type fieldData struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type componentData struct {
	Name   string      `json:"name"`
	Fields []fieldData `json:"fields"`
}

type entityData struct {
	Id         string          `json:"id"`
	Components []componentData `json:"components"`
}

type options struct {
	logger *zap.Logger
}

type Option func(*options)

// WithLogger sets the logger used to report ignored fields
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// FromGame serializes every entity of the engine, in engine order. Components
// without fields are written with an empty field list.
func FromGame(engine *ecs.Engine) ([]byte, error) {
	return Marshal(engine.Entities())
}

// Marshal serializes the given entities.
func Marshal(entities []*ecs.Entity) ([]byte, error) {
	out := make([]entityData, 0, len(entities))

	for _, e := range entities {
		ed := entityData{Id: e.Id(), Components: []componentData{}}

		for _, c := range e.Components() {
			cd := componentData{Name: string(c.ComponentType()), Fields: []fieldData{}}

			if src, ok := c.(ecs.FieldSource); ok {
				for _, f := range src.Fields() {
					raw, err := json.Marshal(f.Value)
					if err != nil {
						return nil, fmt.Errorf("entity %q: %s.%s: %w", e.Id(), cd.Name, f.Name, err)
					}
					cd.Fields = append(cd.Fields, fieldData{Name: f.Name, Value: raw})
				}
			}

			ed.Components = append(ed.Components, cd)
		}

		out = append(out, ed)
	}

	return json.MarshalIndent(out, "", "  ")
}

// FromString decodes a scene into detached entities. Component names are
// resolved through registry; an unknown name fails with ecs.ErrUnknownComponent.
// Unknown fields are ignored with a warning.
func FromString(data string, registry *ecs.ComponentRegistry, opts ...Option) ([]*ecs.Entity, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var scene []entityData
	if err := json.Unmarshal([]byte(data), &scene); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}

	entities := make([]*ecs.Entity, 0, len(scene))
	for _, ed := range scene {
		e := ecs.NewEntity(ed.Id)

		for _, cd := range ed.Components {
			c, err := registry.New(ecs.ComponentType(cd.Name))
			if err != nil {
				return nil, fmt.Errorf("entity %q: %w", ed.Id, err)
			}

			if err := loadFields(c, cd, o.logger.With(zap.String("entity", ed.Id))); err != nil {
				return nil, fmt.Errorf("entity %q: %w", ed.Id, err)
			}

			if err := e.AddComponent(c); err != nil {
				return nil, fmt.Errorf("entity %q: %w", ed.Id, err)
			}
		}

		entities = append(entities, e)
	}

	return entities, nil
}

func loadFields(c ecs.Component, cd componentData, logger *zap.Logger) error {
	if len(cd.Fields) == 0 {
		return nil
	}

	src, ok := c.(ecs.FieldSource)
	if !ok {
		logger.Warn("Component has no fields, ignoring scene values",
			zap.String("component", cd.Name))
		return nil
	}

	targets := make(map[string]any)
	for _, f := range src.Fields() {
		targets[f.Name] = f.Value
	}

	for _, fd := range cd.Fields {
		target, ok := targets[fd.Name]
		if !ok {
			logger.Warn("Unknown component field, ignoring",
				zap.String("component", cd.Name),
				zap.String("field", fd.Name))
			continue
		}
		if err := json.Unmarshal(fd.Value, target); err != nil {
			return fmt.Errorf("%s.%s: %w", cd.Name, fd.Name, err)
		}
	}

	if l, ok := c.(ecs.FieldsLoader); ok {
		l.FieldsLoaded()
	}
	return nil
}

// Load decodes a scene with the engine's registry and adds its entities. No
// entity is added if any id is duplicated or already present in the engine.
func Load(engine *ecs.Engine, data string) ([]*ecs.Entity, error) {
	entities, err := FromString(data, engine.Registry(), WithLogger(engine.Logger()))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		if _, dup := seen[e.Id()]; dup {
			return nil, fmt.Errorf("%w: %q appears twice in scene", ecs.ErrEntityIdConflict, e.Id())
		}
		seen[e.Id()] = struct{}{}

		if _, exists := engine.EntityById(e.Id()); exists {
			return nil, fmt.Errorf("%w: %q", ecs.ErrEntityIdConflict, e.Id())
		}
	}

	for _, e := range entities {
		if err := engine.AddEntity(e); err != nil {
			return nil, err
		}
	}
	return entities, nil
}
