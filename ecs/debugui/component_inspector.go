package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/geom"
	"go.uber.org/zap"
)

// FieldEditor is one row of the inspector. Value points at the component's
// field; Editable is set for fields registered with a widget.
type FieldEditor struct {
	Name     string
	Widget   ecs.WidgetKind
	Editable bool
	Value    any
}

// InspectFields lists the fields of c in declaration order. Components without
// ecs.FieldSource fall back to their exported struct fields, read-only.
func InspectFields(registry *ecs.ComponentRegistry, c ecs.Component) []FieldEditor {
	source, ok := c.(ecs.FieldSource)
	if !ok {
		return reflectFields(c)
	}

	widgets := make(map[string]ecs.WidgetKind)
	if registry != nil {
		for _, f := range registry.EditableFields(c.ComponentType()) {
			widgets[f.Name] = f.Widget
		}
	}

	fields := source.Fields()
	editors := make([]FieldEditor, len(fields))
	for i, f := range fields {
		widget, editable := widgets[f.Name]
		editors[i] = FieldEditor{Name: f.Name, Widget: widget, Editable: editable, Value: f.Value}
	}
	return editors
}

func reflectFields(c ecs.Component) []FieldEditor {
	val := reflect.ValueOf(c)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return nil
	}
	val = val.Elem()

	var editors []FieldEditor
	for _, f := range globalReflectionCache.Fields(val.Type()) {
		editors = append(editors, FieldEditor{
			Name:  f.Name,
			Value: val.Field(f.Index).Addr().Interface(),
		})
	}
	return editors
}

// ComponentInspector shows the selected entity's components and edits the
// fields registered as editable.
type ComponentInspector struct{}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(ctx *Context) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	entity := ctx.Engine.Selected()
	if entity == nil {
		imgui.Text("No entity selected")
		return
	}

	registry := ctx.Engine.Registry()
	imgui.Text(fmt.Sprintf("Entity: %s (handle %d)", entity.Id(), entity.Handle()))
	imgui.Separator()

	for _, c := range entity.Components() {
		t := c.ComponentType()
		if !imgui.TreeNodeStr(string(t)) {
			continue
		}

		changed := false
		for _, field := range InspectFields(registry, c) {
			if renderField(string(t), field) {
				changed = true
			}
		}
		if changed {
			if loader, ok := c.(ecs.FieldsLoader); ok {
				loader.FieldsLoaded()
			}
		}

		if imgui.Button("Remove##" + string(t)) {
			removeComponent(ctx.Engine, entity, t)
		}
		imgui.TreePop()
	}

	if registry != nil && imgui.TreeNodeStr("Add Component") {
		for _, t := range registry.Types() {
			if entity.HasComponent(t) {
				continue
			}
			if imgui.Button(string(t)) {
				addComponent(ctx.Engine, entity, t)
			}
		}
		imgui.TreePop()
	}
}

func addComponent(engine *ecs.Engine, e *ecs.Entity, t ecs.ComponentType) {
	c, err := engine.Registry().New(t)
	if err == nil {
		err = e.AddComponent(c)
	}
	if err != nil {
		engine.Logger().Warn("Inspector component add failed",
			zap.String("entity", e.Id()),
			zap.String("component", string(t)),
			zap.Error(err))
	}
}

func removeComponent(engine *ecs.Engine, e *ecs.Entity, t ecs.ComponentType) {
	if err := e.RemoveComponent(t); err != nil {
		engine.Logger().Warn("Inspector component removal failed",
			zap.String("entity", e.Id()),
			zap.String("component", string(t)),
			zap.Error(err))
	}
}

// renderField draws a widget for the field and reports whether it changed.
func renderField(scope string, f FieldEditor) bool {
	label := fmt.Sprintf("%s##%s.%s", f.Name, scope, f.Name)
	if !f.Editable {
		imgui.Text(fmt.Sprintf("%s: %v", f.Name, display(f.Value)))
		return false
	}

	switch f.Widget {
	case ecs.WidgetNumber:
		switch p := f.Value.(type) {
		case *float32:
			imgui.SetNextItemWidth(150)
			return imgui.InputFloat(label, p)
		case *float64:
			v := float32(*p)
			imgui.SetNextItemWidth(150)
			if imgui.InputFloat(label, &v) {
				*p = float64(v)
				return true
			}
		case *int:
			v := int32(*p)
			imgui.SetNextItemWidth(150)
			if imgui.InputInt(label, &v) {
				*p = int(v)
				return true
			}
		}

	case ecs.WidgetVector3, ecs.WidgetColor:
		p, ok := f.Value.(*geom.Vec3)
		if !ok {
			break
		}
		v := [3]float32{p.X, p.Y, p.Z}
		var edited bool
		if f.Widget == ecs.WidgetColor {
			edited = imgui.ColorEdit3(label, &v)
		} else {
			edited = imgui.DragFloat3(label, &v)
		}
		if edited {
			*p = geom.V3(v[0], v[1], v[2])
			return true
		}

	case ecs.WidgetCheckbox:
		if p, ok := f.Value.(*bool); ok {
			return imgui.Checkbox(label, p)
		}

	case ecs.WidgetText:
		if p, ok := f.Value.(*string); ok {
			imgui.SetNextItemWidth(200)
			return imgui.InputTextWithHint(label, "", p, imgui.InputTextFlagsNone, nil)
		}
	}

	imgui.Text(fmt.Sprintf("%s: %v", f.Name, display(f.Value)))
	return false
}

func display(v any) any {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Interface()
	}
	return v
}
