package debugui

import (
	"fmt"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ember3d/ecs"
)

// QueryDebugger counts the entities matching a set of component types without
// creating a family for it.
type QueryDebugger struct {
	selected map[ecs.ComponentType]bool
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{selected: make(map[ecs.ComponentType]bool)}
}

// Toggle adds or removes a required component type.
func (qd *QueryDebugger) Toggle(t ecs.ComponentType, on bool) {
	if on {
		qd.selected[t] = true
	} else {
		delete(qd.selected, t)
	}
}

// Required returns the selected types in sorted order.
func (qd *QueryDebugger) Required() []ecs.ComponentType {
	types := make([]ecs.ComponentType, 0, len(qd.selected))
	for t := range qd.selected {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Match returns the engine's entities that have every required type.
func (qd *QueryDebugger) Match(engine *ecs.Engine) []*ecs.Entity {
	required := qd.Required()
	if len(required) == 0 {
		return nil
	}

	var matches []*ecs.Entity
	for _, e := range engine.Entities() {
		if e.HasComponents(required) {
			matches = append(matches, e)
		}
	}
	return matches
}

// knownTypes lists registered types plus any present on entities.
func knownTypes(engine *ecs.Engine) []ecs.ComponentType {
	var types []ecs.ComponentType
	if registry := engine.Registry(); registry != nil {
		types = append(types, registry.Types()...)
	}
	for _, e := range engine.Entities() {
		types = append(types, e.ComponentTypes()...)
	}
	slices.Sort(types)
	return slices.Compact(types)
}

func (qd *QueryDebugger) Render(ctx *Context) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(qd.selected)
	}

	for _, t := range knownTypes(ctx.Engine) {
		on := qd.selected[t]
		if imgui.Checkbox(string(t), &on) {
			qd.Toggle(t, on)
		}
	}

	imgui.Separator()

	if len(qd.selected) == 0 {
		imgui.Text("No component types selected")
		return
	}

	matches := qd.Match(ctx.Engine)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))

	if imgui.TreeNodeStr("Entities") {
		for _, e := range matches {
			imgui.BulletText(e.Id())
		}
		imgui.TreePop()
	}
}
