package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ember3d/ecs"
	"go.uber.org/zap"
)

type EntityInfo struct {
	Entity         *ecs.Entity
	Index          int
	ComponentTypes []string
}

// EntityBrowser lists the engine's entities and drives the engine selection.
type EntityBrowser struct {
	entities      []EntityInfo
	dirty         bool
	engine        *ecs.Engine
	cancel        func()
	sortColumn    int
	sortAscending bool

	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		sortAscending:      true,
		maxEntitiesPerPage: maxEntitiesPerPage,
		dirty:              true,
	}
}

// watch rebuilds the cached rows only after entity or component changes.
func (eb *EntityBrowser) watch(engine *ecs.Engine) {
	if eb.engine == engine {
		return
	}
	if eb.cancel != nil {
		eb.cancel()
	}
	eb.engine = engine
	eb.dirty = true
	eb.cancel = engine.Subscribe(func(ev ecs.Event) {
		if ev.Kind != ecs.SelectionChanged {
			eb.dirty = true
		}
	})
}

func (eb *EntityBrowser) Render(ctx *Context) {
	eb.watch(ctx.Engine)

	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if eb.dirty {
		eb.rebuild(ctx.Engine)
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}
	imgui.SameLine()
	if imgui.Button("Spawn") {
		spawnEntity(ctx.Engine)
	}
	if selected := ctx.Engine.Selected(); selected != nil {
		imgui.SameLine()
		if imgui.Button("Remove") {
			removeEntity(ctx.Engine, selected)
		}
	}

	filtered := eb.Filtered()
	selected := ctx.Engine.Selected()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Index")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		start := min(eb.currentPage*eb.maxEntitiesPerPage, len(filtered))
		end := min(start+eb.maxEntitiesPerPage, len(filtered))

		for _, info := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(info.Entity.Id(), info.Entity == selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				ctx.Engine.Select(info.Entity)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.Index))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(info.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(info.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if len(filtered) > eb.maxEntitiesPerPage {
		totalPages := (len(filtered) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

func (eb *EntityBrowser) rebuild(engine *ecs.Engine) {
	eb.entities = eb.entities[:0]
	for i, e := range engine.Entities() {
		types := e.ComponentTypes()
		names := make([]string, len(types))
		for j, t := range types {
			names[j] = string(t)
		}
		eb.entities = append(eb.entities, EntityInfo{Entity: e, Index: i, ComponentTypes: names})
	}
	eb.dirty = false
	eb.sort()
}

// SortBy orders rows by column: 0 id, 1 index, 2 component names, 3 count.
func (eb *EntityBrowser) SortBy(column int, ascending bool) {
	eb.sortColumn = column
	eb.sortAscending = ascending
	eb.sort()
}

func (eb *EntityBrowser) sort() {
	sort.SliceStable(eb.entities, func(i, j int) bool {
		a, b := eb.entities[i], eb.entities[j]
		if !eb.sortAscending {
			a, b = b, a
		}

		switch eb.sortColumn {
		case 1:
			return a.Index < b.Index
		case 2:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			return len(a.ComponentTypes) < len(b.ComponentTypes)
		default:
			return a.Entity.Id() < b.Entity.Id()
		}
	})
}

// Filtered returns the rows whose id or component names contain the filter
// text, ignoring case.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" {
		return eb.entities
	}

	filter := strings.ToLower(eb.filterText)
	filtered := make([]EntityInfo, 0, len(eb.entities))
	for _, info := range eb.entities {
		id := strings.ToLower(info.Entity.Id())
		components := strings.ToLower(strings.Join(info.ComponentTypes, " "))
		if strings.Contains(id, filter) || strings.Contains(components, filter) {
			filtered = append(filtered, info)
		}
	}
	return filtered
}

// SetFilter replaces the search text
func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
}

// Refresh rebuilds the rows immediately.
func (eb *EntityBrowser) Refresh(engine *ecs.Engine) {
	eb.watch(engine)
	eb.rebuild(engine)
}

// spawnEntity adds an empty entity and selects it
func spawnEntity(engine *ecs.Engine) *ecs.Entity {
	e := ecs.NewEntity()
	if err := engine.AddEntity(e); err != nil {
		engine.Logger().Warn("Browser spawn failed", zap.String("entity", e.Id()), zap.Error(err))
		return nil
	}
	engine.Select(e)
	return e
}

func removeEntity(engine *ecs.Engine, e *ecs.Entity) {
	if err := engine.RemoveEntity(e); err != nil {
		engine.Logger().Warn("Browser entity removal failed", zap.String("entity", e.Id()), zap.Error(err))
	}
}
