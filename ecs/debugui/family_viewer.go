package debugui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ember3d/ecs"
)

type FamilyInfo struct {
	Family      *ecs.Family
	Types       string
	EntityCount int
}

// FamilyViewer lists the engine's live families with their member counts.
// Selecting a family shows its members; clicking a member selects it.
type FamilyViewer struct {
	sortColumn    int
	sortAscending bool
	selected      *ecs.Family
}

func NewFamilyViewer() *FamilyViewer {
	return &FamilyViewer{sortColumn: 1}
}

// Rows returns the families sorted by the current column: 0 types, 1 count.
func (fv *FamilyViewer) Rows(engine *ecs.Engine) []FamilyInfo {
	families := engine.Families()
	rows := make([]FamilyInfo, len(families))
	for i, f := range families {
		names := make([]string, 0, len(f.Types()))
		for _, t := range f.Types() {
			names = append(names, string(t))
		}
		rows[i] = FamilyInfo{Family: f, Types: strings.Join(names, ", "), EntityCount: f.Len()}
	}

	slices.SortStableFunc(rows, func(a, b FamilyInfo) int {
		if !fv.sortAscending {
			a, b = b, a
		}
		if fv.sortColumn == 0 {
			return strings.Compare(a.Types, b.Types)
		}
		return a.EntityCount - b.EntityCount
	})
	return rows
}

func (fv *FamilyViewer) Render(ctx *Context) {
	if !imgui.BeginV("Families", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	rows := fv.Rows(ctx.Engine)
	maxCount := 0
	for _, row := range rows {
		maxCount = max(maxCount, row.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("FamilyTable", 2, tableFlags, imgui.NewVec2(0, 200), 0) {
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			fv.sortColumn = int(spec.ColumnIndex())
			fv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(row.Types, row.Family == fv.selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				fv.selected = row.Family
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))

			if maxCount > 0 {
				barWidth := float32(row.EntityCount) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	if fv.selected == nil {
		return
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Members (%d)", fv.selected.Len()))
	for _, e := range fv.selected.Entities() {
		if imgui.SelectableBoolV(e.Id(), e == ctx.Engine.Selected(), imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
			ctx.Engine.Select(e)
		}
	}
}
