package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
)

// PerformanceStats plots frame times and lists per-system timings.
type PerformanceStats struct {
	history []float32
	index   int
	filled  int
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	return &PerformanceStats{history: make([]float32, max(1, historyFrames))}
}

// Record adds a frame duration in seconds.
func (ps *PerformanceStats) Record(dt float64) {
	ps.history[ps.index] = float32(dt * 1000)
	ps.index = (ps.index + 1) % len(ps.history)
	ps.filled = min(ps.filled+1, len(ps.history))
}

// AverageMillis averages the recorded frames.
func (ps *PerformanceStats) AverageMillis() float32 {
	if ps.filled == 0 {
		return 0
	}
	var total float32
	for _, ms := range ps.history[:ps.filled] {
		total += ms
	}
	return total / float32(ps.filled)
}

func (ps *PerformanceStats) Render(ctx *Context) {
	ps.Record(ctx.DeltaTime)

	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.Text(fmt.Sprintf("Entities: %d", ctx.Engine.Len()))
	imgui.Text(fmt.Sprintf("Families: %d", len(ctx.Engine.Families())))

	avg := ps.AverageMillis()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.history[0], int32(len(ps.history)))

	if ctx.Scheduler == nil {
		return
	}

	stats := ctx.Scheduler.Stats()
	if imgui.TreeNodeStr(fmt.Sprintf("Systems (%d, frame %d)", stats.SystemCount, stats.Frames)) {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, s := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(s.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}
}
