package debugui

import (
	"fmt"
	"sort"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/loop"
)

// PerformanceStats renders frame times and per-system scheduler timings.
type PerformanceStats struct {
	scheduler     *loop.Scheduler
	timer         *FrameTimer
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewPerformanceStats(scheduler *loop.Scheduler, historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		scheduler:     scheduler,
		timer:         NewFrameTimer(),
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

func (ps *PerformanceStats) Render() {
	ps.frameHistory[ps.frameIndex] = ps.timer.GetDeltaTime() * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	imgui.SetNextWindowPosV(imgui.NewVec2(320, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(380, 360), imgui.CondOnce)
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := ps.scheduler.GetStats()
	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Actions: %d (applied %d, rejected %d, locked %d)", stats.Actions,
		stats.Outcomes[game.Applied], stats.Outcomes[game.Rejected], stats.Outcomes[game.Locked]))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	plotSamples := make([]float32, ps.historyFrames)
	copy(plotSamples, ps.frameHistory[ps.frameIndex:])
	copy(plotSamples[ps.historyFrames-ps.frameIndex:], ps.frameHistory[:ps.frameIndex])
	if implot.BeginPlotV("Frame Time (ms)", imgui.NewVec2(-1, 150), 0) {
		implot.SetupAxesV("Frame", "ms", 0, implot.AxisFlagsAutoFit)
		implot.PlotLineFloatPtrInt("frame", &plotSamples[0], int32(len(plotSamples)))
		implot.EndPlot()
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsSizingFixedFit
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Name")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg (ms)")
			imgui.TableSetupColumn("Min (ms)")
			imgui.TableSetupColumn("Max (ms)")
			imgui.TableHeadersRow()

			systems := stats.Systems
			if sortSpecs := imgui.TableGetSortSpecs(); sortSpecs.SpecsCount() > 0 {
				spec := sortSpecs.Specs()
				sort.Slice(systems, func(i, j int) bool {
					less := systemLess(systems[i], systems[j], int(spec.ColumnIndex()))
					if spec.SortDirection() == imgui.SortDirectionDescending {
						return !less
					}
					return less
				})
			}

			for _, sys := range systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(millis(sys.AvgDuration))
				imgui.TableNextColumn()
				imgui.Text(millis(sys.MinDuration))
				imgui.TableNextColumn()
				imgui.Text(millis(sys.MaxDuration))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func systemLess(left, right loop.SystemStats, column int) bool {
	switch column {
	case 1:
		return left.ExecutionCount < right.ExecutionCount
	case 2:
		return left.AvgDuration < right.AvgDuration
	case 3:
		return left.MinDuration < right.MinDuration
	case 4:
		return left.MaxDuration < right.MaxDuration
	}
	return left.Name < right.Name
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d.Microseconds())/1000.0)
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
