package debugui

import (
	"fmt"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/ecstour/ecs"
)

// PerformanceWindow plots wall-clock frame times and lists scheduler and
// storage statistics.
type PerformanceWindow struct {
	history []float32 // ms, ring buffer
	next    int
	last    time.Time
}

func NewPerformanceWindow(historyFrames int) *PerformanceWindow {
	return &PerformanceWindow{
		history: make([]float32, max(historyFrames, 1)),
		last:    time.Now(),
	}
}

func (pw *PerformanceWindow) record() float32 {
	now := time.Now()
	pw.history[pw.next] = float32(now.Sub(pw.last).Seconds() * 1000)
	pw.next = (pw.next + 1) % len(pw.history)
	pw.last = now

	var sum float32
	for _, ms := range pw.history {
		sum += ms
	}
	return sum / float32(len(pw.history))
}

func (pw *PerformanceWindow) Render(scheduler *ecs.Scheduler) {
	avg := pw.record()

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 300), imgui.CondOnce)
	defer imgui.End()
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		return
	}

	storage := scheduler.Storage().CollectStats()
	sched := scheduler.GetStats()

	imgui.Text(fmt.Sprintf("Frames: %d", sched.Frames))
	imgui.Text(fmt.Sprintf("Entities: %d in %d archetypes", storage.TotalEntityCount, storage.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", storage.SingletonCount))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Frame: %.2f ms avg, %.0f FPS", avg, 1000/avg))
	}
	imgui.PlotLinesFloatPtr("##frames", &pw.history[0], int32(len(pw.history)))

	if imgui.TreeNodeStr("Systems") {
		rows := make([][]string, 0, len(sched.Systems))
		for _, sys := range sched.Systems {
			rows = append(rows, []string{
				sys.Name,
				fmt.Sprint(sys.ExecutionCount),
				sys.AvgDuration.String(),
				sys.MaxDuration.String(),
			})
		}
		table("##systems", []string{"System", "Runs", "Avg", "Max"}, rows)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetypes") {
		rows := make([][]string, 0, len(storage.ArchetypeBreakdown))
		for _, arch := range storage.ArchetypeBreakdown {
			rows = append(rows, []string{
				fmt.Sprintf("%08x", arch.ID),
				strings.Join(arch.ComponentTypes, ", "),
				fmt.Sprint(arch.EntityCount),
			})
		}
		table("##archetypes", []string{"Id", "Components", "Entities"}, rows)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range storage.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}
}

func table(id string, headers []string, rows [][]string) {
	const flags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV(id, int32(len(headers)), flags, imgui.NewVec2(0, 0), 0) {
		return
	}
	for _, h := range headers {
		imgui.TableSetupColumn(h)
	}
	imgui.TableHeadersRow()
	for _, row := range rows {
		imgui.TableNextRow()
		for _, cell := range row {
			imgui.TableNextColumn()
			imgui.Text(cell)
		}
	}
	imgui.EndTable()
}
