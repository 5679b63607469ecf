package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/scene"
)

// ScriptInspector shows the interpreter's program, its counter, the clock and
// the text entities currently on screen.
type ScriptInspector struct{}

func NewScriptInspector() *ScriptInspector {
	return &ScriptInspector{}
}

func (si *ScriptInspector) Render(storage *ecs.Storage) {
	var interp *scene.ScriptInterpreter
	if !storage.ReadSingleton(&interp) || interp.Interpreter == nil {
		return
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(360, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 300), imgui.CondOnce)
	defer imgui.End()
	if !imgui.BeginV("Script", nil, imgui.WindowFlagsNone) {
		return
	}

	state := "running"
	if interp.Exhausted() {
		state = "exhausted"
	}
	imgui.Text(fmt.Sprintf("PC: %d / %d (%s)", interp.PC(), interp.Len(), state))

	var clock *scene.ClockTimer
	if storage.ReadSingleton(&clock) {
		imgui.Text(fmt.Sprintf("Next tick in: %s", clock.Remaining()))
	}

	imgui.Separator()
	if imgui.TreeNodeStr("Program") {
		for i, inst := range interp.Program() {
			marker := " "
			if i == interp.PC() {
				marker = ">"
			}
			imgui.Text(fmt.Sprintf("%s %3d  %s", marker, i, inst))
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Scene") {
		var rows [][]string
		for _, line := range scene.Lines(storage) {
			rows = append(rows, []string{line.Entity.String(), fmt.Sprint(line.Slot), line.Body})
		}
		table("##scene", []string{"Entity", "Slot", "Body"}, rows)
		imgui.TreePop()
	}
}
