// Package debugui draws Dear ImGui windows from inside the ECS frame: any
// entity carrying an ImguiItem gets its Render func called once per frame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/ecstour/ecs"
)

// ImguiItem holds a function issuing ImGui calls.
type ImguiItem struct {
	Render func()
}

// ImguiInputState is a singleton mirroring whether ImGui wants the mouse or keyboard this frame.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions,
// so they run while the frame's command buffer is flushed, inside the ImGui frame.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}

// Install registers the debug UI components, the ImguiSystem, and spawns the
// performance and script inspector windows. An ImGui context must exist
// before the scheduler runs.
func Install(registry *ecs.ComponentRegistry, scheduler *ecs.Scheduler) {
	ecs.RegisterComponent[ImguiItem](registry)

	storage := scheduler.Storage()
	ecs.NewSingleton[ImguiInputState](storage)
	scheduler.Register(&ImguiSystem{})

	perf := NewPerformanceWindow(120)
	inspector := NewScriptInspector()
	storage.Spawn(ImguiItem{Render: func() { perf.Render(scheduler) }})
	storage.Spawn(ImguiItem{Render: func() { inspector.Render(storage) }})
}
