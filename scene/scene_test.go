package scene_test

import (
	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/scene"
	"github.com/plus3/ecstour/script"
)

type slotText struct {
	Slot uint
	Body string
}

type harness struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	interp    *script.Interpreter
	driver    *scene.ScriptSystem
}

func newHarness(program script.Program, period float64, configure ...func(*scene.ScriptSystem)) *harness {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	interp := scene.InstallScript(storage, program, period)
	driver := &scene.ScriptSystem{}
	for _, fn := range configure {
		fn(driver)
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(driver)

	return &harness{storage: storage, scheduler: scheduler, interp: interp, driver: driver}
}

// frame runs one scheduler pass with delta seconds.
func (h *harness) frame(delta float64) {
	h.scheduler.Once(delta)
}

func (h *harness) scene() []slotText {
	var out []slotText
	for _, line := range scene.Lines(h.storage) {
		out = append(out, slotText{Slot: line.Slot, Body: line.Body})
	}
	return out
}

func (h *harness) slotCount(slot uint) int {
	n := 0
	for _, line := range scene.Lines(h.storage) {
		if line.Slot == slot {
			n++
		}
	}
	return n
}
