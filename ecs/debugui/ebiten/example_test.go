package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/ecs/debugui"
	debugui_ebiten "github.com/plus3/ecstour/ecs/debugui/ebiten"
	"github.com/plus3/ecstour/scene"
	"github.com/plus3/ecstour/script"
)

// Game implements ebiten.Game and wraps the scheduler pass in an ImGui frame.
type Game struct {
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	g.backend.Get().BeginFrame()
	g.scheduler.Once(1.0 / 60.0)
	g.backend.Get().EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.backend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	backend := debugui_ebiten.NewImguiBackend("ecstour debug UI", 1280, 720)

	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton(storage, *backend)
	scene.InstallScript(storage, script.Program{
		script.ShowText{Slot: 0, Body: "inspect me"},
		script.DeleteText{Slot: 0},
	}, 1.0)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&scene.ScriptSystem{})
	debugui.Install(registry, scheduler)

	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Hello")
			imgui.Text("Hello from ecstour!")
			imgui.End()
		},
	})

	game := &Game{
		scheduler: scheduler,
		backend:   ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage),
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
