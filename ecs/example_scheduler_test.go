package ecs_test

import (
	"fmt"
	"time"

	"github.com/plus3/ecstour/ecs"
)

type Person struct{}

type Nickname struct {
	Value string
}

type GreetClock struct {
	ecs.Timer
}

type GreetSystem struct {
	People ecs.Query[struct {
		*Person
		*Nickname
	}]
	Clock ecs.Singleton[GreetClock]
}

func (s *GreetSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.Clock.Get().Tick(frame.Delta()).JustFinished() {
		return
	}
	for person := range s.People.Values() {
		fmt.Printf("frame %d: hello %s!\n", frame.Frame, person.Nickname.Value)
	}
}

// ExampleScheduler_RegisterStartup spawns entities from a startup system and
// greets them from an update system gated by a repeating timer resource.
// Startup commands are flushed before the first update pass runs.
func ExampleScheduler_RegisterStartup() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Person](registry)
	ecs.RegisterComponent[Nickname](registry)
	storage := ecs.NewStorage(registry)

	ecs.InsertSingleton(storage, GreetClock{ecs.NewTimer(2*time.Second, ecs.TimerRepeating)})

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Person{}, Nickname{"Alice"})
		frame.Commands.Spawn(Person{}, Nickname{"Bob"})
	}))
	scheduler.Register(&GreetSystem{})

	for range 5 {
		scheduler.Once(1.0)
	}

	// Output:
	// frame 2: hello Alice!
	// frame 2: hello Bob!
	// frame 4: hello Alice!
	// frame 4: hello Bob!
}

// ExampleTimer shows a repeating timer reporting how many periods a single
// large delta covered.
func ExampleTimer() {
	timer := ecs.NewTimer(time.Second, ecs.TimerRepeating)

	timer.Tick(2500 * time.Millisecond)
	fmt.Println(timer.JustFinished(), timer.TimesFinishedThisTick(), timer.Elapsed())

	timer.Tick(100 * time.Millisecond)
	fmt.Println(timer.JustFinished(), timer.TimesFinishedThisTick(), timer.Elapsed())

	// Output:
	// true 2 500ms
	// false 0 600ms
}
