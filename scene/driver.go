package scene

import (
	"github.com/rs/zerolog"

	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/script"
)

// PulsePolicy decides how many interpreter steps a frame may take when the
// clock fired more than once during it.
type PulsePolicy uint8

const (
	// OnePerFrame steps at most once per frame and discards extra pulses.
	OnePerFrame PulsePolicy = iota
	// DrainPulses steps once for every pulse the clock reported.
	DrainPulses
)

func (p PulsePolicy) String() string {
	if p == DrainPulses {
		return "drain"
	}
	return "one-per-frame"
}

// ScriptSystem steps the scene's interpreter each time the clock fires and
// applies the resulting effect through the frame's command buffer.
type ScriptSystem struct {
	Texts       ecs.Query[SlotView]
	Interpreter ecs.Singleton[ScriptInterpreter]
	Clock       ecs.Singleton[ClockTimer]

	// Handler produces the effect of a step. StandardHandler when nil.
	Handler script.Handler[Effect]
	Pulses  PulsePolicy
	Logger  *zerolog.Logger

	pending map[uint]int
}

// Execute implements ecs.System.
func (s *ScriptSystem) Execute(frame *ecs.UpdateFrame) {
	clock := s.Clock.Get()
	interp := s.Interpreter.Get()
	if clock == nil || interp == nil || interp.Interpreter == nil {
		return
	}

	if !clock.Tick(frame.Delta()).JustFinished() {
		return
	}

	steps := 1
	if s.Pulses == DrainPulses {
		steps = int(clock.TimesFinishedThisTick())
	}

	handler := s.Handler
	if handler == nil {
		handler = StandardHandler
	}

	clear(s.pending)
	for range steps {
		effect := script.Step(interp.Interpreter, handler)
		if effect == nil {
			return
		}
		s.apply(frame, effect)
	}
}

func (s *ScriptSystem) apply(frame *ecs.UpdateFrame, effect Effect) {
	logger := s.logger()

	switch effect := effect.(type) {
	case ShowText:
		frame.Commands.Spawn(NewTextBundle(effect.Slot, effect.Body)...)
		if s.pending == nil {
			s.pending = make(map[uint]int)
		}
		s.pending[effect.Slot]++
		logger.Info().Uint("slot", effect.Slot).Str("body", effect.Body).Msg("show text")

	case DeleteText:
		n := DespawnSlot(frame.Commands, s.Texts.Iter(), effect.Slot)
		if s.pending[effect.Slot] > 0 {
			// Spawns queued earlier this frame are not visible to the query yet.
			storage, slot := frame.Storage, effect.Slot
			frame.Commands.Defer(func() { sweepSlot(storage, slot) })
			delete(s.pending, effect.Slot)
		}
		logger.Info().Uint("slot", effect.Slot).Int("despawned", n).Msg("delete text")
	}
}

func (s *ScriptSystem) logger() *zerolog.Logger {
	if s.Logger == nil {
		nop := zerolog.Nop()
		s.Logger = &nop
	}
	return s.Logger
}

// InstallScript inserts the interpreter and clock singletons a ScriptSystem
// reads. period is the clock period in seconds.
func InstallScript(storage *ecs.Storage, program script.Program, period float64, opts ...script.Option) *script.Interpreter {
	interp := script.New(program, opts...)
	ecs.InsertSingleton(storage, ScriptInterpreter{Interpreter: interp})
	ecs.InsertSingleton(storage, NewClockTimer(period))
	return interp
}
