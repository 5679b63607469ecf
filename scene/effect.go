// Package scene turns interpreter steps into changes to a 2D text scene.
//
// A ScriptSystem ticks a repeating clock and, each time it fires, steps the
// interpreter once. The resulting Effect is realized through the frame's
// command buffer: ShowText spawns a text entity tagged with its slot, and
// DeleteText despawns every text entity carrying that slot.
package scene

import (
	"fmt"

	"github.com/plus3/ecstour/script"
)

// Effect is the observable outcome of one interpreter step.
// A nil Effect means the program is exhausted.
type Effect interface {
	fmt.Stringer
	effect()
}

// ShowText spawns a text entity displaying Body under Slot.
type ShowText struct {
	Slot uint
	Body string
}

// DeleteText despawns every text entity under Slot.
type DeleteText struct {
	Slot uint
}

func (ShowText) effect()   {}
func (DeleteText) effect() {}

func (e ShowText) String() string {
	return fmt.Sprintf("ShowText(%d, %q)", e.Slot, e.Body)
}

func (e DeleteText) String() string {
	return fmt.Sprintf("DeleteText(%d)", e.Slot)
}

// EffectOf maps an instruction to the effect it requests.
func EffectOf(inst script.Instruction) Effect {
	switch inst := inst.(type) {
	case script.ShowText:
		return ShowText{Slot: inst.Slot, Body: inst.Body}
	case script.DeleteText:
		return DeleteText{Slot: inst.Slot}
	default:
		panic(fmt.Sprintf("scene: unknown instruction %T", inst))
	}
}

// StandardHandler reads the instruction at the program counter, advances past
// it and returns the matching Effect. It returns nil once the program is exhausted.
func StandardHandler(in *script.Interpreter) Effect {
	inst, ok := in.Fetch()
	if !ok {
		in.Logger().Debug().Int("pc", in.PC()).Msg("program exhausted")
		return nil
	}
	in.Advance()

	effect := EffectOf(inst)
	in.Logger().Debug().Stringer("effect", effect).Msg("instruction executed")
	return effect
}
