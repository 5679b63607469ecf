package script_test

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ecstour/internal/testutil"
	"github.com/plus3/ecstour/script"
)

// next fetches the current instruction and advances past it.
func next(in *script.Interpreter) script.Instruction {
	inst, ok := in.Fetch()
	if !ok {
		return nil
	}
	in.Advance()
	return inst
}

// skipOdd returns the instruction at pc and skips the one after it.
func skipOdd(in *script.Interpreter) script.Instruction {
	inst, ok := in.Fetch()
	if !ok {
		return nil
	}
	in.Advance()
	in.Advance()
	return inst
}

func randProgram(r *rand.Rand, n int) script.Program {
	program := make(script.Program, n)
	for i := range program {
		slot := uint(r.IntN(4))
		if r.IntN(3) == 0 {
			program[i] = script.DeleteText{Slot: slot}
		} else {
			program[i] = script.ShowText{Slot: slot, Body: testutil.RandString(r, 1+r.IntN(8))}
		}
	}
	return program
}

func TestInstruction(t *testing.T) {
	assert.Equal(t, `ShowText(0, "A")`, script.ShowText{Slot: 0, Body: "A"}.String())
	assert.Equal(t, "DeleteText(7)", script.DeleteText{Slot: 7}.String())
}

func TestInterpreter(t *testing.T) {
	program := script.Program{
		script.ShowText{Slot: 0, Body: "A"},
		script.ShowText{Slot: 1, Body: "B"},
		script.DeleteText{Slot: 0},
	}

	t.Run("starts at zero", func(t *testing.T) {
		in := script.New(program)
		assert.Equal(t, 0, in.PC())
		assert.Equal(t, 3, in.Len())
		assert.False(t, in.Exhausted())
	})

	t.Run("steps in program order", func(t *testing.T) {
		in := script.New(program)
		for i, want := range program {
			assert.Equal(t, want, script.Step(in, next), "step %d", i)
			assert.Equal(t, i+1, in.PC())
		}
		assert.True(t, in.Exhausted())
		assert.Nil(t, script.Step(in, next))
		assert.Equal(t, 3, in.PC())
	})

	t.Run("fetch does not advance", func(t *testing.T) {
		in := script.New(program)
		inst, ok := in.Fetch()
		require.True(t, ok)
		assert.Equal(t, program[0], inst)
		assert.Equal(t, 0, in.PC())
	})

	t.Run("empty program is exhausted", func(t *testing.T) {
		in := script.New(nil)
		assert.True(t, in.Exhausted())
		_, ok := in.Fetch()
		assert.False(t, ok)
		in.Advance()
		assert.Equal(t, 0, in.PC())
	})

	t.Run("program is copied", func(t *testing.T) {
		src := append(script.Program(nil), program...)
		in := script.New(src)
		src[0] = script.DeleteText{Slot: 42}

		inst, _ := in.Fetch()
		assert.Equal(t, program[0], inst)

		out := in.Program()
		out[1] = script.DeleteText{Slot: 42}
		assert.Equal(t, program, in.Program())
	})

	t.Run("handler result type is chosen per call", func(t *testing.T) {
		in := script.New(program)
		pc := script.Step(in, func(in *script.Interpreter) int {
			in.Advance()
			return in.PC()
		})
		assert.Equal(t, 1, pc)
		assert.Equal(t, program[1], script.Step(in, next))
	})

	t.Run("custom handler skips odd instructions", func(t *testing.T) {
		i0 := script.ShowText{Slot: 0, Body: "I0"}
		i2 := script.ShowText{Slot: 2, Body: "I2"}
		in := script.New(script.Program{
			i0,
			script.ShowText{Slot: 1, Body: "I1"},
			i2,
			script.DeleteText{Slot: 3},
		})

		var observed []script.Instruction
		var pcs []int
		for range 4 {
			if inst := script.Step(in, skipOdd); inst != nil {
				observed = append(observed, inst)
			}
			pcs = append(pcs, in.PC())
		}

		assert.Equal(t, []script.Instruction{i0, i2}, observed)
		assert.Equal(t, []int{2, 4, 4, 4}, pcs)
	})

	t.Run("steps are logged", func(t *testing.T) {
		var buf bytes.Buffer
		in := script.New(program, script.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
		script.Step(in, next)
		assert.Contains(t, buf.String(), `"pc":0`)
	})
}

func TestInterpreterProperties(t *testing.T) {
	r := testutil.NewRand(t)

	t.Run("monotone advance", func(t *testing.T) {
		for range 200 {
			program := randProgram(r, r.IntN(12))
			steps := r.IntN(20)

			in := script.New(program)
			prev := in.PC()
			for range steps {
				script.Step(in, next)
				require.GreaterOrEqual(t, in.PC(), prev)
				require.LessOrEqual(t, in.PC(), prev+1)
				prev = in.PC()
			}
			require.Equal(t, min(steps, len(program)), in.PC())
		}
	})

	t.Run("exhaustion is stable", func(t *testing.T) {
		for range 100 {
			program := randProgram(r, r.IntN(6))
			in := script.New(program)

			exhausted := false
			for range len(program) + 5 {
				inst := script.Step(in, next)
				if exhausted {
					require.Nil(t, inst)
					require.Equal(t, len(program), in.PC())
				}
				if inst == nil {
					exhausted = true
				}
			}
			require.True(t, exhausted)
		}
	})
}
