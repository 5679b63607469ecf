package script

import (
	"github.com/rs/zerolog"
)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used to trace steps.
func WithLogger(logger zerolog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// Interpreter walks a Program with a program counter. It does not know what
// instructions mean; a Handler passed to Step reads the instruction at the
// counter, advances it, and decides what the step produces.
//
// The counter only moves forward and never exceeds the program length. Once it
// reaches the end the interpreter is exhausted for good.
type Interpreter struct {
	program Program
	pc      int
	logger  zerolog.Logger
}

// New creates an interpreter positioned at the first instruction.
// The program is copied, so later changes to the caller's slice are not observed.
func New(program Program, opts ...Option) *Interpreter {
	in := &Interpreter{
		program: append(Program(nil), program...),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Handler is a one-shot step function. It may inspect and advance the
// interpreter and returns whatever the step produced.
type Handler[T any] func(in *Interpreter) T

// Step runs h against the interpreter and returns its result.
// Each call takes a fresh handler; the interpreter never retains it.
func Step[T any](in *Interpreter, h Handler[T]) T {
	in.logger.Debug().Int("pc", in.pc).Int("len", len(in.program)).Msg("step")
	return h(in)
}

// PC returns the index of the next instruction.
func (in *Interpreter) PC() int {
	return in.pc
}

// Len returns the number of instructions in the program.
func (in *Interpreter) Len() int {
	return len(in.program)
}

// Exhausted reports whether every instruction has been consumed.
func (in *Interpreter) Exhausted() bool {
	return in.pc >= len(in.program)
}

// Fetch returns the instruction at the program counter without advancing.
func (in *Interpreter) Fetch() (Instruction, bool) {
	if in.Exhausted() {
		return nil, false
	}
	return in.program[in.pc], true
}

// Advance moves the program counter forward by one. It is a no-op once the
// interpreter is exhausted.
func (in *Interpreter) Advance() {
	if in.Exhausted() {
		in.logger.Debug().Int("pc", in.pc).Msg("program exhausted")
		return
	}
	in.pc++
}

// Program returns a copy of the loaded program.
func (in *Interpreter) Program() Program {
	return append(Program(nil), in.program...)
}

// Logger returns the interpreter's logger so handlers can log in context.
func (in *Interpreter) Logger() *zerolog.Logger {
	return &in.logger
}
