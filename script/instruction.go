// Package script holds the instruction model of scripted scenes and the
// interpreter that walks a program one instruction at a time.
package script

import "fmt"

// Instruction is one scripted action over a 2D text scene.
// The set is closed: ShowText and DeleteText are the only implementations.
type Instruction interface {
	fmt.Stringer
	instruction()
}

// ShowText asks for Body to be displayed under Slot.
// Slots are chosen by the script author and are not entity handles.
type ShowText struct {
	Slot uint
	Body string
}

// DeleteText asks for every text displayed under Slot to be removed.
type DeleteText struct {
	Slot uint
}

func (ShowText) instruction()   {}
func (DeleteText) instruction() {}

func (i ShowText) String() string {
	return fmt.Sprintf("ShowText(%d, %q)", i.Slot, i.Body)
}

func (i DeleteText) String() string {
	return fmt.Sprintf("DeleteText(%d)", i.Slot)
}

// Program is an ordered list of instructions.
type Program []Instruction
