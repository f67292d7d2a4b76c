// Package latency predicts how many cycles the ALU spends on a request.
//
// The counts are the number of ticks after the accepting tick until the
// result is offered. They follow directly from the ALU state machine and are
// used by tests and by the simulator statistics to check the ALU.
package latency

import (
	"github.com/sarchlab/calcsim/emu"
	"github.com/sarchlab/calcsim/timing/alu"
)

const (
	// AddSubCycles is the latency of ADD and SUB.
	AddSubCycles uint64 = 1
	// DivSignFlipCycles is the cost of the two conditional negation states
	// entered by a signed division.
	DivSignFlipCycles uint64 = 2
	// DivPostCycles is the cost of negating a signed quotient.
	DivPostCycles uint64 = 1
)

// Table provides ALU latency lookups for a register width.
type Table struct {
	width emu.Width
}

// NewTable creates a latency table for W-bit operands.
func NewTable(w emu.Width) *Table {
	return &Table{width: w}
}

// Width returns the operand width the table was built for.
func (t *Table) Width() emu.Width {
	return t.width
}

// Cycles returns the exact latency of req.
func (t *Table) Cycles(req alu.Request) uint64 {
	w := t.width
	loop := uint64(w)

	switch req.Op {
	case emu.OpAdd, emu.OpSub:
		return AddSubCycles
	case emu.OpMul:
		return loop
	case emu.OpDiv:
		if w.Trunc(req.B) == 0 {
			return 0
		}
		if !req.Signed {
			return loop
		}
		n := loop + DivSignFlipCycles
		if w.SignBit(req.A) != w.SignBit(req.B) {
			n += DivPostCycles
		}
		return n
	default:
		return 0
	}
}

// MinCycles returns the lowest latency op can take.
func (t *Table) MinCycles(op emu.Op) uint64 {
	switch op {
	case emu.OpAdd, emu.OpSub:
		return AddSubCycles
	case emu.OpMul:
		return uint64(t.width)
	case emu.OpDiv:
		return 0
	default:
		return 0
	}
}

// MaxCycles returns the highest latency op can take.
func (t *Table) MaxCycles(op emu.Op) uint64 {
	if op == emu.OpDiv {
		return uint64(t.width) + DivSignFlipCycles + DivPostCycles
	}
	return t.MinCycles(op)
}
