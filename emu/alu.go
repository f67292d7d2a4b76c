package emu

// Op is the 2-bit arithmetic operator code carried by an ALU request.
type Op uint8

// Arithmetic operators.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

// String returns the operator glyph.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Valid reports whether op is one of the four arithmetic operators.
func (op Op) Valid() bool {
	return op <= OpDiv
}

// ALU evaluates operations in zero time. It produces the same results as
// the cycle-level ALU and is used to check it.
type ALU struct {
	width Width
}

// NewALU creates a functional ALU for W-bit operands.
func NewALU(w Width) *ALU {
	return &ALU{width: w}
}

// Width returns the operand width.
func (a *ALU) Width() Width {
	return a.width
}

// Compute returns op(x, y) truncated to W bits. divByZero is set when op is
// OpDiv and y is zero, in which case the result is meaningless.
func (a *ALU) Compute(op Op, x, y uint64, signed bool) (result uint64, divByZero bool) {
	w := a.width
	x, y = w.Trunc(x), w.Trunc(y)

	switch op {
	case OpAdd:
		return w.Trunc(x + y), false
	case OpSub:
		return w.Trunc(x - y), false
	case OpMul:
		return w.Trunc(x * y), false
	case OpDiv:
		if y == 0 {
			return 0, true
		}
		mx, nx := w.Magnitude(x, signed)
		my, ny := w.Magnitude(y, signed)
		q := mx / my
		if nx != ny {
			q = w.Trunc(-q)
		}
		return q, false
	default:
		return 0, false
	}
}
