// Package keys defines the 5-bit button codes delivered to the calculator
// core.
//
// A code with bit 4 clear is a hex digit in its low nibble. A code with bit 4
// set is an operator selected by its low three bits:
//
//	10000 +    10100 =
//	10001 -    10101 AC
//	10010 *    10110 NEG
//	10011 /
package keys

import (
	"errors"
	"fmt"

	"github.com/sarchlab/calcsim/emu"
)

// ErrInvalidCode is returned when a code does not name a button.
var ErrInvalidCode = errors.New("invalid button code")

// Code is a raw 5-bit button code.
type Code uint8

const (
	operatorFlag Code = 0x10
	codeMask     Code = 0x1F
)

// Operator is an operator key selector.
type Operator uint8

// Operator keys.
const (
	Add Operator = iota
	Sub
	Mul
	Div
	Equals
	Clear
	Negate
)

var operatorGlyphs = [...]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Equals: "=",
	Clear:  "AC",
	Negate: "NEG",
}

// String returns the key glyph.
func (op Operator) String() string {
	if int(op) < len(operatorGlyphs) {
		return operatorGlyphs[op]
	}
	return fmt.Sprintf("OP(%d)", uint8(op))
}

// ALUOp maps an arithmetic key to its ALU operator.
func (op Operator) ALUOp() (emu.Op, bool) {
	switch op {
	case Add:
		return emu.OpAdd, true
	case Sub:
		return emu.OpSub, true
	case Mul:
		return emu.OpMul, true
	case Div:
		return emu.OpDiv, true
	default:
		return 0, false
	}
}

// Button is a decoded key press.
type Button struct {
	code Code
}

// DigitButton returns the button for hex digit d (0x0-0xF).
func DigitButton(d uint8) Button {
	return Button{code: Code(d & 0xF)}
}

// OperatorButton returns the button for operator key op.
func OperatorButton(op Operator) Button {
	return Button{code: operatorFlag | Code(op&0x7)}
}

// Decode validates a raw code.
func Decode(c Code) (Button, error) {
	if c&^codeMask != 0 {
		return Button{}, fmt.Errorf("%w: 0x%02X exceeds 5 bits", ErrInvalidCode, uint8(c))
	}
	if c&operatorFlag != 0 && Operator(c&0x7) > Negate {
		return Button{}, fmt.Errorf("%w: operator selector %03b", ErrInvalidCode, uint8(c&0x7))
	}
	return Button{code: c}, nil
}

// Code returns the raw 5-bit code.
func (b Button) Code() Code {
	return b.code
}

// IsDigit reports whether b is a digit key.
func (b Button) IsDigit() bool {
	return b.code&operatorFlag == 0
}

// Digit returns the nibble of a digit key.
func (b Button) Digit() uint8 {
	return uint8(b.code & 0xF)
}

// Operator returns the selector of an operator key.
func (b Button) Operator() Operator {
	return Operator(b.code & 0x7)
}

// String returns the glyph used by the bench decode table: 0-F for digits,
// + - * / = AC NEG for operators.
func (b Button) String() string {
	if b.IsDigit() {
		return fmt.Sprintf("%X", b.Digit())
	}
	return b.Operator().String()
}
